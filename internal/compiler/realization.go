package compiler

import (
	"strings"

	"cuelang.org/go/cue"
)

// RealizationDef is the raw, parsed form of one realization definition.
type RealizationDef struct {
	Name       string
	Model      string
	Kind       string
	Ready      bool
	Dimensions int
	Measures   int
	Columns    []string // qualified "SCHEMA.TABLE.COLUMN" references
}

// CompileRealization parses a CUE value into a RealizationDef.
//
// The CUE value should be the realization struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`realization: cube1: { ... }`)
//	def, err := CompileRealization(v.LookupPath(cue.ParsePath("realization.cube1")))
func CompileRealization(v cue.Value) (*RealizationDef, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	def := &RealizationDef{}

	labels := v.Path().Selectors()
	if len(labels) > 0 {
		def.Name = strings.Trim(labels[len(labels)-1].String(), `"`)
	}

	for _, field := range []struct {
		name string
		dst  *string
	}{
		{"model", &def.Model},
		{"kind", &def.Kind},
	} {
		fv := v.LookupPath(cue.ParsePath(field.name))
		if !fv.Exists() {
			return nil, &CompileError{
				Field:   field.name,
				Message: field.name + " is required",
				Pos:     v.Pos(),
			}
		}
		val, err := fv.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		*field.dst = val
	}

	// ready defaults to false: a realization is unavailable until its
	// build pipeline flips the flag.
	readyVal := v.LookupPath(cue.ParsePath("ready"))
	if readyVal.Exists() {
		ready, err := readyVal.Bool()
		if err != nil {
			return nil, formatCUEError(err)
		}
		def.Ready = ready
	}

	for _, field := range []struct {
		name string
		dst  *int
	}{
		{"dimensions", &def.Dimensions},
		{"measures", &def.Measures},
	} {
		fv := v.LookupPath(cue.ParsePath(field.name))
		if !fv.Exists() {
			continue
		}
		n, err := fv.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		*field.dst = int(n)
	}

	colsVal := v.LookupPath(cue.ParsePath("columns"))
	if colsVal.Exists() {
		iter, err := colsVal.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for iter.Next() {
			col, err := iter.Value().String()
			if err != nil {
				return nil, formatCUEError(err)
			}
			def.Columns = append(def.Columns, col)
		}
	}

	return def, nil
}
