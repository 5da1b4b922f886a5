package compiler

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/cubera-io/cubera/internal/meta"
)

// CatalogDef is the compiled form of a catalog definition: every model
// and realization declared in a set of CUE values, in declaration order.
type CatalogDef struct {
	Models       []*ModelDef
	Realizations []*RealizationDef
}

// CompileCatalog parses a top-level CUE value holding "model" and
// "realization" structs. Either section may be absent. Definitions from
// multiple files can be merged by calling Merge on the results.
func CompileCatalog(v cue.Value) (*CatalogDef, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	def := &CatalogDef{}

	modelsVal := v.LookupPath(cue.ParsePath("model"))
	if modelsVal.Exists() {
		iter, err := modelsVal.Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for iter.Next() {
			m, err := CompileModel(iter.Value())
			if err != nil {
				return nil, err
			}
			def.Models = append(def.Models, m)
		}
	}

	realizationsVal := v.LookupPath(cue.ParsePath("realization"))
	if realizationsVal.Exists() {
		iter, err := realizationsVal.Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for iter.Next() {
			r, err := CompileRealization(iter.Value())
			if err != nil {
				return nil, err
			}
			def.Realizations = append(def.Realizations, r)
		}
	}

	return def, nil
}

// Merge appends another definition's entries. Duplicates across files
// surface later, in Validate.
func (d *CatalogDef) Merge(other *CatalogDef) {
	d.Models = append(d.Models, other.Models...)
	d.Realizations = append(d.Realizations, other.Realizations...)
}

// Build converts a definition into meta objects. It validates first and
// returns the full violation list as an error when any check fails.
func (d *CatalogDef) Build() ([]*meta.DataModel, []*meta.Realization, error) {
	if errs := Validate(d); len(errs) > 0 {
		return nil, nil, ValidationErrors(errs)
	}

	models := make([]*meta.DataModel, 0, len(d.Models))
	for _, md := range d.Models {
		model, err := buildModel(md)
		if err != nil {
			return nil, nil, err
		}
		models = append(models, model)
	}

	realizations := make([]*meta.Realization, 0, len(d.Realizations))
	for _, rd := range d.Realizations {
		r, err := buildRealization(rd)
		if err != nil {
			return nil, nil, err
		}
		realizations = append(realizations, r)
	}

	return models, realizations, nil
}

func buildModel(md *ModelDef) (*meta.DataModel, error) {
	var fact meta.TableRef
	tables := make([]meta.ModelTable, 0, len(md.Tables))
	for _, td := range md.Tables {
		ref := meta.TableRef{Alias: td.Alias, Table: td.Table}
		if td.Alias == md.Fact {
			fact = ref
		}
		tables = append(tables, meta.ModelTable{
			Ref:     ref,
			Lookup:  td.Lookup,
			Columns: td.Columns,
		})
	}

	joins := make([]meta.JoinDesc, 0, len(md.Joins))
	for _, jd := range md.Joins {
		joins = append(joins, meta.JoinDesc{
			Kind:        meta.JoinKind(jd.Kind),
			ChildAlias:  jd.Child,
			ParentAlias: jd.Parent,
			Keys:        jd.Keys,
		})
	}

	model, err := meta.NewDataModel(md.Name, fact, tables, joins)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", md.Name, err)
	}
	return model, nil
}

func buildRealization(rd *RealizationDef) (*meta.Realization, error) {
	columns := make([]meta.ColumnID, 0, len(rd.Columns))
	for _, c := range rd.Columns {
		id, err := meta.ParseColumnID(c)
		if err != nil {
			return nil, fmt.Errorf("realization %s: %w", rd.Name, err)
		}
		columns = append(columns, id)
	}

	return &meta.Realization{
		Name:       rd.Name,
		ModelName:  rd.Model,
		Kind:       meta.RealizationKind(rd.Kind),
		Ready:      rd.Ready,
		Columns:    columns,
		Dimensions: rd.Dimensions,
		Measures:   rd.Measures,
	}, nil
}
