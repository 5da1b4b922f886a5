package compiler

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue"

	"github.com/cubera-io/cubera/internal/meta"
)

// ModelDef is the raw, parsed form of one model definition. It mirrors
// the CUE shape; semantic checks happen in Validate and in the meta
// constructors.
type ModelDef struct {
	Name   string
	Fact   string // alias of the fact table
	Tables []TableDef
	Joins  []JoinDef
}

// TableDef declares one table of a model under its in-model alias.
type TableDef struct {
	Alias   string
	Table   string // qualified physical name, e.g. "DEFAULT.SALES"
	Lookup  bool
	Columns []meta.ColumnMeta // declaration order preserved
}

// JoinDef declares one join edge from a child table to its parent.
type JoinDef struct {
	Kind   string
	Child  string
	Parent string
	Keys   []meta.JoinKey
}

// CompileModel parses a CUE value into a ModelDef.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the model struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`model: sales_model: { ... }`)
//	def, err := CompileModel(v.LookupPath(cue.ParsePath("model.sales_model")))
func CompileModel(v cue.Value) (*ModelDef, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	def := &ModelDef{}

	// Model name comes from the struct label (the path selector). The
	// label may be quoted in CUE.
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		def.Name = strings.Trim(labels[len(labels)-1].String(), `"`)
	}

	factVal := v.LookupPath(cue.ParsePath("fact"))
	if !factVal.Exists() {
		return nil, &CompileError{
			Field:   "fact",
			Message: "fact table alias is required",
			Pos:     v.Pos(),
		}
	}
	fact, err := factVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	def.Fact = fact

	def.Tables, err = parseTables(v)
	if err != nil {
		return nil, err
	}
	if len(def.Tables) == 0 {
		return nil, &CompileError{
			Field:   "tables",
			Message: "at least one table is required",
			Pos:     v.Pos(),
		}
	}

	def.Joins, err = parseJoins(v)
	if err != nil {
		return nil, err
	}

	return def, nil
}

// parseTables extracts table definitions keyed by alias.
func parseTables(v cue.Value) ([]TableDef, error) {
	var tables []TableDef

	tablesVal := v.LookupPath(cue.ParsePath("tables"))
	if !tablesVal.Exists() {
		return tables, nil
	}

	iter, err := tablesVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	for iter.Next() {
		alias := iter.Label()
		tableVal := iter.Value()

		table := TableDef{Alias: alias}

		nameVal := tableVal.LookupPath(cue.ParsePath("table"))
		if !nameVal.Exists() {
			return nil, &CompileError{
				Field:   fmt.Sprintf("tables.%s.table", alias),
				Message: "physical table name is required",
				Pos:     tableVal.Pos(),
			}
		}
		table.Table, err = nameVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}

		lookupVal := tableVal.LookupPath(cue.ParsePath("lookup"))
		if lookupVal.Exists() {
			table.Lookup, err = lookupVal.Bool()
			if err != nil {
				return nil, formatCUEError(err)
			}
		}

		colsVal := tableVal.LookupPath(cue.ParsePath("columns"))
		if colsVal.Exists() {
			colIter, err := colsVal.Fields()
			if err != nil {
				return nil, formatCUEError(err)
			}
			for colIter.Next() {
				colType, err := colIter.Value().String()
				if err != nil {
					return nil, &CompileError{
						Field:   fmt.Sprintf("tables.%s.columns.%s", alias, colIter.Label()),
						Message: "column type must be a string",
						Pos:     colIter.Value().Pos(),
					}
				}
				table.Columns = append(table.Columns, meta.ColumnMeta{
					Name: colIter.Label(),
					Type: colType,
				})
			}
		}

		tables = append(tables, table)
	}

	return tables, nil
}

// parseJoins extracts the join list, preserving declaration order.
func parseJoins(v cue.Value) ([]JoinDef, error) {
	var joins []JoinDef

	joinsVal := v.LookupPath(cue.ParsePath("joins"))
	if !joinsVal.Exists() {
		return joins, nil
	}

	iter, err := joinsVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	for i := 0; iter.Next(); i++ {
		joinVal := iter.Value()
		join := JoinDef{}

		for _, field := range []struct {
			name string
			dst  *string
		}{
			{"kind", &join.Kind},
			{"child", &join.Child},
			{"parent", &join.Parent},
		} {
			fv := joinVal.LookupPath(cue.ParsePath(field.name))
			if !fv.Exists() {
				return nil, &CompileError{
					Field:   fmt.Sprintf("joins[%d].%s", i, field.name),
					Message: field.name + " is required",
					Pos:     joinVal.Pos(),
				}
			}
			*field.dst, err = fv.String()
			if err != nil {
				return nil, formatCUEError(err)
			}
		}

		onVal := joinVal.LookupPath(cue.ParsePath("on"))
		if !onVal.Exists() {
			return nil, &CompileError{
				Field:   fmt.Sprintf("joins[%d].on", i),
				Message: "at least one key pair is required",
				Pos:     joinVal.Pos(),
			}
		}
		onIter, err := onVal.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for onIter.Next() {
			pairVal := onIter.Value()
			childCol, err := pairVal.LookupPath(cue.ParsePath("child")).String()
			if err != nil {
				return nil, formatCUEError(err)
			}
			parentCol, err := pairVal.LookupPath(cue.ParsePath("parent")).String()
			if err != nil {
				return nil, formatCUEError(err)
			}
			join.Keys = append(join.Keys, meta.JoinKey{
				ChildColumn:  childCol,
				ParentColumn: parentCol,
			})
		}

		joins = append(joins, join)
	}

	return joins, nil
}
