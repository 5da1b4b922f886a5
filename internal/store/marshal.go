package store

import (
	"encoding/json"
	"fmt"

	"github.com/cubera-io/cubera/internal/meta"
)

// Row payloads are canonical JSON (RFC 8785) so identical definitions
// store identically. Decoding goes through typed records instead of
// map[string]any to keep field handling explicit.

type modelRecord struct {
	Name   string        `json:"name"`
	Fact   tableRef      `json:"fact"`
	Tables []tableRecord `json:"tables"`
	Joins  []joinRecord  `json:"joins"`
}

type tableRef struct {
	Alias string `json:"alias"`
	Table string `json:"table"`
}

type tableRecord struct {
	Alias   string         `json:"alias"`
	Table   string         `json:"table"`
	Lookup  bool           `json:"lookup"`
	Columns []columnRecord `json:"columns"`
}

type columnRecord struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type joinRecord struct {
	Kind   string      `json:"kind"`
	Child  string      `json:"child"`
	Parent string      `json:"parent"`
	Keys   []keyRecord `json:"keys"`
}

type keyRecord struct {
	Child  string `json:"child"`
	Parent string `json:"parent"`
}

type realizationRecord struct {
	Name       string   `json:"name"`
	Model      string   `json:"model"`
	Kind       string   `json:"kind"`
	Ready      bool     `json:"ready"`
	Columns    []string `json:"columns"`
	Dimensions int      `json:"dimensions"`
	Measures   int      `json:"measures"`
}

// marshalModel converts a model to canonical JSON TEXT for storage.
func marshalModel(m *meta.DataModel) (string, error) {
	tables := make([]any, len(m.Tables()))
	for i, t := range m.Tables() {
		cols := make([]any, len(t.Columns))
		for j, c := range t.Columns {
			cols[j] = map[string]any{"name": c.Name, "type": c.Type}
		}
		tables[i] = map[string]any{
			"alias":   t.Ref.Alias,
			"table":   t.Ref.Table,
			"lookup":  t.Lookup,
			"columns": cols,
		}
	}
	joins := make([]any, len(m.Joins()))
	for i, j := range m.Joins() {
		keys := make([]any, len(j.Keys))
		for k, p := range j.Keys {
			keys[k] = map[string]any{"child": p.ChildColumn, "parent": p.ParentColumn}
		}
		joins[i] = map[string]any{
			"kind":   string(j.Kind),
			"child":  j.ChildAlias,
			"parent": j.ParentAlias,
			"keys":   keys,
		}
	}
	obj := map[string]any{
		"name":   m.Name(),
		"fact":   map[string]any{"alias": m.FactTable().Alias, "table": m.FactTable().Table},
		"tables": tables,
		"joins":  joins,
	}
	data, err := meta.MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("marshal model: %w", err)
	}
	return string(data), nil
}

// unmarshalModel parses canonical JSON TEXT back into a model. The meta
// constructor re-validates the definition, so a hand-edited row cannot
// smuggle a broken model into a snapshot.
func unmarshalModel(data string) (*meta.DataModel, error) {
	var rec modelRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("unmarshal model: %w", err)
	}

	tables := make([]meta.ModelTable, len(rec.Tables))
	for i, t := range rec.Tables {
		cols := make([]meta.ColumnMeta, len(t.Columns))
		for j, c := range t.Columns {
			cols[j] = meta.ColumnMeta{Name: c.Name, Type: c.Type}
		}
		tables[i] = meta.ModelTable{
			Ref:     meta.TableRef{Alias: t.Alias, Table: t.Table},
			Lookup:  t.Lookup,
			Columns: cols,
		}
	}
	joins := make([]meta.JoinDesc, len(rec.Joins))
	for i, j := range rec.Joins {
		keys := make([]meta.JoinKey, len(j.Keys))
		for k, p := range j.Keys {
			keys[k] = meta.JoinKey{ChildColumn: p.Child, ParentColumn: p.Parent}
		}
		joins[i] = meta.JoinDesc{
			Kind:        meta.JoinKind(j.Kind),
			ChildAlias:  j.Child,
			ParentAlias: j.Parent,
			Keys:        keys,
		}
	}

	model, err := meta.NewDataModel(rec.Name,
		meta.TableRef{Alias: rec.Fact.Alias, Table: rec.Fact.Table},
		tables, joins)
	if err != nil {
		return nil, fmt.Errorf("unmarshal model %s: %w", rec.Name, err)
	}
	return model, nil
}

// marshalRealization converts a realization to canonical JSON TEXT.
// InnerJoins is deliberately absent: it is denormalized from the owning
// model when a snapshot is built, never stored.
func marshalRealization(r *meta.Realization) (string, error) {
	cols := make([]any, len(r.Columns))
	for i, c := range r.Columns {
		cols[i] = c.String()
	}
	obj := map[string]any{
		"name":       r.Name,
		"model":      r.ModelName,
		"kind":       string(r.Kind),
		"ready":      r.Ready,
		"columns":    cols,
		"dimensions": r.Dimensions,
		"measures":   r.Measures,
	}
	data, err := meta.MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("marshal realization: %w", err)
	}
	return string(data), nil
}

// unmarshalRealization parses canonical JSON TEXT back into a realization.
func unmarshalRealization(data string) (*meta.Realization, error) {
	var rec realizationRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("unmarshal realization: %w", err)
	}

	columns := make([]meta.ColumnID, len(rec.Columns))
	for i, c := range rec.Columns {
		id, err := meta.ParseColumnID(c)
		if err != nil {
			return nil, fmt.Errorf("unmarshal realization %s: %w", rec.Name, err)
		}
		columns[i] = id
	}

	return &meta.Realization{
		Name:       rec.Name,
		ModelName:  rec.Model,
		Kind:       meta.RealizationKind(rec.Kind),
		Ready:      rec.Ready,
		Columns:    columns,
		Dimensions: rec.Dimensions,
		Measures:   rec.Measures,
	}, nil
}
