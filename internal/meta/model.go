package meta

import (
	"fmt"
	"sort"
)

// ModelTable is one table of a data model: the table reference, the
// model's canonical schema for that table, and whether the table can
// answer queries on its own as a standalone lookup table.
type ModelTable struct {
	Ref     TableRef     `json:"ref"`
	Columns []ColumnMeta `json:"columns"`
	Lookup  bool         `json:"lookup,omitempty"`
}

// Column returns the canonical column metadata for a column name.
// Lookup is case-sensitive; catalog compilation normalizes names.
func (t ModelTable) Column(name string) (ColumnMeta, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnMeta{}, false
}

// DataModel is a named canonical definition of a fact table and its joined
// dimension/lookup tables. Models are owned by the catalog and read-only
// once a snapshot is built; the join graph is precomputed at build time
// and cached for the model's lifetime.
type DataModel struct {
	name   string
	fact   TableRef
	tables []ModelTable // sorted by alias
	joins  []JoinDesc
	graph  *JoinGraph
}

// NewDataModel builds a model and precomputes its join graph.
// The fact table must be among the tables and must not be flagged as a
// lookup table.
func NewDataModel(name string, fact TableRef, tables []ModelTable, joins []JoinDesc) (*DataModel, error) {
	if name == "" {
		return nil, fmt.Errorf("model has empty name")
	}
	sorted := make([]ModelTable, len(tables))
	copy(sorted, tables)
	sort.Slice(sorted, func(a, b int) bool { return sorted[a].Ref.Alias < sorted[b].Ref.Alias })

	refs := make([]TableRef, len(sorted))
	factSeen := false
	for i, t := range sorted {
		refs[i] = t.Ref
		if t.Ref == fact {
			if t.Lookup {
				return nil, fmt.Errorf("model %s: fact table %s flagged as lookup", name, fact)
			}
			factSeen = true
		}
	}
	if !factSeen {
		return nil, fmt.Errorf("model %s: fact table %s not in table set", name, fact)
	}

	graph, err := NewJoinGraph(fact, refs, joins)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", name, err)
	}

	return &DataModel{
		name:   name,
		fact:   fact,
		tables: sorted,
		joins:  joins,
		graph:  graph,
	}, nil
}

// Name returns the model's name.
func (m *DataModel) Name() string {
	return m.name
}

// FactTable returns the model's fact (root) table.
func (m *DataModel) FactTable() TableRef {
	return m.fact
}

// JoinGraph returns the model's precomputed join graph.
func (m *DataModel) JoinGraph() *JoinGraph {
	return m.graph
}

// Tables returns the model's tables sorted by alias.
// The returned slice must not be mutated.
func (m *DataModel) Tables() []ModelTable {
	return m.tables
}

// Joins returns the model's join edges as declared.
func (m *DataModel) Joins() []JoinDesc {
	return m.joins
}

// InnerJoinCount returns the number of inner-join edges in the model.
func (m *DataModel) InnerJoinCount() int {
	n := 0
	for _, j := range m.joins {
		if j.Kind == JoinInner {
			n++
		}
	}
	return n
}

// TableByAlias returns the model table for a model-graph alias.
func (m *DataModel) TableByAlias(alias string) (ModelTable, bool) {
	for _, t := range m.tables {
		if t.Ref.Alias == alias {
			return t, true
		}
	}
	return ModelTable{}, false
}

// IsLookupTable reports whether the physical table identity appears in
// the model as a standalone lookup table.
func (m *DataModel) IsLookupTable(tableIdentity string) bool {
	for _, t := range m.tables {
		if t.Lookup && t.Ref.Table == tableIdentity {
			return true
		}
	}
	return false
}

// FindTable returns the first model table (by alias order) whose physical
// identity matches. Alias order makes the pick deterministic when a table
// appears under several aliases.
func (m *DataModel) FindTable(tableIdentity string) (ModelTable, bool) {
	for _, t := range m.tables {
		if t.Ref.Table == tableIdentity {
			return t, true
		}
	}
	return ModelTable{}, false
}

// FindLookupTable returns the first lookup-flagged model table (by alias
// order) whose physical identity matches. A table can appear as both the
// fact and a lookup under different aliases; only the lookup occurrences
// count here.
func (m *DataModel) FindLookupTable(tableIdentity string) (ModelTable, bool) {
	for _, t := range m.tables {
		if t.Lookup && t.Ref.Table == tableIdentity {
			return t, true
		}
	}
	return ModelTable{}, false
}

// ContainsColumn reports whether the physical column belongs to one of the
// model's tables under its canonical schema.
func (m *DataModel) ContainsColumn(col ColumnID) bool {
	for _, t := range m.tables {
		if t.Ref.Table != col.Table {
			continue
		}
		if _, ok := t.Column(col.Column); ok {
			return true
		}
	}
	return false
}
