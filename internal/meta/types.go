package meta

import (
	"fmt"
	"sort"
	"strings"
)

// ColumnID identifies a physical column: the physical table identity plus
// the column name. Two references to the same underlying column compare
// equal regardless of which query-local alias reached them.
type ColumnID struct {
	Table  string `json:"table"`  // physical table identity, e.g. "SALES.ORDERS"
	Column string `json:"column"` // column name within the table
}

// String returns the dotted form, e.g. "SALES.ORDERS.PART_DT".
func (c ColumnID) String() string {
	return c.Table + "." + c.Column
}

// ParseColumnID splits a dotted identifier into a ColumnID.
// The last segment is the column name; everything before it is the table
// identity. Returns an error if there is no separator.
func ParseColumnID(s string) (ColumnID, error) {
	idx := strings.LastIndex(s, ".")
	if idx <= 0 || idx == len(s)-1 {
		return ColumnID{}, fmt.Errorf("invalid column identifier %q: want TABLE.COLUMN", s)
	}
	return ColumnID{Table: s[:idx], Column: s[idx+1:]}, nil
}

// ColumnMeta describes one column of a table's canonical schema:
// its canonical name and declared SQL type.
type ColumnMeta struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// TableRef is one occurrence of a physical table in a join graph,
// identified by an alias unique within its graph. Immutable once built.
type TableRef struct {
	Alias string `json:"alias"` // graph-local alias, unique within the graph
	Table string `json:"table"` // physical table identity
}

// String returns "ALIAS:TABLE" for diagnostics.
func (t TableRef) String() string {
	return t.Alias + ":" + t.Table
}

// JoinKind is the join type of an edge. The set of kinds is closed.
type JoinKind string

const (
	JoinInner JoinKind = "inner"
	JoinLeft  JoinKind = "left"
)

// ValidJoinKind reports whether k is a recognized join kind.
func ValidJoinKind(k JoinKind) bool {
	return k == JoinInner || k == JoinLeft
}

// JoinKey is one (child column, parent column) equi-join pair.
// Column names are physical column names within their respective tables.
type JoinKey struct {
	ChildColumn  string `json:"child_column"`
	ParentColumn string `json:"parent_column"`
}

// JoinDesc is a directed join edge from a child table to a parent table.
// The child is the table being joined in; the parent is already connected
// to the graph's root.
type JoinDesc struct {
	Kind        JoinKind  `json:"kind"`
	ChildAlias  string    `json:"child_alias"`
	ParentAlias string    `json:"parent_alias"`
	Keys        []JoinKey `json:"keys"`
}

// String returns a compact description like
// "inner join T2 on [SELLER_ID=ID]".
func (j JoinDesc) String() string {
	pairs := make([]string, len(j.Keys))
	for i, k := range j.Keys {
		pairs[i] = k.ChildColumn + "=" + k.ParentColumn
	}
	return fmt.Sprintf("%s join %s->%s on [%s]", j.Kind, j.ChildAlias, j.ParentAlias, strings.Join(pairs, ","))
}

// sortedKeys returns the key pairs in a canonical order for set comparison.
func (j JoinDesc) sortedKeys() []JoinKey {
	keys := make([]JoinKey, len(j.Keys))
	copy(keys, j.Keys)
	sort.Slice(keys, func(a, b int) bool {
		if keys[a].ChildColumn != keys[b].ChildColumn {
			return keys[a].ChildColumn < keys[b].ChildColumn
		}
		return keys[a].ParentColumn < keys[b].ParentColumn
	})
	return keys
}

// KeysEqual reports whether two edges carry the same key-pair set.
// Order does not matter; pairs are compared as a set.
func (j JoinDesc) KeysEqual(other JoinDesc) bool {
	if len(j.Keys) != len(other.Keys) {
		return false
	}
	a, b := j.sortedKeys(), other.sortedKeys()
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
