package meta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func starTables() (TableRef, []TableRef, []JoinDesc) {
	root := TableRef{Alias: "F", Table: "SALES.FACT"}
	tables := []TableRef{
		root,
		{Alias: "C", Table: "SALES.CUSTOMER"},
		{Alias: "P", Table: "SALES.PRODUCT"},
	}
	joins := []JoinDesc{
		{Kind: JoinInner, ChildAlias: "P", ParentAlias: "F", Keys: []JoinKey{{ChildColumn: "ID", ParentColumn: "PRODUCT_ID"}}},
		{Kind: JoinLeft, ChildAlias: "C", ParentAlias: "F", Keys: []JoinKey{{ChildColumn: "ID", ParentColumn: "CUSTOMER_ID"}}},
	}
	return root, tables, joins
}

func TestNewJoinGraph_Star(t *testing.T) {
	root, tables, joins := starTables()

	g, err := NewJoinGraph(root, tables, joins)
	require.NoError(t, err)

	assert.Equal(t, root, g.Root())
	assert.Equal(t, 3, g.TableCount())
	assert.Equal(t, 2, g.JoinCount())

	tab, ok := g.Table("C")
	require.True(t, ok)
	assert.Equal(t, "SALES.CUSTOMER", tab.Table)

	_, ok = g.Table("X")
	assert.False(t, ok)
}

func TestNewJoinGraph_EdgesFromSortedByChildAlias(t *testing.T) {
	root, tables, joins := starTables()

	g, err := NewJoinGraph(root, tables, joins)
	require.NoError(t, err)

	edges := g.EdgesFrom("F")
	require.Len(t, edges, 2)
	assert.Equal(t, "C", edges[0].ChildAlias)
	assert.Equal(t, "P", edges[1].ChildAlias)
}

func TestNewJoinGraph_WalkBreadthFirst(t *testing.T) {
	// F <- D <- L, plus F <- C: BFS must yield F's children first,
	// lexicographic within each parent.
	root := TableRef{Alias: "F", Table: "T.FACT"}
	tables := []TableRef{
		root,
		{Alias: "D", Table: "T.DIM"},
		{Alias: "C", Table: "T.CAL"},
		{Alias: "L", Table: "T.LOOKUP"},
	}
	joins := []JoinDesc{
		{Kind: JoinInner, ChildAlias: "L", ParentAlias: "D", Keys: []JoinKey{{ChildColumn: "K", ParentColumn: "L_K"}}},
		{Kind: JoinInner, ChildAlias: "D", ParentAlias: "F", Keys: []JoinKey{{ChildColumn: "ID", ParentColumn: "D_ID"}}},
		{Kind: JoinInner, ChildAlias: "C", ParentAlias: "F", Keys: []JoinKey{{ChildColumn: "DT", ParentColumn: "PART_DT"}}},
	}

	g, err := NewJoinGraph(root, tables, joins)
	require.NoError(t, err)

	walk := g.WalkBreadthFirst()
	require.Len(t, walk, 3)
	assert.Equal(t, "C", walk[0].ChildAlias)
	assert.Equal(t, "D", walk[1].ChildAlias)
	assert.Equal(t, "L", walk[2].ChildAlias)
}

func TestNewJoinGraph_Invalid(t *testing.T) {
	root := TableRef{Alias: "F", Table: "T.FACT"}
	dim := TableRef{Alias: "D", Table: "T.DIM"}
	join := func(child, parent string) JoinDesc {
		return JoinDesc{Kind: JoinInner, ChildAlias: child, ParentAlias: parent, Keys: []JoinKey{{ChildColumn: "A", ParentColumn: "B"}}}
	}

	testCases := []struct {
		name   string
		root   TableRef
		tables []TableRef
		joins  []JoinDesc
	}{
		{"duplicate alias", root, []TableRef{root, {Alias: "F", Table: "T.OTHER"}}, nil},
		{"root missing", root, []TableRef{dim}, nil},
		{"unknown child alias", root, []TableRef{root, dim}, []JoinDesc{join("X", "F"), join("D", "F")}},
		{"unknown parent alias", root, []TableRef{root, dim}, []JoinDesc{join("D", "X")}},
		{"empty keys", root, []TableRef{root, dim}, []JoinDesc{{Kind: JoinInner, ChildAlias: "D", ParentAlias: "F"}}},
		{"invalid kind", root, []TableRef{root, dim}, []JoinDesc{{Kind: "cross", ChildAlias: "D", ParentAlias: "F", Keys: []JoinKey{{ChildColumn: "A", ParentColumn: "B"}}}}},
		{"join into root", root, []TableRef{root, dim}, []JoinDesc{join("D", "F"), join("F", "D")}},
		{"disconnected table", root, []TableRef{root, dim}, nil},
		{"two parents for one child", root,
			[]TableRef{root, dim, {Alias: "C", Table: "T.CAL"}},
			[]JoinDesc{join("D", "F"), join("C", "F"), join("D", "C")}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewJoinGraph(tc.root, tc.tables, tc.joins)
			assert.Error(t, err)
		})
	}
}

func TestNewJoinGraph_SingleTable(t *testing.T) {
	root := TableRef{Alias: "T", Table: "SALES.CAL_DT"}

	g, err := NewJoinGraph(root, []TableRef{root}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, g.TableCount())
	assert.Equal(t, 0, g.JoinCount())
	assert.Empty(t, g.WalkBreadthFirst())
}
