package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cubera-io/cubera/internal/meta"
)

func twoTableContext() *Context {
	fact := &TableScan{
		Alias: "S",
		Table: "DEFAULT.SALES",
		RowType: []meta.ColumnMeta{
			{Name: "PART_DT", Type: "date"},
			{Name: "SELLER_ID", Type: "bigint"},
		},
	}
	dim := &TableScan{
		Alias: "U",
		Table: "DEFAULT.SELLER",
		RowType: []meta.ColumnMeta{
			{Name: "ID", Type: "bigint"},
			{Name: "NAME", Type: "varchar(256)"},
		},
	}
	return &Context{
		ID:        "query-1",
		Project:   "default",
		FirstScan: fact,
		Scans:     []*TableScan{fact, dim},
		Joins: []meta.JoinDesc{
			{Kind: meta.JoinInner, ChildAlias: "U", ParentAlias: "S", Keys: []meta.JoinKey{{ChildColumn: "ID", ParentColumn: "SELLER_ID"}}},
		},
		Columns: []meta.ColumnID{
			{Table: "DEFAULT.SALES", Column: "PART_DT"},
			{Table: "DEFAULT.SELLER", Column: "NAME"},
		},
	}
}

func TestContext_Validate(t *testing.T) {
	require.NoError(t, twoTableContext().Validate())
}

func TestContext_Validate_Errors(t *testing.T) {
	t.Run("no first scan", func(t *testing.T) {
		c := twoTableContext()
		c.FirstScan = nil
		assert.Error(t, c.Validate())
	})

	t.Run("first scan not in scan set", func(t *testing.T) {
		c := twoTableContext()
		c.FirstScan = &TableScan{Alias: "X", Table: "DEFAULT.OTHER"}
		assert.Error(t, c.Validate())
	})

	t.Run("duplicate alias", func(t *testing.T) {
		c := twoTableContext()
		c.Scans = append(c.Scans, &TableScan{Alias: "U", Table: "DEFAULT.OTHER"})
		assert.Error(t, c.Validate())
	})

	t.Run("empty alias", func(t *testing.T) {
		c := twoTableContext()
		c.Scans[1].Alias = ""
		assert.Error(t, c.Validate())
	})

	t.Run("join references unknown alias", func(t *testing.T) {
		c := twoTableContext()
		c.Joins[0].ChildAlias = "Z"
		assert.Error(t, c.Validate())
	})
}

func TestContext_ScanByAlias(t *testing.T) {
	c := twoTableContext()

	s, ok := c.ScanByAlias("U")
	require.True(t, ok)
	assert.Equal(t, "DEFAULT.SELLER", s.Table)

	_, ok = c.ScanByAlias("Z")
	assert.False(t, ok)
}

func TestContext_Describe(t *testing.T) {
	c := twoTableContext()
	desc := c.Describe()

	assert.Contains(t, desc, "S:DEFAULT.SALES")
	assert.Contains(t, desc, "inner join U->S")
}

func TestTableScan_CloneRowType(t *testing.T) {
	c := twoTableContext()
	scan := c.Scans[0]

	clone := scan.CloneRowType()
	require.Equal(t, scan.RowType, clone)

	clone[0].Name = "MUTATED"
	assert.Equal(t, "PART_DT", scan.RowType[0].Name, "clone must not alias the original")

	var empty TableScan
	assert.Nil(t, empty.CloneRowType())
}

func TestFixedGenerator(t *testing.T) {
	gen := NewFixedGenerator("q-1", "q-2")

	assert.Equal(t, "q-1", gen.Generate())
	assert.Equal(t, "q-2", gen.Generate())
	assert.Panics(t, func() { gen.Generate() })
}

func TestUUIDv7Generator_Unique(t *testing.T) {
	gen := UUIDv7Generator{}

	a := gen.Generate()
	b := gen.Generate()
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 36)
}
