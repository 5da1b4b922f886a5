package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cubera-io/cubera/internal/meta"
)

func testModel(t *testing.T, name string) *meta.DataModel {
	t.Helper()

	fact := meta.TableRef{Alias: "SALES", Table: "DEFAULT.SALES"}
	m, err := meta.NewDataModel(name, fact,
		[]meta.ModelTable{
			{Ref: fact, Columns: []meta.ColumnMeta{
				{Name: "PART_DT", Type: "date"},
				{Name: "SELLER_ID", Type: "bigint"},
				{Name: "PRICE", Type: "decimal(19,4)"},
			}},
			{Ref: meta.TableRef{Alias: "SELLER", Table: "DEFAULT.SELLER"}, Lookup: true,
				Columns: []meta.ColumnMeta{
					{Name: "ID", Type: "bigint"},
					{Name: "NAME", Type: "varchar(256)"},
				}},
		},
		[]meta.JoinDesc{
			{Kind: meta.JoinInner, ChildAlias: "SELLER", ParentAlias: "SALES",
				Keys: []meta.JoinKey{{ChildColumn: "ID", ParentColumn: "SELLER_ID"}}},
		})
	require.NoError(t, err)
	return m
}

func testRealization(name, model string, ready bool) *meta.Realization {
	return &meta.Realization{
		Name:      name,
		ModelName: model,
		Kind:      meta.KindCube,
		Ready:     ready,
		Columns: []meta.ColumnID{
			{Table: "DEFAULT.SALES", Column: "PART_DT"},
			{Table: "DEFAULT.SALES", Column: "PRICE"},
		},
		Dimensions: 2,
		Measures:   1,
	}
}

func TestBuild_IndexesAllModelTables(t *testing.T) {
	m := testModel(t, "sales_model")
	r := testRealization("cube_a", "sales_model", true)

	snap, err := Build([]*meta.DataModel{m}, []*meta.Realization{r})
	require.NoError(t, err)

	// Fact table and lookup table both surface the realization.
	assert.Len(t, snap.RealizationsForTable("DEFAULT.SALES"), 1)
	assert.Len(t, snap.RealizationsForTable("DEFAULT.SELLER"), 1)
	assert.Empty(t, snap.RealizationsForTable("DEFAULT.UNKNOWN"))
}

func TestBuild_DenormalizesInnerJoinCount(t *testing.T) {
	m := testModel(t, "sales_model")
	r := testRealization("cube_a", "sales_model", true)
	r.InnerJoins = 99 // input value must be overwritten, not trusted

	snap, err := Build([]*meta.DataModel{m}, []*meta.Realization{r})
	require.NoError(t, err)

	got, ok := snap.Realization("cube_a")
	require.True(t, ok)
	assert.Equal(t, 1, got.InnerJoins)
	assert.Equal(t, 99, r.InnerJoins, "input realization must not be mutated")
}

func TestBuild_SortsRealizationsByName(t *testing.T) {
	m := testModel(t, "sales_model")
	snap, err := Build(
		[]*meta.DataModel{m},
		[]*meta.Realization{
			testRealization("cube_z", "sales_model", true),
			testRealization("cube_a", "sales_model", true),
			testRealization("cube_m", "sales_model", false),
		})
	require.NoError(t, err)

	found := snap.RealizationsForTable("DEFAULT.SALES")
	require.Len(t, found, 3)
	assert.Equal(t, "cube_a", found[0].Name)
	assert.Equal(t, "cube_m", found[1].Name)
	assert.Equal(t, "cube_z", found[2].Name)
}

func TestBuild_Validation(t *testing.T) {
	m := testModel(t, "sales_model")

	t.Run("duplicate model", func(t *testing.T) {
		_, err := Build([]*meta.DataModel{m, testModel(t, "sales_model")}, nil)
		assert.Error(t, err)
	})

	t.Run("duplicate realization", func(t *testing.T) {
		_, err := Build([]*meta.DataModel{m}, []*meta.Realization{
			testRealization("cube_a", "sales_model", true),
			testRealization("cube_a", "sales_model", true),
		})
		assert.Error(t, err)
	})

	t.Run("unknown model reference", func(t *testing.T) {
		_, err := Build([]*meta.DataModel{m}, []*meta.Realization{
			testRealization("cube_a", "other_model", true),
		})
		assert.Error(t, err)
	})

	t.Run("unknown kind", func(t *testing.T) {
		r := testRealization("cube_a", "sales_model", true)
		r.Kind = meta.RealizationKind("bogus")
		_, err := Build([]*meta.DataModel{m}, []*meta.Realization{r})
		assert.Error(t, err)
	})

	t.Run("column outside model schema", func(t *testing.T) {
		r := testRealization("cube_a", "sales_model", true)
		r.Columns = append(r.Columns, meta.ColumnID{Table: "DEFAULT.SALES", Column: "NOPE"})
		_, err := Build([]*meta.DataModel{m}, []*meta.Realization{r})
		assert.Error(t, err)
	})
}

func TestBuild_FingerprintStable(t *testing.T) {
	build := func() *Snapshot {
		snap, err := Build(
			[]*meta.DataModel{testModel(t, "sales_model")},
			[]*meta.Realization{testRealization("cube_a", "sales_model", true)})
		require.NoError(t, err)
		return snap
	}

	a, b := build(), build()
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.Len(t, a.Fingerprint(), 64)
}

func TestBuild_FingerprintChangesWithReadiness(t *testing.T) {
	m := testModel(t, "sales_model")

	ready, err := Build([]*meta.DataModel{m}, []*meta.Realization{testRealization("cube_a", "sales_model", true)})
	require.NoError(t, err)
	notReady, err := Build([]*meta.DataModel{m}, []*meta.Realization{testRealization("cube_a", "sales_model", false)})
	require.NoError(t, err)

	assert.NotEqual(t, ready.Fingerprint(), notReady.Fingerprint())
}

func TestSnapshot_Names(t *testing.T) {
	snap, err := Build(
		[]*meta.DataModel{testModel(t, "model_b"), testModel(t, "model_a")},
		[]*meta.Realization{
			testRealization("cube_b", "model_a", true),
			testRealization("cube_a", "model_b", true),
		})
	require.NoError(t, err)

	assert.Equal(t, []string{"model_a", "model_b"}, snap.ModelNames())
	assert.Equal(t, []string{"cube_a", "cube_b"}, snap.RealizationNames())
}
