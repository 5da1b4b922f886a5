package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cubera-io/cubera/internal/catalog"
	"github.com/cubera-io/cubera/internal/meta"
	"github.com/cubera-io/cubera/internal/testutil"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func salesCatalog() ([]*meta.DataModel, []*meta.Realization) {
	model := testutil.SalesModel("sales_model")
	return []*meta.DataModel{model},
		[]*meta.Realization{testutil.SalesRealization("cube1", "sales_model")}
}

func TestOpen_AppliesPragmas(t *testing.T) {
	s := openTestStore(t)

	assert.NoError(t, s.verifyPragma("journal_mode", "wal"))
	assert.NoError(t, s.verifyPragma("foreign_keys", "1"))
	assert.NoError(t, s.verifyPragma("user_version", "1"))
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")

	s1, err := Open(path)
	require.NoError(t, err)

	models, realizations := salesCatalog()
	require.NoError(t, s1.SaveCatalog(context.Background(), "default", models, realizations))
	require.NoError(t, s1.Close())

	// Reopening must keep the data and rerun migrations without harm.
	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	got, _, err := s2.LoadCatalog(context.Background(), "default")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSaveCatalog_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	models, realizations := salesCatalog()
	require.NoError(t, s.SaveCatalog(ctx, "default", models, realizations))

	gotModels, gotRealizations, err := s.LoadCatalog(ctx, "default")
	require.NoError(t, err)
	require.Len(t, gotModels, 1)
	require.Len(t, gotRealizations, 1)

	assert.Equal(t, "sales_model", gotModels[0].Name())
	assert.Equal(t, models[0].FactTable(), gotModels[0].FactTable())
	assert.Equal(t, models[0].Tables(), gotModels[0].Tables())
	assert.Equal(t, models[0].Joins(), gotModels[0].Joins())

	assert.Equal(t, realizations[0], gotRealizations[0])
}

func TestLoadSnapshot_FingerprintStable(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	models, realizations := salesCatalog()
	require.NoError(t, s.SaveCatalog(ctx, "default", models, realizations))

	// The stored round trip must not perturb the snapshot identity.
	direct, err := catalog.Build(models, realizations)
	require.NoError(t, err)

	loaded, err := s.LoadSnapshot(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, direct.Fingerprint(), loaded.Fingerprint())

	again, err := s.LoadSnapshot(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, loaded.Fingerprint(), again.Fingerprint())
}

func TestSaveCatalog_ReplacesProject(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	models, realizations := salesCatalog()
	require.NoError(t, s.SaveCatalog(ctx, "default", models, realizations))

	// Saving a new catalog for the project drops the old rows.
	newModel := testutil.SalesModel("sales_v2")
	newRealization := testutil.SalesRealization("cube2", "sales_v2")
	require.NoError(t, s.SaveCatalog(ctx, "default",
		[]*meta.DataModel{newModel}, []*meta.Realization{newRealization}))

	snap, err := s.LoadSnapshot(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, []string{"sales_v2"}, snap.ModelNames())
	assert.Equal(t, []string{"cube2"}, snap.RealizationNames())
}

func TestSaveCatalog_ProjectsIsolated(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	models, realizations := salesCatalog()
	require.NoError(t, s.SaveCatalog(ctx, "alpha", models, realizations))
	require.NoError(t, s.SaveCatalog(ctx, "beta", models, nil))

	projects, err := s.Projects(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, projects)

	_, alphaRealizations, err := s.LoadCatalog(ctx, "alpha")
	require.NoError(t, err)
	assert.Len(t, alphaRealizations, 1)

	_, betaRealizations, err := s.LoadCatalog(ctx, "beta")
	require.NoError(t, err)
	assert.Empty(t, betaRealizations)
}

func TestLoadCatalog_EmptyProject(t *testing.T) {
	s := openTestStore(t)

	models, realizations, err := s.LoadCatalog(context.Background(), "missing")
	require.NoError(t, err)
	assert.NotNil(t, models)
	assert.NotNil(t, realizations)
	assert.Empty(t, models)
	assert.Empty(t, realizations)
}

func TestSetReady(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	models, realizations := salesCatalog()
	require.NoError(t, s.SaveCatalog(ctx, "default", models, realizations))

	require.NoError(t, s.SetReady(ctx, "default", "cube1", false))

	_, got, err := s.LoadCatalog(ctx, "default")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.False(t, got[0].Ready)

	assert.Error(t, s.SetReady(ctx, "default", "ghost", true))
}

func TestDeleteProject(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	models, realizations := salesCatalog()
	require.NoError(t, s.SaveCatalog(ctx, "default", models, realizations))
	require.NoError(t, s.DeleteProject(ctx, "default"))

	gotModels, gotRealizations, err := s.LoadCatalog(ctx, "default")
	require.NoError(t, err)
	assert.Empty(t, gotModels)
	assert.Empty(t, gotRealizations)
}
