package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runReadyCommand(t *testing.T, dbPath string, args ...string) (*bytes.Buffer, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewReadyCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs(append(args, "--db", dbPath))
	return buf, cmd.Execute()
}

func TestReadyTakesRealizationOutOfRouting(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "catalog.db")
	importSalesCatalog(t, dbPath)
	queryPath := writeFile(t, "queries.yaml", salesQueryYAML)

	buf, err := runReadyCommand(t, dbPath, "cube1", "--off")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "✓ cube1 is now not ready")

	// Routing must now reject cube1: matched structurally, no eligible
	// realization.
	routeBuf := &bytes.Buffer{}
	routeCmd := NewRouteCommand(&RootOptions{Format: "text"})
	routeCmd.SetOut(routeBuf)
	routeCmd.SetArgs([]string{queryPath, "--db", dbPath})
	routeErr := routeCmd.Execute()
	require.Error(t, routeErr)
	assert.Contains(t, routeBuf.String(), "NO_REALIZATION_FOUND")

	// Flipping it back restores routing.
	buf, err = runReadyCommand(t, dbPath, "cube1")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "✓ cube1 is now ready")

	routeBuf.Reset()
	routeCmd = NewRouteCommand(&RootOptions{Format: "text"})
	routeCmd.SetOut(routeBuf)
	routeCmd.SetArgs([]string{queryPath, "--db", dbPath})
	require.NoError(t, routeCmd.Execute())
	assert.Contains(t, routeBuf.String(), "✓ q1: cube1 via sales_model")
}

func TestReadyUnknownRealization(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "catalog.db")
	importSalesCatalog(t, dbPath)

	_, err := runReadyCommand(t, dbPath, "ghost")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestReadyMissingStore(t *testing.T) {
	_, err := runReadyCommand(t, filepath.Join(t.TempDir(), "missing.db"), "cube1")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
