package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelsListsCatalog(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "catalog.db")
	importSalesCatalog(t, dbPath)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewModelsCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", dbPath})

	err := cmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "sales_model (fact DEFAULT.SALES, 2 tables, 1 inner joins)")
	assert.Contains(t, output, "cube1 kind=cube cost=(1,131) ready")
}

func TestModelsListsCatalogJSON(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "catalog.db")
	importSalesCatalog(t, dbPath)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewModelsCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", dbPath})

	err := cmd.Execute()
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "default", data["project"])

	models, ok := data["models"].([]interface{})
	require.True(t, ok)
	require.Len(t, models, 1)

	model := models[0].(map[string]interface{})
	assert.Equal(t, "sales_model", model["name"])
	reals := model["realizations"].([]interface{})
	require.Len(t, reals, 1)
	real := reals[0].(map[string]interface{})
	assert.Equal(t, "cube1", real["name"])
	assert.Equal(t, true, real["ready"])
}

func TestModelsEmptyProject(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "catalog.db")
	importSalesCatalog(t, dbPath)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewModelsCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", dbPath, "--project", "ghost"})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "project ghost")
}

func TestModelsMissingStore(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewModelsCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", filepath.Join(t.TempDir(), "missing.db")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "not found")
}
