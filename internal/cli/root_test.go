package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "cubera", cmd.Use)
	assert.Contains(t, cmd.Long, "realization")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"validate", "import", "route", "models", "ready"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestImportCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	importCmd, _, err := cmd.Find([]string{"import"})
	require.NoError(t, err)

	dbFlag := importCmd.Flags().Lookup("db")
	require.NotNil(t, dbFlag)
	assert.Equal(t, "catalog.db", dbFlag.DefValue)

	projectFlag := importCmd.Flags().Lookup("project")
	require.NotNil(t, projectFlag)
	assert.Equal(t, "default", projectFlag.DefValue)
}

func TestRouteCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	routeCmd, _, err := cmd.Find([]string{"route"})
	require.NoError(t, err)

	dbFlag := routeCmd.Flags().Lookup("db")
	require.NotNil(t, dbFlag)
	assert.Equal(t, "catalog.db", dbFlag.DefValue)

	blackoutFlag := routeCmd.Flags().Lookup("blackout")
	require.NotNil(t, blackoutFlag)

	traceFlag := routeCmd.Flags().Lookup("trace")
	require.NotNil(t, traceFlag)
	assert.Equal(t, "false", traceFlag.DefValue)
}

func TestModelsCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	modelsCmd, _, err := cmd.Find([]string{"models"})
	require.NoError(t, err)

	dbFlag := modelsCmd.Flags().Lookup("db")
	require.NotNil(t, dbFlag)

	projectFlag := modelsCmd.Flags().Lookup("project")
	require.NotNil(t, projectFlag)
	assert.Equal(t, "default", projectFlag.DefValue)
}

func TestFormatValidation(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestFormatValidationIntegration(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--format", "invalid", "validate", "."})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}
