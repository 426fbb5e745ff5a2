package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kith/internal/core/domain"
	"github.com/custodia-labs/kith/internal/logger"
)

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "kith", rootCmd.Use)
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("verbose"))
}

func TestRootCmd_ReturnsErrorsWithoutPrinting(t *testing.T) {
	setServices(t, Services{})

	out, err := execute(t, "settings", "show")

	require.Error(t, err)
	assert.NotContains(t, out, "Error:")
	assert.NotContains(t, out, "Usage:")
}

func TestRootCmd_HasCommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"ingest", "list", "watch", "settings", "mcp", "version"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestRootCmd_VerboseFlag(t *testing.T) {
	defer logger.SetVerbose(false)
	setServices(t, Services{})

	_, err := execute(t, "--verbose", "version")

	assert.NoError(t, err)
	assert.True(t, logger.IsVerbose())
}

func TestResolveOutput(t *testing.T) {
	t.Run("flag wins", func(t *testing.T) {
		setServices(t, Services{Settings: newMockSettingsService()})
		assert.Equal(t, "flag.csv", resolveOutput("flag.csv"))
	})

	t.Run("settings default", func(t *testing.T) {
		settings := newMockSettingsService()
		settings.settings.Ingest.Output = "people.db"
		setServices(t, Services{Settings: settings})
		assert.Equal(t, "people.db", resolveOutput(""))
	})

	t.Run("no settings service", func(t *testing.T) {
		setServices(t, Services{})
		assert.Equal(t, domain.DefaultOutput, resolveOutput(""))
	})
}

func TestSetVersion(t *testing.T) {
	original := version
	defer func() { version = original }()

	SetVersion("")
	assert.Equal(t, original, version)

	SetVersion("1.2.3")
	assert.Equal(t, "1.2.3", version)
}
