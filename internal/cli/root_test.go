package cli

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"

	"github.com/dlovans/fieldset/internal/commands/shared"
)

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand()

	assert.Equal(t, "fieldset", cmd.Use)
	assert.True(t, cmd.SilenceUsage)
	assert.True(t, cmd.SilenceErrors)

	for _, name := range []string{"config", "log-level", "log-format", "json"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}
}

func TestRootFlagsBindShared(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--json", "--config", "/tmp/fieldset.yaml"})
	cmd.RunE = func(*cobra.Command, []string) error { return nil }

	assert.NoError(t, cmd.Execute())
	assert.True(t, shared.GetJSON())
	assert.Equal(t, "/tmp/fieldset.yaml", shared.GetConfigPath())

	SetVersion("1.0.0", "c", "d")
	v, _, _ := shared.GetVersion()
	assert.Equal(t, "1.0.0", v)
	SetVersion("dev", "unknown", "unknown")

	// A fresh root resets the globals to their defaults.
	NewRootCommand()
	assert.False(t, shared.GetJSON())
}
