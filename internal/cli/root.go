// Package cli builds the root fieldset command.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/dlovans/fieldset/internal/commands/shared"
)

// SetVersion sets the version information (called from main)
func SetVersion(v, c, b string) {
	shared.SetVersion(v, c, b)
}

// NewRootCommand creates the root Cobra command for fieldset
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fieldset",
		Short: "fieldset - reactive property forms",
		Long: `fieldset evaluates declarative property definitions against a form state.
It decides which fields are visible, enabled and required, fills defaults,
validates values and reports problems in the definitions themselves.

Field sets may be written in JSON, YAML, TOML or HCL.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	config, logLevel, logFormat, json := shared.RegisterFlagPointers()

	cmd.PersistentFlags().StringVar(config, "config", "", "Path to config file (YAML)")
	cmd.PersistentFlags().StringVar(logLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
	cmd.PersistentFlags().StringVar(logFormat, "log-format", "", "Log format: json, text")
	cmd.PersistentFlags().BoolVar(json, "json", false, "Output in JSON format")

	return cmd
}

// HandleExitError handles exit errors with proper exit codes
func HandleExitError(err error) {
	shared.HandleExitError(err)
}
