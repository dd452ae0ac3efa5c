// Package validate implements the validate command.
package validate

import (
	"github.com/spf13/cobra"

	"github.com/dlovans/fieldset/internal/commands/shared"
	fslog "github.com/dlovans/fieldset/internal/log"
	"github.com/dlovans/fieldset/pkg/fieldset"
)

// Output is the JSON shape printed with --json.
type Output struct {
	Name    string            `json:"name"`
	Summary *fieldset.Summary `json:"summary"`
}

// NewCommand creates the validate command
func NewCommand() *cobra.Command {
	var statePath string

	cmd := &cobra.Command{
		Use:   "validate <fieldset-file>",
		Short: "Validate a form state against a field set",
		Long: `Validate evaluates the whole form and reports every field error and
warning. Hidden fields are skipped unless validation.exempt_hidden is false.

Exits with status 1 when the form is invalid.`,
		Example: `  fieldset validate http.yaml --state state.json
  FIELDSET_EXEMPT_HIDDEN=false fieldset validate http.toml --state state.yaml`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args[0], statePath)
		},
	}

	cmd.Flags().StringVarP(&statePath, "state", "s", "", "Form state file (JSON or YAML)")

	return cmd
}

func runValidate(cmd *cobra.Command, path, statePath string) error {
	cfg, logger, err := shared.Setup(cmd)
	if err != nil {
		return err
	}

	fs, state, err := shared.LoadInputs(path, statePath)
	if err != nil {
		return err
	}
	logger = fslog.WithFieldSet(logger, fs.Name, path)

	engine := shared.NewEngine(cfg, logger, fs, state)
	logger = fslog.WithComponent(logger, "validate")
	summary, err := engine.ValidateAll(cmd.Context())
	if err != nil {
		return &shared.ExitError{Code: shared.ExitInvalid, Message: "validation failed", Cause: err}
	}
	logger.Debug("form validated", "valid", summary.Valid, "errors", len(summary.Errors))

	if shared.GetJSON() {
		if err := shared.WriteJSON(cmd.OutOrStdout(), Output{Name: fs.Name, Summary: summary}); err != nil {
			return err
		}
	} else {
		shared.RenderSummary(cmd.OutOrStdout(), summary)
	}

	if !summary.Valid {
		return shared.NewInvalidError()
	}
	return nil
}
