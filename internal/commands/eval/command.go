// Package eval implements the eval command.
package eval

import (
	"github.com/spf13/cobra"

	"github.com/dlovans/fieldset/internal/commands/shared"
	fslog "github.com/dlovans/fieldset/internal/log"
	"github.com/dlovans/fieldset/pkg/fieldset"
)

// Output is the JSON shape printed with --json.
type Output struct {
	Name      string                     `json:"name"`
	SessionID string                     `json:"sessionId"`
	State     fieldset.FormState         `json:"state"`
	Results   map[string]fieldset.Result `json:"results"`
}

// NewCommand creates the eval command
func NewCommand() *cobra.Command {
	var statePath string

	cmd := &cobra.Command{
		Use:   "eval <fieldset-file>",
		Short: "Evaluate every field of a field set against a form state",
		Long: `Eval fills defaults for unset fields and evaluates every field in
dependency order, printing visibility, enablement, requiredness and any
validation message.`,
		Example: `  fieldset eval http.yaml --state state.json
  fieldset eval http.hcl --state state.yaml --json`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(cmd, args[0], statePath)
		},
	}

	cmd.Flags().StringVarP(&statePath, "state", "s", "", "Form state file (JSON or YAML)")

	return cmd
}

func runEval(cmd *cobra.Command, path, statePath string) error {
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
	logger = fslog.WithComponent(logger, "eval")
	results, err := engine.EvaluateAll(cmd.Context())
	if err != nil {
		return &shared.ExitError{Code: shared.ExitInvalid, Message: "evaluation failed", Cause: err}
	}

	stats := engine.Stats()
	logger.Debug("field set evaluated",
		"fields", len(results),
		"condition_evaluations", stats.ConditionEvaluations,
		"cache_hits", stats.CacheHits,
	)

	if shared.GetJSON() {
		return shared.WriteJSON(cmd.OutOrStdout(), Output{
			Name:      fs.Name,
			SessionID: engine.SessionID(),
			State:     engine.State(),
			Results:   results,
		})
	}

	shared.RenderResults(cmd.OutOrStdout(), fs.Name, fs.Properties, results)
	return nil
}
