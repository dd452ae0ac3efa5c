// Package watch implements the watch command.
package watch

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dlovans/fieldset/internal/commands/shared"
	fslog "github.com/dlovans/fieldset/internal/log"
	"github.com/dlovans/fieldset/pkg/catalog"
	"github.com/dlovans/fieldset/pkg/fieldset"
)

// NewCommand creates the watch command
func NewCommand() *cobra.Command {
	var (
		statePath  string
		maxReloads int
	)

	cmd := &cobra.Command{
		Use:   "watch <fieldset-file>",
		Short: "Re-evaluate a field set whenever its file changes",
		Long: `Watch evaluates the field set once, then reloads and re-evaluates it
every time the file is saved. A file that fails to parse is reported and the
previous definitions stay in effect until the next successful save.

Stops on interrupt.`,
		Example: `  fieldset watch http.yaml --state state.json`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args[0], statePath, maxReloads)
		},
	}

	cmd.Flags().StringVarP(&statePath, "state", "s", "", "Form state file (JSON or YAML)")
	cmd.Flags().IntVar(&maxReloads, "max-reloads", 0, "Exit after this many successful reloads (0 = unlimited)")

	return cmd
}

func runWatch(cmd *cobra.Command, path, statePath string, maxReloads int) error {
	cfg, logger, err := shared.Setup(cmd)
	if err != nil {
		return err
	}

	fs, base, err := shared.LoadInputs(path, statePath)
	if err != nil {
		return err
	}
	logger = fslog.WithFieldSet(logger, fs.Name, path)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Each pass starts from the loaded state; defaults filled by earlier passes are dropped.
	engine := shared.NewEngine(cfg, logger, fs, copyState(base))
	if err := render(ctx, cmd, engine, fs); err != nil {
		return err
	}

	w, err := catalog.NewWatcher(path, logger)
	if err != nil {
		return shared.NewBadInputError("failed to watch field set", err)
	}
	w.Start(ctx)
	defer w.Stop()

	reloads := 0
	for ev := range w.Events() {
		if ev.Err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), shared.RenderError(ev.Err.Error()))
			continue
		}

		fs = ev.FieldSet
		reload(engine, fs, base)
		if err := render(ctx, cmd, engine, fs); err != nil {
			return err
		}

		reloads++
		if maxReloads > 0 && reloads >= maxReloads {
			break
		}
	}
	return nil
}

// reload swaps the declarations of the running engine, keeping its session.
func reload(engine *fieldset.Engine, fs *catalog.FieldSet, base fieldset.FormState) {
	state := engine.State()
	for k := range state {
		delete(state, k)
	}
	for k, v := range base {
		state[k] = v
	}
	engine.SetDeclarations(fs.Properties)
}

func render(ctx context.Context, cmd *cobra.Command, engine *fieldset.Engine, fs *catalog.FieldSet) error {
	results, err := engine.EvaluateAll(ctx)
	if err != nil {
		return &shared.ExitError{Code: shared.ExitInvalid, Message: "evaluation failed", Cause: err}
	}

	if shared.GetJSON() {
		return shared.WriteJSON(cmd.OutOrStdout(), map[string]any{
			"name":    fs.Name,
			"state":   engine.State(),
			"results": results,
		})
	}
	shared.RenderResults(cmd.OutOrStdout(), fs.Name, fs.Properties, results)
	return nil
}

func copyState(state fieldset.FormState) fieldset.FormState {
	out := make(fieldset.FormState, len(state))
	for k, v := range state {
		out[k] = v
	}
	return out
}
