// Package lint implements the lint command.
package lint

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dlovans/fieldset/internal/commands/shared"
	fslog "github.com/dlovans/fieldset/internal/log"
	"github.com/dlovans/fieldset/pkg/catalog"
	fslint "github.com/dlovans/fieldset/pkg/lint"
)

// NewCommand creates the lint command
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint <fieldset-file>",
		Short: "Check a field set for declarations that silently misbehave",
		Long: `Lint analyzes a field set without evaluating it. It reports undefined
references, unknown operators and types, invalid patterns, dependency cycles
and inconsistent affects lists.

Exits with status 1 when any error-level issue is found.`,
		Example: `  fieldset lint http.yaml
  fieldset lint http.hcl --json`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, args[0])
		},
	}

	return cmd
}

func runLint(cmd *cobra.Command, path string) error {
	_, logger, err := shared.Setup(cmd)
	if err != nil {
		return err
	}

	fs, err := catalog.Load(path)
	if err != nil {
		return shared.NewBadInputError("failed to load field set", err)
	}

	result := fslint.Run(fs.Properties)
	fslog.WithComponent(logger, "lint").Debug("field set linted", fslog.FieldSetKey, fs.Name, "issues", len(result.Issues), "valid", result.Valid)

	out := cmd.OutOrStdout()
	if shared.GetJSON() {
		if err := shared.WriteJSON(out, result); err != nil {
			return err
		}
	} else {
		for _, issue := range result.Issues {
			msg := issue.Message
			if issue.Field != "" {
				loc := issue.Field
				if issue.Rule != "" {
					loc += "." + issue.Rule
				}
				msg = fmt.Sprintf("%s: %s", loc, issue.Message)
			}
			switch issue.Severity {
			case fslint.SeverityError:
				fmt.Fprintln(out, shared.RenderError(msg))
			case fslint.SeverityWarning:
				fmt.Fprintln(out, shared.RenderWarn(msg))
			default:
				fmt.Fprintln(out, shared.RenderInfo(msg))
			}
		}
		if result.Valid {
			fmt.Fprintln(out, shared.RenderOK(fmt.Sprintf("%s: no errors (%d issues)", fs.Name, len(result.Issues))))
		}
	}

	if !result.Valid {
		return shared.NewInvalidError()
	}
	return nil
}
