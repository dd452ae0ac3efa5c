package shared

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dlovans/fieldset/internal/config"
	fslog "github.com/dlovans/fieldset/internal/log"
	"github.com/dlovans/fieldset/pkg/catalog"
	"github.com/dlovans/fieldset/pkg/fieldset"
)

// Setup loads the configuration, applies global flag overrides and builds the
// command logger. Logs go to the command's stderr.
func Setup(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return nil, nil, NewBadInputError("failed to load configuration", err)
	}

	if logLevelFlag != "" {
		cfg.Log.Level = strings.ToLower(logLevelFlag)
	}
	if logFormatFlag != "" {
		cfg.Log.Format = strings.ToLower(logFormatFlag)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, NewBadInputError("invalid flags", err)
	}

	ApplyColorMode(cfg.Output.Color)

	lc := cfg.LoggerConfig()
	lc.Output = cmd.ErrOrStderr()
	return cfg, fslog.New(lc), nil
}

// LoadInputs reads the field set and, when statePath is set, the form state.
func LoadInputs(fieldSetPath, statePath string) (*catalog.FieldSet, fieldset.FormState, error) {
	fs, err := catalog.Load(fieldSetPath)
	if err != nil {
		return nil, nil, NewBadInputError("failed to load field set", err)
	}

	state := make(fieldset.FormState)
	if statePath != "" {
		state, err = catalog.LoadState(statePath)
		if err != nil {
			return nil, nil, NewBadInputError("failed to load state", err)
		}
	}
	return fs, state, nil
}

// NewEngine builds an engine for fs configured from cfg.
func NewEngine(cfg *config.Config, logger *slog.Logger, fs *catalog.FieldSet, state fieldset.FormState) *fieldset.Engine {
	return fieldset.NewEngine(fs.Properties, state,
		fieldset.WithLogger(logger),
		fieldset.WithExemptHidden(cfg.Validation.ExemptHidden),
	)
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// RenderResults prints one line per declared field in declaration order.
func RenderResults(w io.Writer, name string, decls []*fieldset.Declaration, results map[string]fieldset.Result) {
	fmt.Fprintln(w, Header.Render("Field set: "+name))

	seen := make(map[string]bool, len(decls))
	for _, d := range decls {
		if d == nil || seen[d.Name] {
			continue
		}
		seen[d.Name] = true

		r, ok := results[d.Name]
		if !ok {
			continue
		}

		flags := []string{"hidden"}
		if r.Visible {
			flags[0] = "visible"
		}
		if r.Disabled {
			flags = append(flags, "disabled")
		}
		if r.Required {
			flags = append(flags, "required")
		}
		if r.HasDefault {
			flags = append(flags, fmt.Sprintf("default=%v", r.Default))
		}
		detail := fmt.Sprintf("%-24s %s", d.Name, Muted.Render(strings.Join(flags, ", ")))

		var line string
		switch {
		case r.Error != "":
			line = RenderError(detail + "  " + r.Error)
		case r.Warning != "":
			line = RenderWarn(detail + "  " + r.Warning)
		case !r.Visible:
			line = RenderInfo(detail)
		default:
			line = RenderOK(detail)
		}
		fmt.Fprintln(w, "  "+line)
	}
}

// RenderSummary prints the form-level validation outcome.
func RenderSummary(w io.Writer, summary *fieldset.Summary) {
	for _, name := range sortedKeys(summary.Errors) {
		fmt.Fprintln(w, RenderError(fmt.Sprintf("%s: %s", name, summary.Errors[name])))
	}
	for _, name := range sortedKeys(summary.Warnings) {
		fmt.Fprintln(w, RenderWarn(fmt.Sprintf("%s: %s", name, summary.Warnings[name])))
	}

	if summary.Valid {
		fmt.Fprintln(w, RenderOK("form is valid"))
		return
	}
	fmt.Fprintln(w, RenderError(fmt.Sprintf("form is invalid (%d errors)", len(summary.Errors))))
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
