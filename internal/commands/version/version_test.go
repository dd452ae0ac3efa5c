package version

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dlovans/fieldset/internal/cli"
	"github.com/dlovans/fieldset/internal/commands/shared"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	root := cli.NewRootCommand()
	root.AddCommand(NewCommand())

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs(args)
	require.NoError(t, root.Execute())
	return buf.String()
}

func TestVersionOutput(t *testing.T) {
	shared.SetVersion("1.2.0", "abc123", "2026-01-05")
	defer shared.SetVersion("dev", "unknown", "unknown")

	out := run(t, "version")
	assert.Contains(t, out, "fieldset version 1.2.0")
	assert.Contains(t, out, "abc123")
	assert.Contains(t, out, "2026-01-05")
}

func TestVersionJSONOutput(t *testing.T) {
	shared.SetVersion("1.2.0", "abc123", "2026-01-05")
	defer shared.SetVersion("dev", "unknown", "unknown")

	var info Info
	require.NoError(t, json.Unmarshal([]byte(run(t, "version", "--json")), &info))
	assert.Equal(t, Info{Version: "1.2.0", Commit: "abc123", BuildDate: "2026-01-05"}, info)
}
