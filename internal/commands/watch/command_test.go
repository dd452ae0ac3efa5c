package watch

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dlovans/fieldset/internal/cli"
)

const before = `{"name": "http", "properties": [{"name": "url", "type": "string", "default": "https://a"}]}`

const after = `{"name": "http", "properties": [
  {"name": "url", "type": "string", "default": "https://a"},
  {"name": "timeout", "type": "number", "required": true}
]}`

func TestWatch_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "http.json")
	require.NoError(t, os.WriteFile(path, []byte(before), 0o644))

	root := cli.NewRootCommand()
	root.AddCommand(NewCommand())
	var stdout bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"watch", path, "--max-reloads", "1"})

	done := make(chan error, 1)
	go func() { done <- root.Execute() }()

	// The watcher is registered shortly after start; keep saving until the
	// command observes a write and exits.
	deadline := time.After(10 * time.Second)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case err := <-done:
			require.NoError(t, err)
			out := stdout.String()
			assert.Contains(t, out, "url")
			assert.Contains(t, out, "timeout")
			return
		case <-ticker.C:
			require.NoError(t, os.WriteFile(path, []byte(after), 0o644))
		case <-deadline:
			t.Fatal("watch did not exit after a reload")
		}
	}
}

func TestWatch_BadInput(t *testing.T) {
	root := cli.NewRootCommand()
	root.AddCommand(NewCommand())
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"watch", filepath.Join(t.TempDir(), "absent.yaml")})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load field set")
}
