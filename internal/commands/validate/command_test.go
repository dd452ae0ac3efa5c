package validate

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dlovans/fieldset/internal/cli"
	"github.com/dlovans/fieldset/internal/commands/shared"
)

const httpFieldSet = `{
  "name": "http",
  "properties": [
    {"name": "authType", "type": "select", "default": "none"},
    {"name": "apiKey", "displayName": "API Key", "type": "string", "required": true,
     "show": [{"property": "authType", "operator": "equals", "value": "apiKey"}]},
    {"name": "nickname", "type": "string",
     "validation": [{"kind": "maxLength", "value": 3, "severity": "warning"}]}
  ]
}`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := cli.NewRootCommand()
	root.AddCommand(NewCommand())

	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func exitCode(err error) int {
	var exitErr *shared.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return -1
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		state    string
		env      map[string]string
		config   string
		wantCode int
		contains []string
	}{
		{
			name:     "hidden required field is exempt",
			state:    `{"authType": "none"}`,
			wantCode: shared.ExitSuccess,
			contains: []string{"form is valid"},
		},
		{
			name:     "visible required field missing",
			state:    `{"authType": "apiKey"}`,
			wantCode: shared.ExitInvalid,
			contains: []string{"apiKey: API Key is required", "form is invalid (1 errors)"},
		},
		{
			name:     "exemption disabled by environment",
			state:    `{"authType": "none"}`,
			env:      map[string]string{"FIELDSET_EXEMPT_HIDDEN": "false"},
			wantCode: shared.ExitInvalid,
			contains: []string{"API Key is required"},
		},
		{
			name:     "exemption disabled by config file",
			state:    `{"authType": "none"}`,
			config:   "validation:\n  exempt_hidden: false\n",
			wantCode: shared.ExitInvalid,
		},
		{
			name:     "warnings do not invalidate",
			state:    `{"authType": "none", "nickname": "longer"}`,
			wantCode: shared.ExitSuccess,
			contains: []string{"nickname: nickname must be at most 3 characters", "form is valid"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("FIELDSET_EXEMPT_HIDDEN", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			dir := t.TempDir()
			args := []string{"validate",
				writeFile(t, dir, "http.json", httpFieldSet),
				"--state", writeFile(t, dir, "state.json", tt.state),
			}
			if tt.config != "" {
				args = append(args, "--config", writeFile(t, dir, "config.yaml", tt.config))
			}

			stdout, err := execute(t, args...)
			if tt.wantCode == shared.ExitSuccess {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, exitCode(err))
			}
			for _, want := range tt.contains {
				assert.Contains(t, stdout, want)
			}
		})
	}
}

func TestValidate_JSON(t *testing.T) {
	t.Setenv("FIELDSET_EXEMPT_HIDDEN", "")
	dir := t.TempDir()

	stdout, err := execute(t, "validate", writeFile(t, dir, "http.json", httpFieldSet),
		"--state", writeFile(t, dir, "state.yaml", "authType: apiKey\n"), "--json")
	require.Error(t, err)
	assert.Equal(t, shared.ExitInvalid, exitCode(err))
	assert.Empty(t, err.Error())

	var out Output
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.False(t, out.Summary.Valid)
	assert.Equal(t, "API Key is required", out.Summary.Errors["apiKey"])
}

func TestValidate_BadInput(t *testing.T) {
	_, err := execute(t, "validate", filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
	assert.Equal(t, shared.ExitBadInput, exitCode(err))
}
