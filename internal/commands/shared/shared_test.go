package shared

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dlovans/fieldset/pkg/fieldset"
)

func TestExitError(t *testing.T) {
	cause := errors.New("boom")

	err := NewBadInputError("failed to load field set", cause)
	assert.Equal(t, ExitBadInput, err.Code)
	assert.Equal(t, "failed to load field set: boom", err.Error())
	assert.ErrorIs(t, err, cause)

	silent := NewInvalidError()
	assert.Equal(t, ExitInvalid, silent.Code)
	assert.Empty(t, silent.Error())

	assert.Equal(t, "boom", (&ExitError{Code: 1, Cause: cause}).Error())
}

func TestRenderResults(t *testing.T) {
	ApplyColorMode("never")

	decls := []*fieldset.Declaration{
		{Name: "authType", Type: fieldset.TypeSelect},
		{Name: "apiKey", Type: fieldset.TypeString},
		{Name: "apiKey", Type: fieldset.TypeString},
		nil,
		{Name: "region", Type: fieldset.TypeString},
		{Name: "token", Type: fieldset.TypeString},
	}
	results := map[string]fieldset.Result{
		"authType": {Visible: true, Default: "none", HasDefault: true},
		"apiKey":   {Visible: true, Required: true, Error: "API Key is required"},
		"region":   {Visible: false},
		"token":    {Visible: true, Disabled: true, Warning: "looks short"},
	}

	var buf bytes.Buffer
	RenderResults(&buf, "http", decls, results)
	out := buf.String()

	assert.Contains(t, out, "Field set: http")
	assert.Contains(t, out, SymbolOK+" authType")
	assert.Contains(t, out, "default=none")
	assert.Contains(t, out, SymbolError+" apiKey")
	assert.Contains(t, out, "visible, required")
	assert.Contains(t, out, SymbolInfo+" region")
	assert.Contains(t, out, "hidden")
	assert.Contains(t, out, SymbolWarn+" token")
	assert.Contains(t, out, "visible, disabled")
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("apiKey")))
}

func TestRenderSummary(t *testing.T) {
	ApplyColorMode("never")

	var buf bytes.Buffer
	RenderSummary(&buf, &fieldset.Summary{
		Valid:    false,
		Errors:   map[string]string{"b": "B is required", "a": "A is required"},
		Warnings: map[string]string{"c": "C is long"},
	})
	out := buf.String()

	assert.Less(t, bytes.Index(buf.Bytes(), []byte("a: A")), bytes.Index(buf.Bytes(), []byte("b: B")))
	assert.Contains(t, out, SymbolWarn+" c: C is long")
	assert.Contains(t, out, "form is invalid (2 errors)")

	buf.Reset()
	RenderSummary(&buf, &fieldset.Summary{Valid: true})
	assert.Contains(t, buf.String(), "form is valid")
}
