//go:build js && wasm

// Package main provides WASM bindings for the fieldset engine so property
// forms can be evaluated in the browser as the user types.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"syscall/js"

	"github.com/dlovans/fieldset/pkg/catalog"
	"github.com/dlovans/fieldset/pkg/fieldset"
	"github.com/dlovans/fieldset/pkg/lint"
)

func main() {
	js.Global().Set("FieldsetEvaluate", js.FuncOf(fieldsetEvaluate))
	js.Global().Set("FieldsetValidate", js.FuncOf(fieldsetValidate))
	js.Global().Set("FieldsetLint", js.FuncOf(fieldsetLint))

	// Keep the Go runtime alive
	select {}
}

// fieldsetEvaluate fills defaults and evaluates every field.
// Usage: FieldsetEvaluate(fieldSetJSON, stateJSON) -> { result: {name, state, results, summary}, error?: string }
func fieldsetEvaluate(this js.Value, args []js.Value) any {
	doc, err := parseArgs("FieldsetEvaluate", args)
	if err != nil {
		return makeError(err.Error())
	}

	if err := fieldset.Evaluate(context.Background(), doc); err != nil {
		return makeError(err.Error())
	}
	doc.Properties = nil
	return makeResult(doc)
}

// fieldsetValidate validates the form without writing defaults.
// Usage: FieldsetValidate(fieldSetJSON, stateJSON) -> { result: {isValid, errors, warnings}, error?: string }
func fieldsetValidate(this js.Value, args []js.Value) any {
	doc, err := parseArgs("FieldsetValidate", args)
	if err != nil {
		return makeError(err.Error())
	}

	summary, err := fieldset.NewEngine(doc.Properties, doc.State).ValidateAll(context.Background())
	if err != nil {
		return makeError(err.Error())
	}
	return makeResult(summary)
}

// fieldsetLint statically checks a field set.
// Usage: FieldsetLint(fieldSetJSON) -> { result: {valid, issues}, error?: string }
func fieldsetLint(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return makeError("FieldsetLint requires 1 argument: fieldSetJSON")
	}
	result, err := lint.RunJSON(args[0].String())
	if err != nil {
		return makeError(err.Error())
	}
	return makeResult(result)
}

// parseArgs decodes the field set and optional state arguments.
func parseArgs(name string, args []js.Value) (*fieldset.Document, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("%s requires at least 1 argument: fieldSetJSON, stateJSON", name)
	}

	fs, err := catalog.Parse([]byte(args[0].String()), catalog.FormatJSON)
	if err != nil {
		return nil, err
	}

	doc := &fieldset.Document{Name: fs.Name, Properties: fs.Properties, State: make(fieldset.FormState)}
	if len(args) > 1 && args[1].Type() == js.TypeString && args[1].String() != "" {
		if err := json.Unmarshal([]byte(args[1].String()), &doc.State); err != nil {
			return nil, fmt.Errorf("invalid state: %w", err)
		}
	}
	return doc, nil
}

// makeError creates a JS-friendly error response
func makeError(msg string) map[string]any {
	return map[string]any{
		"error": msg,
	}
}

// makeResult round-trips v through JSON so it crosses into JS as plain objects.
func makeResult(v any) map[string]any {
	data, err := json.Marshal(v)
	if err != nil {
		return makeError(err.Error())
	}

	var result any
	if err := json.Unmarshal(data, &result); err != nil {
		return map[string]any{
			"result": string(data),
		}
	}
	return map[string]any{
		"result": result,
	}
}
