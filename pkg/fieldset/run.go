package fieldset

import (
	"context"
	"encoding/json"
	"fmt"
)

// Document is the JSON envelope accepted and returned by Run.
// Properties and State are inputs; Results and Summary are filled by Run.
type Document struct {
	Name       string            `json:"name,omitempty"`
	Properties []*Declaration    `json:"properties"`
	State      FormState         `json:"state,omitempty"`
	Results    map[string]Result `json:"results,omitempty"`
	Summary    *Summary          `json:"summary,omitempty"`
}

// Run evaluates a JSON document in one shot: defaults are filled, every field is
// evaluated in dependency order and the form is validated.
// Returns the document with state, results and summary populated.
func Run(ctx context.Context, jsonText string, opts ...Option) (string, error) {
	var doc Document
	if err := json.Unmarshal([]byte(jsonText), &doc); err != nil {
		return "", fmt.Errorf("unmarshal: %w", err)
	}

	if err := Evaluate(ctx, &doc, opts...); err != nil {
		return "", err
	}

	result, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal: %w", err)
	}
	return string(result), nil
}

// Evaluate fills doc.Results and doc.Summary, writing computed defaults into doc.State.
func Evaluate(ctx context.Context, doc *Document, opts ...Option) error {
	if doc.State == nil {
		doc.State = make(FormState)
	}

	engine := NewEngine(doc.Properties, doc.State, opts...)

	results, err := engine.EvaluateAll(ctx)
	if err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}
	summary, err := engine.ValidateAll(ctx)
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}

	doc.Results = results
	doc.Summary = summary
	return nil
}
