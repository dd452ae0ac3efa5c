package fieldset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateCondition(t *testing.T) {
	tests := []struct {
		name  string
		rule  Rule
		state FormState
		want  bool
	}{
		{"equals string", Rule{Property: "a", Operator: OpEquals, Value: "x"}, FormState{"a": "x"}, true},
		{"equals is case sensitive by default", Rule{Property: "a", Operator: OpEquals, Value: "X"}, FormState{"a": "x"}, false},
		{"equals case insensitive", Rule{Property: "a", Operator: OpEquals, Value: "ApiKey", CaseInsensitive: true}, FormState{"a": "APIKEY"}, true},
		{"equals number across types", Rule{Property: "a", Operator: OpEquals, Value: 3}, FormState{"a": float64(3)}, true},
		{"equals never coerces strings", Rule{Property: "a", Operator: OpEquals, Value: "3"}, FormState{"a": 3}, false},
		{"equals boolean", Rule{Property: "a", Operator: OpEquals, Value: true}, FormState{"a": true}, true},
		{"equals absent vs value", Rule{Property: "a", Operator: OpEquals, Value: "x"}, FormState{}, false},
		{"notEquals", Rule{Property: "a", Operator: OpNotEquals, Value: "x"}, FormState{"a": "y"}, true},
		{"notEquals absent", Rule{Property: "a", Operator: OpNotEquals, Value: "x"}, FormState{}, true},
		{"in match", Rule{Property: "a", Operator: OpIn, Value: []any{"a", "b"}}, FormState{"a": "b"}, true},
		{"in typed slice", Rule{Property: "a", Operator: OpIn, Value: []string{"a", "b"}}, FormState{"a": "a"}, true},
		{"in int slice", Rule{Property: "a", Operator: OpIn, Value: []int{1, 2}}, FormState{"a": float64(2)}, true},
		{"in case insensitive", Rule{Property: "a", Operator: OpIn, Value: []any{"GET"}, CaseInsensitive: true}, FormState{"a": "get"}, true},
		{"in miss", Rule{Property: "a", Operator: OpIn, Value: []any{"a", "b"}}, FormState{"a": "c"}, false},
		{"in non-sequence operand", Rule{Property: "a", Operator: OpIn, Value: "a"}, FormState{"a": "a"}, false},
		{"notIn miss", Rule{Property: "a", Operator: OpNotIn, Value: []any{"a"}}, FormState{"a": "c"}, true},
		{"notIn match", Rule{Property: "a", Operator: OpNotIn, Value: []any{"a"}}, FormState{"a": "a"}, false},
		{"notIn non-sequence operand", Rule{Property: "a", Operator: OpNotIn, Value: 42}, FormState{"a": "a"}, true},
		{"exists", Rule{Property: "a", Operator: OpExists}, FormState{"a": 0}, true},
		{"exists nil", Rule{Property: "a", Operator: OpExists}, FormState{"a": nil}, false},
		{"exists absent", Rule{Property: "a", Operator: OpExists}, FormState{}, false},
		{"empty absent", Rule{Property: "a", Operator: OpEmpty}, FormState{}, true},
		{"empty nil", Rule{Property: "a", Operator: OpEmpty}, FormState{"a": nil}, true},
		{"empty string", Rule{Property: "a", Operator: OpEmpty}, FormState{"a": ""}, true},
		{"empty sequence is not empty", Rule{Property: "a", Operator: OpEmpty}, FormState{"a": []any{}}, false},
		{"empty map is not empty", Rule{Property: "a", Operator: OpEmpty}, FormState{"a": map[string]any{}}, false},
		{"empty zero is not empty", Rule{Property: "a", Operator: OpEmpty}, FormState{"a": 0}, false},
		{"regex match", Rule{Property: "a", Operator: OpRegex, Value: `^https?://`}, FormState{"a": "https://x"}, true},
		{"regex case insensitive", Rule{Property: "a", Operator: OpRegex, Value: `^abc$`, CaseInsensitive: true}, FormState{"a": "ABC"}, true},
		{"regex miss", Rule{Property: "a", Operator: OpRegex, Value: `^abc$`}, FormState{"a": "ABC"}, false},
		{"regex non-string value", Rule{Property: "a", Operator: OpRegex, Value: `\d+`}, FormState{"a": 12}, false},
		{"regex non-string operand", Rule{Property: "a", Operator: OpRegex, Value: 12}, FormState{"a": "12"}, false},
		{"regex invalid pattern", Rule{Property: "a", Operator: OpRegex, Value: `(`}, FormState{"a": "("}, false},
		{"unknown operator fails open", Rule{Property: "a", Operator: "startsWith", Value: "x"}, FormState{"a": "y"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EvaluateCondition(tt.rule, tt.state))
		})
	}
}

func TestValuesEqualStructured(t *testing.T) {
	assert.True(t, valuesEqual([]any{"a", float64(1)}, []any{"a", 1}, false))
	assert.False(t, valuesEqual([]any{"a"}, []any{"a", "b"}, false))
	assert.True(t, valuesEqual(map[string]any{"k": "v"}, map[string]any{"k": "v"}, false))
	assert.False(t, valuesEqual(map[string]any{"k": "v"}, "v", false))
	assert.True(t, valuesEqual(nil, nil, false))
	assert.False(t, valuesEqual(nil, "", false))
}
