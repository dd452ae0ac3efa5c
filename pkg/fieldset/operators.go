package fieldset

import (
	"reflect"
	"regexp"
	"strings"
)

// EvaluateCondition evaluates one dependency rule against the form state.
// It never panics: malformed operands fall back to a fixed outcome and
// unknown operators evaluate to true (fail-open).
//
// It does not check whether rule.Property is declared; the Engine treats
// rules on undeclared fields as false before calling it.
func EvaluateCondition(rule Rule, state FormState) bool {
	value, present := state[rule.Property]

	switch rule.Operator {
	case OpEquals:
		return valuesEqual(value, rule.Value, rule.CaseInsensitive)

	case OpNotEquals:
		return !valuesEqual(value, rule.Value, rule.CaseInsensitive)

	case OpIn:
		items, ok := toSlice(rule.Value)
		if !ok {
			return false
		}
		return containsValue(items, value, rule.CaseInsensitive)

	case OpNotIn:
		items, ok := toSlice(rule.Value)
		if !ok {
			return true
		}
		return !containsValue(items, value, rule.CaseInsensitive)

	case OpExists:
		return present && value != nil

	case OpEmpty:
		// Only absent, nil and "" are empty; [] and {} are not.
		if !present || value == nil {
			return true
		}
		s, ok := value.(string)
		return ok && s == ""

	case OpRegex:
		return matchPattern(rule.Value, value, rule.CaseInsensitive)

	default:
		return true
	}
}

// valuesEqual compares a form value with a rule operand.
// Strings compare lower-cased when caseInsensitive is set; numbers compare by
// value across Go numeric types; strings and numbers never coerce.
func valuesEqual(a, b any, caseInsensitive bool) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if caseInsensitive {
		as, aOk := a.(string)
		bs, bOk := b.(string)
		if aOk && bOk {
			return strings.ToLower(as) == strings.ToLower(bs)
		}
	}

	aNum, aOk := toFloat(a)
	bNum, bOk := toFloat(b)
	if aOk || bOk {
		return aOk && bOk && aNum == bNum
	}

	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	}

	// Sequences and maps compare structurally, element by element.
	aItems, aSeq := toSlice(a)
	bItems, bSeq := toSlice(b)
	if aSeq && bSeq {
		if len(aItems) != len(bItems) {
			return false
		}
		for i := range aItems {
			if !valuesEqual(aItems[i], bItems[i], caseInsensitive) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

func containsValue(items []any, value any, caseInsensitive bool) bool {
	for _, item := range items {
		if valuesEqual(value, item, caseInsensitive) {
			return true
		}
	}
	return false
}

// matchPattern reports whether value matches the pattern in operand.
// Both must be strings and the pattern must compile; otherwise false.
func matchPattern(operand, value any, caseInsensitive bool) bool {
	pattern, ok := operand.(string)
	if !ok {
		return false
	}
	text, ok := value.(string)
	if !ok {
		return false
	}
	if caseInsensitive {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(text)
}

// === Helper Functions ===

// toSlice converts any Go slice or array to []any.
func toSlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case nil:
		return nil, false
	case []any:
		return s, true
	case []string:
		out := make([]any, len(s))
		for i, item := range s {
			out[i] = item
		}
		return out, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// toFloat converts a numeric value to float64 if possible.
// Strings are never converted.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
