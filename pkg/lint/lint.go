// Package lint provides static analysis for field sets.
// It detects declarations that would silently degrade at runtime without evaluating them.
package lint

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/dlovans/fieldset/pkg/fieldset"
)

// Severity levels reported by the linter.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// Issue represents a problem found during static analysis.
type Issue struct {
	Severity string `json:"severity"` // "error", "warning", "info"
	Field    string `json:"field,omitempty"`
	Rule     string `json:"rule,omitempty"` // rule location, e.g. "show[0]" or "validation[1]"
	Message  string `json:"message"`
}

// Result contains all issues found by the linter.
// Valid is false only when an error-level issue was found.
type Result struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues"`
}

// RunJSON parses a JSON field set (an object with "properties" or a bare array) and lints it.
func RunJSON(jsonText string) (*Result, error) {
	var doc fieldset.Document
	if err := json.Unmarshal([]byte(jsonText), &doc); err != nil {
		var decls []*fieldset.Declaration
		if arrErr := json.Unmarshal([]byte(jsonText), &decls); arrErr != nil {
			return nil, fmt.Errorf("parse error: %w", err)
		}
		doc.Properties = decls
	}
	return Run(doc.Properties), nil
}

// Run performs static analysis on declarations without evaluating them.
func Run(decls []*fieldset.Declaration) *Result {
	result := &Result{
		Valid:  true,
		Issues: make([]Issue, 0),
	}

	// Collect declared names, flagging empty and duplicate ones
	declared := make(map[string]bool)
	for i, decl := range decls {
		if decl == nil {
			result.addWarning("", "", fmt.Sprintf("declaration %d is empty", i))
			continue
		}
		if decl.Name == "" {
			result.addError("", "", fmt.Sprintf("declaration %d has no name", i))
			continue
		}
		if declared[decl.Name] {
			result.addError(decl.Name, "", fmt.Sprintf("field '%s' is declared more than once; later declarations are ignored", decl.Name))
			continue
		}
		declared[decl.Name] = true
	}

	for _, decl := range decls {
		if decl == nil || decl.Name == "" {
			continue
		}

		// Check 1: Types
		if decl.Type == "" {
			result.addWarning(decl.Name, "", fmt.Sprintf("field '%s' has no type specified", decl.Name))
		} else if !fieldset.IsKnownType(decl.Type) {
			result.addWarning(decl.Name, "", fmt.Sprintf("field '%s' has unknown type '%s'; no default will be derived", decl.Name, decl.Type))
		}

		// Check 2: Display rules
		conds := fieldset.Conditions(decl)
		sets := []struct {
			name  string
			rules []fieldset.Rule
		}{
			{"show", conds.Show},
			{"hide", conds.Hide},
			{"enable", conds.Enable},
			{"disable", conds.Disable},
		}
		for _, set := range sets {
			for i, rule := range set.rules {
				result.checkRule(decl.Name, fmt.Sprintf("%s[%d]", set.name, i), rule, declared)
			}
		}

		// Check 3: Explicit dependencies
		for _, dep := range decl.DependsOn {
			if !declared[dep] {
				result.addWarning(decl.Name, "dependsOn", fmt.Sprintf("field '%s' depends on undefined field '%s'", decl.Name, dep))
			}
		}

		// Check 4: Validation rules
		for i, rule := range decl.Validation {
			result.checkValidation(decl.Name, fmt.Sprintf("validation[%d]", i), rule)
		}
	}

	// Check 5: Cycles
	for _, cycle := range fieldset.Cycles(decls) {
		result.addWarning(cycle[0], "", fmt.Sprintf("dependency cycle %s; the closing edge is ignored when ordering",
			strings.Join(cycle, " -> ")))
	}

	// Check 6: Advisory affects lists
	graph := fieldset.BuildGraph(decls)
	for _, decl := range decls {
		if decl == nil || decl.Name == "" {
			continue
		}
		for _, target := range decl.Affects {
			if !declared[target] {
				result.addInfo(decl.Name, "affects", fmt.Sprintf("field '%s' affects undefined field '%s'", decl.Name, target))
				continue
			}
			if !containsString(graph.Dependents(decl.Name), target) {
				result.addInfo(decl.Name, "affects", fmt.Sprintf("field '%s' lists '%s' in affects, but '%s' does not depend on it", decl.Name, target, target))
			}
		}
	}

	return result
}

// checkRule validates a single display rule.
func (r *Result) checkRule(field, location string, rule fieldset.Rule, declared map[string]bool) {
	if rule.Property == "" {
		r.addError(field, location, "rule has no property")
		return
	}
	if !declared[rule.Property] {
		r.addWarning(field, location, fmt.Sprintf("rule references undefined field '%s' and never holds", rule.Property))
	}

	switch rule.Operator {
	case fieldset.OpEquals, fieldset.OpNotEquals:
		if rule.Value == nil {
			r.addWarning(field, location, fmt.Sprintf("operator '%s' has no value; it compares against null", rule.Operator))
		}
	case fieldset.OpIn, fieldset.OpNotIn:
		if !isSequence(rule.Value) {
			r.addWarning(field, location, fmt.Sprintf("operator '%s' needs a list value", rule.Operator))
		}
	case fieldset.OpExists, fieldset.OpEmpty:
		if rule.Value != nil {
			r.addInfo(field, location, fmt.Sprintf("operator '%s' ignores its value", rule.Operator))
		}
	case fieldset.OpRegex:
		pattern, ok := rule.Value.(string)
		if !ok {
			r.addError(field, location, "regex operator needs a string pattern")
		} else if _, err := regexp.Compile(pattern); err != nil {
			r.addError(field, location, fmt.Sprintf("invalid regex pattern: %v", err))
		}
	default:
		r.addWarning(field, location, fmt.Sprintf("unknown operator '%s'; the rule always holds", rule.Operator))
	}
}

// checkValidation validates a single validation rule.
func (r *Result) checkValidation(field, location string, rule fieldset.ValidationRule) {
	switch rule.Kind {
	case fieldset.KindRequired:
	case fieldset.KindMinLength, fieldset.KindMaxLength:
		if !isNumber(rule.Value) {
			r.addWarning(field, location, fmt.Sprintf("%s needs a numeric value; the rule always passes", rule.Kind))
		}
	case fieldset.KindPattern:
		pattern, ok := rule.Value.(string)
		if !ok {
			r.addError(field, location, "pattern rule needs a string value")
		} else if _, err := regexp.Compile(pattern); err != nil {
			r.addError(field, location, fmt.Sprintf("invalid pattern: %v", err))
		}
	case fieldset.KindCustom:
		if rule.Validator == "" && rule.Func == nil {
			r.addWarning(field, location, "custom rule names no validator; it always passes")
		}
	default:
		r.addWarning(field, location, fmt.Sprintf("unknown validation kind '%s'; the rule always passes", rule.Kind))
	}

	if rule.Severity != "" && rule.Severity != fieldset.SeverityError && rule.Severity != fieldset.SeverityWarning {
		r.addWarning(field, location, fmt.Sprintf("unknown severity '%s'; treated as error", rule.Severity))
	}
}

func (r *Result) addError(field, rule, message string) {
	r.Valid = false
	r.Issues = append(r.Issues, Issue{
		Severity: SeverityError,
		Field:    field,
		Rule:     rule,
		Message:  message,
	})
}

func (r *Result) addWarning(field, rule, message string) {
	r.Issues = append(r.Issues, Issue{
		Severity: SeverityWarning,
		Field:    field,
		Rule:     rule,
		Message:  message,
	})
}

func (r *Result) addInfo(field, rule, message string) {
	r.Issues = append(r.Issues, Issue{
		Severity: SeverityInfo,
		Field:    field,
		Rule:     rule,
		Message:  message,
	})
}

// isSequence reports whether v is any Go slice or array, matching what the
// engine accepts for in and notIn.
func isSequence(v any) bool {
	kind := reflect.ValueOf(v).Kind()
	return kind == reflect.Slice || kind == reflect.Array
}

func isNumber(v any) bool {
	switch v.(type) {
	case float64, float32, int, int64, int32, uint, uint64:
		return true
	default:
		return false
	}
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
