package fieldset

import (
	"context"
	"fmt"
	"regexp"
	"unicode/utf8"
)

// Validate runs the declaration's validation chain against value.
// Custom rules use their own Func; see Engine for registry-backed validators.
func Validate(ctx context.Context, decl *Declaration, value any, state FormState) (message, warning string, err error) {
	return validateField(ctx, decl, value, state, nil)
}

// validateField runs rules strictly in declared order and stops at the first failing
// error-severity rule. Warning-severity failures keep the first message and continue.
// A declaration marked Required without an explicit required rule gets one up front.
func validateField(ctx context.Context, decl *Declaration, value any, state FormState, lookup func(string) CustomFunc) (message, warning string, err error) {
	if decl == nil {
		return "", "", nil
	}

	for _, rule := range validationChain(decl) {
		ok, err := checkRule(ctx, decl, rule, value, state, lookup)
		if err != nil {
			return "", warning, &ValidatorError{Field: decl.Name, Validator: rule.Validator, Cause: err}
		}
		if ok {
			continue
		}

		validationFailures.WithLabelValues(string(rule.Kind)).Inc()
		msg := ruleMessage(decl, rule)
		if rule.Severity == SeverityWarning {
			if warning == "" {
				warning = msg
			}
			continue
		}
		return msg, warning, nil
	}
	return "", warning, nil
}

// validationChain returns the rules to run, with the implicit required rule when needed.
func validationChain(decl *Declaration) []ValidationRule {
	if !decl.Required || hasRequiredRule(decl) {
		return decl.Validation
	}
	chain := make([]ValidationRule, 0, len(decl.Validation)+1)
	chain = append(chain, ValidationRule{Kind: KindRequired})
	return append(chain, decl.Validation...)
}

func hasRequiredRule(decl *Declaration) bool {
	for _, rule := range decl.Validation {
		if rule.Kind == KindRequired {
			return true
		}
	}
	return false
}

// checkRule reports whether value passes a single rule.
// Rules that do not apply to the value's type pass.
func checkRule(ctx context.Context, decl *Declaration, rule ValidationRule, value any, state FormState, lookup func(string) CustomFunc) (bool, error) {
	switch rule.Kind {
	case KindRequired:
		if value == nil {
			return false, nil
		}
		if s, ok := value.(string); ok && s == "" {
			return false, nil
		}
		return true, nil

	case KindMinLength:
		text, ok := value.(string)
		limit, hasLimit := toFloat(rule.Value)
		if !ok || !hasLimit {
			return true, nil
		}
		return float64(utf8.RuneCountInString(text)) >= limit, nil

	case KindMaxLength:
		text, ok := value.(string)
		limit, hasLimit := toFloat(rule.Value)
		if !ok || !hasLimit {
			return true, nil
		}
		return float64(utf8.RuneCountInString(text)) <= limit, nil

	case KindPattern:
		text, ok := value.(string)
		pattern, hasPattern := rule.Value.(string)
		if !ok || !hasPattern {
			return true, nil
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return true, nil
		}
		return re.MatchString(text), nil

	case KindCustom:
		fn := rule.Func
		if fn == nil && lookup != nil && rule.Validator != "" {
			fn = lookup(rule.Validator)
		}
		if fn == nil {
			return true, nil
		}
		return fn(ctx, value, state)

	default:
		return true, nil
	}
}

// ruleMessage returns the rule's message or a generated one.
func ruleMessage(decl *Declaration, rule ValidationRule) string {
	if rule.Message != "" {
		return rule.Message
	}

	label := decl.Label()
	switch rule.Kind {
	case KindRequired:
		return fmt.Sprintf("%s is required", label)
	case KindMinLength:
		limit, _ := toFloat(rule.Value)
		return fmt.Sprintf("%s must be at least %d characters", label, int(limit))
	case KindMaxLength:
		limit, _ := toFloat(rule.Value)
		return fmt.Sprintf("%s must be at most %d characters", label, int(limit))
	case KindPattern:
		return fmt.Sprintf("%s has an invalid format", label)
	default:
		return fmt.Sprintf("%s is invalid", label)
	}
}
