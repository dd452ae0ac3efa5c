package fieldset

import "fmt"

// ValidatorError wraps a failure raised by a custom validation predicate.
// It is the only evaluation error the engine propagates to its caller.
type ValidatorError struct {
	Field     string // field whose chain was running
	Validator string // registry name, empty for inline predicates
	Cause     error
}

// Error implements the error interface.
func (e *ValidatorError) Error() string {
	if e.Validator != "" {
		return fmt.Sprintf("custom validator %q failed on %s: %v", e.Validator, e.Field, e.Cause)
	}
	return fmt.Sprintf("custom validator failed on %s: %v", e.Field, e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ValidatorError) Unwrap() error {
	return e.Cause
}

// NotFoundError is returned when a field name is not part of the field set.
type NotFoundError struct {
	Field string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("field not found: %s", e.Field)
}
