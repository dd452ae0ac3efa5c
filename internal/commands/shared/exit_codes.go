package shared

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for fieldset commands.
const (
	ExitSuccess = 0
	// ExitInvalid means the command ran and found the field set or form invalid.
	ExitInvalid = 1
	// ExitBadInput means an input file or the configuration could not be loaded.
	ExitBadInput = 2
)

// ExitError is an error that carries an exit code.
type ExitError struct {
	Code    int
	Message string
	Cause   error
}

func (e *ExitError) Error() string {
	if e.Cause != nil {
		if e.Message == "" {
			return e.Cause.Error()
		}
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Cause
}

// NewBadInputError creates an error for unreadable or malformed inputs.
func NewBadInputError(msg string, cause error) *ExitError {
	return &ExitError{Code: ExitBadInput, Message: msg, Cause: cause}
}

// NewInvalidError creates a silent error that only sets the exit code.
// The command has already reported the problems it found.
func NewInvalidError() *ExitError {
	return &ExitError{Code: ExitInvalid}
}

// HandleExitError prints err (if it has a message) and exits with its code.
func HandleExitError(err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if msg := exitErr.Error(); msg != "" {
			fmt.Fprintln(os.Stderr, RenderError(msg))
		}
		os.Exit(exitErr.Code)
	}
	fmt.Fprintln(os.Stderr, RenderError(err.Error()))
	os.Exit(ExitInvalid)
}
