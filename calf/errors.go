package calf

import (
	"errors"
	"fmt"
)

// ErrorType represents error categories for CLI operations.
// Categories drive exit-code mapping via the ExitCodeManager.
type ErrorType string

const (
	// ErrorTypeInvalidValue reports a raw token that cannot be coerced to
	// the parameter's type. This is a user-input error, not a defect.
	ErrorTypeInvalidValue ErrorType = "invalid_value"
	// ErrorTypeUnclassifiedArg reports a leftover token matching no
	// catch-all registration. Distinct from ErrorTypeInvalidValue so
	// callers can tell "bad value" apart from "doesn't belong anywhere".
	ErrorTypeUnclassifiedArg    ErrorType = "unclassified_argument"
	ErrorTypeUnknownFlag        ErrorType = "unknown_flag"
	ErrorTypeMissingValue       ErrorType = "missing_value"
	ErrorTypeMissingRequired    ErrorType = "missing_required"
	ErrorTypeInvalidChoice      ErrorType = "invalid_choice"
	ErrorTypeUnexpectedArgument ErrorType = "unexpected_argument"
	ErrorTypeInternal           ErrorType = "internal_error"
)

// ErrHelpShown signals that help was requested and printed; the
// invocation carries no result and terminates with a non-zero status.
var ErrHelpShown = errors.New("help shown")

// ErrLoaderContract reports an ArgLoader embedding LoaderBase without
// implementing the required methods. It is raised as a panic at first
// use: an incomplete extension is a programming defect and fails loudly
// rather than misbehaving silently.
var ErrLoaderContract = errors.New("calf: ArgLoader contract not implemented")

// CLIError is the error type produced by the pipeline for user-facing
// failures. Suggestions and context are attached with the fluent
// builders.
type CLIError struct {
	Type        ErrorType
	Message     string
	Suggestions []string
	Cause       error
	Context     map[string]any
}

// Error implements the error interface.
func (e *CLIError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause, if any.
func (e *CLIError) Unwrap() error {
	return e.Cause
}

// NewError creates a new CLIError with the given type and message.
func NewError(typ ErrorType, message string) *CLIError {
	return &CLIError{
		Type:    typ,
		Message: message,
	}
}

// Errorf creates a new CLIError with a formatted message.
func Errorf(typ ErrorType, format string, args ...any) *CLIError {
	return NewError(typ, fmt.Sprintf(format, args...))
}

// WithSuggestion adds a suggestion to the error.
func (e *CLIError) WithSuggestion(suggestion string) *CLIError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithCause adds an underlying cause to the error.
func (e *CLIError) WithCause(cause error) *CLIError {
	e.Cause = cause
	return e
}

// WithContext adds context information to the error.
func (e *CLIError) WithContext(key string, value any) *CLIError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}
