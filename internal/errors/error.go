package errors

import (
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryRuntime   Category = "runtime"
	CategoryBinding   Category = "binding"
	CategoryInspector Category = "inspector"
	CategorySnapshot  Category = "snapshot"
	CategoryConfig    Category = "config"
	CategoryCLI       Category = "cli"
)

// ObserverError is a structured error with a stable code and a fix hint.
type ObserverError struct {
	// Code is a unique error identifier (e.g., "OBS001").
	Code string

	// Category is the error type.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Op is the operation that reported the error (e.g., "subject.SetInt").
	Op string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *ObserverError) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *ObserverError) Unwrap() error {
	return e.Wrapped
}

// Is matches another ObserverError with the same code.
func (e *ObserverError) Is(target error) bool {
	t, ok := target.(*ObserverError)
	if !ok {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

// WithOp records the operation that failed.
func (e *ObserverError) WithOp(op string) *ObserverError {
	e.Op = op
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *ObserverError) WithSuggestion(s string) *ObserverError {
	e.Suggestion = s
	return e
}

// WithDetail replaces the detailed explanation.
func (e *ObserverError) WithDetail(d string) *ObserverError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *ObserverError) Wrap(err error) *ObserverError {
	e.Wrapped = err
	return e
}

// New creates an ObserverError from a registered error code.
func New(code string) *ObserverError {
	template, ok := registry[code]
	if !ok {
		return &ObserverError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &ObserverError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
	}
}

// Newf creates a new ObserverError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *ObserverError {
	return &ObserverError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in an ObserverError.
func FromError(err error, code string) *ObserverError {
	if err == nil {
		return nil
	}
	if oe, ok := err.(*ObserverError); ok {
		return oe
	}
	return New(code).Wrap(err)
}

// Message returns the registered short message for a code, or the code
// itself when it is not registered.
func Message(code string) string {
	if t, ok := registry[code]; ok {
		return t.Message
	}
	return code
}
