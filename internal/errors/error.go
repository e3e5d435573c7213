package errors

import (
	stderrors "errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryRuntime  Category = "runtime"
	CategoryContract Category = "contract"
	CategoryConfig   Category = "config"
	CategoryCLI      Category = "cli"
)

// Coder is implemented by errors that carry a registered code.
type Coder interface {
	error
	Code() string
}

// Error is a structured error with a code, explanation and fix suggestion.
type Error struct {
	// Code is a unique error identifier (e.g., "SC001").
	Code string `json:"code,omitempty"`

	// Category is the error type (runtime, contract, config...).
	Category Category `json:"category"`

	// Message is a short description of the error.
	Message string `json:"message"`

	// Detail is a longer explanation of this occurrence.
	Detail string `json:"detail,omitempty"`

	// Suggestion is a hint on how to fix the error.
	Suggestion string `json:"suggestion,omitempty"`

	// Example is code showing the correct approach.
	Example string `json:"example,omitempty"`

	// Wrapped is the underlying error, if any.
	Wrapped error `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// WithSuggestion adds a fix suggestion to the error.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}

// WithExample adds a code example to the error.
func (e *Error) WithExample(ex string) *Error {
	e.Example = ex
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *Error) WithDetail(d string) *Error {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *Error) Wrap(err error) *Error {
	e.Wrapped = err
	return e
}

// New creates an Error from a registered error code.
func New(code string) *Error {
	template, ok := registry[code]
	if !ok {
		return &Error{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &Error{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Suggestion: template.Suggestion,
	}
}

// Newf creates a new Error with a formatted message (no code).
func Newf(category Category, format string, args ...any) *Error {
	return &Error{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Diagnose converts err into an *Error.
// An *Error anywhere in the chain is returned as is; a Coder is expanded from
// its template with the original message as detail; anything else is wrapped
// under fallbackCode.
func Diagnose(err error, fallbackCode string) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if stderrors.As(err, &e) {
		return e
	}
	var c Coder
	if stderrors.As(err, &c) {
		return New(c.Code()).WithDetail(c.Error()).Wrap(err)
	}
	return New(fallbackCode).WithDetail(err.Error()).Wrap(err)
}
