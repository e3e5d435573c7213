package safecontext

import (
	"errors"
	"fmt"

	diag "github.com/vango-dev/safecontext/internal/errors"
)

// ErrMissingContext matches every *MissingContextError via errors.Is.
var ErrMissingContext = errors.New("safecontext: missing context value")

// MissingContextError reports a consumer rendered without a value supplied by
// an ancestor Provider.
type MissingContextError struct {
	// Context is the configured context name.
	Context string
}

func (e *MissingContextError) Error() string {
	return fmt.Sprintf("safecontext: invalid value provided for %s context", e.Context)
}

// Code returns the diagnostic code.
func (e *MissingContextError) Code() string { return diag.CodeMissingContext }

// Is reports whether target is ErrMissingContext.
func (e *MissingContextError) Is(target error) bool {
	return target == ErrMissingContext
}

// ContractError reports a context map, projection or wrapped component that
// cannot work together. It is raised when the decorator is built or applied,
// never during render.
type ContractError struct {
	code string

	// Component is the display name of the wrapped component, if any.
	Component string

	// Prop is the offending prop or context key, if any.
	Prop string

	// Reason describes the violation.
	Reason string
}

func (e *ContractError) Error() string {
	switch {
	case e.Component != "" && e.Prop != "":
		return fmt.Sprintf("safecontext: %s: prop %q: %s", e.Component, e.Prop, e.Reason)
	case e.Prop != "":
		return fmt.Sprintf("safecontext: key %q: %s", e.Prop, e.Reason)
	case e.Component != "":
		return fmt.Sprintf("safecontext: %s: %s", e.Component, e.Reason)
	default:
		return "safecontext: " + e.Reason
	}
}

// Code returns the diagnostic code.
func (e *ContractError) Code() string { return e.code }

func contractError(code, component, prop, format string, args ...any) *ContractError {
	return &ContractError{
		code:      code,
		Component: component,
		Prop:      prop,
		Reason:    fmt.Sprintf(format, args...),
	}
}
