// Package errors provides structured, actionable diagnostics for safecontext.
//
// Library errors (missing contexts, contract violations) and configuration
// errors carry a stable code. This package maps each code to a template and
// renders it for the terminal:
//
//	err := errors.New(errors.CodeIncompatibleProp).
//	    WithDetail(`prop "config" is injected as *demo.Config but Menu declares string`).
//	    WithSuggestion("Change the projection or the prop type on the target")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR SC003: Injected prop is incompatible with the target
//	//
//	//   prop "config" is injected as *demo.Config but Menu declares string
//	//
//	//   Hint: Change the projection or the prop type on the target
//
// # Error Categories
//
//   - runtime: a consumer rendered without its provider
//   - contract: a context map or wrapped component that cannot work
//   - config: an invalid safecontext.json
//   - cli: command-line usage errors
//
// Errors defined in other packages join this model by implementing Coder;
// Diagnose converts any such error into an *Error.
package errors
