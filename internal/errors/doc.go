// Package errors provides structured, actionable errors for dynbind.
//
// Errors carry a stable code, a category and an optional suggestion so the
// CLI and the debug server can render them consistently.
//
// # Error Categories
//
//   - binding: a target rejected an input or an output could not be bound
//   - lifecycle: a pass reached a coordinator that has been torn down
//   - scenario: a replay scenario is malformed or its expectations failed
//   - config: the configuration file is invalid
//
// # Usage
//
//	err := errors.New("B001").
//	    WithDetail(`input "count": cannot assign string to int`).
//	    WithSuggestion("Pass a value of the field's type")
//
//	fmt.Println(err.Format())
package errors
