// Package errors provides structured, actionable problem reports for the
// observer engine and its tooling.
//
// The engine itself never returns these to callers: a wrong accessor, an
// uninitialized subject or an incompatible binding degrades to a default
// value and a log line. This package gives those log lines a stable code,
// a plain-language explanation and a fix hint, and lets the CLI render the
// same information in a terminal.
//
// # Error Codes
//
// Each code (e.g. "OBS001") maps to a registered template:
//   - a short message, used as the slog message
//   - a detailed explanation
//   - a category (runtime, binding, inspector, snapshot, config, cli)
//
// # Usage
//
//	err := errors.New(errors.CodeKindMismatch).
//	    WithOp("subject.SetInt").
//	    WithSuggestion("Use SetFloat for float subjects")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR OBS001: Subject kind mismatch
//	//
//	//   op: subject.SetInt
//	//
//	//   The accessor does not match the kind the subject was initialized with.
//	//
//	//   Hint: Use SetFloat for float subjects
package errors
