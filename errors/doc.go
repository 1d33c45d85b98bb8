// Package errors provides structured error types for the winrt-runtime module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the parameter path, actual/expected type names and the cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseCall, errors.KindTypeMismatch).
//		Path("arg", "1").
//		Type("i4").
//		Expected("string").
//		Detail("input value does not match the declared parameter").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.AbiMismatch("i4", "f8")
//	err := errors.CallFailed(17, hr)
//
// Failed platform calls keep the status code in the cause chain; StatusOf extracts it.
// All errors implement the standard error interface and support errors.Is/As.
package errors
