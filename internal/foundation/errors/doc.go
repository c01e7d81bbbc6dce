// Package errors provides the classified error primitives used across hmmpress.
//
// A ClassifiedError carries a category (what failed), a severity (how badly)
// and a retry strategy, plus free-form context. Errors are built with the
// fluent ErrorBuilder and presented by the CLI and HTTP adapters.
//
// Example usage:
//
//	err := errors.WrapError(cause, errors.CategoryParse, "malformed document").
//		WithContext("file", path).
//		WithContext("offset", 42).
//		Build()
package errors
