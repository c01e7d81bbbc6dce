package build

import "errors"

// Sentinel errors wrapped by the classified errors the assembler returns.
var (
	// ErrBadTimestamp indicates a title timestamp attribute is not an unsigned integer.
	ErrBadTimestamp = errors.New("title timestamp is not an unsigned integer")

	// ErrNoTimestamp indicates no timestamp source produced a value for a document.
	ErrNoTimestamp = errors.New("could not determine a timestamp for the document")

	// ErrCompilerPanic indicates a compiler invariant failed while assembling one file.
	ErrCompilerPanic = errors.New("compiler invariant failure")
)
