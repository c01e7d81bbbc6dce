// Package build turns source files into compiled documents and keeps the
// document cache in step with the content directory.
//
// An Assembler compiles one file: it reads the source, runs the content
// pipeline (lex, normalize, project), rewrites relative asset links, registers
// the document's root directory and resolves its timestamp. A Driver runs the
// Assembler over every enumerated file, caches the successes, prunes documents
// that no longer compile and reports the outcome as a Batch.
//
// Failures are returned as ClassifiedErrors (parse, timestamp, filesystem,
// storage or internal) so callers can map them to exit codes or HTTP statuses.
package build
