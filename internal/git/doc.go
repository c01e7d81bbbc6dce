// Package git looks up commit history for source documents.
//
// It backs the optional timestamp fallback: when a document has neither a
// title timestamp nor a file creation time, the time of the last commit that
// touched it is used instead. Repositories are opened with go-git, so no git
// binary is required.
package git
