package errors

// Package errors provides sentinel errors for source document discovery.
// These enable consistent classification of discovery stage failures.

import "errors"

var (
	// ErrContentRootNotFound indicates the configured content root does not exist.
	ErrContentRootNotFound = errors.New("content root not found")

	// ErrContentRootNotDir indicates the configured content root is not a directory.
	ErrContentRootNotDir = errors.New("content root is not a directory")

	// ErrContentWalkFailed indicates filesystem traversal of the content root failed.
	ErrContentWalkFailed = errors.New("content directory walk failed")
)
