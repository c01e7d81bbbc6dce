// Package storage provides the document and root caches shared by the
// compilation driver and the HTTP server.
package storage

import (
	"context"
	"errors"
	"fmt"

	"git.home.luguber.info/inful/hmmpress/internal/build"
	"git.home.luguber.info/inful/hmmpress/internal/config"
)

// DocumentStore caches compiled documents keyed by file identifier.
type DocumentStore interface {
	// PutDocument stores doc under fileID, replacing any previous entry.
	PutDocument(ctx context.Context, fileID string, doc *build.Document) error

	// GetDocument returns the document for fileID, or an error satisfying IsNotFound.
	GetDocument(ctx context.Context, fileID string) (*build.Document, error)

	// DeleteDocument removes fileID. Deleting a missing entry is not an error.
	DeleteDocument(ctx context.Context, fileID string) error

	// ListDocuments returns every cached document, newest first.
	ListDocuments(ctx context.Context) ([]*build.Document, error)
}

// RootStore maps document identifiers to the directory their assets live in.
type RootStore interface {
	PutRoot(ctx context.Context, documentID, dir string) error
	GetRoot(ctx context.Context, documentID string) (dir string, ok bool, err error)
	ListRoots(ctx context.Context) (map[string]string, error)
}

// Store is the complete cache.
type Store interface {
	DocumentStore
	RootStore

	// Close releases any resources held by the store.
	Close() error
}

// ErrNotFound is returned when a document doesn't exist.
type ErrNotFound struct {
	FileID string
}

func (e ErrNotFound) Error() string {
	return "document not found: " + e.FileID
}

// IsNotFound returns true if err is or wraps ErrNotFound.
func IsNotFound(err error) bool {
	var nf ErrNotFound
	return errors.As(err, &nf)
}

// Open constructs the store selected by cfg.
func Open(cfg config.CacheConfig) (Store, error) {
	switch cfg.Backend {
	case config.CacheBackendMemory, "":
		return NewMemoryStore(), nil
	case config.CacheBackendSQLite:
		return NewSQLiteStore(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
