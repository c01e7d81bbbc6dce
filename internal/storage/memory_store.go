package storage

import (
	"context"
	"maps"
	"sync"

	"git.home.luguber.info/inful/hmmpress/internal/build"
)

// MemoryStore is an in-process Store. Documents are copied on the way in and
// on the way out so callers never share attribute maps with the cache.
type MemoryStore struct {
	mu    sync.RWMutex
	docs  map[string]*build.Document
	roots map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs:  make(map[string]*build.Document),
		roots: make(map[string]string),
	}
}

func (m *MemoryStore) PutDocument(_ context.Context, fileID string, doc *build.Document) error {
	cp := doc.Clone()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[fileID] = cp
	return nil
}

func (m *MemoryStore) GetDocument(_ context.Context, fileID string) (*build.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[fileID]
	if !ok {
		return nil, ErrNotFound{FileID: fileID}
	}
	return doc.Clone(), nil
}

func (m *MemoryStore) DeleteDocument(_ context.Context, fileID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, fileID)
	return nil
}

func (m *MemoryStore) ListDocuments(context.Context) ([]*build.Document, error) {
	m.mu.RLock()
	out := make([]*build.Document, 0, len(m.docs))
	for _, doc := range m.docs {
		out = append(out, doc.Clone())
	}
	m.mu.RUnlock()

	sortDocuments(out)
	return out, nil
}

func (m *MemoryStore) PutRoot(_ context.Context, documentID, dir string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roots[documentID] = dir
	return nil
}

func (m *MemoryStore) GetRoot(_ context.Context, documentID string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	dir, ok := m.roots[documentID]
	return dir, ok, nil
}

func (m *MemoryStore) ListRoots(context.Context) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.roots), nil
}

func (m *MemoryStore) Close() error { return nil }
