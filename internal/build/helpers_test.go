package build

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeSource serves documents by base name and optionally panics or fails.
type fakeSource struct {
	files map[string]fakeFile
}

type fakeFile struct {
	text  string
	meta  FileMeta
	err   error
	panic any
}

func (s fakeSource) Read(path string) (string, FileMeta, error) {
	f, ok := s.files[filepath.Base(path)]
	if !ok {
		return "", FileMeta{}, os.ErrNotExist
	}
	if f.panic != nil {
		panic(f.panic)
	}
	return f.text, f.meta, f.err
}

func created(ms int64) FileMeta {
	return FileMeta{CreatedAt: time.UnixMilli(ms), HasCreated: true}
}

// memStore is a minimal DocumentStore and RootRegistry for driver tests.
type memStore struct {
	mu      sync.Mutex
	docs    map[string]*Document
	roots   map[string]string
	putErr  error
	listErr error
}

func newMemStore() *memStore {
	return &memStore{docs: map[string]*Document{}, roots: map[string]string{}}
}

func (m *memStore) PutDocument(_ context.Context, fileID string, doc *Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	m.docs[fileID] = doc
	return nil
}

func (m *memStore) DeleteDocument(_ context.Context, fileID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, fileID)
	return nil
}

func (m *memStore) ListDocuments(context.Context) ([]*Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]*Document, 0, len(m.docs))
	for _, d := range m.docs {
		out = append(out, d)
	}
	SortNewestFirst(out)
	return out, nil
}

func (m *memStore) PutRoot(_ context.Context, id, dir string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roots[id] = dir
	return nil
}

func (m *memStore) fileIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.docs))
	for id := range m.docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

var errBoom = errors.New("boom")

// touch creates empty files so enumeration finds them.
func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), nil, 0o644))
	}
}
