package storage

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"git.home.luguber.info/inful/hmmpress/internal/build"
	"git.home.luguber.info/inful/hmmpress/internal/config"
	"git.home.luguber.info/inful/hmmpress/internal/content"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDoc(fileID string, ts uint64) *build.Document {
	return &build.Document{
		FileID:          fileID,
		DocumentID:      "id-" + fileID,
		Title:           "Title " + fileID,
		Timestamp:       ts,
		TimestampSource: build.TimestampFromTitle,
		Fingerprint:     "fp-" + fileID,
		Root:            "/content",
		Tokens: []content.PageToken{
			{Type: "para_start", Attrs: map[string]string{}},
			{Type: "span", Attrs: map[string]string{"text": "hello " + fileID}},
			{Type: "para_end", Attrs: map[string]string{}},
		},
	}
}

func backends(t *testing.T) map[string]func(t *testing.T) Store {
	return map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store { return NewMemoryStore() },
		"sqlite": func(t *testing.T) Store {
			s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "cache.db"))
			require.NoError(t, err)
			return s
		},
	}
}

func TestStore_Documents(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)
			defer s.Close()

			require.NoError(t, s.PutDocument(ctx, "a.hmm", testDoc("a.hmm", 100)))
			require.NoError(t, s.PutDocument(ctx, "b.hmm", testDoc("b.hmm", 300)))
			require.NoError(t, s.PutDocument(ctx, "c.hmm", testDoc("c.hmm", 200)))

			got, err := s.GetDocument(ctx, "a.hmm")
			require.NoError(t, err)
			assert.Equal(t, testDoc("a.hmm", 100), got)

			// upsert, last write wins
			updated := testDoc("a.hmm", 400)
			updated.Title = "Updated"
			require.NoError(t, s.PutDocument(ctx, "a.hmm", updated))

			list, err := s.ListDocuments(ctx)
			require.NoError(t, err)
			var order []string
			for _, d := range list {
				order = append(order, d.FileID)
			}
			assert.Equal(t, []string{"a.hmm", "b.hmm", "c.hmm"}, order)
			assert.Equal(t, "Updated", list[0].Title)

			require.NoError(t, s.DeleteDocument(ctx, "b.hmm"))
			require.NoError(t, s.DeleteDocument(ctx, "never-stored.hmm"))
			_, err = s.GetDocument(ctx, "b.hmm")
			assert.True(t, IsNotFound(err), "got %v", err)

			list, err = s.ListDocuments(ctx)
			require.NoError(t, err)
			assert.Len(t, list, 2)
		})
	}
}

func TestStore_TiesListedByFileID(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)
			defer s.Close()

			for _, id := range []string{"z.hmm", "m.hmm", "a.hmm"} {
				require.NoError(t, s.PutDocument(ctx, id, testDoc(id, 5)))
			}
			list, err := s.ListDocuments(ctx)
			require.NoError(t, err)
			require.Len(t, list, 3)
			assert.Equal(t, "a.hmm", list[0].FileID)
			assert.Equal(t, "z.hmm", list[2].FileID)
		})
	}
}

func TestStore_Roots(t *testing.T) {
	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)
			defer s.Close()

			_, ok, err := s.GetRoot(ctx, "abc")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.PutRoot(ctx, "abc", "/one"))
			require.NoError(t, s.PutRoot(ctx, "abc", "/two"))
			require.NoError(t, s.PutRoot(ctx, "def", "/three"))

			dir, ok, err := s.GetRoot(ctx, "abc")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "/two", dir)

			roots, err := s.ListRoots(ctx)
			require.NoError(t, err)
			assert.Equal(t, map[string]string{"abc": "/two", "def": "/three"}, roots)
		})
	}
}

func TestMemoryStore_CopiesDocuments(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	doc := testDoc("a.hmm", 1)
	require.NoError(t, s.PutDocument(ctx, "a.hmm", doc))

	doc.Tokens[1].Attrs["text"] = "mutated after put"
	got, err := s.GetDocument(ctx, "a.hmm")
	require.NoError(t, err)
	assert.Equal(t, "hello a.hmm", got.Tokens[1].Attrs["text"])

	got.Tokens[1].Attrs["text"] = "mutated after get"
	again, err := s.GetDocument(ctx, "a.hmm")
	require.NoError(t, err)
	assert.Equal(t, "hello a.hmm", again.Tokens[1].Attrs["text"])
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			id := string(rune('a'+i)) + ".hmm"
			_ = s.PutDocument(ctx, id, testDoc(id, uint64(i)))
			_ = s.PutRoot(ctx, id, "/dir")
		}()
		go func() {
			defer wg.Done()
			_, _ = s.ListDocuments(ctx)
			_, _, _ = s.GetRoot(ctx, "a.hmm")
		}()
	}
	wg.Wait()

	list, err := s.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 8)
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.PutDocument(ctx, "a.hmm", testDoc("a.hmm", 1)))
	require.NoError(t, s.PutRoot(ctx, "id-a.hmm", "/content"))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.GetDocument(ctx, "a.hmm")
	require.NoError(t, err)
	assert.Equal(t, testDoc("a.hmm", 1), got)
	dir, ok, err := s.GetRoot(ctx, "id-a.hmm")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "/content", dir)
}

func TestSQLiteStore_RejectsUnstorableTimestamp(t *testing.T) {
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer s.Close()

	err = s.PutDocument(context.Background(), "a.hmm", testDoc("a.hmm", 1<<63))
	require.Error(t, err)
}

func TestOpen(t *testing.T) {
	s, err := Open(config.CacheConfig{Backend: config.CacheBackendMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open(config.CacheConfig{Backend: config.CacheBackendSQLite, Path: filepath.Join(t.TempDir(), "x.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	_, err = Open(config.CacheConfig{Backend: "redis"})
	require.Error(t, err)
}

var (
	_ Store               = (*MemoryStore)(nil)
	_ Store               = (*SQLiteStore)(nil)
	_ build.DocumentStore = Store(nil)
	_ build.RootRegistry  = Store(nil)
)
