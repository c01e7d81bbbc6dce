package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"git.home.luguber.info/inful/hmmpress/internal/build"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_ExportRestore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "snapshot.json")

	src := NewMemoryStore()
	require.NoError(t, src.PutDocument(ctx, "a.hmm", testDoc("a.hmm", 10)))
	require.NoError(t, src.PutDocument(ctx, "b.hmm", testDoc("b.hmm", 20)))
	require.NoError(t, src.PutRoot(ctx, "id-a.hmm", "/a"))
	require.NoError(t, Export(ctx, src, path, "cfg-1"))

	dst, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer dst.Close()

	n, err := Restore(ctx, dst, path, "cfg-1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	want, err := src.ListDocuments(ctx)
	require.NoError(t, err)
	got, err := dst.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	dir, ok, err := dst.GetRoot(ctx, "id-a.hmm")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "/a", dir)
}

func TestSnapshot_Overwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, WriteSnapshot(path, nil, nil))
	require.NoError(t, WriteSnapshot(path, []*build.Document{testDoc("a.hmm", 1)}, map[string]string{"x": "/x"}))

	snap, err := ReadSnapshot(path)
	require.NoError(t, err)
	require.Len(t, snap.Documents, 1)
	assert.Equal(t, "/x", snap.Roots["x"])
}

func TestReadSnapshot_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadSnapshot(filepath.Join(dir, "missing.json"))
	assert.True(t, os.IsNotExist(err))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o644))
	_, err = ReadSnapshot(bad)
	assert.Error(t, err)

	future := filepath.Join(dir, "future.json")
	require.NoError(t, os.WriteFile(future, []byte(`{"version": 99}`), 0o644))
	_, err = ReadSnapshot(future)
	assert.ErrorContains(t, err, "version 99")
}

func TestSnapshot_StaleConfig(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "snapshot.json")

	src := NewMemoryStore()
	require.NoError(t, src.PutDocument(ctx, "a.hmm", testDoc("a.hmm", 10)))
	require.NoError(t, Export(ctx, src, path, "old"))

	dst := NewMemoryStore()
	n, err := Restore(ctx, dst, path, "new")
	require.ErrorIs(t, err, ErrSnapshotStale)
	assert.Zero(t, n)
	docs, err := dst.ListDocuments(ctx)
	require.NoError(t, err)
	assert.Empty(t, docs)

	n, err = Restore(ctx, dst, path, "")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
