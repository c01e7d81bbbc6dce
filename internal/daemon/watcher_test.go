package daemon

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type changeRecorder struct {
	mu    sync.Mutex
	paths []string
}

func (c *changeRecorder) record(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paths = append(c.paths, path)
}

func (c *changeRecorder) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.paths)
}

func startWatcher(t *testing.T, root string, debounce time.Duration) *changeRecorder {
	t.Helper()
	rec := &changeRecorder{}
	w, err := NewWatcher(root, debounce, rec.record)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return rec
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	root := t.TempDir()
	rec := startWatcher(t, root, 100*time.Millisecond)

	for i := range 5 {
		require.NoError(t, os.WriteFile(filepath.Join(root, "post.hmm"), []byte{byte('a' + i)}, 0o600))
		time.Sleep(10 * time.Millisecond)
	}

	require.Eventually(t, func() bool { return rec.count() == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(250 * time.Millisecond)
	assert.Equal(t, 1, rec.count())
}

func TestWatcher_WatchesNewDirectories(t *testing.T) {
	root := t.TempDir()
	rec := startWatcher(t, root, 20*time.Millisecond)

	sub := filepath.Join(root, "2024")
	require.NoError(t, os.Mkdir(sub, 0o755))
	require.Eventually(t, func() bool { return rec.count() >= 1 }, 2*time.Second, 10*time.Millisecond)

	before := rec.count()
	// the new directory is registered asynchronously
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(sub, "nested.hmm"), []byte("x"), 0o600))
	require.Eventually(t, func() bool { return rec.count() > before }, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_IgnoresHiddenAndSwapFiles(t *testing.T) {
	root := t.TempDir()
	rec := startWatcher(t, root, 20*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(root, ".hidden"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "post.hmm.swp"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "post.hmm~"), []byte("x"), 0o600))
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, 0, rec.count())
}

func TestWatcher_MissingRoot(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "absent"), time.Second, func(string) {})
	require.Error(t, err)
}

func TestShouldIgnoreEvent(t *testing.T) {
	cases := map[string]bool{
		"/c/post.hmm":      false,
		"/c/.post.hmm.swx": true,
		"/c/post.hmm.swp":  true,
		"/c/#post.hmm#":    true,
		"/c/post.hmm~":     true,
		"/c/Thumbs.db":     true,
		"/c/img/photo.png": false,
	}
	for path, want := range cases {
		assert.Equal(t, want, shouldIgnoreEvent(path), path)
	}
}
