package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"git.home.luguber.info/inful/hmmpress/internal/build"
	"github.com/natefinch/atomic"
)

// snapshotVersion is bumped when the snapshot layout changes incompatibly.
const snapshotVersion = 1

// ErrSnapshotStale is returned by Restore when the snapshot was written under
// a different content configuration.
var ErrSnapshotStale = errors.New("snapshot was written with a different configuration")

// Snapshot is a portable copy of a store's contents.
type Snapshot struct {
	Version   int       `json:"version"`
	WrittenAt time.Time `json:"written_at"`
	// ConfigHash identifies the content configuration the documents were
	// compiled under. Empty means unknown.
	ConfigHash string            `json:"config_hash,omitempty"`
	Documents  []*build.Document `json:"documents"`
	Roots      map[string]string `json:"roots"`
}

// WriteSnapshot writes docs and roots to path. The file is replaced
// atomically so readers never observe a partial snapshot.
func WriteSnapshot(path string, docs []*build.Document, roots map[string]string) error {
	return writeSnapshot(path, Snapshot{Documents: docs, Roots: roots})
}

func writeSnapshot(path string, snap Snapshot) error {
	snap.Version = snapshotVersion
	snap.WrittenAt = time.Now().UTC()
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write snapshot %s: %w", path, err)
	}
	return nil
}

// ReadSnapshot reads a snapshot written by WriteSnapshot.
func ReadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", path, err)
	}
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("snapshot %s has version %d, want %d", path, snap.Version, snapshotVersion)
	}
	return &snap, nil
}

// Export writes the current contents of store to path, tagged with configHash.
func Export(ctx context.Context, store Store, path, configHash string) error {
	docs, err := store.ListDocuments(ctx)
	if err != nil {
		return err
	}
	roots, err := store.ListRoots(ctx)
	if err != nil {
		return err
	}
	return writeSnapshot(path, Snapshot{ConfigHash: configHash, Documents: docs, Roots: roots})
}

// Restore loads the snapshot at path into store and returns the number of
// documents restored. When configHash is set and the snapshot carries a
// different one, nothing is loaded and ErrSnapshotStale is returned.
func Restore(ctx context.Context, store Store, path, configHash string) (int, error) {
	snap, err := ReadSnapshot(path)
	if err != nil {
		return 0, err
	}
	if configHash != "" && snap.ConfigHash != "" && snap.ConfigHash != configHash {
		return 0, ErrSnapshotStale
	}
	for id, dir := range snap.Roots {
		if err := store.PutRoot(ctx, id, dir); err != nil {
			return 0, err
		}
	}
	for _, doc := range snap.Documents {
		if err := store.PutDocument(ctx, doc.FileID, doc); err != nil {
			return 0, err
		}
	}
	return len(snap.Documents), nil
}
