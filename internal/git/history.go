package git

import (
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"git.home.luguber.info/inful/hmmpress/internal/logfields"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// History resolves last-commit times for files, caching opened repositories
// by the directory they were discovered from.
type History struct {
	mu    sync.Mutex
	repos map[string]*repoHandle
}

type repoHandle struct {
	repo *git.Repository
	root string
}

// NewHistory returns an empty History.
func NewHistory() *History {
	return &History{repos: make(map[string]*repoHandle)}
}

// LastCommitTime returns the committer time of the most recent commit that
// touched path. ok is false when path is not inside a repository, the
// repository has no commits yet, or the file was never committed.
func (h *History) LastCommitTime(path string) (time.Time, bool, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return time.Time{}, false, ClassifyGitError(err, "abs", path)
	}

	handle, err := h.open(filepath.Dir(abs))
	if err != nil || handle == nil {
		return time.Time{}, false, err
	}

	rel, err := filepath.Rel(handle.root, abs)
	if err != nil {
		return time.Time{}, false, ClassifyGitError(err, "rel", path)
	}
	rel = filepath.ToSlash(rel)

	iter, err := handle.repo.Log(&git.LogOptions{FileName: &rel, Order: git.LogOrderCommitterTime})
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, ClassifyGitError(err, "log", path)
	}
	defer iter.Close()

	commit, err := iter.Next()
	if errors.Is(err, io.EOF) {
		slog.Debug("File has no commit history", logfields.File(path))
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, ClassifyGitError(err, "log", path)
	}
	return commit.Committer.When, true, nil
}

func (h *History) open(dir string) (*repoHandle, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if handle, ok := h.repos[dir]; ok {
		return handle, nil
	}

	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		h.repos[dir] = nil
		return nil, nil
	}
	if err != nil {
		return nil, ClassifyGitError(err, "open", dir)
	}

	wt, err := repo.Worktree()
	if err != nil {
		// bare repositories have no files to date
		h.repos[dir] = nil
		return nil, nil
	}

	handle := &repoHandle{repo: repo, root: wt.Filesystem.Root()}
	h.repos[dir] = handle
	slog.Debug("Opened git repository for commit times", logfields.Path(handle.root))
	return handle, nil
}
