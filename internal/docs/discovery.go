// Package docs locates source documents and derives their stable identifiers.
package docs

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	derrors "git.home.luguber.info/inful/hmmpress/internal/docs/errors"
	"git.home.luguber.info/inful/hmmpress/internal/logfields"
)

// Enumerate returns the paths of all regular files under root whose extension
// matches ext (case-insensitive, with or without the leading dot). Hidden
// directories are skipped. When recursive is false only root itself is read.
// The result is sorted so compilation order is deterministic.
func Enumerate(root, ext string, recursive bool) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", derrors.ErrContentRootNotFound, root)
		}
		return nil, fmt.Errorf("%w: %s: %w", derrors.ErrContentWalkFailed, root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", derrors.ErrContentRootNotDir, root)
	}

	want := normalizeExt(ext)
	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == root {
				return nil
			}
			if !recursive || strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), want) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", derrors.ErrContentWalkFailed, root, err)
	}

	sort.Strings(files)
	slog.Debug("Content files discovered", logfields.Path(root), logfields.Count(len(files)))
	return files, nil
}

func normalizeExt(ext string) string {
	if ext == "" || strings.HasPrefix(ext, ".") {
		return ext
	}
	return "." + ext
}
