package build

import (
	"os"
	"time"
)

// FileMeta carries the filesystem facts the assembler needs about a source.
type FileMeta struct {
	CreatedAt  time.Time
	HasCreated bool
	ModTime    time.Time
	Size       int64
}

// Source reads source documents.
type Source interface {
	Read(path string) (string, FileMeta, error)
}

// OSSource reads documents from the local filesystem. Creation time is taken
// from the file's birth time where the platform reports one.
type OSSource struct{}

func (OSSource) Read(path string) (string, FileMeta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", FileMeta{}, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", FileMeta{}, err
	}

	meta := FileMeta{ModTime: info.ModTime(), Size: info.Size()}
	meta.CreatedAt, meta.HasCreated = birthTime(path, info)
	return string(data), meta, nil
}
