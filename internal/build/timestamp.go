package build

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"git.home.luguber.info/inful/hmmpress/internal/content"
	ferrors "git.home.luguber.info/inful/hmmpress/internal/foundation/errors"
	"git.home.luguber.info/inful/hmmpress/internal/logfields"
)

const (
	tagTitle      = "title"
	attrTitle     = "title"
	attrTimestamp = "timestamp"
)

// CommitTimer looks up when a file was last committed. ok is false when the
// file has no history.
type CommitTimer interface {
	LastCommitTime(path string) (when time.Time, ok bool, err error)
}

// ResolveTimestamp picks a document timestamp in milliseconds since the epoch.
// In order of preference:
//
//  1. the timestamp attribute of the first title tag that carries one,
//  2. the file creation time,
//  3. the last commit time, when commits is non-nil.
//
// A malformed title timestamp is a parse error wrapping ErrBadTimestamp and is
// not recovered by the later steps. If nothing applies the result is a
// timestamp error wrapping ErrNoTimestamp.
func ResolveTimestamp(path string, tokens []content.PageToken, meta FileMeta, commits CommitTimer) (uint64, TimestampSource, error) {
	for _, tok := range tokens {
		if tok.Type != tagTitle {
			continue
		}
		raw, ok := tok.Attrs[attrTimestamp]
		if !ok {
			continue
		}
		ts, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return 0, "", ferrors.ParseError("invalid title timestamp").
				WithCause(fmt.Errorf("%w: %q: %w", ErrBadTimestamp, raw, err)).
				WithContext("file", path).
				Build()
		}
		return ts, TimestampFromTitle, nil
	}

	if meta.HasCreated && meta.CreatedAt.UnixMilli() >= 0 {
		return uint64(meta.CreatedAt.UnixMilli()), TimestampFromCreated, nil
	}

	if commits != nil {
		when, ok, err := commits.LastCommitTime(path)
		switch {
		case err != nil:
			slog.Warn("Commit time lookup failed", logfields.File(path), logfields.Error(err))
		case ok && when.UnixMilli() >= 0:
			return uint64(when.UnixMilli()), TimestampFromGit, nil
		}
	}

	return 0, "", ferrors.TimestampError("no timestamp available").
		WithCause(ErrNoTimestamp).
		WithContext("file", path).
		Build()
}

// ResolveTitle returns the title attribute of the first title tag, or fileID
// when that tag has no usable title.
func ResolveTitle(fileID string, tokens []content.PageToken) string {
	for _, tok := range tokens {
		if tok.Type != tagTitle {
			continue
		}
		if title := tok.Attrs[attrTitle]; title != "" && title != content.EmptyValue {
			return title
		}
		break
	}
	return fileID
}
