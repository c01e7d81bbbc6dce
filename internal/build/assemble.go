package build

import (
	"context"
	"errors"
	"path/filepath"

	"git.home.luguber.info/inful/hmmpress/internal/content"
	"git.home.luguber.info/inful/hmmpress/internal/docs"
	ferrors "git.home.luguber.info/inful/hmmpress/internal/foundation/errors"
	"github.com/inful/mdfp"
)

// RootRegistry records the source directory each document's assets live in.
type RootRegistry interface {
	PutRoot(ctx context.Context, documentID, dir string) error
}

// Assembler compiles a single source file into a Document.
type Assembler struct {
	source  Source
	roots   RootRegistry
	commits CommitTimer
}

// NewAssembler creates an Assembler reading from source and registering
// document roots in roots. A nil source reads from the local filesystem.
func NewAssembler(source Source, roots RootRegistry) *Assembler {
	if source == nil {
		source = OSSource{}
	}
	return &Assembler{source: source, roots: roots}
}

// WithCommitTimer enables the last-commit timestamp fallback.
func (a *Assembler) WithCommitTimer(commits CommitTimer) *Assembler {
	a.commits = commits
	return a
}

// Assemble reads, compiles and dates the document at path.
func (a *Assembler) Assemble(ctx context.Context, path string) (*Document, error) {
	text, meta, err := a.source.Read(path)
	if err != nil {
		return nil, ferrors.FileSystemError("failed to read source document").
			WithCause(err).
			WithContext("file", path).
			Build()
	}

	tokens, err := Compile(text)
	if err != nil {
		return nil, parseError(path, err)
	}

	id := docs.DocumentID(path)
	root := filepath.Dir(path)
	tokens = ResolveAssetLinks(tokens, root, id)

	if a.roots != nil {
		if err := a.roots.PutRoot(ctx, id, root); err != nil {
			return nil, ferrors.StorageError("failed to register document root").
				WithCause(err).
				WithContext("file", path).
				WithContext("document_id", id).
				Build()
		}
	}

	ts, source, err := ResolveTimestamp(path, tokens, meta, a.commits)
	if err != nil {
		return nil, err
	}

	return &Document{
		FileID:          path,
		DocumentID:      id,
		Title:           ResolveTitle(path, tokens),
		Timestamp:       ts,
		TimestampSource: source,
		Fingerprint:     mdfp.CalculateFingerprintFromParts("", text),
		Root:            root,
		Tokens:          tokens,
	}, nil
}

// Compile runs the content pipeline over text and returns its page tokens.
func Compile(text string) ([]content.PageToken, error) {
	stream, err := content.Lex(text)
	if err != nil {
		return nil, err
	}
	return content.Project(content.Normalize(stream))
}

func parseError(path string, err error) error {
	b := ferrors.ParseError("malformed document").
		WithCause(err).
		WithContext("file", path)

	var syntaxErr *content.SyntaxError
	if errors.As(err, &syntaxErr) {
		b.WithContext("offset", syntaxErr.Offset)
	}
	var tagErr *content.TagError
	if errors.As(err, &tagErr) {
		b.WithContext("tag", tagErr.Tag).WithContext("segment", tagErr.Segment)
	}
	return b.Build()
}
