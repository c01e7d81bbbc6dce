package content

import (
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedEOF indicates input ended directly after a '#' tag marker.
	ErrUnexpectedEOF = errors.New("unexpected end of input after tag marker")

	// ErrUnterminatedTag indicates a '#[' tag without a closing ']'.
	ErrUnterminatedTag = errors.New("unterminated tag")

	// ErrTooManyColons indicates a tag argument segment with more than one ':'.
	ErrTooManyColons = errors.New("too many ':' in tag argument")

	// ErrInvalidStream indicates a token stream without a terminal EndOfInput.
	// Normalizer passes panic with it; it is never caused by document content.
	ErrInvalidStream = errors.New("token stream does not end with EndOfInput")
)

// SyntaxError reports malformed markup found by the lexer.
type SyntaxError struct {
	Offset int // byte offset of the offending tag marker
	Err    error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("offset %d: %v", e.Offset, e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// TagError reports a tag whose arguments cannot be projected.
type TagError struct {
	Tag     string
	Segment string
	Err     error
}

func (e *TagError) Error() string {
	return fmt.Sprintf("tag %q: segment %q: %v", e.Tag, e.Segment, e.Err)
}

func (e *TagError) Unwrap() error { return e.Err }
