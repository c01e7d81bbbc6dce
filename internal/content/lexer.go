package content

import (
	"strings"
	"unicode/utf8"
)

const (
	tagMarker = '#'
	tagOpen   = '['
	tagClose  = ']'
	argSep    = "|"
	keySep    = ":"
)

// lexer holds the state of a single scan over a document.
type lexer struct {
	src    string
	pos    int // byte offset of the next rune
	span   strings.Builder
	tokens Stream
}

// Lex converts raw document text into a valid primitive token stream.
//
// Lines of prose become Span tokens, line breaks become Newline tokens and
// #[...] directives become Tag tokens. A '#' that does not open a tag is
// dropped together with the rune that follows it. Input ending right after
// '#' or inside an open tag is malformed and reported as a *SyntaxError.
func Lex(text string) (Stream, error) {
	l := &lexer{src: text}
	for l.pos < len(l.src) {
		r, size := l.next()
		switch r {
		case '\n':
			l.flushSpan()
			l.tokens = append(l.tokens, Newline())
		case '\r':
			// dropped
		case tagMarker:
			if err := l.lexTag(l.pos - size); err != nil {
				return nil, err
			}
		default:
			if r == utf8.RuneError && size == 1 {
				// keep invalid bytes as they are
				l.span.WriteByte(l.src[l.pos-1])
				continue
			}
			l.span.WriteRune(r)
		}
	}
	l.flushSpan()
	l.tokens = append(l.tokens, EndOfInput())
	return l.tokens, nil
}

func (l *lexer) next() (rune, int) {
	r, size := utf8.DecodeRuneInString(l.src[l.pos:])
	l.pos += size
	return r, size
}

// lexTag handles the text following a '#' found at offset start.
func (l *lexer) lexTag(start int) error {
	if l.pos >= len(l.src) {
		return &SyntaxError{Offset: start, Err: ErrUnexpectedEOF}
	}
	if l.src[l.pos] != tagOpen {
		// Not a tag: the marker and the rune after it are both dropped.
		_, size := utf8.DecodeRuneInString(l.src[l.pos:])
		l.pos += size
		return nil
	}
	l.pos++
	end := strings.IndexByte(l.src[l.pos:], tagClose)
	if end < 0 {
		return &SyntaxError{Offset: start, Err: ErrUnterminatedTag}
	}
	l.flushSpan()
	args := l.src[l.pos : l.pos+end]
	l.pos += end + 1
	l.tokens = append(l.tokens, Tag(TagName(args), args))
	return nil
}

// flushSpan emits the pending span unless it is blank, then resets it.
func (l *lexer) flushSpan() {
	if strings.TrimSpace(l.span.String()) != "" {
		l.tokens = append(l.tokens, Span(l.span.String()))
	}
	l.span.Reset()
}

// TagName derives a tag's name from its raw argument string: the first
// ':'-separated component of the first '|'-separated segment.
func TagName(args string) string {
	if args == "" {
		return args
	}
	first, _, _ := strings.Cut(args, argSep)
	name, _, _ := strings.Cut(first, keySep)
	return name
}
