// Package content implements the markup dialect front end: the lexer that turns
// raw document text into primitive tokens, the normalizer passes that reshape
// those tokens, and the projector that flattens them into page tokens.
package content

import (
	"fmt"
	"strings"
)

// Kind identifies the variant of a primitive Token.
type Kind uint8

const (
	KindEndOfInput     Kind = iota // terminal sentinel, always last
	KindTag                        // #[name:value|...]
	KindSpan                       // literal prose
	KindNewline                    // single source line break
	KindStartParagraph             // synthesized by InsertParagraphs
	KindEndParagraph               // synthesized by InsertParagraphs
)

func (k Kind) String() string {
	switch k {
	case KindEndOfInput:
		return "EndOfInput"
	case KindTag:
		return "Tag"
	case KindSpan:
		return "Span"
	case KindNewline:
		return "Newline"
	case KindStartParagraph:
		return "StartParagraph"
	case KindEndParagraph:
		return "EndParagraph"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Token is a primitive token. Only the fields relevant to Kind are set:
// Name and Args for KindTag, Text for KindSpan.
type Token struct {
	Kind Kind
	Name string
	Args string
	Text string
}

// Tag returns a structural tag token carrying its unparsed argument string.
func Tag(name, args string) Token { return Token{Kind: KindTag, Name: name, Args: args} }

// Span returns a literal text token.
func Span(text string) Token { return Token{Kind: KindSpan, Text: text} }

func Newline() Token        { return Token{Kind: KindNewline} }
func StartParagraph() Token { return Token{Kind: KindStartParagraph} }
func EndParagraph() Token   { return Token{Kind: KindEndParagraph} }
func EndOfInput() Token     { return Token{Kind: KindEndOfInput} }

func (t Token) String() string {
	switch t.Kind {
	case KindTag:
		return fmt.Sprintf("Tag(%q, %q)", t.Name, t.Args)
	case KindSpan:
		return fmt.Sprintf("Span(%q)", t.Text)
	default:
		return t.Kind.String()
	}
}

// Stream is an ordered primitive token sequence.
type Stream []Token

// Valid reports whether the stream ends with exactly one trailing EndOfInput.
func (s Stream) Valid() bool {
	return len(s) > 0 && s[len(s)-1].Kind == KindEndOfInput
}

func (s Stream) String() string {
	parts := make([]string, len(s))
	for i, t := range s {
		parts[i] = t.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// mustBeValid guards every normalizer pass. An invalid stream can only come
// from a bug in the pipeline itself, never from document content.
func mustBeValid(pass string, s Stream) {
	if !s.Valid() {
		panic(fmt.Errorf("%s: %w", pass, ErrInvalidStream))
	}
}

// PageToken is a flat, renderer-facing record: a type name plus string attributes.
type PageToken struct {
	Type  string            `json:"type"`
	Attrs map[string]string `json:"attrs"`
}

// Attr returns the named attribute and whether it was present.
func (p PageToken) Attr(key string) (string, bool) {
	v, ok := p.Attrs[key]
	return v, ok
}

// Clone returns a copy whose attribute map can be modified independently.
func (p PageToken) Clone() PageToken {
	attrs := make(map[string]string, len(p.Attrs))
	for k, v := range p.Attrs {
		attrs[k] = v
	}
	return PageToken{Type: p.Type, Attrs: attrs}
}
