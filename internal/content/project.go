package content

import (
	"fmt"
	"strings"
)

// Page token type names produced by Project for non-tag tokens.
const (
	TypeSpan           = "span"
	TypeParagraphStart = "para_start"
	TypeParagraphEnd   = "para_end"

	// AttrText holds a span's text.
	AttrText = "text"

	// EmptyValue stands in for a tag argument given without a value.
	EmptyValue = "<empty>"

	uriSep = "://"
)

// Project converts normalized primitive tokens into page tokens, preserving
// order. Newline and EndOfInput produce nothing.
func Project(s Stream) ([]PageToken, error) {
	out := make([]PageToken, 0, len(s))
	for _, t := range s {
		switch t.Kind {
		case KindTag:
			attrs, err := ParseArgs(t.Name, t.Args)
			if err != nil {
				return nil, err
			}
			out = append(out, PageToken{Type: t.Name, Attrs: attrs})
		case KindSpan:
			out = append(out, PageToken{Type: TypeSpan, Attrs: map[string]string{AttrText: t.Text}})
		case KindStartParagraph:
			out = append(out, PageToken{Type: TypeParagraphStart, Attrs: map[string]string{}})
		case KindEndParagraph:
			out = append(out, PageToken{Type: TypeParagraphEnd, Attrs: map[string]string{}})
		case KindNewline, KindEndOfInput:
			// not renderable
		default:
			panic(fmt.Sprintf("project: unknown token kind %s", t.Kind))
		}
	}
	return out, nil
}

// ParseArgs splits a tag's raw argument string into its key/value attributes.
// Segments are separated by '|' and keys from values by a single ':'. A value
// holding a URI ("scheme://...") is taken verbatim; any other segment with
// more than one ':' yields a *TagError. A later duplicate key overwrites an
// earlier one.
func ParseArgs(name, args string) (map[string]string, error) {
	attrs := make(map[string]string)
	for _, seg := range strings.Split(args, argSep) {
		key, value, found := strings.Cut(seg, keySep)
		if !found {
			attrs[key] = EmptyValue
			continue
		}
		if strings.Contains(value, keySep) && !strings.Contains(value, uriSep) {
			return nil, &TagError{Tag: name, Segment: seg, Err: ErrTooManyColons}
		}
		attrs[key] = value
	}
	return attrs, nil
}
