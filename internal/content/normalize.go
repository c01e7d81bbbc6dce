package content

import (
	"fmt"
	"slices"
	"strings"
)

// nonParagraphTags never take part in paragraph grouping.
var nonParagraphTags = []string{"header", "title"}

// IsParagraphTag reports whether a tag with the given name may sit inside a paragraph.
func IsParagraphTag(name string) bool {
	return !slices.Contains(nonParagraphTags, name)
}

// Normalize runs the three normalizer passes in pipeline order.
func Normalize(s Stream) Stream {
	return InsertParagraphs(MergeSpans(CollapseNewlines(s)))
}

// CollapseNewlines reduces every run of two or more Newline tokens to a single
// Newline and drops isolated ones. Only blank lines separate paragraphs.
func CollapseNewlines(s Stream) Stream {
	mustBeValid("collapse newlines", s)

	out := make(Stream, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i].Kind != KindNewline {
			out = append(out, s[i])
			continue
		}
		run := 1
		for i+run < len(s) && s[i+run].Kind == KindNewline {
			run++
		}
		if run > 1 {
			out = append(out, Newline())
		}
		i += run - 1
	}
	return out
}

// MergeSpans joins each maximal run of Span tokens into one Span, separating
// the original texts with a single space.
func MergeSpans(s Stream) Stream {
	mustBeValid("merge spans", s)

	out := make(Stream, 0, len(s))
	var run []string
	flush := func() {
		if len(run) > 0 {
			out = append(out, Span(strings.Join(run, " ")))
			run = run[:0]
		}
	}
	for _, t := range s {
		if t.Kind == KindSpan {
			run = append(run, t.Text)
			continue
		}
		flush()
		out = append(out, t)
	}
	return out
}

// InsertParagraphs wraps prose and paragraph-compatible tags in
// StartParagraph/EndParagraph pairs. Newlines are consumed: past this pass
// they carry no meaning. The terminal EndOfInput is kept.
func InsertParagraphs(s Stream) Stream {
	mustBeValid("insert paragraphs", s)

	out := make(Stream, 0, len(s)+4)
	inParagraph := false
	open := func() {
		if !inParagraph {
			out = append(out, StartParagraph())
			inParagraph = true
		}
	}
	closeParagraph := func() {
		if inParagraph {
			out = append(out, EndParagraph())
			inParagraph = false
		}
	}

	for _, t := range s {
		switch t.Kind {
		case KindSpan:
			open()
			out = append(out, t)
		case KindTag:
			if IsParagraphTag(t.Name) {
				open()
			} else {
				closeParagraph()
			}
			out = append(out, t)
		case KindNewline:
			closeParagraph()
		case KindEndOfInput:
			closeParagraph()
			out = append(out, t)
		case KindStartParagraph, KindEndParagraph:
			out = append(out, t)
		default:
			panic(fmt.Sprintf("insert paragraphs: unknown token kind %s", t.Kind))
		}
	}
	return out
}
