package content

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLex_HeaderBetweenParagraphs(t *testing.T) {
	got, err := Lex("Hello world\n\n#[header:Intro]\nMore text\n")
	require.NoError(t, err)

	want := Stream{
		Span("Hello world"),
		Newline(),
		Newline(),
		Tag("header", "header:Intro"),
		Newline(),
		Span("More text"),
		Newline(),
		EndOfInput(),
	}
	assert.Equal(t, want, got)
	assert.True(t, got.Valid())
}

func TestLex_Cases(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Stream
	}{
		{"empty input", "", Stream{EndOfInput()}},
		{"blank lines only", "  \n\t\n", Stream{Newline(), Newline(), EndOfInput()}},
		{"carriage returns dropped", "a\r\nb", Stream{Span("a"), Newline(), Span("b"), EndOfInput()}},
		{"span flushed before tag", "see #[image:a.png] here", Stream{
			Span("see "), Tag("image", "image:a.png"), Span(" here"), EndOfInput(),
		}},
		{"tag name from first segment", "#[title:Post|timestamp:42]", Stream{
			Tag("title", "title:Post|timestamp:42"), EndOfInput(),
		}},
		{"tag without value", "#[footer]", Stream{Tag("footer", "footer"), EndOfInput()}},
		{"empty tag", "#[]", Stream{Tag("", ""), EndOfInput()}},
		{"stray marker drops next rune", "issue #12", Stream{Span("issue 2"), EndOfInput()}},
		{"stray marker swallows newline", "a#\nb", Stream{Span("ab"), EndOfInput()}},
		{"stray marker drops multibyte rune", "x#ébc", Stream{Span("xbc"), EndOfInput()}},
		{"doubled marker consumes the second", "##[footer]", Stream{Span("[footer]"), EndOfInput()}},
		{"tag arguments verbatim", "#[url:http://x#y|text:a b]", Stream{
			Tag("url", "url:http://x#y|text:a b"), EndOfInput(),
		}},
		{"unicode preserved", "héllo wörld", Stream{Span("héllo wörld"), EndOfInput()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Lex(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLex_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		err    error
		offset int
	}{
		{"marker at end of input", "text #", ErrUnexpectedEOF, 5},
		{"unterminated tag", "ok\n#[image:a.png", ErrUnterminatedTag, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Lex(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.err)

			var syn *SyntaxError
			require.True(t, errors.As(err, &syn))
			assert.Equal(t, tt.offset, syn.Offset)
		})
	}
}

func TestTagName(t *testing.T) {
	assert.Equal(t, "image", TagName("image:photo.png"))
	assert.Equal(t, "title", TagName("title:A|timestamp:1"))
	assert.Equal(t, "hr", TagName("hr|class:x"))
	assert.Equal(t, "", TagName(""))
	assert.Equal(t, "", TagName(":value"))
}
