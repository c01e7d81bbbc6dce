package build

import (
	"bytes"
	"log/slog"
	"testing"

	"git.home.luguber.info/inful/hmmpress/internal/content"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func projectTag(t *testing.T, args string) content.PageToken {
	t.Helper()
	tokens, err := Compile("#[" + args + "]")
	require.NoError(t, err)
	// image tags are wrapped in a paragraph
	require.Len(t, tokens, 3)
	return tokens[1]
}

func TestResolveAssetLinks_RelativeImage(t *testing.T) {
	tok := projectTag(t, "image:photo.png")
	assert.Equal(t, content.PageToken{Type: "image", Attrs: map[string]string{"image": "photo.png"}}, tok)

	out := ResolveAssetLinks([]content.PageToken{tok}, "", "abc123")
	require.Len(t, out, 1)
	assert.Equal(t, "site-content/abc123/photo.png", out[0].Attrs["image"])
	assert.Equal(t, "photo.png", tok.Attrs["image"], "input must not be mutated")
}

func TestResolveAssetLinks_QualifiedURIUnchanged(t *testing.T) {
	tok := projectTag(t, "image:https://example.com/x.png")
	out := ResolveAssetLinks([]content.PageToken{tok}, "", "abc123")
	assert.Equal(t, "https://example.com/x.png", out[0].Attrs["image"])
}

func TestResolveAssetLinks_OtherTokensUntouched(t *testing.T) {
	in := []content.PageToken{
		{Type: "para_start", Attrs: map[string]string{}},
		{Type: "span", Attrs: map[string]string{"text": "photo.png"}},
		{Type: "url", Attrs: map[string]string{"url": "photo.png"}},
		{Type: "image", Attrs: map[string]string{"alt": "no image attribute"}},
		{Type: "para_end", Attrs: map[string]string{}},
	}
	out := ResolveAssetLinks(in, t.TempDir(), "abc123")
	assert.Equal(t, in, out)
}

func TestAssetPath(t *testing.T) {
	assert.Equal(t, "site-content/id/img/a.png", AssetPath("id", "img/a.png"))
}

func TestEscapesDocumentDir(t *testing.T) {
	cases := map[string]bool{
		"photo.png":         false,
		"img/a.png":         false,
		"img/../a.png":      false,
		"./a.png":           false,
		"../img.png":        true,
		"img/../../x.png":   true,
		"..":                true,
		"/etc/passwd":       true,
		"..hidden/file.png": false,
	}
	for ref, want := range cases {
		assert.Equal(t, want, escapesDocumentDir(ref), ref)
	}
}

func TestResolveAssetLinks_WarnsOnEscapingReference(t *testing.T) {
	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	tok := projectTag(t, "image:../img.png")
	out := ResolveAssetLinks([]content.PageToken{tok}, "", "abc123")

	assert.Equal(t, "site-content/abc123/../img.png", out[0].Attrs["image"])
	assert.Contains(t, logs.String(), "leaves the document directory")
	assert.Contains(t, logs.String(), "asset=../img.png")

	logs.Reset()
	ResolveAssetLinks([]content.PageToken{projectTag(t, "image:img/a.png")}, "", "abc123")
	assert.NotContains(t, logs.String(), "leaves the document directory")
}
