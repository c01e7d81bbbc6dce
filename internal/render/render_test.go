package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"git.home.luguber.info/inful/hmmpress/internal/build"
	"git.home.luguber.info/inful/hmmpress/internal/config"
	"git.home.luguber.info/inful/hmmpress/internal/content"
)

func tok(typ string, kv ...string) content.PageToken {
	attrs := map[string]string{}
	for i := 0; i+1 < len(kv); i += 2 {
		attrs[kv[i]] = kv[i+1]
	}
	return content.PageToken{Type: typ, Attrs: attrs}
}

func sampleDoc(id, title string, ts uint64) *build.Document {
	return &build.Document{
		FileID:     id + ".hmm",
		DocumentID: id,
		Title:      title,
		Timestamp:  ts,
		Tokens: []content.PageToken{
			tok("title", "title", title),
			tok(content.TypeParagraphStart),
			tok(content.TypeSpan, content.AttrText, "Hello <world>"),
			tok(content.TypeParagraphEnd),
			tok("header", "header", "Intro"),
			tok(content.TypeParagraphStart),
			tok("image", "image", "site-content/"+id+"/photo.png", "alt", "A photo"),
			tok(content.TypeParagraphEnd),
			tok(content.TypeParagraphStart),
			tok("url", "url", "https://example.com", "text", "example"),
			tok(content.TypeParagraphEnd),
			tok("sparkle", "sparkle", "yes"),
		},
	}
}

func newRenderer(t *testing.T, footer bool) *Renderer {
	t.Helper()
	r, err := New(config.SiteConfig{Title: "Thoughts & Feelings", Footer: footer})
	require.NoError(t, err)
	return r
}

func parse(t *testing.T, b []byte) *html.Node {
	t.Helper()
	doc, err := html.Parse(bytes.NewReader(b))
	require.NoError(t, err)
	return doc
}

func findAll(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func text(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}

func TestPage_MapsTokensToElements(t *testing.T) {
	r := newRenderer(t, true)
	var buf bytes.Buffer
	require.NoError(t, r.Page(&buf, sampleDoc("abc123", "First post", 1_600_000_000_000)))
	doc := parse(t, buf.Bytes())

	titles := findAll(doc, "title")
	require.Len(t, titles, 1)
	assert.Equal(t, "First post | Thoughts & Feelings", text(titles[0]))

	h1 := findAll(doc, "h1")
	require.Len(t, h1, 1)
	assert.Equal(t, "First post", text(h1[0]))

	h2 := findAll(doc, "h2")
	require.Len(t, h2, 1)
	assert.Equal(t, "Intro", text(h2[0]))

	paras := findAll(doc, "p")
	require.Len(t, paras, 3)
	assert.Equal(t, "Hello <world>", text(paras[0]))

	imgs := findAll(doc, "img")
	require.Len(t, imgs, 1)
	assert.Equal(t, "/site-content/abc123/photo.png", attr(imgs[0], "src"))
	assert.Equal(t, "A photo", attr(imgs[0], "alt"))

	var external *html.Node
	for _, a := range findAll(doc, "a") {
		if attr(a, "href") == "https://example.com" {
			external = a
		}
	}
	require.NotNil(t, external)
	assert.Equal(t, "example", text(external))

	times := findAll(doc, "time")
	require.Len(t, times, 1)
	assert.Equal(t, "2020-09-13", attr(times[0], "datetime"))

	assert.NotContains(t, buf.String(), "sparkle")
	assert.Contains(t, buf.String(), "Hello &lt;world&gt;")
}

func TestIndex_FooterBetweenDocuments(t *testing.T) {
	docs := []*build.Document{
		sampleDoc("b", "Newer", 2000),
		sampleDoc("a", "Older", 1000),
		sampleDoc("c", "Oldest", 500),
	}

	var buf bytes.Buffer
	require.NoError(t, newRenderer(t, true).Index(&buf, docs))
	doc := parse(t, buf.Bytes())
	assert.Len(t, findAll(doc, "hr"), 2)

	h1 := findAll(doc, "h1")
	require.Len(t, h1, 3)
	assert.Equal(t, "Newer", text(h1[0]))
	assert.Equal(t, "Oldest", text(h1[2]))

	buf.Reset()
	require.NoError(t, newRenderer(t, false).Index(&buf, docs))
	assert.Empty(t, findAll(parse(t, buf.Bytes()), "hr"))
}

func TestIndex_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newRenderer(t, true).Index(&buf, nil))
	assert.Empty(t, findAll(parse(t, buf.Bytes()), "h1"))
}

func TestArchive_ListsEntries(t *testing.T) {
	var buf bytes.Buffer
	docs := []*build.Document{sampleDoc("b", "Newer", 1_600_000_000_000), sampleDoc("a", "Older", 1000)}
	require.NoError(t, newRenderer(t, true).Archive(&buf, docs))
	doc := parse(t, buf.Bytes())

	items := findAll(doc, "li")
	require.Len(t, items, 2)
	links := findAll(items[0], "a")
	require.Len(t, links, 1)
	assert.Equal(t, "/page/b", attr(links[0], "href"))
	assert.Equal(t, "Newer", text(links[0]))
	assert.Equal(t, "1970-01-01", attr(findAll(items[1], "time")[0], "datetime"))
}

func TestNodes_SkipsUnsafeAndEmpty(t *testing.T) {
	d := &build.Document{Tokens: []content.PageToken{
		tok("image", "image", content.EmptyValue),
		tok("url", "url", "javascript:alert(1)"),
	}}
	var buf bytes.Buffer
	require.NoError(t, newRenderer(t, true).Page(&buf, d))
	out := parse(t, buf.Bytes())
	assert.Empty(t, findAll(out, "img"))
	for _, a := range findAll(out, "a") {
		assert.NotContains(t, attr(a, "href"), "javascript:")
	}
}

func TestFormatDate(t *testing.T) {
	assert.Empty(t, FormatDate(0))
	assert.Equal(t, "2020-09-13", FormatDate(1_600_000_000_000))
}
