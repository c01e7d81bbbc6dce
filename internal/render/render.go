// Package render turns compiled documents into HTML pages.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"git.home.luguber.info/inful/hmmpress/internal/build"
	"git.home.luguber.info/inful/hmmpress/internal/config"
	"git.home.luguber.info/inful/hmmpress/internal/content"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page token types understood by the renderer. Anything else is skipped.
const (
	tokenTitle  = "title"
	tokenHeader = "header"
	tokenImage  = "image"
	tokenURL    = "url"
	tokenFooter = "footer"

	attrAlt  = "alt"
	attrText = "text"

	dateLayout = "2006-01-02"
)

// Renderer executes the embedded site templates.
type Renderer struct {
	tmpl *template.Template
	site config.SiteConfig
}

// New parses the embedded templates.
func New(site config.SiteConfig) (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl, site: site}, nil
}

// node is one renderable element, flattened from a page token.
type node struct {
	Kind       string
	Text       string
	Src        string
	Alt        string
	Href       string
	Date       string
	DocumentID string
}

type entry struct {
	ID    string
	Title string
	Date  string
}

type pageData struct {
	SiteTitle string
	PageTitle string
	Nodes     []node
	Entries   []entry
}

// Index renders every document in the given order. When the site footer is
// enabled a footer separates consecutive documents.
func (r *Renderer) Index(w io.Writer, docs []*build.Document) error {
	var nodes []node
	for i, doc := range docs {
		if i > 0 && r.site.Footer {
			nodes = append(nodes, node{Kind: tokenFooter})
		}
		nodes = append(nodes, nodesFor(doc)...)
	}
	return r.execute(w, "index.html", pageData{SiteTitle: r.site.Title, Nodes: nodes})
}

// Page renders a single document.
func (r *Renderer) Page(w io.Writer, doc *build.Document) error {
	return r.execute(w, "page.html", pageData{
		SiteTitle: r.site.Title,
		PageTitle: doc.Title,
		Nodes:     nodesFor(doc),
	})
}

// Archive renders a list of document titles and dates.
func (r *Renderer) Archive(w io.Writer, docs []*build.Document) error {
	entries := make([]entry, 0, len(docs))
	for _, doc := range docs {
		entries = append(entries, entry{ID: doc.DocumentID, Title: doc.Title, Date: FormatDate(doc.Timestamp)})
	}
	return r.execute(w, "archive.html", pageData{
		SiteTitle: r.site.Title,
		PageTitle: "Archive",
		Entries:   entries,
	})
}

func (r *Renderer) execute(w io.Writer, name string, data pageData) error {
	if err := r.tmpl.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return nil
}

// nodesFor maps a document's page tokens onto renderable nodes.
func nodesFor(doc *build.Document) []node {
	out := make([]node, 0, len(doc.Tokens))
	for _, tok := range doc.Tokens {
		n, ok := toNode(doc, tok)
		if ok {
			out = append(out, n)
		}
	}
	return out
}

func toNode(doc *build.Document, tok content.PageToken) (node, bool) {
	switch tok.Type {
	case content.TypeParagraphStart, content.TypeParagraphEnd:
		return node{Kind: tok.Type}, true
	case content.TypeSpan:
		return node{Kind: "text", Text: tok.Attrs[content.AttrText]}, true
	case tokenTitle:
		return node{
			Kind:       tokenTitle,
			Text:       attrOr(tok, tokenTitle, doc.Title),
			Date:       FormatDate(doc.Timestamp),
			DocumentID: doc.DocumentID,
		}, true
	case tokenHeader:
		return node{Kind: tokenHeader, Text: attrOr(tok, tokenHeader, "")}, true
	case tokenImage:
		src, ok := tok.Attr(tokenImage)
		if !ok || src == content.EmptyValue {
			return node{}, false
		}
		return node{Kind: tokenImage, Src: assetURL(src), Alt: attrOr(tok, attrAlt, "")}, true
	case tokenURL:
		href, ok := tok.Attr(tokenURL)
		if !ok || href == content.EmptyValue {
			return node{}, false
		}
		return node{Kind: "link", Href: href, Text: attrOr(tok, attrText, href)}, true
	case tokenFooter:
		return node{Kind: tokenFooter}, true
	default:
		return node{}, false
	}
}

func attrOr(tok content.PageToken, key, fallback string) string {
	v, ok := tok.Attr(key)
	if !ok || v == content.EmptyValue {
		return fallback
	}
	return v
}

// assetURL makes a resolved site-content path absolute so it works from any route.
func assetURL(src string) string {
	if strings.HasPrefix(src, build.AssetPrefix) {
		return "/" + src
	}
	return src
}

// FormatDate renders a millisecond timestamp as a UTC calendar date.
func FormatDate(ms uint64) string {
	if ms == 0 {
		return ""
	}
	return time.UnixMilli(int64(ms)).UTC().Format(dateLayout)
}
