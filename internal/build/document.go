package build

import (
	"sort"

	"git.home.luguber.info/inful/hmmpress/internal/content"
)

// TimestampSource records which policy step produced a document's timestamp.
type TimestampSource string

const (
	TimestampFromTitle   TimestampSource = "title"
	TimestampFromCreated TimestampSource = "created"
	TimestampFromGit     TimestampSource = "git"
)

// Document is the compiled, render-ready form of one source file.
// Documents are not mutated after assembly.
type Document struct {
	FileID          string              `json:"file_id"`
	DocumentID      string              `json:"document_id"`
	Title           string              `json:"title"`
	Timestamp       uint64              `json:"timestamp"`
	TimestampSource TimestampSource     `json:"timestamp_source"`
	Fingerprint     string              `json:"fingerprint"`
	Root            string              `json:"root"`
	Tokens          []content.PageToken `json:"tokens"`
}

// Same reports whether both documents have the same file identifier and timestamp.
func (d *Document) Same(other *Document) bool {
	if d == nil || other == nil {
		return d == other
	}
	return d.FileID == other.FileID && d.Timestamp == other.Timestamp
}

// NewerThan orders documents newest first.
func (d *Document) NewerThan(other *Document) bool {
	return d.Timestamp > other.Timestamp
}

// Clone returns a deep copy whose token attribute maps are independent of d.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	cp := *d
	if d.Tokens != nil {
		cp.Tokens = make([]content.PageToken, len(d.Tokens))
		for i, tok := range d.Tokens {
			cp.Tokens[i] = tok.Clone()
		}
	}
	return &cp
}

// SortNewestFirst sorts docs by descending timestamp. Documents with equal
// timestamps keep their relative order.
func SortNewestFirst(docs []*Document) {
	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].NewerThan(docs[j])
	})
}
