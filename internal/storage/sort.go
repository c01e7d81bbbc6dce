package storage

import (
	"sort"

	"git.home.luguber.info/inful/hmmpress/internal/build"
)

// sortDocuments orders newest first. Ties are broken by file identifier so
// every backend lists documents in the same order.
func sortDocuments(docs []*build.Document) {
	sort.Slice(docs, func(i, j int) bool {
		if docs[i].Timestamp != docs[j].Timestamp {
			return docs[i].NewerThan(docs[j])
		}
		return docs[i].FileID < docs[j].FileID
	})
}
