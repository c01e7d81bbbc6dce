package docs

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"

	"golang.org/x/text/unicode/norm"
)

// identifierLength is the number of hex characters kept from the path digest.
const identifierLength = 16

// DocumentID derives the stable identifier of a source file from its path.
// The path is cleaned and NFC-normalized first so that decomposed file names
// map to the same identifier as their precomposed form.
func DocumentID(path string) string {
	canonical := norm.NFC.String(filepath.ToSlash(filepath.Clean(path)))
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])[:identifierLength]
}
