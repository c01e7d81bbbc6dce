package build

import (
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/hmmpress/internal/content"
	"git.home.luguber.info/inful/hmmpress/internal/logfields"
)

// AssetPrefix is the URL path segment under which document assets are served.
const AssetPrefix = "site-content"

const (
	tagImage  = "image"
	attrImage = "image"
	uriScheme = "://"
)

// AssetPath returns the site path of an asset referenced by a document.
func AssetPath(documentID, ref string) string {
	return AssetPrefix + "/" + documentID + "/" + ref
}

// ResolveAssetLinks rewrites relative image references to site asset paths.
// Values containing "://" are left exactly as written. tokens and their
// attribute maps are not modified; rewritten tokens get fresh maps.
// root is only consulted to log references that do not exist on disk.
func ResolveAssetLinks(tokens []content.PageToken, root, documentID string) []content.PageToken {
	out := make([]content.PageToken, len(tokens))
	for i, tok := range tokens {
		ref, ok := tok.Attrs[attrImage]
		if tok.Type != tagImage || !ok || strings.Contains(ref, uriScheme) {
			out[i] = tok
			continue
		}

		if escapesDocumentDir(ref) {
			slog.Warn("Asset reference leaves the document directory and cannot be served",
				logfields.DocumentID(documentID), slog.String("asset", ref))
		} else if root != "" {
			if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(ref))); err != nil {
				slog.Debug("Referenced asset not found", logfields.Path(root), slog.String("asset", ref))
			}
		}

		rewritten := tok.Clone()
		rewritten.Attrs[attrImage] = AssetPath(documentID, ref)
		out[i] = rewritten
	}
	return out
}

// escapesDocumentDir reports whether ref, resolved against the document's
// asset URL, would land outside that document's asset namespace.
func escapesDocumentDir(ref string) bool {
	if path.IsAbs(ref) {
		return true
	}
	cleaned := path.Clean(ref)
	return cleaned == ".." || strings.HasPrefix(cleaned, "../")
}
