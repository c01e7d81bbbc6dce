package httpserver

import (
	"bytes"
	"encoding/json"
	"io/fs"
	"net/http"
	"os"

	"git.home.luguber.info/inful/hmmpress/internal/build"
	ferrors "git.home.luguber.info/inful/hmmpress/internal/foundation/errors"
)

const htmlContentType = "text/html; charset=utf-8"

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	docs, ok := s.listDocuments(w, r)
	if !ok {
		return
	}
	s.writeHTML(w, r, func(buf *bytes.Buffer) error { return s.renderer.Index(buf, docs) })
}

func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request) {
	docs, ok := s.listDocuments(w, r)
	if !ok {
		return
	}
	s.writeHTML(w, r, func(buf *bytes.Buffer) error { return s.renderer.Archive(buf, docs) })
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	docs, ok := s.listDocuments(w, r)
	if !ok {
		return
	}
	for _, doc := range docs {
		if doc.DocumentID == id {
			s.writeHTML(w, r, func(buf *bytes.Buffer) error { return s.renderer.Page(buf, doc) })
			return
		}
	}
	s.errorAdapter.WriteErrorResponse(w, r, ferrors.NotFoundError("document not found").
		WithContext("document_id", id).
		Build())
}

// handleAsset serves a file from the source directory registered for the
// document. Paths that would leave that directory are reported as not found.
func (s *Server) handleAsset(w http.ResponseWriter, r *http.Request) {
	id, rel := r.PathValue("id"), r.PathValue("path")
	notFound := ferrors.NotFoundError("asset not found").
		WithContext("document_id", id).
		WithContext("path", rel).
		Build()

	dir, found, err := s.docs.GetRoot(r.Context(), id)
	if err != nil {
		s.errorAdapter.WriteErrorResponse(w, r, ferrors.StorageError("failed to look up document root").
			WithCause(err).
			WithContext("document_id", id).
			Build())
		return
	}
	if !found || !fs.ValidPath(rel) {
		s.errorAdapter.WriteErrorResponse(w, r, notFound)
		return
	}

	root, err := os.OpenRoot(dir)
	if err != nil {
		s.errorAdapter.WriteErrorResponse(w, r, notFound)
		return
	}
	defer func() { _ = root.Close() }()

	f, err := root.Open(rel)
	if err != nil {
		s.errorAdapter.WriteErrorResponse(w, r, notFound)
		return
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil || !info.Mode().IsRegular() {
		s.errorAdapter.WriteErrorResponse(w, r, notFound)
		return
	}
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := Health{Status: "ok"}
	if s.opts.Status != nil {
		health = s.opts.Status.Health(r.Context())
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(health); err != nil {
		s.errorAdapter.WriteErrorResponse(w, r, ferrors.InternalError("failed to encode health").WithCause(err).Build())
	}
}

func (s *Server) listDocuments(w http.ResponseWriter, r *http.Request) ([]*build.Document, bool) {
	docs, err := s.docs.ListDocuments(r.Context())
	if err != nil {
		s.errorAdapter.WriteErrorResponse(w, r, ferrors.StorageError("failed to list documents").WithCause(err).Build())
		return nil, false
	}
	return docs, true
}

// writeHTML renders into a buffer first so a template failure still yields a clean error response.
func (s *Server) writeHTML(w http.ResponseWriter, r *http.Request, fn func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		s.errorAdapter.WriteErrorResponse(w, r, ferrors.InternalError("failed to render page").WithCause(err).Build())
		return
	}
	w.Header().Set("Content-Type", htmlContentType)
	_, _ = w.Write(buf.Bytes())
}

