// Package httpserver serves the compiled site over HTTP.
package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	ferrors "git.home.luguber.info/inful/hmmpress/internal/foundation/errors"
	"git.home.luguber.info/inful/hmmpress/internal/logfields"
	"git.home.luguber.info/inful/hmmpress/internal/render"
	smw "git.home.luguber.info/inful/hmmpress/internal/server/middleware"
)

const (
	readHeaderTimeout = 10 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 2 * time.Minute
)

// Server serves the site pages, assets, health and metrics endpoints.
type Server struct {
	docs         DocumentReader
	renderer     *render.Renderer
	opts         Options
	errorAdapter *ferrors.HTTPErrorAdapter

	mu  sync.Mutex
	srv *http.Server
	ln  net.Listener

	// middleware chain
	mchain func(http.Handler) http.Handler
}

// New constructs a server reading documents from docs.
func New(docs DocumentReader, renderer *render.Renderer, opts Options) *Server {
	adapter := ferrors.NewHTTPErrorAdapter(slog.Default())
	return &Server{
		docs:         docs,
		renderer:     renderer,
		opts:         opts,
		errorAdapter: adapter,
		mchain:       smw.Chain(slog.Default(), adapter),
	}
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /archive", s.handleArchive)
	mux.HandleFunc("GET /page/{id}", s.handlePage)
	mux.HandleFunc("GET /site-content/{id}/{path...}", s.handleAsset)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.opts.MetricsHandler != nil && s.opts.MetricsPath != "" {
		mux.Handle("GET "+s.opts.MetricsPath, s.opts.MetricsHandler)
	}
	return s.mchain(mux)
}

// Start binds the listen address and serves in the background. Bind errors
// are returned immediately.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv != nil {
		return ferrors.DaemonError("http server already started").Build()
	}

	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.opts.Addr)
	if err != nil {
		return ferrors.NetworkError("http startup failed").
			WithCause(err).
			WithContext("addr", s.opts.Addr).
			Build()
	}

	s.ln = ln
	s.srv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}
	srv := s.srv
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", logfields.Error(err))
		}
	}()
	slog.Info("HTTP server started", slog.String("addr", ln.Addr().String()))
	return nil
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Stop gracefully shuts the server down, waiting at most the configured
// shutdown timeout.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.srv, s.ln = nil, nil
	s.mu.Unlock()
	if srv == nil {
		return nil
	}

	if s.opts.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.ShutdownTimeout)
		defer cancel()
	}
	if err := srv.Shutdown(ctx); err != nil {
		return ferrors.DaemonError("http server shutdown").WithCause(err).Build()
	}
	slog.Info("HTTP server stopped")
	return nil
}
