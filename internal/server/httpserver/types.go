package httpserver

import (
	"context"
	"net/http"
	"time"

	"git.home.luguber.info/inful/hmmpress/internal/build"
)

// DocumentReader is the read side of the document cache.
type DocumentReader interface {
	ListDocuments(ctx context.Context) ([]*build.Document, error)
	GetRoot(ctx context.Context, documentID string) (string, bool, error)
}

// StatusProvider reports the health summary served on /healthz.
type StatusProvider interface {
	Health(ctx context.Context) Health
}

// Health is the /healthz payload.
type Health struct {
	Status    string        `json:"status"`
	Version   string        `json:"version"`
	StartedAt time.Time     `json:"started_at"`
	Uptime    string        `json:"uptime"`
	Documents int           `json:"documents"`
	LastBatch *BatchSummary `json:"last_batch,omitempty"`
}

// BatchSummary describes the most recent compilation run.
type BatchSummary struct {
	RunID     string    `json:"run_id"`
	StartedAt time.Time `json:"started_at"`
	Duration  string    `json:"duration"`
	Outcome   string    `json:"outcome"`
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
	Pruned    int       `json:"pruned"`
	Errors    []string  `json:"errors,omitempty"`
}

// Options configures the server.
type Options struct {
	Addr            string
	ShutdownTimeout time.Duration

	// Optional: health reporting. Without it /healthz reports only liveness.
	Status StatusProvider

	// Optional: Prometheus exposition, mounted at MetricsPath.
	MetricsHandler http.Handler
	MetricsPath    string
}
