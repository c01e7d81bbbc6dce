package daemon

import (
	"context"
	"time"

	"git.home.luguber.info/inful/hmmpress/internal/build"
	ferrors "git.home.luguber.info/inful/hmmpress/internal/foundation/errors"
	"git.home.luguber.info/inful/hmmpress/internal/server/httpserver"
	"git.home.luguber.info/inful/hmmpress/internal/version"
)

// maxReportedErrors caps the per-file errors included in a health report.
const maxReportedErrors = 20

// Health summarizes the daemon and its most recent batch for /healthz.
func (d *Daemon) Health(ctx context.Context) httpserver.Health {
	h := httpserver.Health{
		Status:    string(d.GetStatus()),
		Version:   version.Resolved(),
		StartedAt: d.startTime,
		Documents: -1,
	}
	if !d.startTime.IsZero() {
		h.Uptime = time.Since(d.startTime).Round(time.Second).String()
	}
	if docs, err := d.store.ListDocuments(ctx); err == nil {
		h.Documents = len(docs)
	}
	h.LastBatch = SummarizeBatch(d.driver.LastBatch())
	return h
}

// SummarizeBatch converts a batch into its health report form. A nil batch
// yields nil.
func SummarizeBatch(b *build.Batch) *httpserver.BatchSummary {
	if b == nil {
		return nil
	}
	s := &httpserver.BatchSummary{
		RunID:     b.RunID,
		StartedAt: b.StartedAt,
		Duration:  b.Duration.Round(time.Millisecond).String(),
		Outcome:   string(b.Outcome()),
		Succeeded: len(b.Succeeded()),
		Failed:    len(b.Failed()),
		Pruned:    len(b.Pruned),
	}
	if b.Err != nil {
		s.Errors = append(s.Errors, b.Err.Error())
	}
	for _, res := range b.Failed() {
		if len(s.Errors) >= maxReportedErrors {
			break
		}
		s.Errors = append(s.Errors, res.FileID+": "+string(ferrors.GetCategory(res.Err))+": "+res.Err.Error())
	}
	return s
}
