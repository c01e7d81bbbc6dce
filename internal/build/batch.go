package build

import (
	"time"

	"git.home.luguber.info/inful/hmmpress/internal/metrics"
)

// Result is the outcome of compiling one file. Exactly one of Document and
// Err is set.
type Result struct {
	FileID   string
	Document *Document
	Err      error
}

// Batch summarizes one CompileAll run.
type Batch struct {
	RunID     string
	StartedAt time.Time
	Duration  time.Duration
	Results   []Result
	// Pruned lists file identifiers removed from the cache after the run.
	Pruned []string
	// Err is set when the run could not enumerate its input at all.
	Err error
}

// Succeeded returns the documents compiled in this batch, in compile order.
func (b *Batch) Succeeded() []*Document {
	var out []*Document
	for _, r := range b.Results {
		if r.Err == nil && r.Document != nil {
			out = append(out, r.Document)
		}
	}
	return out
}

// Failed returns the results that carry an error.
func (b *Batch) Failed() []Result {
	var out []Result
	for _, r := range b.Results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}

// Outcome classifies the batch for metrics and status reporting.
func (b *Batch) Outcome() metrics.BatchOutcomeLabel {
	if b.Err != nil {
		return metrics.BatchOutcomeFailed
	}
	return metrics.OutcomeFor(len(b.Succeeded()), len(b.Failed()))
}
