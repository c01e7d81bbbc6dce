package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultWarning ResultLabel = "warning"
	ResultFatal   ResultLabel = "fatal"
)

// BatchOutcomeLabel is the final status of a compilation batch.
type BatchOutcomeLabel string

const (
	// BatchOutcomeSuccess means every enumerated file compiled.
	BatchOutcomeSuccess BatchOutcomeLabel = "success"
	// BatchOutcomePartial means at least one file failed and at least one compiled.
	BatchOutcomePartial BatchOutcomeLabel = "partial"
	// BatchOutcomeFailed means nothing compiled or enumeration failed.
	BatchOutcomeFailed BatchOutcomeLabel = "failed"
)

// Recorder defines observability hooks for batch, stage and document metrics.
// Implementations may forward to Prometheus or similar backends.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBatchDuration(d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncBatchOutcome(outcome BatchOutcomeLabel)
	IncDocumentResult(category string)
	SetCachedDocuments(n int)
	IncNotification(success bool)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveBatchDuration(time.Duration)         {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) IncBatchOutcome(BatchOutcomeLabel)          {}
func (NoopRecorder) IncDocumentResult(string)                   {}
func (NoopRecorder) SetCachedDocuments(int)                     {}
func (NoopRecorder) IncNotification(bool)                       {}

// OutcomeFor classifies a batch from its success and failure counts.
func OutcomeFor(succeeded, failed int) BatchOutcomeLabel {
	switch {
	case failed == 0:
		return BatchOutcomeSuccess
	case succeeded > 0:
		return BatchOutcomePartial
	default:
		return BatchOutcomeFailed
	}
}
