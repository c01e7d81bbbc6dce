package events

import "time"

// Event kinds.
const (
	KindDocumentCompiled = "document.compiled"
	KindDocumentFailed   = "document.failed"
	KindBatchCompleted   = "batch.completed"
	KindRecompileRequest = "recompile.requested"
)

// DocumentCompiled is emitted for every file that compiled and was cached.
type DocumentCompiled struct {
	RunID      string
	FileID     string
	DocumentID string
	Title      string
	Timestamp  uint64
	Tokens     int
	CompiledAt time.Time
}

func (DocumentCompiled) EventKind() string { return KindDocumentCompiled }

// DocumentFailed is emitted for every file that could not be compiled.
// Category is the classified error category of Err.
type DocumentFailed struct {
	RunID    string
	FileID   string
	Category string
	Err      error
	FailedAt time.Time
}

func (DocumentFailed) EventKind() string { return KindDocumentFailed }

// BatchCompleted is emitted once per CompileAll run, after pruning.
type BatchCompleted struct {
	RunID     string
	StartedAt time.Time
	Duration  time.Duration
	Succeeded int
	Failed    int
	Pruned    int
	Err       error
}

func (BatchCompleted) EventKind() string { return KindBatchCompleted }

// RecompileRequested asks the daemon for a full recompile. Trigger names the
// source: "watch", "schedule", "startup" or "manual".
type RecompileRequested struct {
	Trigger     string
	Reason      string
	RequestedAt time.Time
}

func (RecompileRequested) EventKind() string { return KindRecompileRequest }
