package notify

import "time"

// BatchMessage is the JSON payload published once per compilation batch.
type BatchMessage struct {
	RunID      string           `json:"run_id"`
	StartedAt  time.Time        `json:"started_at"`
	DurationMS int64            `json:"duration_ms"`
	Outcome    string           `json:"outcome"`
	Succeeded  int              `json:"succeeded"`
	Failed     int              `json:"failed"`
	Pruned     int              `json:"pruned"`
	Error      string           `json:"error,omitempty"`
	Failures   []FailureMessage `json:"failures,omitempty"`
}

// FailureMessage describes one file that did not compile.
type FailureMessage struct {
	FileID   string `json:"file_id"`
	Category string `json:"category"`
	Error    string `json:"error"`
}
