package errors

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, 0},
		{"validation", ValidationError("bad flag").Build(), 2},
		{"parse", ParseError("unterminated tag").Build(), 3},
		{"timestamp", TimestampError("no timestamp").Build(), 3},
		{"config", ConfigError("bad config").Build(), 7},
		{"storage", StorageError("disk full").Build(), 11},
		{"internal", InternalError("bug").Build(), 10},
		{"unclassified", errors.New("boom"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := adapter.ExitCodeFor(tt.err); got != tt.expected {
				t.Errorf("ExitCodeFor() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var out, logs bytes.Buffer
	adapter := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(&logs, nil)))
	adapter.out = &out
	code := -1
	adapter.exit = func(c int) { code = c }

	adapter.HandleError(ConfigError("content root missing").Build())

	if code != 7 {
		t.Errorf("exit code = %d, want 7", code)
	}
	if !strings.Contains(out.String(), "content root missing") {
		t.Errorf("expected message on output, got %q", out.String())
	}
	if !strings.Contains(logs.String(), "category=config") {
		t.Errorf("expected fatal error to be logged with its category, got %q", logs.String())
	}
}

func TestCLIErrorAdapter_HidesInternalDetails(t *testing.T) {
	quiet := NewCLIErrorAdapter(false, nil)
	verbose := NewCLIErrorAdapter(true, nil)
	err := InternalError("invariant violated").Build()

	if got := quiet.FormatError(err); strings.Contains(got, "invariant") {
		t.Errorf("non-verbose output leaked details: %q", got)
	}
	if got := verbose.FormatError(err); !strings.Contains(got, "invariant") {
		t.Errorf("verbose output should include details: %q", got)
	}
}
