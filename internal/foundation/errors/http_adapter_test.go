package errors

import (
	"encoding/json"
	stdErrors "errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPErrorAdapter_StatusCodeFor(t *testing.T) {
	adapter := NewHTTPErrorAdapter(slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, http.StatusOK},
		{"validation", ValidationError("bad").Build(), http.StatusBadRequest},
		{"not found", NotFoundError("no such page").Build(), http.StatusNotFound},
		{"parse", ParseError("bad doc").Build(), http.StatusUnprocessableEntity},
		{"network", NetworkError("nats down").Build(), http.StatusBadGateway},
		{"storage", StorageError("db").Build(), http.StatusInternalServerError},
		{"unclassified", stdErrors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := adapter.StatusCodeFor(tt.err); got != tt.expected {
				t.Errorf("StatusCodeFor() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestHTTPErrorAdapter_WriteErrorResponse(t *testing.T) {
	adapter := NewHTTPErrorAdapter(nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/page/abc", nil)

	err := NotFoundError("document not found").WithContext("document_id", "abc").Build()
	adapter.WriteErrorResponse(rec, req, err)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}

	var resp HTTPErrorResponse
	if jerr := json.Unmarshal(rec.Body.Bytes(), &resp); jerr != nil {
		t.Fatalf("decode: %v", jerr)
	}
	if resp.Error != "document not found" || resp.Code != "not_found" {
		t.Errorf("unexpected payload: %+v", resp)
	}
	if resp.Details["document_id"] != "abc" {
		t.Errorf("expected document_id detail, got %v", resp.Details)
	}
	if resp.Retryable {
		t.Error("not_found must not be retryable")
	}
}
