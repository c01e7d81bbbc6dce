package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID       = "run_id"
	KeyFile        = "file"
	KeyDocumentID  = "document_id"
	KeyPath        = "path"
	KeyStage       = "stage"
	KeyTrigger     = "trigger"
	KeyCategory    = "category"
	KeyDurationMS  = "duration_ms"
	KeyCount       = "count"
	KeyTimestamp   = "timestamp"
	KeyMethod      = "method"
	KeyStatus      = "status"
	KeyRemoteAddr  = "remote_addr"
	KeyUserAgent   = "user_agent"
	KeySubject     = "subject"
	KeyBackend     = "backend"
	KeyError       = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr        { return slog.String(KeyRunID, id) }
func File(path string) slog.Attr       { return slog.String(KeyFile, path) }
func DocumentID(id string) slog.Attr   { return slog.String(KeyDocumentID, id) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Stage(name string) slog.Attr      { return slog.String(KeyStage, name) }
func Trigger(source string) slog.Attr  { return slog.String(KeyTrigger, source) }
func Category(c string) slog.Attr      { return slog.String(KeyCategory, c) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func Timestamp(ms uint64) slog.Attr    { return slog.Uint64(KeyTimestamp, ms) }
func Method(m string) slog.Attr        { return slog.String(KeyMethod, m) }
func Status(code int) slog.Attr        { return slog.Int(KeyStatus, code) }
func RemoteAddr(addr string) slog.Attr { return slog.String(KeyRemoteAddr, addr) }
func UserAgent(ua string) slog.Attr    { return slog.String(KeyUserAgent, ua) }
func Subject(s string) slog.Attr       { return slog.String(KeySubject, s) }
func Backend(b string) slog.Attr       { return slog.String(KeyBackend, b) }

// Duration records d in milliseconds under KeyDurationMS.
func Duration(d time.Duration) slog.Attr {
	return slog.Float64(KeyDurationMS, float64(d.Microseconds())/1000)
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
