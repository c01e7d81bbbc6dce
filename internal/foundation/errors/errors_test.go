package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "config.yaml").
			Build()

		if err.Category() != CategoryConfig {
			t.Errorf("expected category %s, got %s", CategoryConfig, err.Category())
		}
		if err.Severity() != SeverityFatal {
			t.Errorf("expected severity %s, got %s", SeverityFatal, err.Severity())
		}
		if err.Message() != "invalid configuration" {
			t.Errorf("expected message 'invalid configuration', got %s", err.Message())
		}
		file, exists := err.Context().GetString("file")
		if !exists || file != "config.yaml" {
			t.Errorf("expected context file=config.yaml, got %v", file)
		}
		if got, want := err.Error(), "[config:fatal] invalid configuration"; got != want {
			t.Errorf("Error() = %q, want %q", got, want)
		}
	})

	t.Run("Wrapped classified errors are found", func(t *testing.T) {
		inner := ParseError("bad tag").WithContext("file", "a.hmm").Build()
		outer := fmt.Errorf("compile: %w", inner)

		if !IsClassified(outer) {
			t.Fatal("expected wrapped error to be classified")
		}
		if !HasCategory(outer, CategoryParse) {
			t.Error("expected parse category")
		}
		if GetCategory(errors.New("plain")) != CategoryInternal {
			t.Error("expected unclassified errors to report internal category")
		}
	})

	t.Run("Cause is preserved", func(t *testing.T) {
		sentinel := errors.New("no timestamp")
		err := WrapError(sentinel, CategoryTimestamp, "timestamp resolution failed").Build()
		if !errors.Is(err, sentinel) {
			t.Error("expected errors.Is to see the cause")
		}
		if err.Cause() != sentinel {
			t.Error("expected Cause() to return the wrapped error")
		}
	})

	t.Run("WithContext copies", func(t *testing.T) {
		base := StorageError("put failed").Build()
		derived := base.WithContext("key", "doc")
		if _, ok := base.Context().Get("key"); ok {
			t.Error("expected base context to stay untouched")
		}
		if v, _ := derived.Context().GetString("key"); v != "doc" {
			t.Errorf("expected derived context key=doc, got %q", v)
		}
	})
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		name     string
		builder  *ErrorBuilder
		category ErrorCategory
		severity ErrorSeverity
		retry    RetryStrategy
	}{
		{"ConfigError", ConfigError("test"), CategoryConfig, SeverityFatal, RetryNever},
		{"ValidationError", ValidationError("test"), CategoryValidation, SeverityFatal, RetryNever},
		{"NotFoundError", NotFoundError("test"), CategoryNotFound, SeverityInfo, RetryNever},
		{"ParseError", ParseError("test"), CategoryParse, SeverityError, RetryUserAction},
		{"TimestampError", TimestampError("test"), CategoryTimestamp, SeverityError, RetryUserAction},
		{"FileSystemError", FileSystemError("test"), CategoryFileSystem, SeverityError, RetryBackoff},
		{"StorageError", StorageError("test"), CategoryStorage, SeverityError, RetryBackoff},
		{"NetworkError", NetworkError("test"), CategoryNetwork, SeverityError, RetryBackoff},
		{"GitError", GitError("test"), CategoryGit, SeverityError, RetryNever},
		{"DaemonError", DaemonError("test"), CategoryDaemon, SeverityFatal, RetryNever},
		{"InternalError", InternalError("test"), CategoryInternal, SeverityFatal, RetryNever},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.builder.Build()
			if err.Category() != tt.category {
				t.Errorf("expected category %s, got %s", tt.category, err.Category())
			}
			if err.Severity() != tt.severity {
				t.Errorf("expected severity %s, got %s", tt.severity, err.Severity())
			}
			if err.RetryStrategy() != tt.retry {
				t.Errorf("expected retry strategy %s, got %s", tt.retry, err.RetryStrategy())
			}
		})
	}
}

func TestErrorContextMerge(t *testing.T) {
	ctx1 := ErrorContext{}.Set("key1", "value1").Set("shared", "original")
	ctx2 := ErrorContext{}.Set("key2", "value2").Set("shared", "overridden")

	merged := ctx1.Merge(ctx2)

	for key, want := range map[string]string{"key1": "value1", "key2": "value2", "shared": "overridden"} {
		if got, _ := merged.GetString(key); got != want {
			t.Errorf("merged[%s] = %q, want %q", key, got, want)
		}
	}
	if got, _ := ctx1.GetString("shared"); got != "original" {
		t.Errorf("merge must not modify the receiver, got %q", got)
	}
}
