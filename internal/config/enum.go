package config

import (
	"sort"
	"strings"
)

// enum maps case-insensitive, space-trimmed spellings onto typed values.
type enum[T ~string] struct {
	values   map[string]T
	fallback T
}

func newEnum[T ~string](fallback T, values ...T) enum[T] {
	m := make(map[string]T, len(values))
	for _, v := range values {
		m[string(v)] = v
	}
	return enum[T]{values: m, fallback: fallback}
}

// parse returns the canonical value for raw. Empty input yields the fallback.
func (e enum[T]) parse(raw string) (T, bool) {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	if cleaned == "" {
		return e.fallback, true
	}
	v, ok := e.values[cleaned]
	return v, ok
}

func (e enum[T]) valid() []string {
	keys := make([]string, 0, len(e.values))
	for k := range e.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CacheBackend names a document cache implementation.
type CacheBackend string

const (
	CacheBackendMemory CacheBackend = "memory"
	CacheBackendSQLite CacheBackend = "sqlite"
)

var cacheBackends = newEnum(CacheBackendMemory, CacheBackendMemory, CacheBackendSQLite)

// RetryBackoffMode selects how the delay grows between publish retries.
type RetryBackoffMode string

const (
	RetryBackoffFixed       RetryBackoffMode = "fixed"
	RetryBackoffLinear      RetryBackoffMode = "linear"
	RetryBackoffExponential RetryBackoffMode = "exponential"
)

var retryBackoffs = newEnum(RetryBackoffLinear, RetryBackoffFixed, RetryBackoffLinear, RetryBackoffExponential)
