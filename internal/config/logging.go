package config

import "log/slog"

// LogLevel enumerates supported logging levels.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var logLevels = newEnum(LogLevelInfo, LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError)

// NormalizeLogLevel returns the canonical level for raw, or info when raw is unknown.
func NormalizeLogLevel(raw string) LogLevel {
	if l, ok := logLevels.parse(raw); ok {
		return l
	}
	return LogLevelInfo
}

// SlogLevel maps the level onto slog.
func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogFormat enumerates supported log output formats.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

var logFormats = newEnum(LogFormatText, LogFormatText, LogFormatJSON)

// NormalizeLogFormat returns the canonical format for raw, or text when raw is unknown.
func NormalizeLogFormat(raw string) LogFormat {
	if f, ok := logFormats.parse(raw); ok {
		return f
	}
	return LogFormatText
}
