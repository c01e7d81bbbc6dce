package config

import (
	"strconv"
	"strings"
	"time"

	ferrors "git.home.luguber.info/inful/hmmpress/internal/foundation/errors"
)

// minScheduleInterval keeps a misconfigured schedule from recompiling continuously.
const minScheduleInterval = time.Second

// Validate checks the configuration for values the application cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Content.Root == "":
		return invalid("content.root", "must not be empty", c.Content.Root)
	case !strings.HasPrefix(c.Content.Extension, ".") || len(c.Content.Extension) < 2:
		return invalid("content.extension", "must start with '.'", c.Content.Extension)
	case c.Server.Addr == "":
		return invalid("server.addr", "must not be empty", c.Server.Addr)
	}

	if _, ok := cacheBackends.parse(string(c.Cache.Backend)); !ok {
		return invalid("cache.backend", "must be one of "+strings.Join(cacheBackends.valid(), ", "), c.Cache.Backend)
	}
	if c.Cache.Backend == CacheBackendSQLite && c.Cache.Path == "" {
		return invalid("cache.path", "is required for the sqlite backend", c.Cache.Path)
	}

	if c.Watch.Enabled && c.Watch.Debounce < 0 {
		return invalid("watch.debounce", "must not be negative", c.Watch.Debounce.String())
	}
	if c.Schedule.Interval < 0 {
		return invalid("schedule.interval", "must not be negative", c.Schedule.Interval.String())
	}
	if c.Schedule.Interval > 0 && c.Schedule.Interval < minScheduleInterval {
		return invalid("schedule.interval", "must be at least 1s", c.Schedule.Interval.String())
	}
	if c.Schedule.Cron != "" && c.Schedule.Interval > 0 {
		return invalid("schedule.cron", "cannot be combined with schedule.interval", c.Schedule.Cron)
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return invalid("metrics.path", "must start with '/'", c.Metrics.Path)
	}
	if c.Notify.NATSURL != "" && strings.TrimSpace(c.Notify.Subject) == "" {
		return invalid("notify.subject", "is required when notify.nats_url is set", c.Notify.Subject)
	}
	if c.Notify.MaxRetries < 0 {
		return invalid("notify.max_retries", "must not be negative", strconv.Itoa(c.Notify.MaxRetries))
	}
	if _, ok := retryBackoffs.parse(string(c.Notify.RetryBackoff)); !ok {
		return invalid("notify.retry_backoff", "must be one of "+strings.Join(retryBackoffs.valid(), ", "), c.Notify.RetryBackoff)
	}

	if _, ok := logLevels.parse(string(c.Logging.Level)); !ok {
		return invalid("logging.level", "must be one of "+strings.Join(logLevels.valid(), ", "), c.Logging.Level)
	}
	if _, ok := logFormats.parse(string(c.Logging.Format)); !ok {
		return invalid("logging.format", "must be one of "+strings.Join(logFormats.valid(), ", "), c.Logging.Format)
	}
	return nil
}

func invalid[T ~string](field, problem string, value T) error {
	return ferrors.ConfigError(field+" "+problem).
		WithContext("field", field).
		WithContext("value", string(value)).
		Build()
}
