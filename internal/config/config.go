// Package config loads and validates the hmmpress YAML configuration.
package config

import (
	"fmt"
	"os"
	"time"

	ferrors "git.home.luguber.info/inful/hmmpress/internal/foundation/errors"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration file used when none is given.
const DefaultPath = "hmmpress.yaml"

// Config represents the application configuration.
type Config struct {
	Content  ContentConfig  `yaml:"content"`
	Compiler CompilerConfig `yaml:"compiler"`
	Site     SiteConfig     `yaml:"site"`
	Server   ServerConfig   `yaml:"server"`
	Cache    CacheConfig    `yaml:"cache"`
	Watch    WatchConfig    `yaml:"watch"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Notify   NotifyConfig   `yaml:"notify"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ContentConfig describes where source documents live.
type ContentConfig struct {
	Root      string `yaml:"root"`
	Extension string `yaml:"extension"`
	Recursive bool   `yaml:"recursive"`
}

// CompilerConfig tunes document assembly.
type CompilerConfig struct {
	// GitTimestamps enables the last-commit timestamp fallback.
	GitTimestamps bool `yaml:"git_timestamps"`
}

// SiteConfig controls presentation.
type SiteConfig struct {
	Title  string `yaml:"title"`
	Footer bool   `yaml:"footer"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// CacheConfig selects the document cache backend.
type CacheConfig struct {
	Backend CacheBackend `yaml:"backend"`
	// Path is the SQLite database file (sqlite backend only).
	Path string `yaml:"path"`
	// Snapshot, when set, is written after every batch and read at startup.
	Snapshot string `yaml:"snapshot"`
}

// WatchConfig configures filesystem change notification.
type WatchConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Debounce time.Duration `yaml:"debounce"`
}

// ScheduleConfig configures periodic full recompiles. A zero interval and an
// empty cron expression disable them.
type ScheduleConfig struct {
	Interval time.Duration `yaml:"interval"`
	// Cron is a five-field cron expression, used instead of Interval.
	Cron string `yaml:"cron,omitempty"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// NotifyConfig configures batch notifications over NATS. An empty URL disables them.
type NotifyConfig struct {
	NATSURL string `yaml:"nats_url"`
	Subject string `yaml:"subject"`
	// MaxRetries is the number of publish retries after the first failure.
	MaxRetries        int              `yaml:"max_retries"`
	RetryBackoff      RetryBackoffMode `yaml:"retry_backoff"`
	RetryInitialDelay time.Duration    `yaml:"retry_initial_delay"`
	RetryMaxDelay     time.Duration    `yaml:"retry_max_delay"`
}

// LoggingConfig configures the slog handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// Load loads configuration from the specified file. Environment files are
// loaded first and ${VAR} references in the YAML are expanded. Fields absent
// from the file keep their defaults.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, ferrors.ConfigError("configuration file not found").
			WithContext("path", configPath).
			Build()
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to read config file").
			WithContext("path", configPath).
			Build()
	}

	return Parse(data)
}

// LoadOrDefault loads configPath when it exists. A missing file yields the
// defaults unless required is set.
func LoadOrDefault(configPath string, required bool) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) && !required {
		loadEnvFiles()
		cfg := Default()
		return cfg, cfg.Validate()
	}
	return Load(configPath)
}

// Parse decodes YAML configuration, applies defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to unmarshal config").Build()
	}

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Init creates a new configuration file with the default settings.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return ferrors.ValidationError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).
			Build()
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data = append([]byte(initHeader), data...)

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return ferrors.FileSystemError("failed to write config file").
			WithCause(err).
			WithContext("path", configPath).
			Build()
	}
	return nil
}

const initHeader = `# hmmpress configuration
# Values may reference environment variables as ${VAR}; .env and .env.local are loaded first.
# cache.backend: memory | sqlite
# schedule.interval: 0 disables periodic recompiles; schedule.cron takes a cron expression instead
# notify.nats_url: empty disables batch notifications
# notify.retry_backoff: fixed | linear | exponential

`
