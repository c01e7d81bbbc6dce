package config

import "time"

// Default values.
const (
	DefaultContentRoot     = "./content"
	DefaultExtension       = ".hmm"
	DefaultSiteTitle       = "Thoughts & Feelings"
	DefaultAddr            = ":8000"
	DefaultShutdownTimeout = 5 * time.Second
	DefaultCachePath       = "hmmpress.db"
	DefaultDebounce        = 10 * time.Second
	DefaultMetricsPath     = "/metrics"
	DefaultNotifySubject   = "hmmpress.batches"
	DefaultNotifyRetries   = 2
	DefaultRetryInitial    = time.Second
	DefaultRetryMax        = 30 * time.Second
)

// Default returns a configuration populated with every default.
func Default() *Config {
	return &Config{
		Content: ContentConfig{
			Root:      DefaultContentRoot,
			Extension: DefaultExtension,
			Recursive: true,
		},
		Site:   SiteConfig{Title: DefaultSiteTitle, Footer: true},
		Server: ServerConfig{Addr: DefaultAddr, ShutdownTimeout: DefaultShutdownTimeout},
		Cache:  CacheConfig{Backend: CacheBackendMemory, Path: DefaultCachePath},
		Watch:  WatchConfig{Enabled: true, Debounce: DefaultDebounce},
		Metrics: MetricsConfig{
			Path: DefaultMetricsPath,
		},
		Notify: NotifyConfig{
			Subject:           DefaultNotifySubject,
			MaxRetries:        DefaultNotifyRetries,
			RetryBackoff:      RetryBackoffLinear,
			RetryInitialDelay: DefaultRetryInitial,
			RetryMaxDelay:     DefaultRetryMax,
		},
		Logging: LoggingConfig{Level: LogLevelInfo, Format: LogFormatText},
	}
}

// applyDefaults fills fields explicitly set to empty values and canonicalizes enumerations.
func applyDefaults(cfg *Config) {
	if cfg.Content.Root == "" {
		cfg.Content.Root = DefaultContentRoot
	}
	if cfg.Content.Extension == "" {
		cfg.Content.Extension = DefaultExtension
	}
	if cfg.Site.Title == "" {
		cfg.Site.Title = DefaultSiteTitle
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultAddr
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Cache.Path == "" {
		cfg.Cache.Path = DefaultCachePath
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultDebounce
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Notify.Subject == "" {
		cfg.Notify.Subject = DefaultNotifySubject
	}
	if cfg.Notify.RetryInitialDelay <= 0 {
		cfg.Notify.RetryInitialDelay = DefaultRetryInitial
	}
	if cfg.Notify.RetryMaxDelay <= 0 {
		cfg.Notify.RetryMaxDelay = DefaultRetryMax
	}

	// Unknown values are kept so Validate can report them.
	if b, ok := cacheBackends.parse(string(cfg.Cache.Backend)); ok {
		cfg.Cache.Backend = b
	}
	if m, ok := retryBackoffs.parse(string(cfg.Notify.RetryBackoff)); ok {
		cfg.Notify.RetryBackoff = m
	}
	if l, ok := logLevels.parse(string(cfg.Logging.Level)); ok {
		cfg.Logging.Level = l
	}
	if f, ok := logFormats.parse(string(cfg.Logging.Format)); ok {
		cfg.Logging.Format = f
	}
}
