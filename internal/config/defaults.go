package config

import (
	"runtime"
	"time"
)

// Default values for optional configuration fields.
const (
	DefaultFeedURL       = "https://datafeed.dukascopy.com/datafeed"
	DefaultFeedTimeout   = 30 * time.Second
	DefaultRetryBackoff  = 1 * time.Second
	DefaultSinkKind      = "tabular"
	DefaultSeparator     = "\t"
	DefaultTable         = "raw_ticks"
	DefaultDBPort        = 5432
	DefaultDBSSLMode     = "prefer"
	DefaultMaxConns      = 10
	DefaultMinConns      = 2
	DefaultBatchSize     = 1000
	DefaultPollInterval  = 3 * time.Second
	DefaultResultTimeout = 3 * time.Second
	DefaultLogLevel      = "info"
	DefaultMetricsPort   = 9090
	DefaultMetricsPath   = "/metrics"
)

// ApplyDefaults fills every unset optional field.
func (c *LoaderConfig) ApplyDefaults() {
	// Feed defaults
	if c.Feed.BaseURL == "" {
		c.Feed.BaseURL = DefaultFeedURL
	}
	if c.Feed.Timeout == 0 {
		c.Feed.Timeout = DefaultFeedTimeout
	}
	if c.Feed.RetryBackoff == 0 {
		c.Feed.RetryBackoff = DefaultRetryBackoff
	}

	// Sink defaults
	if c.Sink.Kind == "" {
		c.Sink.Kind = DefaultSinkKind
	}
	if c.Sink.Tabular.Separator == "" {
		c.Sink.Tabular.Separator = DefaultSeparator
	}
	if c.Sink.SQLite.Table == "" {
		c.Sink.SQLite.Table = DefaultTable
	}
	if c.Sink.Postgres.Table == "" {
		c.Sink.Postgres.Table = DefaultTable
	}
	if c.Sink.Postgres.BatchSize == 0 {
		c.Sink.Postgres.BatchSize = DefaultBatchSize
	}
	applyDBDefaults(&c.Sink.Postgres.DBConfig)

	// Runner defaults
	if c.Runner.Workers == 0 {
		c.Runner.Workers = runtime.NumCPU()
	}
	if c.Runner.PollInterval == 0 {
		c.Runner.PollInterval = DefaultPollInterval
	}
	if c.Runner.ResultTimeout == 0 {
		c.Runner.ResultTimeout = DefaultResultTimeout
	}

	// Logging defaults
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}

	// Metrics defaults
	if c.Metrics.Port == 0 {
		c.Metrics.Port = DefaultMetricsPort
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
