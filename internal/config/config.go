package config

import "time"

// LoaderConfig is the root configuration for a tick loading run.
type LoaderConfig struct {
	Job     JobConfig     `yaml:"job"`
	Feed    FeedConfig    `yaml:"feed"`
	Sink    SinkConfig    `yaml:"sink"`
	Runner  RunnerConfig  `yaml:"runner"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// JobConfig selects what to load. Dates are free-form (e.g., "2018-10-01").
type JobConfig struct {
	Pair  string `yaml:"pair"`
	Start string `yaml:"start"`
	End   string `yaml:"end"` // empty = today
}

// FeedConfig holds datafeed HTTP settings.
type FeedConfig struct {
	BaseURL      string        `yaml:"base_url"`
	Timeout      time.Duration `yaml:"timeout"`
	MaxRetries   int           `yaml:"max_retries"`
	RetryBackoff time.Duration `yaml:"retry_backoff"`
}

// SinkConfig selects and configures the tick writer.
type SinkConfig struct {
	Kind     string         `yaml:"kind"` // tabular, sqlite or postgres
	Tabular  TabularConfig  `yaml:"tabular"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// TabularConfig writes one delimited file per hour.
type TabularConfig struct {
	OutputDir string `yaml:"output_dir"`
	Separator string `yaml:"separator"`
}

// SQLiteConfig appends rows to a table in a local SQLite database.
type SQLiteConfig struct {
	Path        string `yaml:"path"`
	Table       string `yaml:"table"`
	CreateTable bool   `yaml:"create_table"`
}

// PostgresConfig appends rows to a PostgreSQL/TimescaleDB table.
type PostgresConfig struct {
	DBConfig  `yaml:",inline"`
	Table     string `yaml:"table"`
	BatchSize int    `yaml:"batch_size"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// RunnerConfig holds batch runner settings.
type RunnerConfig struct {
	Workers       int           `yaml:"workers"` // 0 = number of CPUs
	PollInterval  time.Duration `yaml:"poll_interval"`
	ResultTimeout time.Duration `yaml:"result_timeout"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	Production bool   `yaml:"production"`
}

// MetricsConfig holds Prometheus metrics settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Port    int    `yaml:"port"`
	Path    string `yaml:"path"`
}
