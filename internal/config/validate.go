package config

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/rickgao/fx-ticks/internal/model"
)

// Validate checks that all required fields are set and values are valid.
func (c *LoaderConfig) Validate() error {
	if c.Job.Pair == "" {
		return errors.New("job.pair is required")
	}
	if _, err := model.ParsePair(c.Job.Pair); err != nil {
		return fmt.Errorf("job.pair: %w", err)
	}
	if c.Job.Start == "" {
		return errors.New("job.start is required")
	}

	if c.Feed.BaseURL == "" {
		return errors.New("feed.base_url is required")
	}
	if c.Feed.MaxRetries < 0 {
		return errors.New("feed.max_retries must be >= 0")
	}

	if err := c.Sink.validate(); err != nil {
		return err
	}

	if c.Runner.Workers < 1 {
		return errors.New("runner.workers must be >= 1")
	}
	if c.Runner.PollInterval <= 0 {
		return errors.New("runner.poll_interval must be > 0")
	}
	if c.Runner.ResultTimeout <= 0 {
		return errors.New("runner.result_timeout must be > 0")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}

	if c.Metrics.Enabled && (c.Metrics.Port < 1 || c.Metrics.Port > 65535) {
		return fmt.Errorf("metrics.port must be between 1 and 65535, got %d", c.Metrics.Port)
	}

	return nil
}

func (s *SinkConfig) validate() error {
	switch s.Kind {
	case "tabular":
		if s.Tabular.OutputDir == "" {
			return errors.New("sink.tabular.output_dir is required")
		}
		if utf8.RuneCountInString(s.Tabular.Separator) != 1 {
			return fmt.Errorf("sink.tabular.separator must be a single character, got %q", s.Tabular.Separator)
		}
	case "sqlite":
		if s.SQLite.Path == "" {
			return errors.New("sink.sqlite.path is required")
		}
		if s.SQLite.Table == "" {
			return errors.New("sink.sqlite.table is required")
		}
	case "postgres":
		if err := s.Postgres.validate("sink.postgres"); err != nil {
			return err
		}
		if s.Postgres.Table == "" {
			return errors.New("sink.postgres.table is required")
		}
		if s.Postgres.BatchSize < 1 {
			return errors.New("sink.postgres.batch_size must be >= 1")
		}
	default:
		return fmt.Errorf("sink.kind must be one of tabular, sqlite, postgres, got %q", s.Kind)
	}
	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
