package writer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rickgao/fx-ticks/internal/config"
	"github.com/rickgao/fx-ticks/internal/database"
	"github.com/rickgao/fx-ticks/internal/model"
)

// Writer persists the ticks of one unit.
type Writer interface {
	Write(ctx context.Context, unit model.HourlyUnit, ticks []model.Tick) error
}

// Kind identifies a sink implementation.
type Kind int

const (
	KindTabular Kind = iota + 1
	KindSQLite
	KindPostgres
)

// ParseKind maps a configuration key to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "tabular":
		return KindTabular, nil
	case "sqlite":
		return KindSQLite, nil
	case "postgres":
		return KindPostgres, nil
	default:
		return 0, fmt.Errorf("unknown sink kind %q", s)
	}
}

func (k Kind) String() string {
	switch k {
	case KindTabular:
		return "tabular"
	case KindSQLite:
		return "sqlite"
	case KindPostgres:
		return "postgres"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// NeedsPair reports whether the sink stores the pair on every row.
func (k Kind) NeedsPair() bool {
	return k == KindSQLite || k == KindPostgres
}

// Open builds the writer selected by cfg.Kind. The returned close function
// releases files or connections and must be called once the batch is done.
func Open(ctx context.Context, cfg config.SinkConfig, logger *slog.Logger) (Writer, func() error, error) {
	if logger == nil {
		logger = slog.Default()
	}

	kind, err := ParseKind(cfg.Kind)
	if err != nil {
		return nil, nil, err
	}
	logger = logger.With("sink", kind.String())

	switch kind {
	case KindTabular:
		w, err := NewTabularWriter(cfg.Tabular.OutputDir, cfg.Tabular.Separator, logger)
		if err != nil {
			return nil, nil, err
		}
		return w, func() error { return nil }, nil

	case KindSQLite:
		w, err := OpenSQLite(cfg.SQLite, logger)
		if err != nil {
			return nil, nil, err
		}
		if cfg.SQLite.CreateTable {
			if err := w.EnsureTable(ctx); err != nil {
				_ = w.Close()
				return nil, nil, err
			}
		}
		return w, w.Close, nil

	case KindPostgres:
		pool, err := database.Connect(ctx, cfg.Postgres.DBConfig)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres sink: %w", err)
		}
		w, err := NewPostgresWriter(pool, cfg.Postgres.Table, cfg.Postgres.BatchSize, logger)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		return w, func() error { pool.Close(); return nil }, nil
	}

	return nil, nil, fmt.Errorf("unsupported sink kind %s", kind)
}

// row is the relational shape shared by the SQLite and Postgres sinks.
type row struct {
	Ts        time.Time `gorm:"column:ts"`
	Pair      string    `gorm:"column:pair"`
	Ask       float64   `gorm:"column:ask"`
	Bid       float64   `gorm:"column:bid"`
	AskVolume float64   `gorm:"column:ask_volume"`
	BidVolume float64   `gorm:"column:bid_volume"`
}

// toRows converts ticks, falling back to the unit's pair when a tick has none.
func toRows(unit model.HourlyUnit, ticks []model.Tick) []row {
	rows := make([]row, len(ticks))
	for i, t := range ticks {
		pair := t.Pair
		if pair == "" {
			pair = unit.Pair
		}
		rows[i] = row{
			Ts:        t.Timestamp,
			Pair:      pair,
			Ask:       t.Ask,
			Bid:       t.Bid,
			AskVolume: t.AskVolume,
			BidVolume: t.BidVolume,
		}
	}
	return rows
}
