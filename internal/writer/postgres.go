package writer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/rickgao/fx-ticks/internal/model"
)

// batchSender is the subset of *pgxpool.Pool used by PostgresWriter.
type batchSender interface {
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// PostgresWriter appends ticks to a PostgreSQL/TimescaleDB table.
type PostgresWriter struct {
	db        batchSender
	insertSQL string
	batchSize int
	logger    *slog.Logger
}

// NewPostgresWriter creates a writer for table. The table may be
// schema-qualified ("market.raw_ticks").
func NewPostgresWriter(db batchSender, table string, batchSize int, logger *slog.Logger) (*PostgresWriter, error) {
	if table == "" {
		return nil, fmt.Errorf("postgres sink: empty table name")
	}
	if batchSize < 1 {
		return nil, fmt.Errorf("postgres sink: batch size must be >= 1, got %d", batchSize)
	}
	if logger == nil {
		logger = slog.Default()
	}

	ident := pgx.Identifier(strings.Split(table, ".")).Sanitize()
	return &PostgresWriter{
		db: db,
		insertSQL: "INSERT INTO " + ident +
			" (ts, pair, ask, bid, ask_volume, bid_volume) VALUES ($1, $2, $3, $4, $5, $6)",
		batchSize: batchSize,
		logger:    logger,
	}, nil
}

// Write inserts ticks in chunks of batchSize. An empty slice is a no-op.
func (w *PostgresWriter) Write(ctx context.Context, unit model.HourlyUnit, ticks []model.Tick) error {
	rows := toRows(unit, ticks)

	for start := 0; start < len(rows); start += w.batchSize {
		end := min(start+w.batchSize, len(rows))
		if err := w.batchInsert(ctx, rows[start:end]); err != nil {
			return fmt.Errorf("insert rows %d-%d: %w", start, end, err)
		}
	}

	if len(rows) > 0 {
		w.logger.Debug("inserted ticks",
			"unit", unit.String(),
			"rows", len(rows),
		)
	}
	return nil
}

// batchInsert sends one pgx.Batch and checks every statement.
func (w *PostgresWriter) batchInsert(ctx context.Context, rows []row) error {
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(w.insertSQL, r.Ts, r.Pair, r.Ask, r.Bid, r.AskVolume, r.BidVolume)
	}

	results := w.db.SendBatch(ctx, batch)
	defer results.Close()

	for range rows {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return results.Close()
}
