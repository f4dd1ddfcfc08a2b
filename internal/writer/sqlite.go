package writer

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/rickgao/fx-ticks/internal/config"
	"github.com/rickgao/fx-ticks/internal/model"
)

// sqliteBatchSize bounds the rows per INSERT to stay under SQLite's
// variable limit (6 columns per row).
const sqliteBatchSize = 500

var tableNameRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLiteWriter appends ticks to a SQLite table.
type SQLiteWriter struct {
	db     *gorm.DB
	table  string
	logger *slog.Logger
}

// OpenSQLite opens the database at cfg.Path. Writers share a single
// connection so concurrent units serialize on it.
func OpenSQLite(cfg config.SQLiteConfig, logger *slog.Logger) (*SQLiteWriter, error) {
	if !tableNameRE.MatchString(cfg.Table) {
		return nil, fmt.Errorf("invalid table name %q", cfg.Table)
	}

	db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", cfg.Path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return NewSQLiteWriter(db, cfg.Table, logger), nil
}

// NewSQLiteWriter wraps an existing gorm handle.
func NewSQLiteWriter(db *gorm.DB, table string, logger *slog.Logger) *SQLiteWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteWriter{db: db, table: table, logger: logger}
}

// EnsureTable creates the tick table if it does not exist. It does not alter
// an existing table.
func (w *SQLiteWriter) EnsureTable(ctx context.Context) error {
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %q (
		ts DATETIME NOT NULL,
		pair TEXT NOT NULL,
		ask REAL NOT NULL,
		bid REAL NOT NULL,
		ask_volume REAL NOT NULL,
		bid_volume REAL NOT NULL
	)`, w.table)

	if err := w.db.WithContext(ctx).Exec(stmt).Error; err != nil {
		return fmt.Errorf("create table %s: %w", w.table, err)
	}
	return nil
}

// Write appends ticks to the table. An empty slice is a no-op.
func (w *SQLiteWriter) Write(ctx context.Context, unit model.HourlyUnit, ticks []model.Tick) error {
	if len(ticks) == 0 {
		return nil
	}

	rows := toRows(unit, ticks)
	res := w.db.WithContext(ctx).Table(w.table).CreateInBatches(&rows, sqliteBatchSize)
	if res.Error != nil {
		return fmt.Errorf("insert into %s: %w", w.table, res.Error)
	}

	w.logger.Debug("inserted ticks",
		"unit", unit.String(),
		"table", w.table,
		"rows", res.RowsAffected,
	)
	return nil
}

// Close closes the underlying database.
func (w *SQLiteWriter) Close() error {
	sqlDB, err := w.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
