package writer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"unicode/utf8"

	"github.com/rickgao/fx-ticks/internal/model"
)

// TimestampLayout is the timestamp column format of tabular files.
const TimestampLayout = "2006-01-02 15:04:05.000"

// Header is the column row of every tabular file.
var Header = []string{"timestamp", "ask", "bid", "ask_volume", "bid_volume"}

// TabularWriter writes one delimited file per unit.
type TabularWriter struct {
	dir    string
	comma  rune
	logger *slog.Logger
}

// NewTabularWriter checks that dir exists and sep is a single character.
func NewTabularWriter(dir, sep string, logger *slog.Logger) (*TabularWriter, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if utf8.RuneCountInString(sep) != 1 {
		return nil, fmt.Errorf("separator must be a single character, got %q", sep)
	}
	comma, _ := utf8.DecodeRuneInString(sep)

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("output directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("output directory %s is not a directory", dir)
	}

	return &TabularWriter{dir: dir, comma: comma, logger: logger}, nil
}

// FileName returns the file name used for unit.
func FileName(unit model.HourlyUnit) string {
	return unit.Pair + unit.Hour.UTC().Format("20060102T150405") + ".tsv"
}

// Path returns the full path of the file written for unit.
func (w *TabularWriter) Path(unit model.HourlyUnit) string {
	return filepath.Join(w.dir, FileName(unit))
}

// Write writes ticks to a temporary file and renames it into place, so a
// failed write never leaves a partial file behind.
func (w *TabularWriter) Write(ctx context.Context, unit model.HourlyUnit, ticks []model.Tick) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	final := w.Path(unit)
	tmp, err := os.CreateTemp(w.dir, "."+FileName(unit)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if err := w.encode(tmp, ticks); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", final, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), final); err != nil {
		return fmt.Errorf("rename to %s: %w", final, err)
	}

	w.logger.Debug("wrote tick file",
		"unit", unit.String(),
		"path", final,
		"ticks", len(ticks),
	)
	return nil
}

func (w *TabularWriter) encode(f *os.File, ticks []model.Tick) error {
	cw := csv.NewWriter(f)
	cw.Comma = w.comma

	if err := cw.Write(Header); err != nil {
		return err
	}

	rec := make([]string, len(Header))
	for _, t := range ticks {
		rec[0] = t.Timestamp.UTC().Format(TimestampLayout)
		rec[1] = formatFloat(t.Ask)
		rec[2] = formatFloat(t.Bid)
		rec[3] = formatFloat(t.AskVolume)
		rec[4] = formatFloat(t.BidVolume)
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return errors.Join(cw.Error(), f.Sync())
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
