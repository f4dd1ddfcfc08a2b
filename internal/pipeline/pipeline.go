package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rickgao/fx-ticks/internal/codec"
	"github.com/rickgao/fx-ticks/internal/metrics"
	"github.com/rickgao/fx-ticks/internal/model"
	"github.com/rickgao/fx-ticks/internal/transform"
)

// Fetcher downloads the raw payload of one hour.
type Fetcher interface {
	Fetch(ctx context.Context, pair string, hour time.Time) ([]byte, error)
}

// Writer persists the ticks of one unit.
type Writer interface {
	Write(ctx context.Context, unit model.HourlyUnit, ticks []model.Tick) error
}

// Pipeline runs the stages for a single unit. It holds no per-unit state and
// may be shared by concurrent workers.
type Pipeline struct {
	fetcher     Fetcher
	writer      Writer
	recorder    Recorder
	transformer *transform.Transformer
	metrics     *metrics.Metrics
	logger      *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithTransformer replaces the default transformer.
func WithTransformer(t *transform.Transformer) Option {
	return func(p *Pipeline) {
		if t != nil {
			p.transformer = t
		}
	}
}

// WithMetrics records unit outcomes on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// WithLogger sets the logger used for success lines.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates a Pipeline. A nil recorder logs failures through slog.Default().
func New(fetcher Fetcher, writer Writer, recorder Recorder, opts ...Option) *Pipeline {
	if recorder == nil {
		recorder = NewLogRecorder(nil)
	}
	p := &Pipeline{
		fetcher:     fetcher,
		writer:      writer,
		recorder:    recorder,
		transformer: transform.New(),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run loads unit and reports whether every stage succeeded. Later stages do
// not run once one fails.
func (p *Pipeline) Run(ctx context.Context, unit model.HourlyUnit) bool {
	start := time.Now()

	var raw []byte
	if err := guard(func() (err error) {
		raw, err = p.fetcher.Fetch(ctx, unit.Pair, unit.Hour)
		return err
	}); err != nil {
		return p.fail(unit, StageFetch, err, start)
	}
	p.metrics.FetchedBytes(len(raw))

	var ticks []model.Tick
	if err := guard(func() error {
		records, err := codec.Decode(raw)
		if err != nil {
			return err
		}
		ticks, err = p.transformer.Transform(records, unit.Pair, unit.Hour)
		return err
	}); err != nil {
		return p.fail(unit, StageParse, err, start)
	}

	if err := guard(func() error {
		return p.writer.Write(ctx, unit, ticks)
	}); err != nil {
		return p.fail(unit, StageWrite, err, start)
	}

	elapsed := time.Since(start)
	p.metrics.TicksWritten(len(ticks))
	p.metrics.UnitSucceeded(elapsed)

	p.logger.Debug("unit loaded",
		"unit", unit.String(),
		"bytes", len(raw),
		"ticks", len(ticks),
		"duration", elapsed,
	)
	return true
}

func (p *Pipeline) fail(unit model.HourlyUnit, stage Stage, err error, start time.Time) bool {
	p.metrics.UnitFailed(string(stage), time.Since(start))
	p.recorder.Record(Event{Unit: unit, Stage: stage, Err: err})
	return false
}

// guard runs fn and converts a panic into an error.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}
