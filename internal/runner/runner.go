package runner

import (
	"context"
	"iter"
	"log/slog"
	"runtime"
	"slices"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/rickgao/fx-ticks/internal/metrics"
	"github.com/rickgao/fx-ticks/internal/model"
)

// Processor handles one unit. It must not return until the unit is done.
type Processor interface {
	Run(ctx context.Context, unit model.HourlyUnit) bool
}

// ProcessorFunc is a function adapter for Processor.
type ProcessorFunc func(context.Context, model.HourlyUnit) bool

func (f ProcessorFunc) Run(ctx context.Context, unit model.HourlyUnit) bool {
	return f(ctx, unit)
}

// ProgressFunc observes (completed, total) after each poll.
type ProgressFunc func(completed, total int)

// Config holds runner configuration.
type Config struct {
	Workers       int           // Max concurrent units (default: runtime.NumCPU())
	PollInterval  time.Duration // Completion poll interval (default: 3s)
	ResultTimeout time.Duration // Per-job result wait once collecting ends (default: 3s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Workers:       runtime.NumCPU(),
		PollInterval:  3 * time.Second,
		ResultTimeout: 3 * time.Second,
	}
}

// State is the lifecycle state of a batch.
type State int32

const (
	StateIdle State = iota
	StateScheduled
	StateRunning
	StateCollecting
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScheduled:
		return "scheduled"
	case StateRunning:
		return "running"
	case StateCollecting:
		return "collecting"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Option configures a Runner.
type Option func(*Runner)

// WithProgress registers a progress observer.
func WithProgress(fn ProgressFunc) Option {
	return func(r *Runner) {
		r.progress = fn
	}
}

// WithMetrics publishes batch progress on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Runner) {
		r.metrics = m
	}
}

// Runner schedules units onto a bounded pool of goroutines.
type Runner struct {
	cfg       Config
	processor Processor
	logger    *slog.Logger
	metrics   *metrics.Metrics
	progress  ProgressFunc

	state atomic.Int32
}

// New creates a Runner. Zero config fields take their defaults.
func New(cfg Config, processor Processor, logger *slog.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = slog.Default()
	}

	def := DefaultConfig()
	if cfg.Workers < 1 {
		cfg.Workers = def.Workers
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = def.PollInterval
	}
	if cfg.ResultTimeout <= 0 {
		cfg.ResultTimeout = def.ResultTimeout
	}

	r := &Runner{
		cfg:       cfg,
		processor: processor,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// State returns the current batch state.
func (r *Runner) State() State {
	return State(r.state.Load())
}

func (r *Runner) setState(s State) {
	r.state.Store(int32(s))
}

// Run processes every unit and returns their outcomes in submission order.
//
// Cancelling ctx stops polling and keeps queued units from starting; units
// already running are not interrupted. Any unit without a result when the
// bounded wait expires fails the batch with a *TimeoutError, alongside the
// outcomes collected before it.
func (r *Runner) Run(ctx context.Context, units iter.Seq[model.HourlyUnit]) (model.BatchOutcome, error) {
	start := time.Now()
	logger := r.logger.With("batch_id", uuid.NewString())

	// Scheduled
	r.setState(StateScheduled)
	jobs := slices.Collect(units)
	total := len(jobs)
	results := make([]chan bool, total)
	for i := range results {
		results[i] = make(chan bool, 1)
	}

	logger.Info("batch scheduled",
		"units", total,
		"workers", r.cfg.Workers,
	)

	// Running
	r.setState(StateRunning)
	sem := semaphore.NewWeighted(int64(r.cfg.Workers))
	var completed atomic.Int64
	for i, unit := range jobs {
		go r.work(ctx, sem, unit, results[i], &completed, logger)
	}

	// Collecting
	r.setState(StateCollecting)
	r.collect(ctx, &completed, total, logger)

	// Done
	outcome := model.BatchOutcome{Outcomes: make([]model.UnitOutcome, 0, total)}
	for i, unit := range jobs {
		ok, err := r.await(i, unit, results[i])
		if err != nil {
			r.setState(StateDone)
			logger.Error("batch aborted",
				"unit", unit.String(),
				"error", err,
			)
			return outcome, err
		}
		outcome.Outcomes = append(outcome.Outcomes, model.UnitOutcome{Unit: unit, Success: ok})
	}
	r.setState(StateDone)
	r.metrics.BatchProgress(total, total)

	logger.Info("batch complete",
		"succeeded", outcome.Succeeded(),
		"total", total,
		"duration", time.Since(start),
	)
	return outcome, nil
}

// work runs one unit once a pool slot is free and reports on out.
func (r *Runner) work(ctx context.Context, sem *semaphore.Weighted, unit model.HourlyUnit, out chan<- bool, completed *atomic.Int64, logger *slog.Logger) {
	if err := sem.Acquire(ctx, 1); err != nil {
		// Never started; the bounded wait reports it.
		return
	}
	defer sem.Release(1)

	ok := r.process(context.WithoutCancel(ctx), unit, logger)
	out <- ok
	completed.Add(1)
}

// process calls the processor and treats a panic as a failed unit.
func (r *Runner) process(ctx context.Context, unit model.HourlyUnit, logger *slog.Logger) (ok bool) {
	defer func() {
		if p := recover(); p != nil {
			logger.Error("worker panicked",
				"unit", unit.String(),
				"panic", p,
			)
			ok = false
		}
	}()
	return r.processor.Run(ctx, unit)
}

// collect polls until every job has reported or ctx is cancelled.
func (r *Runner) collect(ctx context.Context, completed *atomic.Int64, total int, logger *slog.Logger) {
	if total == 0 {
		return
	}

	ticker := time.NewTicker(r.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Warn("batch polling cancelled",
				"completed", completed.Load(),
				"total", total,
				"error", ctx.Err(),
			)
			return
		case <-ticker.C:
		}

		done := int(completed.Load())
		r.report(done, total, logger)
		if done >= total {
			return
		}
	}
}

func (r *Runner) report(completed, total int, logger *slog.Logger) {
	logger.Info("batch progress",
		"completed", completed,
		"total", total,
	)
	r.metrics.BatchProgress(completed, total)
	if r.progress != nil {
		r.progress(completed, total)
	}
}

// await retrieves one job's result within the result timeout.
func (r *Runner) await(index int, unit model.HourlyUnit, result <-chan bool) (bool, error) {
	timer := time.NewTimer(r.cfg.ResultTimeout)
	defer timer.Stop()

	select {
	case ok := <-result:
		return ok, nil
	case <-timer.C:
		return false, &TimeoutError{Index: index, Unit: unit, Wait: r.cfg.ResultTimeout}
	}
}
