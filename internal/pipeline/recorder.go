package pipeline

import (
	"log/slog"

	"github.com/rickgao/fx-ticks/internal/model"
)

// Stage names the pipeline step that failed.
type Stage string

const (
	StageFetch Stage = "fetch"
	StageParse Stage = "parse"
	StageWrite Stage = "write"
)

// Event describes a failed unit.
type Event struct {
	Unit  model.HourlyUnit
	Stage Stage
	Err   error
}

// Recorder receives failure events. Implementations must be safe for
// concurrent use.
type Recorder interface {
	Record(Event)
}

// RecorderFunc adapts a function to Recorder.
type RecorderFunc func(Event)

func (f RecorderFunc) Record(e Event) {
	f(e)
}

// LogRecorder writes failure events to a structured logger.
type LogRecorder struct {
	logger *slog.Logger
}

// NewLogRecorder creates a LogRecorder. A nil logger uses slog.Default().
func NewLogRecorder(logger *slog.Logger) *LogRecorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogRecorder{logger: logger}
}

// Record logs e at error level.
func (r *LogRecorder) Record(e Event) {
	r.logger.Error("unit failed",
		"unit", e.Unit.String(),
		"pair", e.Unit.Pair,
		"hour", e.Unit.Hour,
		"stage", string(e.Stage),
		"error", e.Err,
	)
}
