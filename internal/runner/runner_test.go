package runner

import (
	"context"
	"errors"
	"iter"
	"math/rand/v2"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickgao/fx-ticks/internal/calendar"
	"github.com/rickgao/fx-ticks/internal/model"
)

var batchStart = time.Date(2018, 10, 1, 0, 0, 0, 0, time.UTC)

// testUnits returns n consecutive trading hours of EURUSD.
func testUnits(n int) []model.HourlyUnit {
	end := batchStart.Add(time.Duration(n) * time.Hour)
	return slices.Collect(calendar.Units("EURUSD", batchStart, end))
}

func fastConfig() Config {
	return Config{
		Workers:       4,
		PollInterval:  5 * time.Millisecond,
		ResultTimeout: time.Second,
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.GreaterOrEqual(t, cfg.Workers, 1)
	assert.Equal(t, 3*time.Second, cfg.PollInterval)
	assert.Equal(t, 3*time.Second, cfg.ResultTimeout)

	r := New(Config{}, ProcessorFunc(func(context.Context, model.HourlyUnit) bool { return true }), nil)
	assert.Equal(t, cfg, r.cfg)
}

func TestRun_AllSucceed(t *testing.T) {
	units := testUnits(12)
	r := New(fastConfig(), ProcessorFunc(func(context.Context, model.HourlyUnit) bool {
		return true
	}), nil)

	assert.Equal(t, StateIdle, r.State())

	outcome, err := r.Run(context.Background(), slices.Values(units))
	require.NoError(t, err)
	assert.Equal(t, 12, outcome.Total())
	assert.Equal(t, 12, outcome.Succeeded())
	assert.Empty(t, outcome.Failed())
	assert.Equal(t, StateDone, r.State())
}

func TestRun_PreservesSubmissionOrder(t *testing.T) {
	units := testUnits(20)
	r := New(fastConfig(), ProcessorFunc(func(context.Context, model.HourlyUnit) bool {
		time.Sleep(time.Duration(rand.IntN(10)) * time.Millisecond)
		return true
	}), nil)

	outcome, err := r.Run(context.Background(), slices.Values(units))
	require.NoError(t, err)
	require.Len(t, outcome.Outcomes, len(units))
	for i, o := range outcome.Outcomes {
		assert.Equal(t, units[i], o.Unit, "outcome %d out of order", i)
	}
}

func TestRun_FaultIsolation(t *testing.T) {
	units := testUnits(10)
	bad := units[3]

	r := New(fastConfig(), ProcessorFunc(func(_ context.Context, u model.HourlyUnit) bool {
		return u != bad
	}), nil)

	outcome, err := r.Run(context.Background(), slices.Values(units))
	require.NoError(t, err)
	assert.Equal(t, 10, outcome.Total())
	assert.Equal(t, 9, outcome.Succeeded())
	assert.Equal(t, []model.HourlyUnit{bad}, outcome.Failed())
}

func TestRun_PanicIsFailure(t *testing.T) {
	units := testUnits(5)
	bad := units[1]

	r := New(fastConfig(), ProcessorFunc(func(_ context.Context, u model.HourlyUnit) bool {
		if u == bad {
			panic("boom")
		}
		return true
	}), nil)

	outcome, err := r.Run(context.Background(), slices.Values(units))
	require.NoError(t, err)
	assert.Equal(t, 4, outcome.Succeeded())
	assert.False(t, outcome.Outcomes[1].Success)
}

func TestRun_BoundsConcurrency(t *testing.T) {
	var running, peak atomic.Int32
	cfg := fastConfig()
	cfg.Workers = 2

	r := New(cfg, ProcessorFunc(func(context.Context, model.HourlyUnit) bool {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		running.Add(-1)
		return true
	}), nil)

	outcome, err := r.Run(context.Background(), slices.Values(testUnits(10)))
	require.NoError(t, err)
	assert.Equal(t, 10, outcome.Succeeded())
	assert.LessOrEqual(t, peak.Load(), int32(2))
	assert.Greater(t, peak.Load(), int32(0))
}

func TestRun_Progress(t *testing.T) {
	var mu sync.Mutex
	var calls [][2]int

	r := New(fastConfig(),
		ProcessorFunc(func(context.Context, model.HourlyUnit) bool {
			time.Sleep(10 * time.Millisecond)
			return true
		}),
		nil,
		WithProgress(func(completed, total int) {
			mu.Lock()
			calls = append(calls, [2]int{completed, total})
			mu.Unlock()
		}),
	)

	_, err := r.Run(context.Background(), slices.Values(testUnits(6)))
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, calls)
	for i, c := range calls {
		assert.Equal(t, 6, c[1])
		if i > 0 {
			assert.GreaterOrEqual(t, c[0], calls[i-1][0], "completed count must not decrease")
		}
	}
	assert.Equal(t, [2]int{6, 6}, calls[len(calls)-1])
}

func TestRun_Empty(t *testing.T) {
	var progressCalls atomic.Int32
	r := New(fastConfig(), ProcessorFunc(func(context.Context, model.HourlyUnit) bool {
		t.Error("processor must not run")
		return false
	}), nil, WithProgress(func(int, int) { progressCalls.Add(1) }))

	var empty iter.Seq[model.HourlyUnit] = func(func(model.HourlyUnit) bool) {}
	outcome, err := r.Run(context.Background(), empty)
	require.NoError(t, err)
	assert.Zero(t, outcome.Total())
	assert.Zero(t, progressCalls.Load())
	assert.Equal(t, StateDone, r.State())
}

func TestRun_WorkerTimeout(t *testing.T) {
	units := testUnits(3)
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })

	cfg := Config{
		Workers:       3,
		PollInterval:  time.Hour,
		ResultTimeout: 20 * time.Millisecond,
	}
	r := New(cfg, ProcessorFunc(func(_ context.Context, u model.HourlyUnit) bool {
		if u == units[1] {
			<-release
		}
		return true
	}), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	outcome, err := r.Run(ctx, slices.Values(units))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWorkerTimeout)

	var timeoutErr *TimeoutError
	require.True(t, errors.As(err, &timeoutErr))
	assert.Equal(t, 1, timeoutErr.Index)
	assert.Equal(t, units[1], timeoutErr.Unit)

	// Outcomes gathered before the hung job are kept.
	require.Len(t, outcome.Outcomes, 1)
	assert.True(t, outcome.Outcomes[0].Success)
	assert.Equal(t, StateDone, r.State())
}

func TestRun_CancelledBeforeStart(t *testing.T) {
	var ran atomic.Int32
	cfg := fastConfig()
	cfg.ResultTimeout = 10 * time.Millisecond

	r := New(cfg, ProcessorFunc(func(context.Context, model.HourlyUnit) bool {
		ran.Add(1)
		return true
	}), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Run(ctx, slices.Values(testUnits(4)))
	assert.ErrorIs(t, err, ErrWorkerTimeout)
	assert.Zero(t, ran.Load())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "scheduled", StateScheduled.String())
	assert.Equal(t, "running", StateRunning.String())
	assert.Equal(t, "collecting", StateCollecting.String())
	assert.Equal(t, "done", StateDone.String())
	assert.Equal(t, "unknown", State(42).String())
}
