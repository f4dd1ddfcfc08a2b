package runner

import (
	"errors"
	"fmt"
	"time"

	"github.com/rickgao/fx-ticks/internal/model"
)

// ErrWorkerTimeout is returned when a job's result is not available within
// the result timeout.
var ErrWorkerTimeout = errors.New("worker result timeout")

// TimeoutError identifies the job whose result never arrived.
type TimeoutError struct {
	Index int
	Unit  model.HourlyUnit
	Wait  time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%v: job %d (%s) after %s", ErrWorkerTimeout, e.Index, e.Unit, e.Wait)
}

func (e *TimeoutError) Is(target error) bool {
	return target == ErrWorkerTimeout
}
