package calendar

import (
	"fmt"
	"iter"
	"time"

	"github.com/araddon/dateparse"

	"github.com/rickgao/fx-ticks/internal/model"
)

const (
	fridayCloseHour = 21 // last Friday hour still requested
	sundayOpenHour  = 21 // first Sunday hour requested
)

// Trading reports whether the hour starting at t can carry ticks.
func Trading(t time.Time) bool {
	switch t.Weekday() {
	case time.Friday:
		return t.Hour() <= fridayCloseHour
	case time.Saturday:
		return false
	case time.Sunday:
		return t.Hour() >= sundayOpenHour
	default:
		return true
	}
}

// Hours yields trading hours in [start, end) at a one-hour stride from start.
// The sequence is lazy and can be ranged over any number of times.
func Hours(start, end time.Time) iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		for t := start; t.Before(end); t = t.Add(time.Hour) {
			if !Trading(t) {
				continue
			}
			if !yield(t) {
				return
			}
		}
	}
}

// Units yields one HourlyUnit per trading hour in [start, end).
func Units(pair string, start, end time.Time) iter.Seq[model.HourlyUnit] {
	return func(yield func(model.HourlyUnit) bool) {
		for h := range Hours(start, end) {
			if !yield(model.HourlyUnit{Pair: pair, Hour: h}) {
				return
			}
		}
	}
}

// ParseDates parses the user supplied range. An empty end means today at
// midnight (relative to now). The start is truncated to the hour since tick
// files are hourly.
func ParseDates(start, end string, now time.Time) (time.Time, time.Time, error) {
	s, err := dateparse.ParseIn(start, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse start date %q: %w", start, err)
	}
	s = s.Truncate(time.Hour)

	var e time.Time
	if end == "" {
		now = now.UTC()
		e = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	} else {
		e, err = dateparse.ParseIn(end, time.UTC)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("parse end date %q: %w", end, err)
		}
	}

	if e.Before(s) {
		return time.Time{}, time.Time{}, fmt.Errorf("end date %s is before start date %s", e, s)
	}

	return s, e, nil
}
