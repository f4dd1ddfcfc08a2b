package model

import "time"

// -----------------------------------------------------------------------------
// Vendor Types
// -----------------------------------------------------------------------------

// TickRecord is one quote event exactly as stored in an hourly .bi5 file.
type TickRecord struct {
	OffsetMs     uint32  // Milliseconds since the start of the hour (< 3,600,000)
	AskRaw       uint32  // Ask price in pair-specific fixed point
	BidRaw       uint32  // Bid price in pair-specific fixed point
	AskVolumeRaw float32 // Ask volume in millions
	BidVolumeRaw float32 // Bid volume in millions
}

// -----------------------------------------------------------------------------
// Canonical Types
// -----------------------------------------------------------------------------

// Tick is one quote event in real units.
type Tick struct {
	Timestamp time.Time // Hour start + offset
	Ask       float64   // Real ask price
	Bid       float64   // Real bid price
	AskVolume float64   // Ask volume, rounded to a whole unit
	BidVolume float64   // Bid volume, rounded to a whole unit
	Pair      string    // Only set when the sink stores the pair per row
}

// -----------------------------------------------------------------------------
// Batch Types
// -----------------------------------------------------------------------------

// HourlyUnit is the smallest schedulable piece of work: one pair for one hour.
type HourlyUnit struct {
	Pair string
	Hour time.Time
}

// String renders the unit for log lines (e.g., "EURUSD@2018-10-01T00").
func (u HourlyUnit) String() string {
	return u.Pair + "@" + u.Hour.Format("2006-01-02T15")
}

// UnitOutcome records whether a unit's pipeline succeeded.
type UnitOutcome struct {
	Unit    HourlyUnit
	Success bool
}

// BatchOutcome holds unit outcomes in submission order.
type BatchOutcome struct {
	Outcomes []UnitOutcome
}

// Total returns the number of units in the batch.
func (b BatchOutcome) Total() int {
	return len(b.Outcomes)
}

// Succeeded returns the number of units that reported success.
func (b BatchOutcome) Succeeded() int {
	n := 0
	for _, o := range b.Outcomes {
		if o.Success {
			n++
		}
	}
	return n
}

// Failed returns the failed units in submission order.
func (b BatchOutcome) Failed() []HourlyUnit {
	var failed []HourlyUnit
	for _, o := range b.Outcomes {
		if !o.Success {
			failed = append(failed, o.Unit)
		}
	}
	return failed
}
