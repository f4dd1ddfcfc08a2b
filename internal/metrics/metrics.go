package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fxticks"

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// StageNone is the stage label of successful units.
const StageNone = "none"

// Metrics holds the loader's collectors.
type Metrics struct {
	units        *prometheus.CounterVec
	ticksWritten prometheus.Counter
	fetchedBytes prometheus.Counter
	unitDuration prometheus.Histogram
	batchUnits   *prometheus.GaugeVec
}

// New registers the collectors on reg. Use a fresh registry per Metrics;
// registering twice on the same registry panics.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		units: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "units_total",
				Help:      "Hourly units processed, by outcome and failing stage",
			},
			[]string{"outcome", "stage"},
		),
		ticksWritten: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ticks_written_total",
				Help:      "Ticks handed to the sink successfully",
			},
		),
		fetchedBytes: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fetched_bytes_total",
				Help:      "Compressed bytes downloaded from the datafeed",
			},
		),
		unitDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "unit_duration_seconds",
				Help:      "Time to fetch, decode and write one hourly unit",
				Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
			},
		),
		batchUnits: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "batch_units",
				Help:      "Units in the current batch, by state",
			},
			[]string{"state"},
		),
	}
}

// UnitSucceeded records a unit that completed every stage.
func (m *Metrics) UnitSucceeded(d time.Duration) {
	if m == nil {
		return
	}
	m.units.WithLabelValues(OutcomeSuccess, StageNone).Inc()
	m.unitDuration.Observe(d.Seconds())
}

// UnitFailed records a unit that failed at stage.
func (m *Metrics) UnitFailed(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.units.WithLabelValues(OutcomeFailure, stage).Inc()
	m.unitDuration.Observe(d.Seconds())
}

// TicksWritten adds n written ticks.
func (m *Metrics) TicksWritten(n int) {
	if m == nil {
		return
	}
	m.ticksWritten.Add(float64(n))
}

// FetchedBytes adds n downloaded bytes.
func (m *Metrics) FetchedBytes(n int) {
	if m == nil {
		return
	}
	m.fetchedBytes.Add(float64(n))
}

// BatchProgress sets the completed and total unit gauges.
func (m *Metrics) BatchProgress(completed, total int) {
	if m == nil {
		return
	}
	m.batchUnits.WithLabelValues("completed").Set(float64(completed))
	m.batchUnits.WithLabelValues("total").Set(float64(total))
}
