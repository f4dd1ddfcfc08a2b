// Package metrics provides Prometheus metrics for monitoring a load.
//
// Key metrics:
//   - Unit outcomes by failing stage
//   - Ticks written and bytes fetched
//   - Per-unit pipeline latency
//   - Batch progress (completed vs. total units)
//
// All methods are safe on a nil *Metrics, which records nothing.
package metrics
