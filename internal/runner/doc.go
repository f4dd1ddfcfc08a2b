// Package runner executes a batch of hourly units across a bounded worker
// pool and aggregates their outcomes in submission order.
//
// A batch moves through Scheduled, Running, Collecting and Done. While
// collecting, the runner polls completion on a fixed interval and reports
// progress; it never cancels a slow unit. Each result is then retrieved
// with a bounded wait. A wait that expires means a hung worker and fails
// the whole batch with ErrWorkerTimeout.
package runner
