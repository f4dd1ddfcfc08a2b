// Package database opens PostgreSQL/TimescaleDB connection pools for the
// postgres tick sink.
package database
