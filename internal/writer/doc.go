// Package writer persists transformed ticks for one hourly unit.
//
// Sinks:
//   - Tabular: one delimited file per unit (<PAIR><YYYYMMDDTHHMMSS>.tsv)
//   - SQLite: rows appended to a table through gorm
//   - Postgres: rows appended to a PostgreSQL/TimescaleDB table with pgx batches
//
// All sinks are append-only. Relational sinks store the pair per row; the
// tabular sink encodes it in the file name instead.
package writer
