// Package model defines the data types shared across the tick loader.
//
// Conventions:
//   - Hours are timezone-naive and carried as time.Time in UTC
//   - Raw vendor values stay in their fixed-point encodings until transformed
//   - Pairs are six-letter symbols without separator (e.g., "EURUSD")
package model
