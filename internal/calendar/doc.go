// Package calendar generates the hours for which the vendor publishes tick
// files.
//
// The FX venue trades from Sunday evening to Friday evening. Hours during the
// weekend close are skipped so the loader does not request files that are
// known to be empty:
//   - Friday after 21:00
//   - all of Saturday
//   - Sunday before 21:00
//
// The close and reopen drift by an hour around DST changes; the window is
// deliberately a little wider than the strict session.
package calendar
