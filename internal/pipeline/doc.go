// Package pipeline loads one hourly unit: fetch, decode and transform, write.
//
// Pipeline.Run never returns an error. Every stage failure, including a
// panic, is reported exactly once through the Recorder and turned into a
// false result, so one unit can never abort its siblings.
package pipeline
