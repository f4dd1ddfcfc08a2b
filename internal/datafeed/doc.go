// Package datafeed fetches hourly tick files from the Dukascopy datafeed.
//
// Files live at:
//
//	{base}/{PAIR}/{YYYY}/{MM}/{DD}/{HH}h_ticks.bi5
//
// where MM is zero-based (January = 00). The body is returned undecoded;
// see package codec.
package datafeed
