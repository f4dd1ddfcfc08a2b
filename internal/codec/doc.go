// Package codec decodes the vendor's hourly .bi5 tick files.
//
// A file is one or more LZMA ("alone" format) streams written back to back,
// sometimes followed by bytes that are not a stream at all. The decompressed
// payload is a flat array of 20-byte big-endian records:
//
//	offset  size  field
//	0       4     uint32  milliseconds since the start of the hour
//	4       4     uint32  ask (fixed point)
//	8       4     uint32  bid (fixed point)
//	12      4     float32 ask volume
//	16      4     float32 bid volume
//
// There is no record count and no delimiter. An empty payload is a valid
// hour without ticks.
package codec
