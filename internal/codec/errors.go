package codec

import (
	"errors"
	"fmt"
)

// ErrCorrupt classifies every decode failure. Use errors.Is to test for it.
var ErrCorrupt = errors.New("corrupt tick stream")

// errTruncated marks a segment whose input ran out before its end marker.
var errTruncated = errors.New("stream ended before end-of-stream marker")

// CorruptError describes where decompression failed.
type CorruptError struct {
	Segment int   // zero-based index of the failing segment
	Offset  int   // byte offset of the segment in the raw payload
	Err     error // underlying decoder error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("corrupt tick stream: segment %d at offset %d: %v", e.Segment, e.Offset, e.Err)
}

func (e *CorruptError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrCorrupt) true for any *CorruptError.
func (e *CorruptError) Is(target error) bool {
	return target == ErrCorrupt
}
