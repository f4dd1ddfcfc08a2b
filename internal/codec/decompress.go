package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/ulikunitz/xz/lzma"
)

// Decompress inflates every LZMA segment in raw and returns their
// concatenated output.
//
// A failure on the first segment is fatal. Once at least one segment has
// been decoded, a segment that does not parse is treated as trailing garbage
// and ends the loop. A segment that parses but runs out of input before its
// end marker is always fatal.
func Decompress(raw []byte) ([]byte, error) {
	var out bytes.Buffer
	cursor := 0

	for segment := 0; cursor < len(raw); segment++ {
		n, err := decompressSegment(raw[cursor:], &out)
		if err != nil {
			if segment == 0 || errors.Is(err, errTruncated) {
				return nil, &CorruptError{Segment: segment, Offset: cursor, Err: err}
			}
			break
		}
		if n == 0 {
			break
		}
		cursor += n
	}

	return out.Bytes(), nil
}

// decompressSegment decodes a single stream at the start of src into out and
// returns the number of compressed bytes it consumed. Nothing is written to
// out on failure.
func decompressSegment(src []byte, out *bytes.Buffer) (int, error) {
	// bytes.Reader is an io.ByteReader, so the decoder reads exactly the
	// bytes of this stream and the remainder tells us where the next begins.
	br := bytes.NewReader(src)

	zr, err := lzma.NewReader(br)
	if err != nil {
		return 0, fmt.Errorf("read lzma header: %w", err)
	}

	data, err := io.ReadAll(zr)
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return 0, fmt.Errorf("%w: %v", errTruncated, err)
		}
		return 0, fmt.Errorf("decode lzma stream: %w", err)
	}

	out.Write(data)
	return len(src) - br.Len(), nil
}
