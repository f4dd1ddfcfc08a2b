package codec

import (
	"encoding/binary"
	"math"

	"github.com/rickgao/fx-ticks/internal/model"
)

// RecordSize is the width of one encoded tick record in bytes.
const RecordSize = 20

// Decode decompresses raw and slices the result into tick records.
func Decode(raw []byte) ([]model.TickRecord, error) {
	buf, err := Decompress(raw)
	if err != nil {
		return nil, err
	}
	return DecodeRecords(buf), nil
}

// DecodeRecords slices buf into consecutive records. A trailing partial
// record is dropped. An empty buffer yields an empty, non-nil slice.
func DecodeRecords(buf []byte) []model.TickRecord {
	records := make([]model.TickRecord, 0, len(buf)/RecordSize)
	for off := 0; off+RecordSize <= len(buf); off += RecordSize {
		records = append(records, decodeRecord(buf[off:off+RecordSize]))
	}
	return records
}

func decodeRecord(b []byte) model.TickRecord {
	return model.TickRecord{
		OffsetMs:     binary.BigEndian.Uint32(b[0:4]),
		AskRaw:       binary.BigEndian.Uint32(b[4:8]),
		BidRaw:       binary.BigEndian.Uint32(b[8:12]),
		AskVolumeRaw: math.Float32frombits(binary.BigEndian.Uint32(b[12:16])),
		BidVolumeRaw: math.Float32frombits(binary.BigEndian.Uint32(b[16:20])),
	}
}

// EncodeRecords is the inverse of DecodeRecords.
func EncodeRecords(records []model.TickRecord) []byte {
	buf := make([]byte, len(records)*RecordSize)
	for i, r := range records {
		b := buf[i*RecordSize:]
		binary.BigEndian.PutUint32(b[0:4], r.OffsetMs)
		binary.BigEndian.PutUint32(b[4:8], r.AskRaw)
		binary.BigEndian.PutUint32(b[8:12], r.BidRaw)
		binary.BigEndian.PutUint32(b[12:16], math.Float32bits(r.AskVolumeRaw))
		binary.BigEndian.PutUint32(b[16:20], math.Float32bits(r.BidVolumeRaw))
	}
	return buf
}
