package chunk

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/zeebo/xxh3"
)

// Fingerprint computes a content hash over a finished batch's raw column
// buffers, in column order. Two batches built from identical row data
// fingerprint identically regardless of which chunk produced them; this
// backs the orchestrator's optional dedupe-on-resume check, which drops a
// chunk whose content exactly repeats the one immediately before it in
// delivery order.
func Fingerprint(rec arrow.Record) uint64 {
	h := xxh3.New()
	for i := 0; i < int(rec.NumCols()); i++ {
		for _, buf := range rec.Column(i).Data().Buffers() {
			if buf == nil {
				continue
			}
			h.Write(buf.Bytes())
		}
	}
	return h.Sum64()
}

// byteSize sums the length of every buffer backing rec's columns, for
// ambient log formatting; it is an accounting estimate, not a precise
// allocation size (buffers may be shared or over-allocated).
func byteSize(rec arrow.Record) int64 {
	var n int64
	for i := 0; i < int(rec.NumCols()); i++ {
		for _, buf := range rec.Column(i).Data().Buffers() {
			if buf == nil {
				continue
			}
			n += int64(len(buf.Bytes()))
		}
	}
	return n
}
