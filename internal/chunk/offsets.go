package chunk

// Offset is one chunk's row window: rows [RowOffset, RowOffset+RowLimit)
// within the file, at the given zero-based chunk index.
type Offset struct {
	Index     int
	RowOffset int64
	RowLimit  int64
}

// buildOffsets partitions [start, start+count) into chunks of at most
// chunkRows rows each, mirroring the original reader's windows(2)-over-
// cumulative-boundaries approach.
func buildOffsets(start, count int64, chunkRows int64) []Offset {
	if count <= 0 || chunkRows <= 0 {
		return nil
	}
	n := (count + chunkRows - 1) / chunkRows
	offsets := make([]Offset, 0, n)
	for i := int64(0); i < n; i++ {
		rowOffset := start + i*chunkRows
		remaining := start + count - rowOffset
		limit := chunkRows
		if remaining < limit {
			limit = remaining
		}
		offsets = append(offsets, Offset{Index: int(i), RowOffset: rowOffset, RowLimit: limit})
	}
	return offsets
}
