package column

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/sasrow/sasrow/internal/sasmeta"
)

// Batch is a contiguous rectangular slab of rows sharing one schema: the
// unit the Chunk Orchestrator hands to the writer.
type Batch struct {
	Schema   *arrow.Schema
	Record   arrow.Record
	RowCount int64
}

// Release drops the batch's underlying Arrow record.
func (b Batch) Release() {
	if b.Record != nil {
		b.Record.Release()
	}
}

// Set is the ordered collection of per-column builders for one chunk,
// resolved once at chunk start from the chunk's schema.
type Set struct {
	schema   *arrow.Schema
	builders []Builder
}

// NewSet resolves one Builder per schema field, in field order, sized for
// rowCount rows.
func NewSet(mem memory.Allocator, schema *arrow.Schema, kinds []SemanticHint, rowCount int) *Set {
	builders := make([]Builder, len(kinds))
	for i, h := range kinds {
		builders[i] = New(mem, h.Kind, rowCount, h.StorageWidth)
	}
	return &Set{schema: schema, builders: builders}
}

// SemanticHint pairs a column's semantic type with its storage width, the
// two facts New needs to pre-size a builder.
type SemanticHint struct {
	Kind         sasmeta.SemanticType
	StorageWidth int
}

// Builder returns the builder for column index i.
func (s *Set) Builder(i int) Builder { return s.builders[i] }

// Finish consumes every builder in the set, in order, producing one Batch.
// rowCount is the number of rows the caller actually ingested; it is
// authoritative over any builder's array length, since an empty selection
// leaves zero builders (and so zero-length arrays) even though rows were
// read. The Set must not be used after Finish.
func (s *Set) Finish(mem memory.Allocator, rowCount int64) Batch {
	arrays := make([]arrow.Array, len(s.builders))
	for i, b := range s.builders {
		arrays[i] = b.Finish()
		b.Release()
	}
	rec := array.NewRecord(s.schema, arrays, rowCount)
	for _, a := range arrays {
		a.Release()
	}
	return Batch{Schema: s.schema, Record: rec, RowCount: rowCount}
}
