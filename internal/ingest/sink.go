package ingest

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/sasrow/sasrow/internal/bitmap"
	"github.com/sasrow/sasrow/internal/column"
	"github.com/sasrow/sasrow/internal/round14"
	"github.com/sasrow/sasrow/internal/sasfmt"
	"github.com/sasrow/sasrow/internal/sasmeta"
	"github.com/sasrow/sasrow/internal/sasparser"
	"github.com/sasrow/sasrow/internal/sasrowerr"
)

// DAY_SHIFT and SEC_SHIFT convert SAS's 1960-01-01 epoch to the Unix
// 1970-01-01 epoch: 3653 days, 315619200 seconds.
const (
	daySHIFT = 3653
	secSHIFT = 315619200
)

// scaleForClass maps a sub-second temporal class to the power-of-ten
// multiplier that turns SEC_SHIFT-adjusted seconds into the column's unit.
func scaleForClass(c sasfmt.Class) int64 {
	switch c {
	case sasfmt.DateTimeMilli:
		return 1_000
	case sasfmt.DateTimeMicro:
		return 1_000_000
	case sasfmt.DateTimeNano:
		return 1_000_000_000
	default:
		return 1
	}
}

// ChunkIngestor implements sasparser.Sink for one chunk's data pass: the
// value handler's decode/round/dispatch logic, plus row-boundary detection
// using the file's unfiltered variable count so that column selection never
// desynchronizes the row cursor.
type ChunkIngestor struct {
	fileMeta      sasmeta.FileMetadata
	totalVarCount int

	// sel is a bit test against the active selection set, checked on every
	// value callback; colOf maps a selected file-order variable index to
	// its position in builders.
	sel     *bitmap.Bitmap
	colOf   []int
	set     *column.Set
	classOf []sasfmt.Class // indexed by file-order variable index

	textDec *textDecoder

	cellInRow int
	rows      int64

	firstErr error
}

// NewChunkIngestor resolves one Builder per schema field (selection already
// applied to schema field order) and prepares the selection filter against
// the file's full, unfiltered variable list.
func NewChunkIngestor(mem memory.Allocator, fileMeta sasmeta.FileMetadata, schema *arrow.Schema, rowCapacity int) *ChunkIngestor {
	colOf := make([]int, len(fileMeta.Variables))
	classOf := make([]sasfmt.Class, len(fileMeta.Variables))
	for i, v := range fileMeta.Variables {
		colOf[i] = -1
		classOf[i] = v.TemporalClass
	}

	sel := bitmap.New(len(fileMeta.Variables))
	hints := make([]column.SemanticHint, schema.NumFields())
	for col := 0; col < schema.NumFields(); col++ {
		field := schema.Field(col)
		v, ok := fileMeta.ByName(field.Name)
		if !ok {
			continue
		}
		colOf[v.Index] = col
		sel.Add(v.Index)
		hints[col] = column.SemanticHint{Kind: v.Semantic(), StorageWidth: v.StorageWidth}
	}

	return &ChunkIngestor{
		fileMeta:      fileMeta,
		totalVarCount: len(fileMeta.Variables),
		sel:           sel,
		colOf:         colOf,
		set:           column.NewSet(mem, schema, hints, rowCapacity),
		classOf:       classOf,
		textDec:       newTextDecoder(fileMeta.Encoding),
	}
}

func (s *ChunkIngestor) OnMetadata(m sasparser.Metadata) sasparser.Status {
	// Data pass: the schema is already fixed from the metadata-only pass.
	// A variable count disagreement here means the file changed out
	// from under the parse; treat it as fatal rather than silently
	// continuing with a stale schema.
	if m.VarCount != s.totalVarCount {
		s.firstErr = &sasrowerr.InvariantError{Message: "variable count changed between metadata and data pass"}
		return sasparser.StatusAbort
	}
	return sasparser.StatusOK
}

func (s *ChunkIngestor) OnVariable(v sasparser.Variable) sasparser.Status {
	if v.Index < 0 || v.Index >= s.totalVarCount {
		s.firstErr = &sasrowerr.InvariantError{Message: "variable index out of range during data pass"}
		return sasparser.StatusAbort
	}
	return sasparser.StatusOK
}

func (s *ChunkIngestor) OnValue(v sasparser.Value) sasparser.Status {
	defer s.advanceRow()

	if v.VarIndex < 0 || v.VarIndex >= len(s.colOf) || !s.sel.Has(v.VarIndex) {
		return sasparser.StatusOK
	}
	b := s.set.Builder(s.colOf[v.VarIndex])

	if v.IsMissing {
		b.AppendNull()
		return sasparser.StatusOK
	}

	var err error
	switch v.Type {
	case sasparser.ValueString:
		err = b.AppendText(s.textDec.decode(v.Str))
	case sasparser.ValueInt8:
		err = b.AppendInt8(v.I8)
	case sasparser.ValueInt16:
		err = b.AppendInt16(v.I16)
	case sasparser.ValueInt32:
		err = b.AppendInt32(v.I32)
	case sasparser.ValueFloat:
		err = b.AppendFloat32(v.F32)
	case sasparser.ValueDouble:
		err = s.appendDouble(b, v.VarIndex, v.F64)
	}
	if err != nil {
		s.firstErr = err
		return sasparser.StatusAbort
	}
	return sasparser.StatusOK
}

func (s *ChunkIngestor) appendDouble(b column.Builder, varIndex int, raw float64) error {
	rounded := round14.Round(raw)
	class := s.classOf[varIndex]
	switch class {
	case sasfmt.None:
		return b.AppendFloat64(rounded)
	case sasfmt.Date:
		return b.AppendDate32(int32(rounded) - daySHIFT)
	case sasfmt.Time:
		return b.AppendTimeSec(int32(rounded))
	case sasfmt.TimeMicro:
		return b.AppendTimeMicro(int64(rounded * 1_000_000))
	case sasfmt.DateTimeSec, sasfmt.DateTimeMilli, sasfmt.DateTimeMicro, sasfmt.DateTimeNano:
		shifted := rounded - secSHIFT
		return b.AppendTimestamp(int64(shifted * float64(scaleForClass(class))))
	default:
		return b.AppendFloat64(rounded)
	}
}

// advanceRow implements row-boundary detection: a row ends when the value
// handler has seen one value for every file-order variable, selected or
// not.
func (s *ChunkIngestor) advanceRow() {
	s.cellInRow++
	if s.cellInRow == s.totalVarCount {
		s.cellInRow = 0
		s.rows++
	}
}

// Err returns the first error encountered, if the parse was aborted.
func (s *ChunkIngestor) Err() error { return s.firstErr }

// RowsSeen returns the number of complete rows ingested so far.
func (s *ChunkIngestor) RowsSeen() int64 { return s.rows }

// Finish consumes every builder, producing one Batch. The ChunkIngestor
// must not be reused afterward.
func (s *ChunkIngestor) Finish(mem memory.Allocator) column.Batch {
	return s.set.Finish(mem, s.rows)
}
