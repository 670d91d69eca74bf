// Package column implements the tagged-union column builder set: one
// strongly-typed, append-only builder per semantic column kind, each
// wrapping an Arrow array builder.
//
// The builder for a column is resolved once per chunk from the schema's
// semantic type, never per value. A value arriving at the wrong builder
// method is a programming invariant violation, not a data problem, and is
// reported as such rather than silently coerced or dropped.
package column

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/sasrow/sasrow/internal/sasmeta"
	"github.com/sasrow/sasrow/internal/sasrowerr"
)

// Builder is the common interface over all thirteen column kinds. Only the
// Append method matching the column's own kind is expected to be called;
// every other Append method on a given concrete builder returns
// *sasrowerr.InvariantError.
type Builder interface {
	AppendNull()
	AppendText(v string) error
	AppendInt8(v int8) error
	AppendInt16(v int16) error
	AppendInt32(v int32) error
	AppendFloat32(v float32) error
	AppendFloat64(v float64) error
	AppendDate32(days int32) error
	AppendTimeSec(secs int32) error
	AppendTimeMicro(us int64) error
	AppendTimestamp(v int64) error
	Len() int
	Finish() arrow.Array
	Release()
}

// mismatch is the shared invariant-violation path for every Append method a
// concrete builder does not override.
func mismatch(got string, want sasmeta.SemanticType) error {
	return &sasrowerr.InvariantError{
		Message: "value of kind " + got + " does not match column builder kind " + want.String(),
	}
}

// base embeds default Append implementations that all fail with a mismatch
// error; each concrete builder overrides exactly the one method matching
// its own kind.
type base struct {
	kind sasmeta.SemanticType
}

func (b base) AppendText(string) error      { return mismatch("Text", b.kind) }
func (b base) AppendInt8(int8) error        { return mismatch("Int8", b.kind) }
func (b base) AppendInt16(int16) error      { return mismatch("Int16", b.kind) }
func (b base) AppendInt32(int32) error      { return mismatch("Int32", b.kind) }
func (b base) AppendFloat32(float32) error  { return mismatch("Float32", b.kind) }
func (b base) AppendFloat64(float64) error  { return mismatch("Float64", b.kind) }
func (b base) AppendDate32(int32) error     { return mismatch("Date32", b.kind) }
func (b base) AppendTimeSec(int32) error    { return mismatch("TimeSec", b.kind) }
func (b base) AppendTimeMicro(int64) error  { return mismatch("TimeMicro", b.kind) }
func (b base) AppendTimestamp(int64) error  { return mismatch("Timestamp", b.kind) }

// New resolves the Builder for semantic type kind, pre-sized for
// rowCount rows. storageWidth, when non-zero, hints the byte arena for text
// columns (rowCount * storageWidth bytes).
func New(mem memory.Allocator, kind sasmeta.SemanticType, rowCount, storageWidth int) Builder {
	switch kind {
	case sasmeta.SemanticText:
		bld := array.NewStringBuilder(mem)
		bld.Reserve(rowCount)
		if storageWidth > 0 {
			bld.ReserveData(rowCount * storageWidth)
		}
		return &textBuilder{base: base{kind}, bld: bld}
	case sasmeta.SemanticInt8:
		bld := array.NewInt8Builder(mem)
		bld.Reserve(rowCount)
		return &int8Builder{base: base{kind}, bld: bld}
	case sasmeta.SemanticInt16:
		bld := array.NewInt16Builder(mem)
		bld.Reserve(rowCount)
		return &int16Builder{base: base{kind}, bld: bld}
	case sasmeta.SemanticInt32:
		bld := array.NewInt32Builder(mem)
		bld.Reserve(rowCount)
		return &int32Builder{base: base{kind}, bld: bld}
	case sasmeta.SemanticFloat32:
		bld := array.NewFloat32Builder(mem)
		bld.Reserve(rowCount)
		return &float32Builder{base: base{kind}, bld: bld}
	case sasmeta.SemanticDate:
		bld := array.NewDate32Builder(mem)
		bld.Reserve(rowCount)
		return &date32Builder{base: base{kind}, bld: bld}
	case sasmeta.SemanticTimeSec:
		bld := array.NewTime32Builder(mem, arrow.FixedWidthTypes.Time32s.(*arrow.Time32Type))
		bld.Reserve(rowCount)
		return &timeSecBuilder{base: base{kind}, bld: bld}
	case sasmeta.SemanticTimeMicro:
		bld := array.NewTime64Builder(mem, arrow.FixedWidthTypes.Time64us.(*arrow.Time64Type))
		bld.Reserve(rowCount)
		return &timeMicroBuilder{base: base{kind}, bld: bld}
	case sasmeta.SemanticTimestampSec:
		bld := array.NewTimestampBuilder(mem, arrow.FixedWidthTypes.Timestamp_s.(*arrow.TimestampType))
		bld.Reserve(rowCount)
		return &timestampBuilder{base: base{kind}, bld: bld}
	case sasmeta.SemanticTimestampMilli:
		bld := array.NewTimestampBuilder(mem, arrow.FixedWidthTypes.Timestamp_ms.(*arrow.TimestampType))
		bld.Reserve(rowCount)
		return &timestampBuilder{base: base{kind}, bld: bld}
	case sasmeta.SemanticTimestampMicro:
		bld := array.NewTimestampBuilder(mem, arrow.FixedWidthTypes.Timestamp_us.(*arrow.TimestampType))
		bld.Reserve(rowCount)
		return &timestampBuilder{base: base{kind}, bld: bld}
	case sasmeta.SemanticTimestampNano:
		bld := array.NewTimestampBuilder(mem, arrow.FixedWidthTypes.Timestamp_ns.(*arrow.TimestampType))
		bld.Reserve(rowCount)
		return &timestampBuilder{base: base{kind}, bld: bld}
	default:
		bld := array.NewFloat64Builder(mem)
		bld.Reserve(rowCount)
		return &float64Builder{base: base{kind}, bld: bld}
	}
}
