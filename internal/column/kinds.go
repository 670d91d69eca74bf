package column

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

type textBuilder struct {
	base
	bld *array.StringBuilder
}

func (b *textBuilder) AppendText(v string) error { b.bld.Append(v); return nil }
func (b *textBuilder) AppendNull()                { b.bld.AppendNull() }
func (b *textBuilder) Len() int                   { return b.bld.Len() }
func (b *textBuilder) Finish() arrow.Array         { return b.bld.NewArray() }
func (b *textBuilder) Release()                   { b.bld.Release() }

type int8Builder struct {
	base
	bld *array.Int8Builder
}

func (b *int8Builder) AppendInt8(v int8) error { b.bld.Append(v); return nil }
func (b *int8Builder) AppendNull()             { b.bld.AppendNull() }
func (b *int8Builder) Len() int                { return b.bld.Len() }
func (b *int8Builder) Finish() arrow.Array      { return b.bld.NewArray() }
func (b *int8Builder) Release()                { b.bld.Release() }

type int16Builder struct {
	base
	bld *array.Int16Builder
}

func (b *int16Builder) AppendInt16(v int16) error { b.bld.Append(v); return nil }
func (b *int16Builder) AppendNull()               { b.bld.AppendNull() }
func (b *int16Builder) Len() int                  { return b.bld.Len() }
func (b *int16Builder) Finish() arrow.Array        { return b.bld.NewArray() }
func (b *int16Builder) Release()                  { b.bld.Release() }

type int32Builder struct {
	base
	bld *array.Int32Builder
}

func (b *int32Builder) AppendInt32(v int32) error { b.bld.Append(v); return nil }
func (b *int32Builder) AppendNull()               { b.bld.AppendNull() }
func (b *int32Builder) Len() int                  { return b.bld.Len() }
func (b *int32Builder) Finish() arrow.Array        { return b.bld.NewArray() }
func (b *int32Builder) Release()                  { b.bld.Release() }

type float32Builder struct {
	base
	bld *array.Float32Builder
}

func (b *float32Builder) AppendFloat32(v float32) error { b.bld.Append(v); return nil }
func (b *float32Builder) AppendNull()                   { b.bld.AppendNull() }
func (b *float32Builder) Len() int                      { return b.bld.Len() }
func (b *float32Builder) Finish() arrow.Array            { return b.bld.NewArray() }
func (b *float32Builder) Release()                      { b.bld.Release() }

type float64Builder struct {
	base
	bld *array.Float64Builder
}

func (b *float64Builder) AppendFloat64(v float64) error { b.bld.Append(v); return nil }
func (b *float64Builder) AppendNull()                   { b.bld.AppendNull() }
func (b *float64Builder) Len() int                      { return b.bld.Len() }
func (b *float64Builder) Finish() arrow.Array            { return b.bld.NewArray() }
func (b *float64Builder) Release()                      { b.bld.Release() }

type date32Builder struct {
	base
	bld *array.Date32Builder
}

func (b *date32Builder) AppendDate32(days int32) error {
	b.bld.Append(arrow.Date32(days))
	return nil
}
func (b *date32Builder) AppendNull()        { b.bld.AppendNull() }
func (b *date32Builder) Len() int           { return b.bld.Len() }
func (b *date32Builder) Finish() arrow.Array { return b.bld.NewArray() }
func (b *date32Builder) Release()           { b.bld.Release() }

type timeSecBuilder struct {
	base
	bld *array.Time32Builder
}

func (b *timeSecBuilder) AppendTimeSec(secs int32) error {
	b.bld.Append(arrow.Time32(secs))
	return nil
}
func (b *timeSecBuilder) AppendNull()        { b.bld.AppendNull() }
func (b *timeSecBuilder) Len() int           { return b.bld.Len() }
func (b *timeSecBuilder) Finish() arrow.Array { return b.bld.NewArray() }
func (b *timeSecBuilder) Release()           { b.bld.Release() }

type timeMicroBuilder struct {
	base
	bld *array.Time64Builder
}

func (b *timeMicroBuilder) AppendTimeMicro(us int64) error {
	b.bld.Append(arrow.Time64(us))
	return nil
}
func (b *timeMicroBuilder) AppendNull()        { b.bld.AppendNull() }
func (b *timeMicroBuilder) Len() int           { return b.bld.Len() }
func (b *timeMicroBuilder) Finish() arrow.Array { return b.bld.NewArray() }
func (b *timeMicroBuilder) Release()           { b.bld.Release() }

type timestampBuilder struct {
	base
	bld *array.TimestampBuilder
}

func (b *timestampBuilder) AppendTimestamp(v int64) error {
	b.bld.Append(arrow.Timestamp(v))
	return nil
}
func (b *timestampBuilder) AppendNull()        { b.bld.AppendNull() }
func (b *timestampBuilder) Len() int           { return b.bld.Len() }
func (b *timestampBuilder) Finish() arrow.Array { return b.bld.NewArray() }
func (b *timestampBuilder) Release()           { b.bld.Release() }
