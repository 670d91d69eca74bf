package writer

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/sasrow/sasrow/internal/column"
)

// NDJSONWriter renders chunks as newline-delimited JSON: one object per
// row, fields in schema order. A null field is omitted from the object
// entirely rather than written as JSON null.
type NDJSONWriter struct {
	w      *bufio.Writer
	schema *arrow.Schema
	names  []string
}

func NewNDJSONWriter(dst io.Writer) *NDJSONWriter {
	return &NDJSONWriter{w: bufio.NewWriter(dst)}
}

func (n *NDJSONWriter) Begin(schema *arrow.Schema, fileLabel string) error {
	n.schema = schema
	n.names = make([]string, len(schema.Fields()))
	for i, f := range schema.Fields() {
		n.names[i] = f.Name
	}
	return nil
}

func (n *NDJSONWriter) Write(batch column.Batch) error {
	rec := batch.Record
	nCols := int(rec.NumCols())
	nRows := int(rec.NumRows())
	for r := 0; r < nRows; r++ {
		n.w.WriteByte('{')
		wrote := false
		for col := 0; col < nCols; col++ {
			v, ok := cellJSON(rec.Column(col), r)
			if !ok {
				continue
			}
			if wrote {
				n.w.WriteByte(',')
			}
			key, err := json.Marshal(n.names[col])
			if err != nil {
				return fmt.Errorf("writer: ndjson: marshal key: %w", err)
			}
			val, err := json.Marshal(v)
			if err != nil {
				return fmt.Errorf("writer: ndjson: marshal value: %w", err)
			}
			n.w.Write(key)
			n.w.WriteByte(':')
			n.w.Write(val)
			wrote = true
		}
		n.w.WriteByte('}')
		n.w.WriteByte('\n')
	}
	return n.w.Flush()
}

func (n *NDJSONWriter) Finish() error {
	return n.w.Flush()
}

// cellJSON returns the Go value json.Marshal should render for one cell,
// and false if the cell is null and should be omitted.
func cellJSON(col arrow.Array, row int) (any, bool) {
	if col.IsNull(row) {
		return nil, false
	}
	switch a := col.(type) {
	case *array.String:
		return a.Value(row), true
	case *array.Int8:
		return a.Value(row), true
	case *array.Int16:
		return a.Value(row), true
	case *array.Int32:
		return a.Value(row), true
	case *array.Int64:
		return a.Value(row), true
	case *array.Float32:
		return a.Value(row), true
	case *array.Float64:
		return a.Value(row), true
	case *array.Date32:
		return formatDate32(a.Value(row)), true
	case *array.Time32:
		return formatTime32Sec(a.Value(row)), true
	case *array.Time64:
		return formatTime64Micro(a.Value(row)), true
	case *array.Timestamp:
		unit := a.DataType().(*arrow.TimestampType).Unit
		return formatTimestamp(a.Value(row), unit), true
	default:
		return fmt.Sprintf("%v", col), true
	}
}
