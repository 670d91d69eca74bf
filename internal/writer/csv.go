package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/sasrow/sasrow/internal/column"
)

// CSVWriter renders chunks as RFC 4180 CSV: a header row of field names,
// then one row per record. Null cells render as the empty field; the
// underlying encoding/csv writer quotes a field only when it contains the
// delimiter, a quote, or a newline.
type CSVWriter struct {
	w      *csv.Writer
	schema *arrow.Schema
}

// NewCSVWriter wraps dst. comma defaults to ',' when zero.
func NewCSVWriter(dst io.Writer, comma rune) *CSVWriter {
	w := csv.NewWriter(dst)
	if comma != 0 {
		w.Comma = comma
	}
	return &CSVWriter{w: w}
}

func (c *CSVWriter) Begin(schema *arrow.Schema, fileLabel string) error {
	c.schema = schema
	header := make([]string, len(schema.Fields()))
	for i, f := range schema.Fields() {
		header[i] = f.Name
	}
	return c.w.Write(header)
}

func (c *CSVWriter) Write(batch column.Batch) error {
	rec := batch.Record
	nCols := int(rec.NumCols())
	nRows := int(rec.NumRows())
	row := make([]string, nCols)
	for r := 0; r < nRows; r++ {
		for col := 0; col < nCols; col++ {
			row[col] = cellCSV(rec.Column(col), r)
		}
		if err := c.w.Write(row); err != nil {
			return fmt.Errorf("writer: csv: write row: %w", err)
		}
	}
	return nil
}

func (c *CSVWriter) Finish() error {
	c.w.Flush()
	return c.w.Error()
}

// cellCSV renders one cell as CSV text, empty for null.
func cellCSV(col arrow.Array, row int) string {
	if col.IsNull(row) {
		return ""
	}
	switch a := col.(type) {
	case *array.String:
		return a.Value(row)
	case *array.Int8:
		return strconv.FormatInt(int64(a.Value(row)), 10)
	case *array.Int16:
		return strconv.FormatInt(int64(a.Value(row)), 10)
	case *array.Int32:
		return strconv.FormatInt(int64(a.Value(row)), 10)
	case *array.Int64:
		return strconv.FormatInt(a.Value(row), 10)
	case *array.Float32:
		return strconv.FormatFloat(float64(a.Value(row)), 'g', -1, 32)
	case *array.Float64:
		return strconv.FormatFloat(a.Value(row), 'g', -1, 64)
	case *array.Date32:
		return formatDate32(a.Value(row))
	case *array.Time32:
		return formatTime32Sec(a.Value(row))
	case *array.Time64:
		return formatTime64Micro(a.Value(row))
	case *array.Timestamp:
		unit := a.DataType().(*arrow.TimestampType).Unit
		return formatTimestamp(a.Value(row), unit)
	default:
		return fmt.Sprintf("%v", col)
	}
}
