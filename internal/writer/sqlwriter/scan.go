package sqlwriter

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/sasrow/sasrow/internal/column"
	"github.com/sasrow/sasrow/internal/sasrowerr"
)

// resultKind is the Arrow type a query result column is rendered as. The
// result set's shape is only known once the query runs, unlike the
// ingested schema; SQLite reports column affinity loosely, so anything
// that isn't clearly integer or real falls back to text.
type resultKind int

const (
	kindText resultKind = iota
	kindInt
	kindFloat
)

func kindFor(databaseTypeName string) resultKind {
	switch strings.ToUpper(databaseTypeName) {
	case "INTEGER", "INT", "BIGINT":
		return kindInt
	case "REAL", "FLOAT", "DOUBLE":
		return kindFloat
	default:
		return kindText
	}
}

// scanToBatch drains rows into a single in-memory ColumnBatch, inferring
// one Arrow column type per result column from the driver's reported
// column affinity.
func scanToBatch(rows *sql.Rows) (column.Batch, *arrow.Schema, error) {
	names, err := rows.Columns()
	if err != nil {
		return column.Batch{}, nil, &sasrowerr.IoError{Op: "sqlwriter.scan", Err: err}
	}
	ctypes, err := rows.ColumnTypes()
	if err != nil {
		return column.Batch{}, nil, &sasrowerr.IoError{Op: "sqlwriter.scan", Err: err}
	}

	kinds := make([]resultKind, len(names))
	fields := make([]arrow.Field, len(names))
	mem := memory.NewGoAllocator()
	builders := make([]any, len(names))
	for i, name := range names {
		k := kindFor(ctypes[i].DatabaseTypeName())
		kinds[i] = k
		switch k {
		case kindInt:
			fields[i] = arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Int64, Nullable: true}
			builders[i] = array.NewInt64Builder(mem)
		case kindFloat:
			fields[i] = arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Float64, Nullable: true}
			builders[i] = array.NewFloat64Builder(mem)
		default:
			fields[i] = arrow.Field{Name: name, Type: arrow.BinaryTypes.String, Nullable: true}
			builders[i] = array.NewStringBuilder(mem)
		}
	}
	schema := arrow.NewSchema(fields, nil)

	dest := make([]any, len(names))
	cells := make([]any, len(names))
	for i := range dest {
		dest[i] = &cells[i]
	}

	var rowCount int64
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			releaseBuilders(builders)
			return column.Batch{}, nil, &sasrowerr.IoError{Op: "sqlwriter.scan", Err: err}
		}
		for i, k := range kinds {
			appendCell(builders[i], k, cells[i])
		}
		rowCount++
	}
	if err := rows.Err(); err != nil {
		releaseBuilders(builders)
		return column.Batch{}, nil, &sasrowerr.IoError{Op: "sqlwriter.scan", Err: err}
	}

	arrays := make([]arrow.Array, len(builders))
	for i, b := range builders {
		arrays[i] = finishBuilder(b)
	}
	rec := array.NewRecord(schema, arrays, rowCount)
	for _, a := range arrays {
		a.Release()
	}
	return column.Batch{Schema: schema, Record: rec, RowCount: rowCount}, schema, nil
}

func appendCell(b any, k resultKind, v any) {
	if v == nil {
		switch bld := b.(type) {
		case *array.Int64Builder:
			bld.AppendNull()
		case *array.Float64Builder:
			bld.AppendNull()
		case *array.StringBuilder:
			bld.AppendNull()
		}
		return
	}
	switch k {
	case kindInt:
		bld := b.(*array.Int64Builder)
		bld.Append(toInt64(v))
	case kindFloat:
		bld := b.(*array.Float64Builder)
		bld.Append(toFloat64(v))
	default:
		bld := b.(*array.StringBuilder)
		bld.Append(toText(v))
	}
}

func toInt64(v any) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case float64:
		return int64(t)
	case []byte:
		n, _ := strconv.ParseInt(string(t), 10, 64)
		return n
	case string:
		n, _ := strconv.ParseInt(t, 10, 64)
		return n
	default:
		return 0
	}
}

func toFloat64(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int64:
		return float64(t)
	case []byte:
		f, _ := strconv.ParseFloat(string(t), 64)
		return f
	case string:
		f, _ := strconv.ParseFloat(t, 64)
		return f
	default:
		return 0
	}
}

func toText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func finishBuilder(b any) arrow.Array {
	switch bld := b.(type) {
	case *array.Int64Builder:
		return bld.NewArray()
	case *array.Float64Builder:
		return bld.NewArray()
	case *array.StringBuilder:
		return bld.NewArray()
	default:
		panic("sqlwriter: unknown result builder kind")
	}
}

func releaseBuilders(builders []any) {
	for _, b := range builders {
		switch bld := b.(type) {
		case *array.Int64Builder:
			bld.Release()
		case *array.Float64Builder:
			bld.Release()
		case *array.StringBuilder:
			bld.Release()
		}
	}
}
