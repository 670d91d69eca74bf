package sqlwriter

import (
	"database/sql"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	// Registers the "sqlite" database/sql driver.
	_ "modernc.org/sqlite"

	"github.com/sasrow/sasrow/internal/column"
	"github.com/sasrow/sasrow/internal/sasrowerr"
	"github.com/sasrow/sasrow/internal/writer"
)

// ResultFormat selects the encoder Finish uses to render the query's
// result set.
type ResultFormat int

const (
	ResultCSV ResultFormat = iota
	ResultNDJSON
)

// Writer is the embedded SQL query writer: it accumulates every incoming
// batch into an in-memory SQLite table, then at Finish runs Config.Query
// once and streams the result set through a CSV or NDJSON encoder before
// dropping the table and closing the database.
type Writer struct {
	cfg    Config
	dst    io.Writer
	format ResultFormat

	db     *sql.DB
	schema *arrow.Schema
	table  string
}

// New builds a Writer that writes its query's result set to dst in the
// given format.
func New(cfg Config, dst io.Writer, format ResultFormat) *Writer {
	return &Writer{cfg: cfg, dst: dst, format: format}
}

func (w *Writer) Begin(schema *arrow.Schema, fileLabel string) error {
	w.schema = schema
	w.table = w.cfg.tableName()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return &sasrowerr.IoError{Op: "sqlwriter.Begin", Err: err}
	}
	if _, err := db.Exec(createTableDDL(w.table, schema)); err != nil {
		db.Close()
		return &sasrowerr.IoError{Op: "sqlwriter.Begin", Err: fmt.Errorf("create table: %w", err)}
	}
	w.db = db
	return nil
}

// Write inserts one batch's rows into the ephemeral table using one
// prepared single-row INSERT, executed once per row inside one
// transaction. The
// ColumnBatch is column-major; inserting requires transposing it to
// row-major, an explicit, accepted cost of running queries over the data.
func (w *Writer) Write(batch column.Batch) error {
	rec := batch.Record
	nCols := int(rec.NumCols())
	nRows := int(rec.NumRows())
	if nRows == 0 {
		return nil
	}

	tx, err := w.db.Begin()
	if err != nil {
		return &sasrowerr.IoError{Op: "sqlwriter.Write", Err: err}
	}

	names := make([]string, nCols)
	placeholders := make([]string, nCols)
	for i, f := range w.schema.Fields() {
		names[i] = quoteIdent(f.Name)
		placeholders[i] = "?"
	}
	stmtSQL := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(w.table), strings.Join(names, ", "), strings.Join(placeholders, ", "))

	stmt, err := tx.Prepare(stmtSQL)
	if err != nil {
		tx.Rollback()
		return &sasrowerr.IoError{Op: "sqlwriter.Write", Err: fmt.Errorf("prepare insert: %w", err)}
	}

	row := make([]any, nCols)
	for r := 0; r < nRows; r++ {
		for c := 0; c < nCols; c++ {
			row[c] = cellValue(rec.Column(c), r)
		}
		if _, err := stmt.Exec(row...); err != nil {
			stmt.Close()
			tx.Rollback()
			return &sasrowerr.IoError{Op: "sqlwriter.Write", Err: fmt.Errorf("insert row %d: %w", r, err)}
		}
	}
	stmt.Close()

	if err := tx.Commit(); err != nil {
		return &sasrowerr.IoError{Op: "sqlwriter.Write", Err: fmt.Errorf("commit: %w", err)}
	}
	return nil
}

// Finish runs Config.Query once, renders the result set through the chosen
// encoder, drops the ephemeral table, and closes the database.
func (w *Writer) Finish() error {
	defer w.db.Close()
	defer w.db.Exec(dropTableDDL(w.table))

	rows, err := w.db.Query(w.cfg.Query)
	if err != nil {
		return &sasrowerr.IoError{Op: "sqlwriter.Finish", Err: fmt.Errorf("query: %w", err)}
	}
	defer rows.Close()

	batch, resultSchema, err := scanToBatch(rows)
	if err != nil {
		return err
	}
	defer batch.Release()

	var enc writer.Writer
	switch w.format {
	case ResultNDJSON:
		enc = writer.NewNDJSONWriter(w.dst)
	default:
		enc = writer.NewCSVWriter(w.dst, 0)
	}

	if err := enc.Begin(resultSchema, ""); err != nil {
		return err
	}
	if err := enc.Write(batch); err != nil {
		return err
	}
	return enc.Finish()
}

// cellValue extracts the driver-bindable Go value for one cell, nil for a
// null cell.
func cellValue(col arrow.Array, row int) any {
	if col.IsNull(row) {
		return nil
	}
	switch a := col.(type) {
	case *array.String:
		return a.Value(row)
	case *array.Int8:
		return int64(a.Value(row))
	case *array.Int16:
		return int64(a.Value(row))
	case *array.Int32:
		return int64(a.Value(row))
	case *array.Float32:
		return float64(a.Value(row))
	case *array.Float64:
		return a.Value(row)
	case *array.Date32:
		return a.Value(row).ToTime().Format("2006-01-02")
	case *array.Time32:
		return time.Unix(int64(a.Value(row)), 0).UTC().Format("15:04:05")
	case *array.Time64:
		return time.UnixMicro(int64(a.Value(row))).UTC().Format("15:04:05.000000")
	case *array.Timestamp:
		unit := a.DataType().(*arrow.TimestampType).Unit
		return a.Value(row).ToTime(unit).UTC().Format(time.RFC3339Nano)
	default:
		return fmt.Sprintf("%v", col)
	}
}
