package writer

import (
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/ipc"

	"github.com/sasrow/sasrow/internal/column"
)

// FeatherWriter renders chunks as a single Arrow IPC file stream: one
// schema message followed by one record-batch message per ColumnBatch, in
// delivery order. No type conversion is applied; the Arrow types chosen by
// the Column Builder Set pass through unchanged.
type FeatherWriter struct {
	dst io.Writer
	ipc *ipc.FileWriter
}

func NewFeatherWriter(dst io.Writer) *FeatherWriter {
	return &FeatherWriter{dst: dst}
}

func (f *FeatherWriter) Begin(schema *arrow.Schema, fileLabel string) error {
	w, err := ipc.NewFileWriter(f.dst, ipc.WithSchema(schema))
	if err != nil {
		return fmt.Errorf("writer: feather: open: %w", err)
	}
	f.ipc = w
	return nil
}

func (f *FeatherWriter) Write(batch column.Batch) error {
	if err := f.ipc.Write(batch.Record); err != nil {
		return fmt.Errorf("writer: feather: write record batch: %w", err)
	}
	return nil
}

func (f *FeatherWriter) Finish() error {
	if err := f.ipc.Close(); err != nil {
		return fmt.Errorf("writer: feather: close: %w", err)
	}
	return nil
}
