package writer

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/google/uuid"

	"github.com/sasrow/sasrow/internal/column"
)

func parquetWriterProps(fileLabel string) (*parquet.WriterProperties, *pqarrow.ArrowWriterProperties) {
	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())
	return props, &arrowProps
}

// sequentialParquetWriter renders chunks sequentially into a Parquet file.
// Batches are appended to the current buffered row group, so several
// ColumnBatches can share one row group. Use NewParallelParquetWriter
// instead when batches should be spooled to temp files in groups.
type sequentialParquetWriter struct {
	dst    io.Writer
	fw     *pqarrow.FileWriter
	schema *arrow.Schema
}

// NewParquetWriter builds the sequential Parquet encoder.
func NewParquetWriter(dst io.Writer) Writer {
	return &sequentialParquetWriter{dst: dst}
}

func (s *sequentialParquetWriter) Begin(schema *arrow.Schema, fileLabel string) error {
	s.schema = schema
	props, arrowProps := parquetWriterProps(fileLabel)
	fw, err := pqarrow.NewFileWriter(schema, s.dst, props, *arrowProps)
	if err != nil {
		return fmt.Errorf("writer: parquet: open: %w", err)
	}
	s.fw = fw
	return nil
}

func (s *sequentialParquetWriter) Write(batch column.Batch) error {
	if err := s.fw.WriteBuffered(batch.Record); err != nil {
		return fmt.Errorf("writer: parquet: write row group: %w", err)
	}
	return nil
}

func (s *sequentialParquetWriter) Finish() error {
	if err := s.fw.Close(); err != nil {
		return fmt.Errorf("writer: parquet: close: %w", err)
	}
	return nil
}

// ParallelParquetWriter collects batches in bounded groups and writes each
// full group to one spool temp file (named by a UUID so concurrent runs in
// the same directory never collide), then merges every temp file's records
// into the final output, in original chunk order, at Finish. A group is
// spooled synchronously inside the Write call that fills it; spool files
// are not written concurrently with each other.
type ParallelParquetWriter struct {
	dst       io.Writer
	spoolDir  string
	groupSize int

	schema    *arrow.Schema
	fileLabel string

	mu       sync.Mutex
	group    []column.Batch
	tempPath []string
}

// NewParallelParquetWriter spools temp Parquet files into spoolDir (the OS
// default temp directory when empty) and flushes a new spool file every
// groupSize batches (10 when groupSize <= 0).
func NewParallelParquetWriter(dst io.Writer, spoolDir string, groupSize int) *ParallelParquetWriter {
	if groupSize <= 0 {
		groupSize = 10
	}
	return &ParallelParquetWriter{dst: dst, spoolDir: spoolDir, groupSize: groupSize}
}

func (p *ParallelParquetWriter) Begin(schema *arrow.Schema, fileLabel string) error {
	p.schema = schema
	p.fileLabel = fileLabel
	return nil
}

func (p *ParallelParquetWriter) Write(batch column.Batch) error {
	// The caller releases batch once Write returns; hold a reference until
	// the group is spooled.
	batch.Record.Retain()
	p.mu.Lock()
	p.group = append(p.group, batch)
	flush := len(p.group) >= p.groupSize
	var pending []column.Batch
	if flush {
		pending = p.group
		p.group = nil
	}
	p.mu.Unlock()

	if flush {
		return p.spool(pending)
	}
	return nil
}

// spool writes one group of batches to a single temp Parquet file.
func (p *ParallelParquetWriter) spool(batches []column.Batch) error {
	defer func() {
		for _, b := range batches {
			b.Record.Release()
		}
	}()
	name := fmt.Sprintf("sasrow-%s.parquet", uuid.NewString())
	dir := p.spoolDir
	if dir == "" {
		dir = os.TempDir()
	}
	path := dir + string(os.PathSeparator) + name
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writer: parquet: create spool file: %w", err)
	}

	props, arrowProps := parquetWriterProps(p.fileLabel)
	fw, err := pqarrow.NewFileWriter(p.schema, f, props, *arrowProps)
	if err != nil {
		f.Close()
		return fmt.Errorf("writer: parquet: open spool writer: %w", err)
	}
	for _, b := range batches {
		if err := fw.WriteBuffered(b.Record); err != nil {
			fw.Close()
			f.Close()
			return fmt.Errorf("writer: parquet: write spool row group: %w", err)
		}
	}
	if err := fw.Close(); err != nil {
		f.Close()
		return fmt.Errorf("writer: parquet: close spool writer: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writer: parquet: close spool file: %w", err)
	}

	p.mu.Lock()
	p.tempPath = append(p.tempPath, path)
	p.mu.Unlock()
	return nil
}

// Finish flushes any partial group, merges every spool file's row groups
// into the final output in spool order, then removes the spool files.
func (p *ParallelParquetWriter) Finish() error {
	p.mu.Lock()
	pending := p.group
	p.group = nil
	p.mu.Unlock()
	if len(pending) > 0 {
		if err := p.spool(pending); err != nil {
			return err
		}
	}

	props, arrowProps := parquetWriterProps(p.fileLabel)
	fw, err := pqarrow.NewFileWriter(p.schema, p.dst, props, *arrowProps)
	if err != nil {
		return fmt.Errorf("writer: parquet: open merged writer: %w", err)
	}

	for _, path := range p.tempPath {
		if err := mergeParquetFile(fw, path); err != nil {
			fw.Close()
			return err
		}
	}
	if err := fw.Close(); err != nil {
		return fmt.Errorf("writer: parquet: close merged writer: %w", err)
	}

	for _, path := range p.tempPath {
		_ = os.Remove(path)
	}
	return nil
}

// mergeParquetFile reads every record batch back out of the spool file at
// path and appends each to fw's buffered row group, in file order.
func mergeParquetFile(fw *pqarrow.FileWriter, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("writer: parquet: reopen spool file %s: %w", path, err)
	}
	defer f.Close()

	pf, err := file.NewParquetReader(f)
	if err != nil {
		return fmt.Errorf("writer: parquet: open spool reader %s: %w", path, err)
	}

	reader, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, memory.DefaultAllocator)
	if err != nil {
		return fmt.Errorf("writer: parquet: open spool arrow reader %s: %w", path, err)
	}

	rr, err := reader.GetRecordReader(context.Background(), nil, nil)
	if err != nil {
		return fmt.Errorf("writer: parquet: record reader %s: %w", path, err)
	}
	defer rr.Release()

	for rr.Next() {
		if err := fw.WriteBuffered(rr.Record()); err != nil {
			return fmt.Errorf("writer: parquet: merge row group from %s: %w", path, err)
		}
	}
	return nil
}
