// Package sasrow is the row-ingestion core: it drives the external ReadStat
// C parser through a bounded, optionally-parallel chunk pipeline and
// accumulates typed column data directly into Arrow-compatible columnar
// builders. Everything below this package (sasparser, sasmeta, ingest,
// column, chunk, writer) is an implementation detail; ReadMetadata and
// ReadData are the two entry points external callers — a CLI, an embedding
// application, or a test — are expected to use.
package sasrow

import (
	"context"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/sasrow/sasrow/internal/chunk"
	"github.com/sasrow/sasrow/internal/column"
	"github.com/sasrow/sasrow/internal/ingest"
	"github.com/sasrow/sasrow/internal/sasmeta"
	"github.com/sasrow/sasrow/internal/sasparser"
	"github.com/sasrow/sasrow/internal/sasrowerr"
)

// Input names the .sas7bdat data to read: a filesystem path the parser
// opens itself, or an already-resident byte span (used for both the
// in-memory and memory-mapped input strategies; the caller decides how the
// bytes became resident before handing them here).
type Input = sasparser.Input

// FromPath builds an Input the driver opens and reads itself.
func FromPath(path string) Input { return sasparser.FromPath(path) }

// FromBytes builds an Input over an already-resident byte span.
func FromBytes(b []byte) Input { return sasparser.FromBytes(b) }

// FileMetadata is the file- and variable-level metadata produced by a
// metadata-only parse pass. It is read-only once returned.
type FileMetadata = sasmeta.FileMetadata

// Batch is a contiguous rectangular slab of rows sharing one schema, the
// unit ReadData delivers to its caller.
type Batch = column.Batch

// ReadMetadata drives a metadata-only parse pass (no value handler is
// installed, so no value callbacks fire) and returns the resulting
// FileMetadata. The
// returned value is safe to share, read-only, across any number of
// subsequent ReadData calls against the same input.
func ReadMetadata(input Input) (FileMetadata, error) {
	driver, err := sasparser.Open()
	if err != nil {
		return FileMetadata{}, err
	}
	defer driver.Close()

	collector := ingest.NewMetadataCollector()
	if err := driver.ParseMetadata(input, collector); err != nil {
		return FileMetadata{}, err
	}
	return collector.Result(), nil
}

// ReadOptions configures a ReadData call. The zero value reads every row
// and every variable sequentially, in chunks of DefaultChunkRows rows.
type ReadOptions struct {
	// RowOffset is the first row (0-based) to include.
	RowOffset int64
	// RowLimit caps the number of rows read, starting at RowOffset. Nil
	// means "read to end of file". A non-nil zero means "read zero rows":
	// ReadData still returns the schema, but Batches is closed having
	// delivered no batches at all -- the metadata-only contract. A value
	// beyond the file's row count is clamped to the file's row count. A
	// negative value is a ConfigError.
	RowLimit *int64
	// Select, when non-empty, restricts the emitted schema to these
	// variable names, in this order. An unknown name is a ConfigError.
	Select []string
	// ChunkRows is the maximum number of rows per chunk. Zero uses
	// DefaultChunkRows (10,000).
	ChunkRows int64
	// Parallel selects parallel chunk execution over a bounded worker pool
	// instead of strictly sequential chunk-by-chunk parsing. Batches are
	// still delivered to the caller in ascending chunk order.
	Parallel bool
	// Workers bounds the parallel worker pool width. Zero uses
	// runtime.GOMAXPROCS(0).
	Workers int
	// ChannelBuffer is the bounded channel capacity between the chunk
	// orchestrator and the caller. Zero uses DefaultChannelBuffer (10),
	// the sole backpressure mechanism described by the spec.
	ChannelBuffer int
	// Mem is the Arrow memory allocator builders use. Nil selects
	// memory.NewGoAllocator().
	Mem memory.Allocator

	// Dedup enables the orchestrator's dedupe-on-resume check: a chunk
	// whose content fingerprint exactly matches the chunk immediately
	// before it in delivery order is dropped instead of forwarded.
	Dedup bool

	// LogProgress emits one completion line per delivered chunk (row
	// count, byte size, content fingerprint). Callers typically enable
	// this only when talking to an interactive terminal.
	LogProgress bool
}

// DefaultChunkRows and DefaultChannelBuffer are the two persisted constants
// from the external interface contract.
const (
	DefaultChunkRows     = 10_000
	DefaultChannelBuffer = 10
)

// Result is what ReadData returns: the fixed schema for the run (built once,
// before the first row, and never mutated), a channel of finished batches
// delivered in ascending chunk order, and a Wait function that blocks until
// every chunk has been delivered or the parse has aborted, returning the
// first error encountered, if any. The caller must drain Batches to
// completion (or until ctx is done) before calling Wait, and must call
// Batch.Release on every received batch once it has been consumed.
type Result struct {
	Schema  *arrow.Schema
	Batches <-chan Batch
	Wait    func() error
}

// ReadData parses meta.RowCount rows (clamped to opts.RowOffset/RowLimit) in
// chunks, sequentially or over a bounded worker pool, and streams the
// resulting column batches back to the caller through a bounded channel.
// meta must have come from a prior ReadMetadata call against the same
// input; it is read-only and safe to reuse across concurrent ReadData
// calls.
func ReadData(ctx context.Context, input Input, meta FileMetadata, opts ReadOptions) (Result, error) {
	schema, err := sasmeta.BuildSchema(meta, opts.Select)
	if err != nil {
		return Result{}, err
	}

	chunkRows := opts.ChunkRows
	if chunkRows < 0 {
		return Result{}, &sasrowerr.ConfigError{Path: "chunk_rows", Message: "must be positive"}
	}
	if chunkRows == 0 {
		chunkRows = DefaultChunkRows
	}
	if opts.RowOffset < 0 {
		return Result{}, &sasrowerr.ConfigError{Path: "row_offset", Message: "must not be negative"}
	}
	if opts.RowLimit != nil && *opts.RowLimit < 0 {
		return Result{}, &sasrowerr.ConfigError{Path: "row_limit", Message: "must not be negative"}
	}

	mem := opts.Mem
	if mem == nil {
		mem = memory.NewGoAllocator()
	}

	plan := chunk.Plan{
		Input:         input,
		FileMeta:      meta,
		Schema:        schema,
		RowOffset:     opts.RowOffset,
		RowLimit:      opts.RowLimit,
		ChunkRows:     chunkRows,
		Parallel:      opts.Parallel,
		Workers:       opts.Workers,
		ChannelBuffer: opts.ChannelBuffer,
		Mem:           mem,
		Dedup:         opts.Dedup,
		LogProgress:   opts.LogProgress,
	}

	orch := chunk.New(plan, sasparser.Open)
	batches, wait := orch.Run(ctx)
	return Result{Schema: schema, Batches: batches, Wait: wait}, nil
}
