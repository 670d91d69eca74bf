// Package writer defines the contract every output encoder implements and
// collects the concrete encoders (CSV, NDJSON, Feather/Arrow IPC, Parquet,
// and the embedded SQL query writer) that the CLI layer chooses between.
//
// A Writer receives exactly the sequence Begin, then Write zero or more
// times in chunk order, then Finish. Begin fixes the schema for the whole
// run; Write never changes it. None of the encoders in this package are
// safe for concurrent calls to Write — the Chunk Orchestrator already
// delivers batches to a single consumer in order.
package writer

import (
	"github.com/apache/arrow-go/v18/arrow"

	"github.com/sasrow/sasrow/internal/column"
)

// Writer is the contract exported to every concrete encoder.
type Writer interface {
	// Begin fixes the schema for the run and writes any header/preamble.
	// fileLabel carries the source table's label, if any, for encoders
	// that record it (e.g. as a comment or metadata block).
	Begin(schema *arrow.Schema, fileLabel string) error

	// Write appends one chunk's rows. Batches arrive in ascending chunk
	// order. Write does not take ownership of batch; the caller releases
	// it once Write returns.
	Write(batch column.Batch) error

	// Finish flushes any buffered output and writes any format trailer.
	// The CSV and NDJSON encoders leave the destination io.Writer open.
	// A Writer must not be used again after Finish returns.
	Finish() error
}
