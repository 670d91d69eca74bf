// Package chunk plans and executes chunked parses of a .sas7bdat file,
// sequentially or over a bounded worker pool, delivering ColumnBatches to
// the writer in ascending chunk order through a bounded channel that is
// the sole backpressure mechanism.
package chunk

import (
	"context"
	"log"
	"runtime"
	"sync"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/sasrow/sasrow/internal/column"
	"github.com/sasrow/sasrow/internal/ingest"
	"github.com/sasrow/sasrow/internal/sasmeta"
	"github.com/sasrow/sasrow/internal/sasparser"
)

const errLogLimit = 20

// Plan describes the chunked parse the Orchestrator should run.
type Plan struct {
	Input    sasparser.Input
	FileMeta sasmeta.FileMetadata
	Schema   *arrow.Schema

	RowOffset int64
	// RowLimit caps the number of rows read, starting at RowOffset. Nil
	// means "to end of file"; a non-nil zero means "read zero rows" (the
	// orchestrator still delivers a schema via ReadData, but out is closed
	// having sent no batches at all, matching the metadata-only contract).
	// A negative value is rejected by the caller before Run is ever called.
	RowLimit *int64

	ChunkRows     int64
	Parallel      bool
	Workers       int
	ChannelBuffer int
	Mem           memory.Allocator

	// Dedup enables the optional dedupe-on-resume check: a chunk whose
	// content fingerprint exactly matches the chunk immediately before it
	// in delivery order is dropped instead of forwarded to the writer.
	// Only content is compared, so two adjacent chunks whose rows are
	// identical in every column are also collapsed into one.
	Dedup bool

	// LogProgress emits one completion line per delivered chunk (row
	// count, byte size, content fingerprint) at log.Printf's default
	// verbosity. Callers with an interactive terminal typically enable
	// this; piped/CI callers typically leave it off.
	LogProgress bool
}

// NewDriver opens one parser session. The Orchestrator calls this once per
// concurrently-running chunk; a single parse session is single-threaded.
type NewDriver func() (sasparser.Driver, error)

// Orchestrator executes a Plan.
type Orchestrator struct {
	plan      Plan
	newDriver NewDriver
}

func New(plan Plan, newDriver NewDriver) *Orchestrator {
	if plan.Mem == nil {
		plan.Mem = memory.NewGoAllocator()
	}
	return &Orchestrator{plan: plan, newDriver: newDriver}
}

// Run starts the chunked parse and returns a channel of finished batches,
// delivered in ascending chunk order, plus a function that blocks until
// all work has completed and returns the first error encountered, if any.
// The returned channel is closed once every chunk has been delivered or
// the parse is aborted.
func (o *Orchestrator) Run(ctx context.Context) (<-chan column.Batch, func() error) {
	count := o.plan.FileMeta.RowCount - o.plan.RowOffset
	if o.plan.RowLimit != nil && *o.plan.RowLimit < count {
		count = *o.plan.RowLimit
	}
	if count < 0 {
		count = 0
	}
	offsets := buildOffsets(o.plan.RowOffset, count, o.plan.ChunkRows)

	bufSize := o.plan.ChannelBuffer
	if bufSize <= 0 {
		bufSize = 10
	}
	out := make(chan column.Batch, bufSize)
	agg := newErrAgg(errLogLimit)

	if o.plan.Parallel {
		wait := o.runParallel(ctx, offsets, out, agg)
		return out, o.finisher(wait, agg)
	}
	wait := o.runSequential(ctx, offsets, out, agg)
	return out, o.finisher(wait, agg)
}

func (o *Orchestrator) finisher(wait func() error, agg *errAgg) func() error {
	return func() error {
		err := wait()
		if n := agg.total(); n > 0 {
			log.Printf("chunk errors: %d (showing first %d)", n, len(agg.messages()))
			for i, msg := range agg.messages() {
				log.Printf("  #%03d: %s", i+1, msg)
			}
		}
		return err
	}
}

func (o *Orchestrator) runSequential(ctx context.Context, offsets []Offset, out chan<- column.Batch, agg *errAgg) func() error {
	errCh := make(chan error, 1)
	d := &delivery{out: out, dedup: o.plan.Dedup, logging: o.plan.LogProgress}
	go func() {
		defer close(out)
		defer close(errCh)
		for _, off := range offsets {
			batch, err := o.parseOne(ctx, off)
			if err != nil {
				agg.add(err)
				errCh <- err
				return
			}
			if err := d.send(ctx, off.Index, batch); err != nil {
				agg.add(err)
				errCh <- err
				return
			}
		}
	}()
	return func() error { return <-errCh }
}

// delivery centralizes the per-chunk completion log line and the optional
// dedupe-on-resume check shared by sequential delivery and orderedSink's
// reorder-then-deliver path; both hand batches to the writer strictly one
// at a time in ascending chunk order, so a single "last fingerprint" is
// enough state for the dedupe comparison in either mode.
type delivery struct {
	out      chan<- column.Batch
	dedup    bool
	logging  bool
	lastFp   uint64
	haveLast bool
}

func (d *delivery) send(ctx context.Context, index int, b column.Batch) error {
	fp := Fingerprint(b.Record)
	if d.dedup && d.haveLast && fp == d.lastFp {
		log.Printf("chunk %d: fingerprint %016x matches previous chunk, dropping duplicate", index, fp)
		b.Release()
		return nil
	}
	d.lastFp, d.haveLast = fp, true
	if d.logging {
		log.Printf("chunk %d: %s rows, %s, fingerprint %016x", index, humanize.Comma(b.RowCount), humanize.Bytes(uint64(byteSize(b.Record))), fp)
	}
	select {
	case d.out <- b:
		return nil
	case <-ctx.Done():
		b.Release()
		return ctx.Err()
	}
}

func (o *Orchestrator) runParallel(ctx context.Context, offsets []Offset, out chan<- column.Batch, agg *errAgg) func() error {
	workers := o.plan.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	sink := &orderedSink{
		ctx:     gctx,
		d:       &delivery{out: out, dedup: o.plan.Dedup, logging: o.plan.LogProgress},
		results: make(map[int]column.Batch),
	}

	for _, off := range offsets {
		off := off
		g.Go(func() error {
			batch, err := o.parseOne(gctx, off)
			if err != nil {
				agg.add(err)
				return err
			}
			if err := sink.deliver(off.Index, batch); err != nil {
				agg.add(err)
				return err
			}
			return nil
		})
	}

	done := make(chan error, 1)
	go func() {
		err := g.Wait()
		close(out)
		done <- err
	}()
	return func() error { return <-done }
}

func (o *Orchestrator) parseOne(ctx context.Context, off Offset) (column.Batch, error) {
	select {
	case <-ctx.Done():
		return column.Batch{}, ctx.Err()
	default:
	}

	driver, err := o.newDriver()
	if err != nil {
		return column.Batch{}, err
	}
	defer driver.Close()

	ingestor := ingest.NewChunkIngestor(o.plan.Mem, o.plan.FileMeta, o.plan.Schema, int(off.RowLimit))
	if err := driver.ParseData(o.plan.Input, off.RowOffset, off.RowLimit, ingestor); err != nil {
		return column.Batch{}, err
	}
	if err := ingestor.Err(); err != nil {
		return column.Batch{}, err
	}
	return ingestor.Finish(o.plan.Mem), nil
}

// orderedSink reorders chunk results produced out of order by the worker
// pool back into ascending chunk-index order before they reach out, the
// bounded output channel. A worker whose chunk finished early holds its
// batch here rather than sending it ahead of an earlier, still-running
// chunk.
type orderedSink struct {
	mu      sync.Mutex
	ctx     context.Context
	d       *delivery
	results map[int]column.Batch
	next    int
}

func (s *orderedSink) deliver(index int, b column.Batch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.results[index] = b
	for {
		ready, ok := s.results[s.next]
		if !ok {
			return nil
		}
		delete(s.results, s.next)
		if err := s.d.send(s.ctx, s.next, ready); err != nil {
			return err
		}
		s.next++
	}
}
