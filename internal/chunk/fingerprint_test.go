package chunk

import (
	"context"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/sasrow/sasrow/internal/sasmeta"
	"github.com/sasrow/sasrow/internal/sasparser"
)

func TestFingerprintStableAndSensitiveToContent(t *testing.T) {
	fp := func(vals []float64) uint64 {
		meta := fakeFileMeta(int64(len(vals)))
		schema, err := sasmeta.BuildSchema(meta, nil)
		if err != nil {
			t.Fatalf("BuildSchema: %v", err)
		}
		rows := make([][]sasparser.Value, len(vals))
		for i, v := range vals {
			rows[i] = []sasparser.Value{{VarIndex: 0, Type: sasparser.ValueDouble, F64: v}}
		}
		plan := Plan{
			FileMeta:      meta,
			Schema:        schema,
			ChunkRows:     int64(len(vals)),
			ChannelBuffer: 10,
			Mem:           memory.NewGoAllocator(),
		}
		orch := New(plan, func() (sasparser.Driver, error) {
			return &fakeDriver{rows: rows}, nil
		})
		out, wait := orch.Run(context.Background())
		batch := <-out
		for range out {
		}
		if err := wait(); err != nil {
			t.Fatalf("wait(): %v", err)
		}
		defer batch.Release()
		return Fingerprint(batch.Record)
	}

	fp1 := fp([]float64{1, 2, 3, 4})
	fp2 := fp([]float64{1, 2, 3, 4})
	fp3 := fp([]float64{1, 2, 3, 5})

	if fp1 != fp2 {
		t.Fatalf("identical content fingerprinted differently: %x vs %x", fp1, fp2)
	}
	if fp1 == fp3 {
		t.Fatalf("different content fingerprinted identically: %x", fp1)
	}
}

// TestOrchestratorSequentialDedupDropsRepeatedChunk builds a file whose
// first two chunks carry byte-identical content, and checks the Dedup
// option collapses that pair into a single delivered batch.
func TestOrchestratorSequentialDedupDropsRepeatedChunk(t *testing.T) {
	const rowCount = 10
	meta := fakeFileMeta(rowCount)
	schema, err := sasmeta.BuildSchema(meta, nil)
	if err != nil {
		t.Fatalf("BuildSchema: %v", err)
	}

	rows := make([][]sasparser.Value, rowCount)
	for i := range rows {
		// Every row within a chunk (and across the first two chunks) is
		// identical, so chunk 0 and chunk 1 fingerprint the same.
		rows[i] = []sasparser.Value{{VarIndex: 0, Type: sasparser.ValueDouble, F64: 42.0}}
	}

	plan := Plan{
		FileMeta:      meta,
		Schema:        schema,
		ChunkRows:     5,
		ChannelBuffer: 10,
		Mem:           memory.NewGoAllocator(),
		Dedup:         true,
	}
	orch := New(plan, func() (sasparser.Driver, error) {
		return &fakeDriver{rows: rows}, nil
	})

	out, wait := orch.Run(context.Background())
	var delivered int
	var totalRows int64
	for batch := range out {
		delivered++
		totalRows += batch.RowCount
		batch.Release()
	}
	if err := wait(); err != nil {
		t.Fatalf("wait(): %v", err)
	}
	if delivered != 1 {
		t.Fatalf("delivered = %d batches, want 1 (second chunk should be deduped)", delivered)
	}
	if totalRows != 5 {
		t.Fatalf("totalRows = %d, want 5 (only the first chunk's rows)", totalRows)
	}
}
