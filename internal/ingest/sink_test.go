package ingest

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/sasrow/sasrow/internal/sasfmt"
	"github.com/sasrow/sasrow/internal/sasmeta"
	"github.com/sasrow/sasrow/internal/sasparser"
)

func TestMetadataCollectorAccumulates(t *testing.T) {
	c := NewMetadataCollector()
	c.OnMetadata(sasparser.Metadata{RowCount: 3, VarCount: 2, TableName: "T", FileEncoding: "UTF-8"})
	c.OnVariable(sasparser.Variable{Index: 0, Name: "NAME", Type: sasparser.VarTypeString, StorageWidth: 8})
	c.OnVariable(sasparser.Variable{Index: 1, Name: "BIRTH", Format: "DATE9", Type: sasparser.VarTypeDouble})

	got := c.Result()
	if got.RowCount != 3 || got.VarCount != 2 || len(got.Variables) != 2 {
		t.Fatalf("Result() = %+v", got)
	}
	if got.Variables[1].TemporalClass != sasfmt.Date {
		t.Errorf("BIRTH TemporalClass = %v, want Date", got.Variables[1].TemporalClass)
	}
}

func sampleFileMeta() sasmeta.FileMetadata {
	return sasmeta.FileMetadata{
		Encoding: "UTF-8",
		RowCount: 2,
		VarCount: 3,
		Variables: []sasmeta.VariableMetadata{
			{Index: 0, Name: "NAME", StorageClass: sasmeta.Text, PhysicalType: sasmeta.PhysicalText, StorageWidth: 8},
			{Index: 1, Name: "BIRTH", FormatString: "DATE9", StorageClass: sasmeta.Numeric, PhysicalType: sasmeta.PhysicalFloat64, TemporalClass: sasfmt.Date},
			{Index: 2, Name: "SCORE", StorageClass: sasmeta.Numeric, PhysicalType: sasmeta.PhysicalFloat64},
		},
	}
}

func TestChunkIngestorRoundTrip(t *testing.T) {
	meta := sampleFileMeta()
	schema, err := sasmeta.BuildSchema(meta, nil)
	if err != nil {
		t.Fatalf("BuildSchema: %v", err)
	}
	ing := NewChunkIngestor(memory.NewGoAllocator(), meta, schema, 2)

	rows := [][]sasparser.Value{
		{
			{VarIndex: 0, Type: sasparser.ValueString, Str: "Ada"},
			{VarIndex: 1, Type: sasparser.ValueDouble, F64: 22281}, // 2021-01-20
			{VarIndex: 2, Type: sasparser.ValueDouble, F64: 91.5},
		},
		{
			{VarIndex: 0, Type: sasparser.ValueString, Str: "Bo"},
			{VarIndex: 1, Type: sasparser.ValueDouble, IsMissing: true},
			{VarIndex: 2, Type: sasparser.ValueDouble, F64: 77},
		},
	}
	for _, row := range rows {
		for _, v := range row {
			if status := ing.OnValue(v); status != sasparser.StatusOK {
				t.Fatalf("OnValue(%+v) = %v, want StatusOK", v, status)
			}
		}
	}
	if ing.RowsSeen() != 2 {
		t.Fatalf("RowsSeen() = %d, want 2", ing.RowsSeen())
	}

	batch := ing.Finish(memory.NewGoAllocator())
	defer batch.Release()
	if batch.RowCount != 2 {
		t.Fatalf("RowCount = %d, want 2", batch.RowCount)
	}

	dateCol := batch.Record.Column(1)
	if dateCol.IsNull(0) {
		t.Error("row 0 BIRTH should not be null")
	}
	if !dateCol.IsNull(1) {
		t.Error("row 1 BIRTH should be null")
	}
}

func TestChunkIngestorSelectionSkipsUnselectedColumns(t *testing.T) {
	meta := sampleFileMeta()
	schema, err := sasmeta.BuildSchema(meta, []string{"SCORE"})
	if err != nil {
		t.Fatalf("BuildSchema: %v", err)
	}
	ing := NewChunkIngestor(memory.NewGoAllocator(), meta, schema, 1)

	ing.OnValue(sasparser.Value{VarIndex: 0, Type: sasparser.ValueString, Str: "Ada"})
	ing.OnValue(sasparser.Value{VarIndex: 1, Type: sasparser.ValueDouble, F64: 22281})
	ing.OnValue(sasparser.Value{VarIndex: 2, Type: sasparser.ValueDouble, F64: 91.5})

	if ing.RowsSeen() != 1 {
		t.Fatalf("RowsSeen() = %d, want 1 (row boundary uses unfiltered var count)", ing.RowsSeen())
	}
	batch := ing.Finish(memory.NewGoAllocator())
	defer batch.Release()
	if batch.Record.NumCols() != 1 {
		t.Fatalf("NumCols() = %d, want 1", batch.Record.NumCols())
	}
}
