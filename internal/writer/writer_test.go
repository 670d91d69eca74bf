package writer

import (
	"strings"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/sasrow/sasrow/internal/ingest"
	"github.com/sasrow/sasrow/internal/sasfmt"
	"github.com/sasrow/sasrow/internal/sasmeta"
	"github.com/sasrow/sasrow/internal/sasparser"
)

func TestCSVWriterRendersHeaderAndRows(t *testing.T) {
	meta := sasmeta.FileMetadata{
		RowCount: 2,
		VarCount: 2,
		Variables: []sasmeta.VariableMetadata{
			{Index: 0, Name: "NAME", StorageClass: sasmeta.Text, PhysicalType: sasmeta.PhysicalText, StorageWidth: 8},
			{Index: 1, Name: "BIRTH", FormatString: "DATE9", StorageClass: sasmeta.Numeric, PhysicalType: sasmeta.PhysicalFloat64, TemporalClass: sasfmt.Date},
		},
	}
	schema, err := sasmeta.BuildSchema(meta, nil)
	if err != nil {
		t.Fatalf("BuildSchema: %v", err)
	}
	ing := ingest.NewChunkIngestor(memory.NewGoAllocator(), meta, schema, 2)
	ing.OnValue(sasparser.Value{VarIndex: 0, Type: sasparser.ValueString, Str: "Ada"})
	ing.OnValue(sasparser.Value{VarIndex: 1, Type: sasparser.ValueDouble, F64: 22281})
	ing.OnValue(sasparser.Value{VarIndex: 0, Type: sasparser.ValueString, Str: "Bo"})
	ing.OnValue(sasparser.Value{VarIndex: 1, Type: sasparser.ValueDouble, IsMissing: true})
	batch := ing.Finish(memory.NewGoAllocator())
	defer batch.Release()

	var buf strings.Builder
	w := NewCSVWriter(&buf, 0)
	if err := w.Begin(schema, ""); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := w.Write(batch); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "NAME,BIRTH\n") {
		t.Fatalf("header line = %q", out)
	}
	if !strings.Contains(out, "Ada,2021-01-20\n") {
		t.Errorf("expected Ada row with formatted date, got %q", out)
	}
	if !strings.Contains(out, "Bo,\n") {
		t.Errorf("expected Bo row with empty null date field, got %q", out)
	}
}

func TestNDJSONWriterOmitsNullFields(t *testing.T) {
	meta := sasmeta.FileMetadata{
		RowCount: 1,
		VarCount: 2,
		Variables: []sasmeta.VariableMetadata{
			{Index: 0, Name: "NAME", StorageClass: sasmeta.Text, PhysicalType: sasmeta.PhysicalText, StorageWidth: 8},
			{Index: 1, Name: "SCORE", StorageClass: sasmeta.Numeric, PhysicalType: sasmeta.PhysicalFloat64},
		},
	}
	schema, err := sasmeta.BuildSchema(meta, nil)
	if err != nil {
		t.Fatalf("BuildSchema: %v", err)
	}
	ing := ingest.NewChunkIngestor(memory.NewGoAllocator(), meta, schema, 1)
	ing.OnValue(sasparser.Value{VarIndex: 0, Type: sasparser.ValueString, Str: "Ada"})
	ing.OnValue(sasparser.Value{VarIndex: 1, Type: sasparser.ValueDouble, IsMissing: true})
	batch := ing.Finish(memory.NewGoAllocator())
	defer batch.Release()

	var buf strings.Builder
	w := NewNDJSONWriter(&buf)
	if err := w.Begin(schema, ""); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := w.Write(batch); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	line := strings.TrimSpace(buf.String())
	if strings.Contains(line, "SCORE") {
		t.Errorf("null SCORE field should be omitted, got %q", line)
	}
	if !strings.Contains(line, `"NAME":"Ada"`) {
		t.Errorf("expected NAME field, got %q", line)
	}
}
