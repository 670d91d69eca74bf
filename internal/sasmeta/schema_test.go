package sasmeta

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/sasrow/sasrow/internal/sasfmt"
	"github.com/sasrow/sasrow/internal/sasrowerr"
)

func sampleMeta() FileMetadata {
	return FileMetadata{
		TableLabel: "demo table",
		RowCount:   2,
		VarCount:   3,
		Variables: []VariableMetadata{
			{Index: 0, Name: "NAME", Label: "Subject", StorageClass: Text, PhysicalType: PhysicalText, StorageWidth: 8},
			{Index: 1, Name: "BIRTH", Label: "Birth date", FormatString: "DATE9", StorageClass: Numeric, PhysicalType: PhysicalFloat64, StorageWidth: 8, TemporalClass: sasfmt.Date},
			{Index: 2, Name: "SCORE", Label: "Score", StorageClass: Numeric, PhysicalType: PhysicalFloat64, StorageWidth: 8},
		},
	}
}

func TestBuildSchemaAllColumns(t *testing.T) {
	schema, err := BuildSchema(sampleMeta(), nil)
	if err != nil {
		t.Fatalf("BuildSchema: %v", err)
	}
	if schema.NumFields() != 3 {
		t.Fatalf("NumFields = %d, want 3", schema.NumFields())
	}
	if got := schema.Field(1).Type; got != arrow.FixedWidthTypes.Date32 {
		t.Errorf("BIRTH type = %v, want Date32", got)
	}
	if !schema.HasMetadata() {
		t.Fatal("expected table-level metadata")
	}
}

func TestBuildSchemaSelectionOrder(t *testing.T) {
	schema, err := BuildSchema(sampleMeta(), []string{"SCORE", "NAME"})
	if err != nil {
		t.Fatalf("BuildSchema: %v", err)
	}
	if schema.NumFields() != 2 {
		t.Fatalf("NumFields = %d, want 2", schema.NumFields())
	}
	if schema.Field(0).Name != "SCORE" || schema.Field(1).Name != "NAME" {
		t.Errorf("field order = [%s, %s], want [SCORE, NAME]", schema.Field(0).Name, schema.Field(1).Name)
	}
}

func TestBuildSchemaUnknownSelectionIsConfigError(t *testing.T) {
	_, err := BuildSchema(sampleMeta(), []string{"NOPE"})
	if err == nil {
		t.Fatal("expected error for unknown selection name")
	}
	var cfgErr *sasrowerr.ConfigError
	if ce, ok := err.(*sasrowerr.ConfigError); ok {
		cfgErr = ce
	}
	if cfgErr == nil {
		t.Fatalf("err = %v (%T), want *sasrowerr.ConfigError", err, err)
	}
}

func TestSemanticDispatch(t *testing.T) {
	cases := []struct {
		v    VariableMetadata
		want SemanticType
	}{
		{VariableMetadata{StorageClass: Text}, SemanticText},
		{VariableMetadata{StorageClass: Numeric, TemporalClass: sasfmt.DateTimeNano}, SemanticTimestampNano},
		{VariableMetadata{StorageClass: Numeric, TemporalClass: sasfmt.TimeMicro}, SemanticTimeMicro},
		{VariableMetadata{StorageClass: Numeric, PhysicalType: PhysicalInt16}, SemanticInt16},
		{VariableMetadata{StorageClass: Numeric, PhysicalType: PhysicalFloat64}, SemanticFloat64},
	}
	for _, c := range cases {
		if got := c.v.Semantic(); got != c.want {
			t.Errorf("Semantic() = %v, want %v", got, c.want)
		}
	}
}
