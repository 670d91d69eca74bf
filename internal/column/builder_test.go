package column

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/sasrow/sasrow/internal/sasmeta"
	"github.com/sasrow/sasrow/internal/sasrowerr"
)

func TestTextBuilderRoundTrip(t *testing.T) {
	b := New(memory.NewGoAllocator(), sasmeta.SemanticText, 4, 8)
	defer b.Release()

	if err := b.AppendText("alpha"); err != nil {
		t.Fatalf("AppendText: %v", err)
	}
	b.AppendNull()
	if b.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", b.Len())
	}
	arr := b.Finish()
	defer arr.Release()
	if arr.Len() != 2 || arr.IsNull(0) || !arr.IsNull(1) {
		t.Errorf("unexpected array state: len=%d", arr.Len())
	}
}

func TestBuilderKindMismatchIsInvariantError(t *testing.T) {
	b := New(memory.NewGoAllocator(), sasmeta.SemanticInt32, 1, 0)
	defer b.Release()

	err := b.AppendText("oops")
	if err == nil {
		t.Fatal("expected invariant error for wrong append kind")
	}
	if _, ok := err.(*sasrowerr.InvariantError); !ok {
		t.Fatalf("err = %T, want *sasrowerr.InvariantError", err)
	}
}

func TestDateBuilderAppend(t *testing.T) {
	b := New(memory.NewGoAllocator(), sasmeta.SemanticDate, 1, 0)
	defer b.Release()
	if err := b.AppendDate32(18647); err != nil {
		t.Fatalf("AppendDate32: %v", err)
	}
	arr := b.Finish()
	defer arr.Release()
	if arr.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", arr.Len())
	}
}

func TestTimestampBuilderUnits(t *testing.T) {
	for _, kind := range []sasmeta.SemanticType{
		sasmeta.SemanticTimestampSec,
		sasmeta.SemanticTimestampMilli,
		sasmeta.SemanticTimestampMicro,
		sasmeta.SemanticTimestampNano,
	} {
		b := New(memory.NewGoAllocator(), kind, 1, 0)
		if err := b.AppendTimestamp(12345); err != nil {
			t.Fatalf("AppendTimestamp(%v): %v", kind, err)
		}
		arr := b.Finish()
		if arr.Len() != 1 {
			t.Errorf("kind %v: Len() = %d, want 1", kind, arr.Len())
		}
		arr.Release()
		b.Release()
	}
}
