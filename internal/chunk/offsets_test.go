package chunk

import "testing"

func TestBuildOffsetsEvenDivision(t *testing.T) {
	offs := buildOffsets(0, 20, 10)
	if len(offs) != 2 {
		t.Fatalf("len = %d, want 2", len(offs))
	}
	if offs[0] != (Offset{Index: 0, RowOffset: 0, RowLimit: 10}) {
		t.Errorf("offs[0] = %+v", offs[0])
	}
	if offs[1] != (Offset{Index: 1, RowOffset: 10, RowLimit: 10}) {
		t.Errorf("offs[1] = %+v", offs[1])
	}
}

func TestBuildOffsetsRemainder(t *testing.T) {
	offs := buildOffsets(0, 25, 10)
	if len(offs) != 3 {
		t.Fatalf("len = %d, want 3", len(offs))
	}
	if offs[2].RowLimit != 5 {
		t.Errorf("last chunk RowLimit = %d, want 5", offs[2].RowLimit)
	}
}

func TestBuildOffsetsWithStart(t *testing.T) {
	offs := buildOffsets(5, 12, 10)
	if len(offs) != 2 {
		t.Fatalf("len = %d, want 2", len(offs))
	}
	if offs[0].RowOffset != 5 || offs[0].RowLimit != 10 {
		t.Errorf("offs[0] = %+v", offs[0])
	}
	if offs[1].RowOffset != 15 || offs[1].RowLimit != 2 {
		t.Errorf("offs[1] = %+v", offs[1])
	}
}

func TestBuildOffsetsEmpty(t *testing.T) {
	if offs := buildOffsets(0, 0, 10); offs != nil {
		t.Errorf("buildOffsets with count=0 = %+v, want nil", offs)
	}
}
