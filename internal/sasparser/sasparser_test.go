package sasparser

import (
	"testing"

	"github.com/sasrow/sasrow/internal/sasrowerr"
)

func TestFromPathAndFromBytes(t *testing.T) {
	p := FromPath("/tmp/x.sas7bdat")
	if p.isByteSpan() {
		t.Error("FromPath input should not be a byte span")
	}
	b := FromBytes([]byte{1, 2, 3})
	if !b.isByteSpan() {
		t.Error("FromBytes input should be a byte span")
	}
}

func TestOpenWithoutCGOReturnsIoError(t *testing.T) {
	_, err := Open()
	if err == nil {
		t.Skip("a sasrow_cgo driver is registered in this build")
	}
	if _, ok := err.(*sasrowerr.IoError); !ok {
		t.Fatalf("err = %T, want *sasrowerr.IoError", err)
	}
}
