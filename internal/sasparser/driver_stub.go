//go:build !sasrow_cgo

package sasparser

import "github.com/sasrow/sasrow/internal/sasrowerr"

// Building without the sasrow_cgo tag yields a driver that always reports
// that the C parser was not linked in. This keeps `go vet`/`go test` usable
// on every package that merely imports sasparser's types, without
// requiring ReadStat's headers and static library to be present.
func init() {
	newDriver = func() (Driver, error) {
		return nil, &sasrowerr.IoError{
			Op:  "sasparser.Open",
			Err: errNotBuiltWithCGO,
		}
	}
}

var errNotBuiltWithCGO = stubError("sasrow was built without the sasrow_cgo tag; no ReadStat binding is linked")

type stubError string

func (e stubError) Error() string { return string(e) }
