// Package sasparser wraps the external ReadStat C library, which does the
// actual binary decoding of a .sas7bdat file. Everything outside this
// package operates on the plain Go structs defined here; the cgo surface
// stays entirely behind the sasrow_cgo build tag in driver_cgo.go and
// callbacks_cgo.go so that
// the rest of the module, and its tests, build without a C toolchain.
package sasparser

import "github.com/sasrow/sasrow/internal/sasrowerr"

// Metadata mirrors the file header fields the parser reports once, before
// any variable or value callback fires.
type Metadata struct {
	RowCount     int64
	VarCount     int
	TableName    string
	FileLabel    string
	FileEncoding string
	Version      int
	Is64Bit      bool
	CreationTime int64 // Unix seconds
	ModifiedTime int64 // Unix seconds
	Compression  string
	Endianness   string
}

// VarType is the parser-reported physical storage type of a variable.
type VarType int

const (
	VarTypeString VarType = iota
	VarTypeInt8
	VarTypeInt16
	VarTypeInt32
	VarTypeFloat
	VarTypeDouble
)

// Variable mirrors one readstat_variable_t, reported once per column in
// file order.
type Variable struct {
	Index        int
	Name         string
	Label        string
	Format       string
	Type         VarType
	StorageWidth int
	DisplayWidth int
}

// ValueType is the runtime-reported type of a single cell, which may
// disagree with the variable's declared Type for some files; callers trust
// ValueType over the variable's declared type.
type ValueType int

const (
	ValueString ValueType = iota
	ValueInt8
	ValueInt16
	ValueInt32
	ValueFloat
	ValueDouble
)

// Value is one decoded cell, reported in row-major order: every variable
// for row 0, then every variable for row 1, and so on.
type Value struct {
	VarIndex  int
	Type      ValueType
	IsMissing bool
	Str       string
	I8        int8
	I16       int16
	I32       int32
	F32       float32
	F64       float64
}

// Status is the value an ingestion callback returns to the parser: OK
// continues, Abort stops the parse immediately. SkipVariable is reserved by
// the upstream C library for future use; this module never returns it.
type Status int

const (
	StatusOK Status = iota
	StatusAbort
	StatusSkipVariable
)

// Sink receives decoded metadata, variables, and values during a parse.
// Implementations live in internal/ingest; this package only decodes C
// structures into the plain Go types above and forwards them.
type Sink interface {
	OnMetadata(Metadata) Status
	OnVariable(Variable) Status
	OnValue(Value) Status
}

// Input names the .sas7bdat data a Driver should parse: either a path the
// driver opens itself, or an already-resident byte span (the in-memory and
// memory-mapped strategies look identical to the driver; the distinction
// of how Bytes became resident lives entirely in the caller).
type Input struct {
	Path  string
	Bytes []byte
}

// FromPath builds an Input that the driver opens and reads itself.
func FromPath(path string) Input { return Input{Path: path} }

// FromBytes builds an Input over an already-resident byte span, used for
// both the in-memory and memory-mapped input strategies.
func FromBytes(b []byte) Input { return Input{Bytes: b} }

func (in Input) isByteSpan() bool { return in.Path == "" }

// Driver drives a single ReadStat parse session against one input. A
// session is not safe for concurrent use; the Chunk Orchestrator opens one
// Driver per concurrently-running chunk.
type Driver interface {
	// ParseMetadata runs a metadata-only pass: no value handler is
	// installed, so no value callbacks fire.
	ParseMetadata(in Input, sink Sink) error
	// ParseData parses at most rowLimit rows starting at rowOffset,
	// invoking sink's callbacks for the metadata, variable, and value
	// handlers it installs.
	ParseData(in Input, rowOffset, rowLimit int64, sink Sink) error
	// Close releases the underlying parser session.
	Close()
}

// newDriver is supplied by exactly one of driver_cgo.go (build tag
// sasrow_cgo) or driver_stub.go (build tag !sasrow_cgo).
var newDriver func() (Driver, error)

// Open creates a new parser session.
func Open() (Driver, error) {
	if newDriver == nil {
		return nil, &sasrowerr.ConfigError{Message: "no sasparser driver registered"}
	}
	return newDriver()
}
