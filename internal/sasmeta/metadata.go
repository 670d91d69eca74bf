// Package sasmeta models the file- and variable-level metadata produced by a
// metadata-only parse of a .sas7bdat file, and builds the Arrow schema that
// every subsequent chunk parse targets.
package sasmeta

import (
	"time"

	"github.com/sasrow/sasrow/internal/sasfmt"
)

// StorageClass is the wire-level storage kind reported by the parser.
type StorageClass int

const (
	Numeric StorageClass = iota
	Text
)

func (s StorageClass) String() string {
	if s == Text {
		return "Text"
	}
	return "Numeric"
}

// PhysicalType is the parser-reported physical representation of a value.
// SAS numerics are physically Float64 in practice; the narrower variants are
// reported by the parser for some files and must be accepted as-is.
type PhysicalType int

const (
	PhysicalText PhysicalType = iota
	PhysicalInt8
	PhysicalInt16
	PhysicalInt32
	PhysicalFloat32
	PhysicalFloat64
)

func (p PhysicalType) String() string {
	switch p {
	case PhysicalText:
		return "Text"
	case PhysicalInt8:
		return "Int8"
	case PhysicalInt16:
		return "Int16"
	case PhysicalInt32:
		return "Int32"
	case PhysicalFloat32:
		return "Float32"
	default:
		return "Float64"
	}
}

// SemanticType is the derived column type that the Column Builder Set and
// schema annotations key off of.
type SemanticType int

const (
	SemanticText SemanticType = iota
	SemanticInt8
	SemanticInt16
	SemanticInt32
	SemanticFloat32
	SemanticFloat64
	SemanticDate
	SemanticTimeSec
	SemanticTimeMicro
	SemanticTimestampSec
	SemanticTimestampMilli
	SemanticTimestampMicro
	SemanticTimestampNano
)

func (s SemanticType) String() string {
	switch s {
	case SemanticText:
		return "Text"
	case SemanticInt8:
		return "Int8"
	case SemanticInt16:
		return "Int16"
	case SemanticInt32:
		return "Int32"
	case SemanticFloat32:
		return "Float32"
	case SemanticFloat64:
		return "Float64"
	case SemanticDate:
		return "Date"
	case SemanticTimeSec:
		return "TimeSec"
	case SemanticTimeMicro:
		return "TimeMicro"
	case SemanticTimestampSec:
		return "TimestampSec"
	case SemanticTimestampMilli:
		return "TimestampMilli"
	case SemanticTimestampMicro:
		return "TimestampMicro"
	case SemanticTimestampNano:
		return "TimestampNano"
	default:
		return "Unknown"
	}
}

// VariableMetadata describes one column as reported by the parser's
// variable handler.
type VariableMetadata struct {
	Index         int
	Name          string
	Label         string
	FormatString  string
	StorageClass  StorageClass
	PhysicalType  PhysicalType
	StorageWidth  int
	DisplayWidth  int
	TemporalClass sasfmt.Class
}

// Semantic derives the column's SemanticType from its storage class and
// temporal class, per the Metadata Model & Schema Builder dispatch table.
func (v VariableMetadata) Semantic() SemanticType {
	if v.StorageClass == Text {
		return SemanticText
	}
	switch v.TemporalClass {
	case sasfmt.Date:
		return SemanticDate
	case sasfmt.Time:
		return SemanticTimeSec
	case sasfmt.TimeMicro:
		return SemanticTimeMicro
	case sasfmt.DateTimeSec:
		return SemanticTimestampSec
	case sasfmt.DateTimeMilli:
		return SemanticTimestampMilli
	case sasfmt.DateTimeMicro:
		return SemanticTimestampMicro
	case sasfmt.DateTimeNano:
		return SemanticTimestampNano
	}
	switch v.PhysicalType {
	case PhysicalInt8:
		return SemanticInt8
	case PhysicalInt16:
		return SemanticInt16
	case PhysicalInt32:
		return SemanticInt32
	case PhysicalFloat32:
		return SemanticFloat32
	default:
		return SemanticFloat64
	}
}

// FileMetadata is the read-only result of a metadata-only parse pass. It is
// produced once and shared, conceptually by reference, across every
// subsequent chunk parse of the same input.
type FileMetadata struct {
	TableName      string
	TableLabel     string
	Encoding       string
	Version        int
	Is64Bit        bool
	CreationTime   time.Time
	ModifiedTime   time.Time
	Compression    string
	Endianness     string
	RowCount       int64
	VarCount       int
	Variables      []VariableMetadata
}

// ByIndex returns the variable metadata at the given file-order index, or
// false if index is out of range.
func (m FileMetadata) ByIndex(index int) (VariableMetadata, bool) {
	if index < 0 || index >= len(m.Variables) {
		return VariableMetadata{}, false
	}
	return m.Variables[index], true
}

// ByName returns the variable metadata with the given name, or false if no
// variable has that name.
func (m FileMetadata) ByName(name string) (VariableMetadata, bool) {
	for _, v := range m.Variables {
		if v.Name == name {
			return v, true
		}
	}
	return VariableMetadata{}, false
}
