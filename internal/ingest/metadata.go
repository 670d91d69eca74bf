// Package ingest implements the parser-driven value dispatch that turns a
// raw ReadStat callback stream into typed Arrow column data: the metadata
// collector (Component B's producer) and the per-chunk value dispatch
// (Component E).
package ingest

import (
	"time"

	"github.com/sasrow/sasrow/internal/sasfmt"
	"github.com/sasrow/sasrow/internal/sasmeta"
	"github.com/sasrow/sasrow/internal/sasparser"
)

// MetadataCollector implements sasparser.Sink for a metadata-only parse
// pass (no value handler is installed, so OnValue never fires). It accumulates exactly one
// FileMetadata, read-only after ParseMetadata returns.
type MetadataCollector struct {
	meta sasmeta.FileMetadata
}

// NewMetadataCollector returns a collector ready for one metadata-only
// pass.
func NewMetadataCollector() *MetadataCollector {
	return &MetadataCollector{}
}

func (c *MetadataCollector) OnMetadata(m sasparser.Metadata) sasparser.Status {
	c.meta.TableName = m.TableName
	c.meta.TableLabel = m.FileLabel
	c.meta.Encoding = m.FileEncoding
	c.meta.Version = m.Version
	c.meta.Is64Bit = m.Is64Bit
	c.meta.CreationTime = time.Unix(m.CreationTime, 0).UTC()
	c.meta.ModifiedTime = time.Unix(m.ModifiedTime, 0).UTC()
	c.meta.Compression = m.Compression
	c.meta.Endianness = m.Endianness
	c.meta.RowCount = m.RowCount
	c.meta.VarCount = m.VarCount
	return sasparser.StatusOK
}

func (c *MetadataCollector) OnVariable(v sasparser.Variable) sasparser.Status {
	c.meta.Variables = append(c.meta.Variables, sasmeta.VariableMetadata{
		Index:         v.Index,
		Name:          v.Name,
		Label:         v.Label,
		FormatString:  v.Format,
		StorageClass:  storageClassOf(v.Type),
		PhysicalType:  physicalTypeOf(v.Type),
		StorageWidth:  v.StorageWidth,
		DisplayWidth:  v.DisplayWidth,
		TemporalClass: sasfmt.Classify(v.Format),
	})
	return sasparser.StatusOK
}

func (c *MetadataCollector) OnValue(sasparser.Value) sasparser.Status {
	return sasparser.StatusOK
}

// Result returns the accumulated FileMetadata. Call only after
// sasparser.Driver.ParseMetadata has returned successfully.
func (c *MetadataCollector) Result() sasmeta.FileMetadata { return c.meta }

func storageClassOf(t sasparser.VarType) sasmeta.StorageClass {
	if t == sasparser.VarTypeString {
		return sasmeta.Text
	}
	return sasmeta.Numeric
}

func physicalTypeOf(t sasparser.VarType) sasmeta.PhysicalType {
	switch t {
	case sasparser.VarTypeInt8:
		return sasmeta.PhysicalInt8
	case sasparser.VarTypeInt16:
		return sasmeta.PhysicalInt16
	case sasparser.VarTypeInt32:
		return sasmeta.PhysicalInt32
	case sasparser.VarTypeFloat:
		return sasmeta.PhysicalFloat32
	case sasparser.VarTypeDouble:
		return sasmeta.PhysicalFloat64
	default:
		return sasmeta.PhysicalText
	}
}
