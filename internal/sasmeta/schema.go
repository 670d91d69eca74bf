package sasmeta

import (
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/sasrow/sasrow/internal/sasrowerr"
)

// arrowType maps a SemanticType to the Arrow DataType the Column Builder Set
// will build for it.
func arrowType(s SemanticType) arrow.DataType {
	switch s {
	case SemanticText:
		return arrow.BinaryTypes.String
	case SemanticInt8:
		return arrow.PrimitiveTypes.Int8
	case SemanticInt16:
		return arrow.PrimitiveTypes.Int16
	case SemanticInt32:
		return arrow.PrimitiveTypes.Int32
	case SemanticFloat32:
		return arrow.PrimitiveTypes.Float32
	case SemanticDate:
		return arrow.FixedWidthTypes.Date32
	case SemanticTimeSec:
		return arrow.FixedWidthTypes.Time32s
	case SemanticTimeMicro:
		return arrow.FixedWidthTypes.Time64us
	case SemanticTimestampSec:
		return arrow.FixedWidthTypes.Timestamp_s
	case SemanticTimestampMilli:
		return arrow.FixedWidthTypes.Timestamp_ms
	case SemanticTimestampMicro:
		return arrow.FixedWidthTypes.Timestamp_us
	case SemanticTimestampNano:
		return arrow.FixedWidthTypes.Timestamp_ns
	default:
		return arrow.PrimitiveTypes.Float64
	}
}

// BuildSchema computes the Arrow schema for a parsed file, optionally
// restricted to a selection of variable names. Variables outside the
// selection are excluded from the schema but still counted toward
// row-boundary detection at the ingestion layer; selection order, if
// given, determines field order.
//
// An unknown name in selection is a caller-facing configuration error.
func BuildSchema(meta FileMetadata, selection []string) (*arrow.Schema, error) {
	order := meta.Variables
	if len(selection) > 0 {
		order = make([]VariableMetadata, 0, len(selection))
		for _, name := range selection {
			v, ok := meta.ByName(name)
			if !ok {
				return nil, &sasrowerr.ConfigError{
					Path:    name,
					Message: "unknown variable name in selection",
				}
			}
			order = append(order, v)
		}
	}

	fields := make([]arrow.Field, 0, len(order))
	for _, v := range order {
		fields = append(fields, arrow.Field{
			Name:     v.Name,
			Type:     arrowType(v.Semantic()),
			Nullable: true,
			Metadata: fieldMetadata(v),
		})
	}

	tableMeta := arrow.NewMetadata([]string{"table_label"}, []string{meta.TableLabel})
	return arrow.NewSchema(fields, &tableMeta), nil
}

// fieldMetadata attaches the per-field annotations named by the schema
// builder: label, sas_format, storage_width, and display_width (omitted
// when zero).
func fieldMetadata(v VariableMetadata) arrow.Metadata {
	keys := []string{"label", "sas_format", "storage_width"}
	values := []string{v.Label, v.FormatString, strconv.Itoa(v.StorageWidth)}
	if v.DisplayWidth != 0 {
		keys = append(keys, "display_width")
		values = append(values, strconv.Itoa(v.DisplayWidth))
	}
	return arrow.NewMetadata(keys, values)
}
