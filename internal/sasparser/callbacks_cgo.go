//go:build sasrow_cgo

package sasparser

/*
#include <readstat.h>
*/
import "C"

import (
	"runtime/cgo"
	"unsafe"
)

func handleOf(ctx unsafe.Pointer) cgo.Handle { return cgo.Handle(uintptr(ctx)) }

//export goMetadataHandler
func goMetadataHandler(metadata *C.readstat_metadata_t, ctx unsafe.Pointer) C.int {
	sink := handleOf(ctx).Value().(Sink)

	m := Metadata{
		RowCount:     int64(C.readstat_get_row_count(metadata)),
		VarCount:     int(C.readstat_get_var_count(metadata)),
		TableName:    C.GoString(C.readstat_get_table_name(metadata)),
		FileLabel:    C.GoString(C.readstat_get_file_label(metadata)),
		FileEncoding: C.GoString(C.readstat_get_file_encoding(metadata)),
		Version:      int(C.readstat_get_file_format_version(metadata)),
		Is64Bit:      C.readstat_get_file_format_is_64bit(metadata) != 0,
		CreationTime: int64(C.readstat_get_creation_time(metadata)),
		ModifiedTime: int64(C.readstat_get_modified_time(metadata)),
		Compression:  compressionName(C.readstat_get_compression(metadata)),
		Endianness:   endiannessName(C.readstat_get_endianness(metadata)),
	}
	return C.int(sink.OnMetadata(m))
}

//export goVariableHandler
func goVariableHandler(index C.int, variable *C.readstat_variable_t, valLabels *C.char, ctx unsafe.Pointer) C.int {
	sink := handleOf(ctx).Value().(Sink)

	v := Variable{
		Index:        int(C.readstat_variable_get_index(variable)),
		Name:         C.GoString(C.readstat_variable_get_name(variable)),
		Label:        C.GoString(C.readstat_variable_get_label(variable)),
		Format:       C.GoString(C.readstat_variable_get_format(variable)),
		Type:         varTypeOf(C.readstat_variable_get_type(variable)),
		StorageWidth: int(C.readstat_variable_get_storage_width(variable)),
		DisplayWidth: int(C.readstat_variable_get_display_width(variable)),
	}
	return C.int(sink.OnVariable(v))
}

//export goValueHandler
func goValueHandler(obsIndex C.int, variable *C.readstat_variable_t, value C.readstat_value_t, ctx unsafe.Pointer) C.int {
	sink := handleOf(ctx).Value().(Sink)

	v := Value{
		VarIndex:  int(C.readstat_variable_get_index(variable)),
		Type:      valueTypeOf(C.readstat_value_type(value)),
		IsMissing: C.readstat_value_is_system_missing(value) != 0,
	}
	if !v.IsMissing {
		switch v.Type {
		case ValueString:
			v.Str = C.GoString(C.readstat_string_value(value))
		case ValueInt8:
			v.I8 = int8(C.readstat_int8_value(value))
		case ValueInt16:
			v.I16 = int16(C.readstat_int16_value(value))
		case ValueInt32:
			v.I32 = int32(C.readstat_int32_value(value))
		case ValueFloat:
			v.F32 = float32(C.readstat_float_value(value))
		case ValueDouble:
			v.F64 = float64(C.readstat_double_value(value))
		}
	}
	return C.int(sink.OnValue(v))
}

//export goOpenHandler
func goOpenHandler(path *C.char, ioCtx unsafe.Pointer) C.int {
	// The byteReader behind ioCtx is already fully resident; opening is a
	// no-op.
	return 0
}

//export goCloseHandler
func goCloseHandler(ioCtx unsafe.Pointer) C.int {
	return 0
}

//export goSeekHandler
func goSeekHandler(offset C.readstat_off_t, whence C.readstat_io_flags_t, ioCtx unsafe.Pointer) C.readstat_off_t {
	br := handleOf(ioCtx).Value().(*byteReader)
	switch whence {
	case C.READSTAT_SEEK_SET:
		br.offset = int64(offset)
	case C.READSTAT_SEEK_CUR:
		br.offset += int64(offset)
	case C.READSTAT_SEEK_END:
		br.offset = int64(len(br.data)) + int64(offset)
	}
	return C.readstat_off_t(br.offset)
}

//export goReadHandler
func goReadHandler(buf unsafe.Pointer, nbytes C.size_t, ioCtx unsafe.Pointer) C.ssize_t {
	br := handleOf(ioCtx).Value().(*byteReader)
	if br.offset >= int64(len(br.data)) {
		return 0
	}
	n := int64(nbytes)
	remaining := int64(len(br.data)) - br.offset
	if n > remaining {
		n = remaining
	}
	dst := unsafe.Slice((*byte)(buf), n)
	copy(dst, br.data[br.offset:br.offset+n])
	br.offset += n
	return C.ssize_t(n)
}

func varTypeOf(t C.readstat_type_t) VarType {
	switch t {
	case C.READSTAT_TYPE_INT8:
		return VarTypeInt8
	case C.READSTAT_TYPE_INT16:
		return VarTypeInt16
	case C.READSTAT_TYPE_INT32:
		return VarTypeInt32
	case C.READSTAT_TYPE_FLOAT:
		return VarTypeFloat
	case C.READSTAT_TYPE_DOUBLE:
		return VarTypeDouble
	default:
		return VarTypeString
	}
}

func valueTypeOf(t C.readstat_type_t) ValueType {
	switch t {
	case C.READSTAT_TYPE_INT8:
		return ValueInt8
	case C.READSTAT_TYPE_INT16:
		return ValueInt16
	case C.READSTAT_TYPE_INT32:
		return ValueInt32
	case C.READSTAT_TYPE_FLOAT:
		return ValueFloat
	case C.READSTAT_TYPE_DOUBLE:
		return ValueDouble
	default:
		return ValueString
	}
}

func compressionName(c C.readstat_compress_t) string {
	switch c {
	case C.READSTAT_COMPRESS_ROWS:
		return "rows"
	case C.READSTAT_COMPRESS_BINARY:
		return "binary"
	default:
		return "none"
	}
}

func endiannessName(e C.readstat_endian_t) string {
	if e == C.READSTAT_ENDIAN_BIG {
		return "big"
	}
	return "little"
}
