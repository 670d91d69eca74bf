package sasparser

// errCodeNames maps the ReadStat C library's readstat_error_t codes to
// their symbolic names, used to build a readable sasrowerr.ParseError.
// Code 0 is success and never produces a ParseError.
var errCodeNames = map[int]string{
	0:  "READSTAT_OK",
	1:  "READSTAT_ERROR_OPEN",
	2:  "READSTAT_ERROR_READ",
	3:  "READSTAT_ERROR_MALLOC",
	4:  "READSTAT_ERROR_USER_ABORT",
	5:  "READSTAT_ERROR_PARSE",
	6:  "READSTAT_ERROR_UNSUPPORTED_COMPRESSION",
	7:  "READSTAT_ERROR_UNSUPPORTED_CHARSET",
	8:  "READSTAT_ERROR_COLUMN_COUNT_MISMATCH",
	9:  "READSTAT_ERROR_ROW_COUNT_MISMATCH",
	10: "READSTAT_ERROR_ROW_WIDTH_MISMATCH",
	11: "READSTAT_ERROR_BAD_FORMAT_STRING",
	12: "READSTAT_ERROR_VALUE_TYPE_MISMATCH",
	13: "READSTAT_ERROR_WRITE",
	14: "READSTAT_ERROR_WRITER_NOT_INITIALIZED",
	15: "READSTAT_ERROR_SEEK",
	16: "READSTAT_ERROR_CONVERT",
	17: "READSTAT_ERROR_CONVERT_BAD_STRING",
	18: "READSTAT_ERROR_CONVERT_SHORT_STRING",
	19: "READSTAT_ERROR_CONVERT_LONG_STRING",
	20: "READSTAT_ERROR_NUMERIC_VALUE_IS_OUT_OF_RANGE",
	21: "READSTAT_ERROR_TAGGED_VALUE_IS_OUT_OF_RANGE",
	22: "READSTAT_ERROR_STRING_VALUE_IS_TOO_LONG",
	23: "READSTAT_ERROR_VALUE_OUT_OF_RANGE",
	24: "READSTAT_ERROR_UNSUPPORTED_FILE_FORMAT_VERSION",
	25: "READSTAT_ERROR_NAME_BEGINS_WITH_ILLEGAL_CHARACTER",
	26: "READSTAT_ERROR_NAME_CONTAINS_ILLEGAL_CHARACTER",
	27: "READSTAT_ERROR_NAME_IS_RESERVED_WORD",
	28: "READSTAT_ERROR_NAME_IS_TOO_LONG",
	29: "READSTAT_ERROR_BAD_TIMESTAMP_STRING",
	30: "READSTAT_ERROR_BAD_FREQUENCY_WEIGHT",
	31: "READSTAT_ERROR_TOO_MANY_MISSING_VALUE_DEFINITIONS",
	32: "READSTAT_ERROR_NOTE_IS_TOO_LONG",
	33: "READSTAT_ERROR_STRING_REFS_NOT_SUPPORTED",
	34: "READSTAT_ERROR_STRING_REF_IS_REQUIRED",
	35: "READSTAT_ERROR_ROW_IS_TOO_WIDE_FOR_PAGE_SIZE",
	36: "READSTAT_ERROR_TOO_FEW_COLUMNS",
}

func errCodeName(code int) string {
	if name, ok := errCodeNames[code]; ok {
		return name
	}
	return "READSTAT_ERROR_UNKNOWN"
}
