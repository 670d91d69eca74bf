// Package config defines the canonical, JSON-serializable configuration model
// for sasrow. It is intentionally small, explicit, and dependency-free so
// that a run can be described from disk (or flags) without additional glue
// code.
//
// Design goals:
//
//  1. Stability: changes to this package should be additive and backwards-
//     compatible whenever possible.
//  2. Clarity: field names in Go mirror the JSON structure used in a config
//     file passed to `sasrow -config path/to.json`.
//  3. Minimalism: no third-party config libraries; decoding is performed by
//     the standard library, with a light Options helper for typed access to
//     writer-specific knobs.
package config

import "encoding/json"

// Config describes one end-to-end run: an input .sas7bdat file, an optional
// row/column selection, the chunking and parallelism knobs for the orchestrator,
// and the output writer to drive.
type Config struct {
	// Input is the path to the .sas7bdat file to read.
	Input string `json:"input"`

	// Select, when non-empty, restricts the emitted schema to these variable
	// names, in this order. An empty slice means "all variables".
	Select []string `json:"select"`

	// RowOffset is the first row (0-based) to include.
	RowOffset int64 `json:"row_offset"`

	// RowLimit caps the number of rows read, starting at RowOffset. Absent
	// (nil, or the key omitted from JSON) means "read to end of file". An
	// explicit zero means "read zero rows": per the parser driver contract,
	// no value callbacks fire and the writer receives only Begin/Finish. A
	// negative value is a ConfigError.
	RowLimit *int64 `json:"row_limit,omitempty"`

	Runtime RuntimeConfig `json:"runtime"`
	Output  Output        `json:"output"`
}

// RuntimeConfig controls chunking, parallelism, and the bounded channel that
// connects the chunk orchestrator to the writer.
type RuntimeConfig struct {
	// ChunkRows is the maximum number of rows per chunk. Default 10_000.
	ChunkRows int `json:"chunk_rows"`

	// Parallel selects parallel chunk execution over a worker pool instead
	// of strictly sequential chunk-by-chunk parsing.
	Parallel bool `json:"parallel"`

	// Workers bounds the parallel worker pool width. Zero means "let the
	// runtime pick" (GOMAXPROCS).
	Workers int `json:"workers"`

	// ChannelBuffer is the bounded channel capacity between the orchestrator
	// and the writer. Default 10; this is the sole backpressure mechanism.
	ChannelBuffer int `json:"channel_buffer"`

	// Dedup drops a chunk whose content fingerprint matches the one
	// immediately before it in delivery order (see internal/chunk).
	Dedup bool `json:"dedup"`

	// LogProgress emits one completion line per delivered chunk. The CLI
	// sets this from an interactive-terminal check unless -v forces it.
	LogProgress bool `json:"log_progress"`
}

// Output selects the writer implementation and its format-specific options.
type Output struct {
	// Path is the destination file path. Empty means the CLI writes to
	// stdout.
	Path string `json:"path"`

	// Format selects the writer: "csv", "ndjson", "feather", "parquet", or
	// "sql" (the embedded SQL query writer).
	Format string `json:"format"`

	// SQLQuery is the query text for Format == "sql". The ephemeral table
	// holding the parsed rows is named "sas_" plus the hex xxh3 hash of the
	// input path, or "sas_data" when no input path is set.
	SQLQuery string `json:"sql_query"`

	// SQLResultFormat selects how the SQL writer's result set is rendered:
	// "csv" or "ndjson". Defaults to "csv".
	SQLResultFormat string `json:"sql_result_format"`

	// Options is a free-form map for format-specific knobs (e.g. Parquet
	// compression codec, CSV delimiter).
	Options Options `json:"options"`
}

// Options is a small helper to fetch typed values from arbitrary JSON maps
// without introducing third-party configuration libraries. It purposefully
// performs only minimal type coercion and returns provided defaults when a
// key is absent or of an unexpected type.
type Options map[string]any

// String returns the string value for key or def if key is missing or not a string.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def if key is missing or not a bool.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Int returns the int value for key or def. JSON numbers are decoded as
// float64 by encoding/json, so this method accepts float64 and casts to int.
func (o Options) Int(key string, def int) int {
	if v, ok := o[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		}
	}
	return def
}

// Rune returns the first rune of a string value for key, or def if key is
// missing or empty. Useful for single-character settings such as a CSV
// delimiter.
func (o Options) Rune(key string, def rune) rune {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok && len(s) > 0 {
			return []rune(s)[0]
		}
	}
	return def
}

// StringSlice returns a []string for key when the value is an array of
// strings (or an array of interface values containing strings).
func (o Options) StringSlice(key string) []string {
	if v, ok := o[key]; ok {
		switch vv := v.(type) {
		case []any:
			out := make([]string, 0, len(vv))
			for _, x := range vv {
				if s, ok := x.(string); ok {
					out = append(out, s)
				}
			}
			return out
		case []string:
			return vv
		}
	}
	return nil
}

// Any returns the raw value for key.
func (o Options) Any(key string) any {
	if v, ok := o[key]; ok {
		return v
	}
	return nil
}

// UnmarshalJSON implements json.Unmarshaler so that a missing or null
// "options" object in JSON decodes to a non-nil, empty Options map.
func (o *Options) UnmarshalJSON(b []byte) error {
	var tmp map[string]any
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}

// WithDefaults returns a copy of cfg with zero-valued runtime knobs filled
// in from the documented defaults (chunk_rows=10000, channel_buffer=10).
func (c Config) WithDefaults() Config {
	out := c
	if out.Runtime.ChunkRows <= 0 {
		out.Runtime.ChunkRows = DefaultChunkRows
	}
	if out.Runtime.ChannelBuffer <= 0 {
		out.Runtime.ChannelBuffer = DefaultChannelBuffer
	}
	if out.Output.SQLResultFormat == "" {
		out.Output.SQLResultFormat = "csv"
	}
	return out
}

// DefaultChunkRows and DefaultChannelBuffer are the persisted constants from
// the external interface contract: a run that doesn't specify these values
// gets exactly these.
const (
	DefaultChunkRows     = 10_000
	DefaultChannelBuffer = 10
)
