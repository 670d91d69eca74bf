// Package sqlwriter implements the embedded SQL query writer: an ephemeral,
// in-process SQLite table mirroring the ingested schema, one caller-supplied
// query against it, and the result set handed off to a CSV or NDJSON
// encoder. The table never touches disk and is dropped before Finish
// returns.
package sqlwriter

import (
	"fmt"

	"github.com/zeebo/xxh3"
)

// Config configures one run of the embedded SQL query writer.
type Config struct {
	// TableName names the ephemeral table. Empty derives a name from
	// InputPath (see tableName); if InputPath is also empty, "sas_data".
	TableName string

	// InputPath is the source .sas7bdat path, used only to derive a
	// deterministic table name when TableName is unset. Two runs against
	// the same file get the same ephemeral table name, which matters for
	// callers scripting repeated queries against the same source without
	// caring what it's called internally.
	InputPath string

	// Query is the single SQL statement run against TableName at Finish.
	// It is the caller's responsibility to reference TableName correctly;
	// the writer does not rewrite or validate the statement text.
	Query string
}

func (c Config) tableName() string {
	if c.TableName != "" {
		return c.TableName
	}
	if c.InputPath == "" {
		return "sas_data"
	}
	return fmt.Sprintf("sas_%08x", xxh3.HashString(c.InputPath))
}
