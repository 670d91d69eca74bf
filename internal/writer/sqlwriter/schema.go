package sqlwriter

import (
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
)

// sqliteType maps an Arrow field type to the SQLite column type used for
// the ephemeral table's DDL. SQLite itself is dynamically typed per cell,
// but declaring a type affects column affinity and keeps values sortable
// and comparable the way the caller's query expects.
func sqliteType(t arrow.DataType) string {
	switch t.ID() {
	case arrow.STRING, arrow.LARGE_STRING:
		return "TEXT"
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64:
		return "INTEGER"
	case arrow.FLOAT32, arrow.FLOAT64:
		return "REAL"
	case arrow.DATE32, arrow.DATE64:
		return "TEXT"
	case arrow.TIME32, arrow.TIME64:
		return "TEXT"
	case arrow.TIMESTAMP:
		return "TEXT"
	default:
		return "TEXT"
	}
}

// createTableDDL builds the CREATE TABLE statement for schema, quoting
// identifiers defensively since SAS variable names commonly collide with
// SQL keywords (DATE, TIME, GROUP, ...).
func createTableDDL(table string, schema *arrow.Schema) string {
	cols := make([]string, len(schema.Fields()))
	for i, f := range schema.Fields() {
		cols[i] = fmt.Sprintf("%s %s", quoteIdent(f.Name), sqliteType(f.Type))
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(table), strings.Join(cols, ", "))
}

func dropTableDDL(table string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteIdent(table))
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
