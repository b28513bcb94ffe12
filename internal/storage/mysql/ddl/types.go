// Package ddl contains MySQL-specific helpers for generating DDL.
package ddl

import "firecalls/internal/schema"

// MapType maps a logical column type into a MySQL column type. Text stays
// TEXT since free-form addresses exceed any sensible VARCHAR bound.
func MapType(t schema.Type) string {
	switch t {
	case schema.Int:
		return "BIGINT"
	case schema.Float:
		return "DOUBLE"
	case schema.Bool:
		return "BOOLEAN"
	case schema.Date:
		return "DATE"
	case schema.Timestamp:
		return "DATETIME"
	default:
		return "TEXT"
	}
}
