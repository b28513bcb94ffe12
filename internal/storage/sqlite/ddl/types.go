// Package ddl contains SQLite-specific helpers for generating DDL.
package ddl

import "firecalls/internal/schema"

// MapType maps a logical column type into a SQLite column type.
//
// SQLite is dynamically typed, so the mapping picks the canonical affinity:
//   - Int, Bool   -> INTEGER (booleans stored as 0/1)
//   - Float       -> REAL
//   - everything else, including dates, -> TEXT
func MapType(t schema.Type) string {
	switch t {
	case schema.Int, schema.Bool:
		return "INTEGER"
	case schema.Float:
		return "REAL"
	default:
		return "TEXT"
	}
}
