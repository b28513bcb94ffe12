// Package ddl contains Postgres-specific helpers for generating DDL.
package ddl

import "firecalls/internal/schema"

// MapType maps a logical column type into a Postgres SQL type.
//
//	Int       -> BIGINT
//	Float     -> DOUBLE PRECISION
//	Bool      -> BOOLEAN
//	Date      -> DATE
//	Timestamp -> TIMESTAMPTZ
//	Text      -> TEXT
func MapType(t schema.Type) string {
	switch t {
	case schema.Int:
		return "BIGINT"
	case schema.Float:
		return "DOUBLE PRECISION"
	case schema.Bool:
		return "BOOLEAN"
	case schema.Date:
		return "DATE"
	case schema.Timestamp:
		return "TIMESTAMPTZ"
	default:
		return "TEXT"
	}
}
