// Package ddl contains MSSQL-specific helpers for generating DDL.
//
// It maps logical column types into SQL Server types and renders guarded
// CREATE TABLE scripts, since T-SQL has no CREATE TABLE IF NOT EXISTS.
package ddl

import "firecalls/internal/schema"

// MapType maps a logical column type into a SQL Server column type.
//
//	Int       -> BIGINT
//	Float     -> FLOAT
//	Bool      -> BIT
//	Date      -> DATE
//	Timestamp -> DATETIME2
//	Text      -> NVARCHAR(MAX)
func MapType(t schema.Type) string {
	switch t {
	case schema.Int:
		return "BIGINT"
	case schema.Float:
		return "FLOAT"
	case schema.Bool:
		return "BIT"
	case schema.Date:
		return "DATE"
	case schema.Timestamp:
		return "DATETIME2"
	default:
		return "NVARCHAR(MAX)"
	}
}
