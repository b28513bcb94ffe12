package ddl

import "firecalls/internal/schema"

// ColumnDef describes a single column in a table definition produced or
// consumed by ddl. It intentionally uses simple, database-agnostic fields.
//
// Fields:
//   - Name: logical column name (unquoted; quoting happens at render time)
//   - SQLType: target SQL type (e.g., TEXT, BIGINT, DOUBLE PRECISION)
//   - Nullable: whether NULL is allowed
//   - PrimaryKey: whether the column is part of the primary key
//   - Default: raw default expression (e.g., 'unknown', CURRENT_TIMESTAMP)
type ColumnDef struct {
	Name       string
	SQLType    string
	Nullable   bool
	PrimaryKey bool
	Default    string
}

// TableDef holds the table name and an ordered list of columns. Schema is
// optional; renderers emit "schema"."table" when it is set.
type TableDef struct {
	Schema  string
	Name    string
	Columns []ColumnDef
}

// FromColumns maps declared schema columns onto a TableDef using a
// backend-specific type mapping.
func FromColumns(schemaName, table string, cols []schema.Column, mapType func(schema.Type) string) TableDef {
	defs := make([]ColumnDef, 0, len(cols))
	for _, c := range cols {
		defs = append(defs, ColumnDef{
			Name:     c.Name,
			SQLType:  mapType(c.Type),
			Nullable: c.Nullable,
		})
	}
	return TableDef{Schema: schemaName, Name: table, Columns: defs}
}
