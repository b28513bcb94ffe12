package ddl

import (
	"strings"

	gddl "firecalls/internal/ddl"
	"firecalls/internal/schema"
)

// BuildCreateTableSQL returns a CREATE TABLE IF NOT EXISTS statement for
// schemaName.table.
func BuildCreateTableSQL(schemaName, table string, cols []schema.Column) (string, error) {
	td := gddl.FromColumns(schemaName, table, cols, MapType)
	return gddl.BuildCreateTableSQL(td, gddl.RenderOptions{Quote: QuoteIdent, IfNotExists: true})
}

// QuoteIdent safely quotes a single identifier segment for Postgres.
func QuoteIdent(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }
