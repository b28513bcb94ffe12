package ddl

import (
	"strings"

	gddl "firecalls/internal/ddl"
	"firecalls/internal/schema"
)

// BuildCreateTableSQL returns a CREATE TABLE IF NOT EXISTS statement for
// database.table.
func BuildCreateTableSQL(database, table string, cols []schema.Column) (string, error) {
	td := gddl.FromColumns(database, table, cols, MapType)
	return gddl.BuildCreateTableSQL(td, gddl.RenderOptions{Quote: QuoteIdent, IfNotExists: true})
}

// QuoteIdent applies MySQL backtick quoting.
//
//	name     -> `name`
//	we`ird   -> `we``ird`
func QuoteIdent(id string) string { return "`" + strings.ReplaceAll(id, "`", "``") + "`" }
