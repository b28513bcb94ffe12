package ddl

import (
	"strings"

	gddl "firecalls/internal/ddl"
	"firecalls/internal/schema"
)

// BuildCreateTableSQL returns a CREATE TABLE IF NOT EXISTS statement for
// ns.table. ns names an attached database.
func BuildCreateTableSQL(ns, table string, cols []schema.Column) (string, error) {
	td := gddl.FromColumns(ns, table, cols, MapType)
	return gddl.BuildCreateTableSQL(td, gddl.RenderOptions{Quote: QuoteIdent, IfNotExists: true})
}

// QuoteIdent applies SQLite double-quoted identifier quoting.
func QuoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

// QuoteFQN quotes each non-empty segment of a dotted name.
func QuoteFQN(fqn string) string {
	parts := strings.Split(fqn, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, QuoteIdent(p))
	}
	return strings.Join(out, ".")
}
