package storage

import (
	"strings"

	"firecalls/internal/schema"
)

// Dialect renders the backend-specific pieces of SQL used by provisioning,
// loading and the query registry.
type Dialect interface {
	Name() string

	// QuoteIdent quotes a single identifier.
	QuoteIdent(id string) string

	// Qualify returns the quoted ns.name reference.
	Qualify(ns, name string) string

	// MapType maps a logical column type onto a column SQL type.
	MapType(t schema.Type) string

	// CreateTable returns the statement(s) creating ns.table if absent.
	CreateTable(ns, table string, cols []schema.Column) ([]string, error)

	// Truncate returns a transactional statement removing every row of ns.table.
	Truncate(ns, table string) string

	// Setup returns idempotent statements run once per namespace before any
	// query, e.g. helper functions.
	Setup(ns string) []string

	// ParseDate renders an expression that parses the text expression expr
	// with pattern and evaluates to a date, or NULL when it does not match.
	// It fails when the backend cannot express the pattern.
	ParseDate(ns, expr string, p DatePattern) (string, error)

	// Year and ISOWeek extract integer parts from a ParseDate expression.
	Year(dateExpr string) string
	ISOWeek(dateExpr string) string

	// Order renders one ORDER BY term with NULLs first ascending and last
	// descending.
	Order(expr string, desc bool) string

	// Limit returns the clause placed right after SELECT [DISTINCT] and the
	// clause appended to the statement. One of them is empty.
	Limit(n int) (top, tail string)

	// CreateCache materializes a full copy of source under ns.name.
	CreateCache(ns, name, source string) string

	// CacheRef is how queries refer to the cache created by CreateCache.
	CacheRef(ns, name string) string

	// DropCache removes the cache, ignoring absence.
	DropCache(ns, name string) []string
}

// QuoteDouble quotes id with ANSI double quotes.
func QuoteDouble(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

// QuoteBacktick quotes id with MySQL backticks.
func QuoteBacktick(id string) string {
	return "`" + strings.ReplaceAll(id, "`", "``") + "`"
}

// QuoteBracket quotes id with SQL Server brackets.
func QuoteBracket(id string) string {
	return "[" + strings.ReplaceAll(id, "]", "]]") + "]"
}

// QuoteLiteral renders s as a single-quoted SQL string literal.
func QuoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
