package sqlite

import (
	"fmt"

	"firecalls/internal/schema"
	"firecalls/internal/storage"
	sqliteddl "firecalls/internal/storage/sqlite/ddl"
)

// Dialect renders SQLite SQL. Date handling goes through the fc_* functions
// registered in funcs.go.
type Dialect struct{}

var _ storage.Dialect = Dialect{}

func (Dialect) Name() string                   { return "sqlite" }
func (Dialect) QuoteIdent(id string) string    { return sqliteddl.QuoteIdent(id) }
func (Dialect) MapType(t schema.Type) string   { return sqliteddl.MapType(t) }
func (Dialect) Setup(string) []string          { return nil }
func (Dialect) Year(d string) string           { return "fc_year(" + d + ")" }
func (Dialect) ISOWeek(d string) string        { return "fc_iso_week(" + d + ")" }
func (Dialect) CacheRef(_, name string) string { return sqliteddl.QuoteIdent("temp") + "." + sqliteddl.QuoteIdent(name) }

func (Dialect) Qualify(ns, name string) string {
	if ns == "" {
		return sqliteddl.QuoteIdent(name)
	}
	return sqliteddl.QuoteIdent(ns) + "." + sqliteddl.QuoteIdent(name)
}

func (d Dialect) CreateTable(ns, table string, cols []schema.Column) ([]string, error) {
	stmt, err := sqliteddl.BuildCreateTableSQL(ns, table, cols)
	if err != nil {
		return nil, err
	}
	return []string{stmt}, nil
}

// Truncate uses DELETE; SQLite has no TRUNCATE.
func (d Dialect) Truncate(ns, table string) string {
	return "DELETE FROM " + d.Qualify(ns, table)
}

func (Dialect) ParseDate(_, expr string, p storage.DatePattern) (string, error) {
	return fmt.Sprintf("fc_to_date(%s, %s)", expr, storage.QuoteLiteral(p.String())), nil
}

// Order relies on SQLite's native NULL placement: first ascending, last
// descending.
func (Dialect) Order(expr string, desc bool) string {
	if desc {
		return expr + " DESC"
	}
	return expr + " ASC"
}

func (Dialect) Limit(n int) (string, string) {
	return "", fmt.Sprintf("LIMIT %d", n)
}

// CreateCache builds a TEMP table on the pinned connection.
func (d Dialect) CreateCache(_, name, source string) string {
	return fmt.Sprintf("CREATE TEMP TABLE %s AS SELECT * FROM %s", sqliteddl.QuoteIdent(name), source)
}

func (d Dialect) DropCache(ns, name string) []string {
	return []string{"DROP TABLE IF EXISTS " + d.CacheRef(ns, name)}
}
