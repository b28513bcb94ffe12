package mysql

import (
	"fmt"

	"firecalls/internal/schema"
	"firecalls/internal/storage"
	myddl "firecalls/internal/storage/mysql/ddl"
)

// Dialect renders MySQL SQL. A namespace is a database.
type Dialect struct{}

var _ storage.Dialect = Dialect{}

func (Dialect) Name() string                      { return "mysql" }
func (Dialect) QuoteIdent(id string) string       { return myddl.QuoteIdent(id) }
func (Dialect) MapType(t schema.Type) string      { return myddl.MapType(t) }
func (Dialect) Setup(string) []string             { return nil }
func (Dialect) Year(d string) string              { return "YEAR(" + d + ")" }
func (Dialect) ISOWeek(d string) string           { return "WEEK(" + d + ", 3)" }
func (d Dialect) CacheRef(ns, name string) string { return d.Qualify(ns, name) }

func (Dialect) Qualify(ns, name string) string {
	if ns == "" {
		return myddl.QuoteIdent(name)
	}
	return myddl.QuoteIdent(ns) + "." + myddl.QuoteIdent(name)
}

func (Dialect) CreateTable(ns, table string, cols []schema.Column) ([]string, error) {
	stmt, err := myddl.BuildCreateTableSQL(ns, table, cols)
	if err != nil {
		return nil, err
	}
	return []string{stmt}, nil
}

// Truncate uses DELETE; TRUNCATE TABLE commits the surrounding transaction.
func (d Dialect) Truncate(ns, table string) string {
	return "DELETE FROM " + d.Qualify(ns, table)
}

// ParseDate guards STR_TO_DATE with the pattern's shape, since STR_TO_DATE
// accepts trailing garbage.
func (Dialect) ParseDate(_, expr string, p storage.DatePattern) (string, error) {
	return fmt.Sprintf("CASE WHEN %s REGEXP %s THEN STR_TO_DATE(%s, %s) END",
		expr, storage.QuoteLiteral(p.Regexp()), expr, storage.QuoteLiteral(p.MySQLFormat())), nil
}

// Order relies on MySQL's native NULL placement.
func (Dialect) Order(expr string, desc bool) string {
	if desc {
		return expr + " DESC"
	}
	return expr + " ASC"
}

func (Dialect) Limit(n int) (string, string) {
	return "", fmt.Sprintf("LIMIT %d", n)
}

func (d Dialect) CreateCache(ns, name, source string) string {
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s AS SELECT * FROM %s", d.Qualify(ns, name), source)
}

func (d Dialect) DropCache(ns, name string) []string {
	return []string{"DROP TABLE IF EXISTS " + d.Qualify(ns, name)}
}
