package mssql

import (
	"fmt"

	"firecalls/internal/schema"
	"firecalls/internal/storage"
	msddl "firecalls/internal/storage/mssql/ddl"
)

// Dialect renders T-SQL. A namespace is a schema.
type Dialect struct{}

var _ storage.Dialect = Dialect{}

func (Dialect) Name() string                      { return "mssql" }
func (Dialect) QuoteIdent(id string) string       { return msddl.QuoteIdent(id) }
func (Dialect) MapType(t schema.Type) string      { return msddl.MapType(t) }
func (Dialect) Setup(string) []string             { return nil }
func (Dialect) Year(d string) string              { return "YEAR(" + d + ")" }
func (Dialect) ISOWeek(d string) string           { return "DATEPART(ISO_WEEK, " + d + ")" }
func (d Dialect) CacheRef(ns, name string) string { return d.Qualify(ns, name) }

func (Dialect) Qualify(ns, name string) string {
	if ns == "" {
		return msddl.QuoteIdent(name)
	}
	return msddl.QuoteIdent(ns) + "." + msddl.QuoteIdent(name)
}

func (Dialect) CreateTable(ns, table string, cols []schema.Column) ([]string, error) {
	stmt, err := msddl.BuildCreateTableSQL(ns, table, cols)
	if err != nil {
		return nil, err
	}
	return []string{stmt}, nil
}

func (d Dialect) Truncate(ns, table string) string {
	return "TRUNCATE TABLE " + d.Qualify(ns, table)
}

// ParseDate maps the pattern onto a CONVERT style number. Patterns without a
// style, or with variable-width fields, are rejected.
func (Dialect) ParseDate(_, expr string, p storage.DatePattern) (string, error) {
	style, ok := p.MSSQLStyle()
	if !ok {
		return "", fmt.Errorf("mssql: date pattern %q has no CONVERT style", p.String())
	}
	like, ok := p.Like()
	if !ok {
		return "", fmt.Errorf("mssql: date pattern %q is not fixed width", p.String())
	}
	return fmt.Sprintf("CASE WHEN %s LIKE %s THEN TRY_CONVERT(date, %s, %d) END",
		expr, storage.QuoteLiteral(like), expr, style), nil
}

// Order relies on SQL Server's native NULL placement.
func (Dialect) Order(expr string, desc bool) string {
	if desc {
		return expr + " DESC"
	}
	return expr + " ASC"
}

func (Dialect) Limit(n int) (string, string) {
	return fmt.Sprintf("TOP (%d)", n), ""
}

// CreateCache snapshots source into a table with SELECT ... INTO.
func (d Dialect) CreateCache(ns, name, source string) string {
	ref := d.Qualify(ns, name)
	return fmt.Sprintf("%s\n  SELECT * INTO %s FROM %s", msddl.ObjectGuard(ref, "U"), ref, source)
}

func (d Dialect) DropCache(ns, name string) []string {
	return []string{"DROP TABLE IF EXISTS " + d.Qualify(ns, name)}
}
