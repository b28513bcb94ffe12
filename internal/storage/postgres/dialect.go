package postgres

import (
	"fmt"

	"firecalls/internal/schema"
	"firecalls/internal/storage"
	pgddl "firecalls/internal/storage/postgres/ddl"
)

// Dialect renders Postgres SQL.
type Dialect struct{}

var _ storage.Dialect = Dialect{}

func (Dialect) Name() string                      { return "postgres" }
func (Dialect) QuoteIdent(id string) string       { return pgddl.QuoteIdent(id) }
func (Dialect) MapType(t schema.Type) string      { return pgddl.MapType(t) }
func (Dialect) Year(d string) string              { return "CAST(EXTRACT(YEAR FROM " + d + ") AS INTEGER)" }
func (Dialect) ISOWeek(d string) string           { return "CAST(EXTRACT(WEEK FROM " + d + ") AS INTEGER)" }
func (d Dialect) CacheRef(ns, name string) string { return d.Qualify(ns, name) }

func (Dialect) Qualify(ns, name string) string {
	if ns == "" {
		return pgddl.QuoteIdent(name)
	}
	return pgddl.QuoteIdent(ns) + "." + pgddl.QuoteIdent(name)
}

func (Dialect) CreateTable(ns, table string, cols []schema.Column) ([]string, error) {
	stmt, err := pgddl.BuildCreateTableSQL(ns, table, cols)
	if err != nil {
		return nil, err
	}
	return []string{stmt}, nil
}

func (d Dialect) Truncate(ns, table string) string {
	return "TRUNCATE TABLE " + d.Qualify(ns, table)
}

// Setup installs fc_to_date, which yields NULL instead of raising when the
// text does not match the expected shape or is not a valid calendar date.
func (d Dialect) Setup(ns string) []string {
	return []string{fmt.Sprintf(`CREATE OR REPLACE FUNCTION %s(s text, fmt text, re text) RETURNS date
LANGUAGE plpgsql IMMUTABLE AS $fn$
BEGIN
  IF s IS NULL OR s !~ re THEN
    RETURN NULL;
  END IF;
  RETURN to_date(s, fmt);
EXCEPTION WHEN others THEN
  RETURN NULL;
END
$fn$`, d.Qualify(ns, "fc_to_date"))}
}

func (d Dialect) ParseDate(ns, expr string, p storage.DatePattern) (string, error) {
	return fmt.Sprintf("%s(%s, %s, %s)", d.Qualify(ns, "fc_to_date"), expr,
		storage.QuoteLiteral(p.PGFormat()), storage.QuoteLiteral(p.Regexp())), nil
}

// Order spells out NULL placement; Postgres sorts NULLs last ascending by
// default.
func (Dialect) Order(expr string, desc bool) string {
	if desc {
		return expr + " DESC NULLS LAST"
	}
	return expr + " ASC NULLS FIRST"
}

func (Dialect) Limit(n int) (string, string) {
	return "", fmt.Sprintf("LIMIT %d", n)
}

func (d Dialect) CreateCache(ns, name, source string) string {
	return fmt.Sprintf("CREATE MATERIALIZED VIEW IF NOT EXISTS %s AS SELECT * FROM %s", d.Qualify(ns, name), source)
}

func (d Dialect) DropCache(ns, name string) []string {
	return []string{"DROP MATERIALIZED VIEW IF EXISTS " + d.Qualify(ns, name)}
}
