// Package ddl defines a small, backend-agnostic model for SQL DDL and a
// renderer for CREATE TABLE statements.
//
// Dialect specifics are injected through RenderOptions: identifier quoting and
// whether the backend understands CREATE TABLE IF NOT EXISTS. Backends that do
// not (SQL Server) wrap the rendered statement in their own existence guard.
package ddl

import (
	"fmt"
	"strings"
)

// RenderOptions carries the dialect hooks used by BuildCreateTableSQL.
type RenderOptions struct {
	// Quote quotes a single identifier. Nil emits identifiers verbatim.
	Quote func(string) string

	// IfNotExists emits CREATE TABLE IF NOT EXISTS.
	IfNotExists bool
}

// BuildCreateTableSQL renders a CREATE TABLE statement from a TableDef.
//
// Rules:
//
//   - t.Name must be non-empty; t.Schema is optional.
//
//   - Each column must have a non-empty Name and SQLType and is rendered as
//
//     <Name> <SQLType> [NOT NULL] [DEFAULT <Default>]
//
//   - Columns with PrimaryKey == true are collected into a trailing
//     PRIMARY KEY (...) clause.
func BuildCreateTableSQL(t TableDef, opt RenderOptions) (string, error) {
	quote := opt.Quote
	if quote == nil {
		quote = func(s string) string { return s }
	}

	name := strings.TrimSpace(t.Name)
	if name == "" {
		return "", fmt.Errorf("ddl: table name must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("ddl: at least one column is required")
	}

	cols := make([]string, 0, len(t.Columns)+1)
	pks := make([]string, 0, len(t.Columns))

	for _, c := range t.Columns {
		cname := strings.TrimSpace(c.Name)
		if cname == "" {
			return "", fmt.Errorf("ddl: column with empty name in table %s", name)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			return "", fmt.Errorf("ddl: column %s missing SQLType", cname)
		}

		var sb strings.Builder
		sb.WriteString(quote(cname))
		sb.WriteByte(' ')
		sb.WriteString(typ)
		if !c.Nullable {
			sb.WriteString(" NOT NULL")
		}
		if def := strings.TrimSpace(c.Default); def != "" {
			sb.WriteString(" DEFAULT ")
			sb.WriteString(def)
		}
		cols = append(cols, sb.String())

		if c.PrimaryKey {
			pks = append(pks, quote(cname))
		}
	}

	if len(pks) > 0 {
		cols = append(cols, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pks, ", ")))
	}

	fqn := quote(name)
	if s := strings.TrimSpace(t.Schema); s != "" {
		fqn = quote(s) + "." + fqn
	}

	head := "CREATE TABLE "
	if opt.IfNotExists {
		head += "IF NOT EXISTS "
	}

	return fmt.Sprintf("%s%s (\n  %s\n)", head, fqn, strings.Join(cols, ",\n  ")), nil
}
