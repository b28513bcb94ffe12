// Package query holds the analytic queries as data: each Spec describes
// its projection, filters, grouping, ordering and limit with a small
// expression algebra, and Render turns it into SQL for one storage.Dialect.
// A Runner executes specs against a repository, concurrently if asked.
package query

import (
	"fmt"
	"strings"

	"firecalls/internal/storage"
)

// Selection is one output column. As may be empty for bare columns.
type Selection struct {
	Expr Expr
	As   string
}

// Order is one ORDER BY term. Ascending sorts put NULLs first and
// descending sorts put them last on every backend.
type Order struct {
	Expr Expr
	Desc bool
}

// Spec describes one read-only query.
type Spec struct {
	Name     string
	Question string

	Select   []Selection
	Distinct bool
	Where    []Predicate
	GroupBy  []Expr
	OrderBy  []Order
	// Limit caps the row count when positive.
	Limit int
}

// Ordered reports whether row order is part of the result.
func (s Spec) Ordered() bool { return len(s.OrderBy) > 0 }

// Render returns the SQL text of s reading from source, a relation reference
// already quoted for d. ns is the namespace helper functions live in.
func Render(s Spec, d storage.Dialect, ns, source string) (string, error) {
	if len(s.Select) == 0 {
		return "", fmt.Errorf("query %s: empty select list", s.Name)
	}
	sc := scope{d: d, ns: ns}

	var b strings.Builder
	b.WriteString("SELECT ")
	if s.Distinct {
		b.WriteString("DISTINCT ")
	}
	var tail string
	if s.Limit > 0 {
		var top string
		top, tail = d.Limit(s.Limit)
		if top != "" {
			b.WriteString(top + " ")
		}
	}

	for i, sel := range s.Select {
		if i > 0 {
			b.WriteString(", ")
		}
		e, err := sel.Expr.sql(sc)
		if err != nil {
			return "", fmt.Errorf("query %s: select %d: %w", s.Name, i+1, err)
		}
		b.WriteString(e)
		if sel.As != "" {
			b.WriteString(" AS " + d.QuoteIdent(sel.As))
		}
	}
	b.WriteString(" FROM " + source)

	if len(s.Where) > 0 {
		parts := make([]string, len(s.Where))
		for i, p := range s.Where {
			w, err := p.sql(sc)
			if err != nil {
				return "", fmt.Errorf("query %s: where: %w", s.Name, err)
			}
			parts[i] = w
		}
		b.WriteString(" WHERE " + strings.Join(parts, " AND "))
	}

	if len(s.GroupBy) > 0 {
		parts := make([]string, len(s.GroupBy))
		for i, g := range s.GroupBy {
			e, err := g.sql(sc)
			if err != nil {
				return "", fmt.Errorf("query %s: group by: %w", s.Name, err)
			}
			parts[i] = e
		}
		b.WriteString(" GROUP BY " + strings.Join(parts, ", "))
	}

	if len(s.OrderBy) > 0 {
		parts := make([]string, len(s.OrderBy))
		for i, o := range s.OrderBy {
			e, err := o.Expr.sql(sc)
			if err != nil {
				return "", fmt.Errorf("query %s: order by: %w", s.Name, err)
			}
			parts[i] = d.Order(e, o.Desc)
		}
		b.WriteString(" ORDER BY " + strings.Join(parts, ", "))
	}

	if tail != "" {
		b.WriteString(" " + tail)
	}
	return b.String(), nil
}
