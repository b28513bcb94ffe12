package query

import (
	"fmt"
	"strconv"
	"strings"

	"firecalls/internal/storage"
)

// scope carries what rendering an expression needs.
type scope struct {
	d  storage.Dialect
	ns string
}

// Expr is a scalar or aggregate SQL expression.
type Expr interface {
	sql(sc scope) (string, error)
}

// Predicate is a boolean condition used in WHERE. Predicates in a Spec are
// joined with AND.
type Predicate interface {
	sql(sc scope) (string, error)
}

type column string

// Col references a table column by name.
func Col(name string) Expr { return column(name) }

func (c column) sql(sc scope) (string, error) { return sc.d.QuoteIdent(string(c)), nil }

type alias string

// Alias references an output column of the same query, for ORDER BY.
func Alias(name string) Expr { return alias(name) }

func (a alias) sql(sc scope) (string, error) { return sc.d.QuoteIdent(string(a)), nil }

type literal struct{ v any }

func Int(v int64) Expr     { return literal{v} }
func Float(v float64) Expr { return literal{v} }
func Str(v string) Expr    { return literal{v} }

func (l literal) sql(scope) (string, error) {
	switch v := l.v.(type) {
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case string:
		return storage.QuoteLiteral(v), nil
	}
	return "", fmt.Errorf("unsupported literal %T", l.v)
}

type aggregate struct {
	fn       string
	arg      Expr // nil means *
	distinct bool
}

func CountAll() Expr            { return aggregate{fn: "COUNT"} }
func Count(e Expr) Expr         { return aggregate{fn: "COUNT", arg: e} }
func CountDistinct(e Expr) Expr { return aggregate{fn: "COUNT", arg: e, distinct: true} }
func Sum(e Expr) Expr           { return aggregate{fn: "SUM", arg: e} }
func Avg(e Expr) Expr           { return aggregate{fn: "AVG", arg: e} }
func Min(e Expr) Expr           { return aggregate{fn: "MIN", arg: e} }
func Max(e Expr) Expr           { return aggregate{fn: "MAX", arg: e} }

func (a aggregate) sql(sc scope) (string, error) {
	if a.arg == nil {
		return a.fn + "(*)", nil
	}
	arg, err := a.arg.sql(sc)
	if err != nil {
		return "", err
	}
	if a.distinct {
		return a.fn + "(DISTINCT " + arg + ")", nil
	}
	return a.fn + "(" + arg + ")", nil
}

type parsedDate struct {
	e Expr
	p storage.DatePattern
}

// ParseDate parses the text expression e with p. Values that do not match
// become NULL.
func ParseDate(e Expr, p storage.DatePattern) Expr { return parsedDate{e, p} }

func (pd parsedDate) sql(sc scope) (string, error) {
	inner, err := pd.e.sql(sc)
	if err != nil {
		return "", err
	}
	return sc.d.ParseDate(sc.ns, inner, pd.p)
}

type datePart struct {
	week bool
	e    Expr
}

// Year extracts the calendar year of a date expression.
func Year(e Expr) Expr { return datePart{e: e} }

// ISOWeek extracts the ISO-8601 week number of a date expression.
func ISOWeek(e Expr) Expr { return datePart{week: true, e: e} }

func (dp datePart) sql(sc scope) (string, error) {
	inner, err := dp.e.sql(sc)
	if err != nil {
		return "", err
	}
	if dp.week {
		return sc.d.ISOWeek(inner), nil
	}
	return sc.d.Year(inner), nil
}

type notNull struct{ e Expr }

func NotNull(e Expr) Predicate { return notNull{e} }

func (n notNull) sql(sc scope) (string, error) {
	s, err := n.e.sql(sc)
	if err != nil {
		return "", err
	}
	return s + " IS NOT NULL", nil
}

type compare struct {
	op   string
	l, r Expr
}

func Eq(l, r Expr) Predicate { return compare{"=", l, r} }
func Gt(l, r Expr) Predicate { return compare{">", l, r} }

func (c compare) sql(sc scope) (string, error) {
	l, err := c.l.sql(sc)
	if err != nil {
		return "", err
	}
	r, err := c.r.sql(sc)
	if err != nil {
		return "", err
	}
	return l + " " + c.op + " " + r, nil
}

type in struct {
	e    Expr
	list []Expr
}

// In matches e against a non-empty list of values.
func In(e Expr, list ...Expr) Predicate { return in{e, list} }

func (p in) sql(sc scope) (string, error) {
	if len(p.list) == 0 {
		return "", fmt.Errorf("IN with an empty list")
	}
	s, err := p.e.sql(sc)
	if err != nil {
		return "", err
	}
	items := make([]string, len(p.list))
	for i, v := range p.list {
		if items[i], err = v.sql(sc); err != nil {
			return "", err
		}
	}
	return s + " IN (" + strings.Join(items, ", ") + ")", nil
}
