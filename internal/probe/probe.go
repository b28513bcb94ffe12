// Package probe profiles a relation before it is loaded: the inferred type of
// every column, how it lines up with the declared table, null counts and, for
// numeric columns, summary statistics.
package probe

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"firecalls/internal/datasource"
	csvparser "firecalls/internal/parser/csv"
	"firecalls/internal/relation"
	"firecalls/internal/schema"
)

// Numeric holds the statistics of an Int or Float column.
type Numeric struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	Min    float64 `json:"min"`
	Median float64 `json:"median"`
	Max    float64 `json:"max"`
}

// Column is the profile of one relation column.
type Column struct {
	Name       string      `json:"name"`
	Normalized string      `json:"normalized"`
	Inferred   schema.Type `json:"inferred"`
	// Declared is empty when the relation is wider than the declared table.
	Declared   schema.Type `json:"declared,omitempty"`
	Assignable bool        `json:"assignable"`
	NonNull    int64       `json:"non_null"`
	Nulls      int64       `json:"nulls"`
	Distinct   int         `json:"distinct"`
	Numeric    *Numeric    `json:"numeric,omitempty"`
}

// Profile describes a whole relation.
type Profile struct {
	Rows    int64    `json:"rows"`
	Columns []Column `json:"columns"`

	// Conforms reports whether the relation could be inserted into the
	// declared table as is.
	Conforms bool `json:"conforms"`
}

// New profiles rel against declared, matching columns by position. A nil
// declared list profiles the relation alone.
func New(rel *relation.Relation, declared []schema.Column) Profile {
	p := Profile{Rows: rel.Count()}
	for i, c := range rel.Columns {
		vals := rel.Strings(i)
		col := Column{
			Name:       c.Name,
			Normalized: csvparser.NormalizeHeader(c.Name),
			Inferred:   c.Type,
			NonNull:    c.NonNull,
			Nulls:      p.Rows - c.NonNull,
			Distinct:   distinct(vals),
		}
		if i < len(declared) {
			col.Declared = declared[i].Type
			col.Assignable = c.NonNull == 0 || schema.Assignable(c.Type, col.Declared)
		}
		if c.Type == schema.Int || c.Type == schema.Float {
			col.Numeric = numeric(vals)
		}
		p.Columns = append(p.Columns, col)
	}

	if declared != nil {
		_, err := rel.Conform(declared)
		p.Conforms = err == nil
	}
	return p
}

// FromSource reads src with opt and profiles the result.
func FromSource(ctx context.Context, src datasource.Source, opt csvparser.Options, declared []schema.Column) (Profile, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return Profile{}, fmt.Errorf("probe: open: %w", err)
	}
	defer rc.Close()

	rel, err := csvparser.Read(ctx, rc, opt)
	if err != nil {
		return Profile{}, fmt.Errorf("probe: %w", err)
	}
	return New(rel, declared), nil
}

func distinct(vals []string) int {
	seen := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		seen[v] = struct{}{}
	}
	return len(seen)
}

func numeric(vals []string) *Numeric {
	xs := make([]float64, 0, len(vals))
	for _, v := range vals {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			continue
		}
		xs = append(xs, f)
	}
	if len(xs) == 0 {
		return nil
	}
	sort.Float64s(xs)

	mean, std := stat.MeanStdDev(xs, nil)
	if len(xs) == 1 {
		std = 0
	}
	return &Numeric{
		Mean:   mean,
		StdDev: std,
		Min:    floats.Min(xs),
		Median: stat.Quantile(0.5, stat.Empirical, xs, nil),
		Max:    floats.Max(xs),
	}
}

// WriteSummary writes one comma-separated line per column:
// name,normalized,inferred,declared,non_null,nulls,distinct,mean,min,max.
// Numeric fields are empty for non-numeric columns.
func WriteSummary(w io.Writer, p Profile) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# rows=%d conforms=%t\n", p.Rows, p.Conforms)
	for _, c := range p.Columns {
		fmt.Fprintf(&buf, "%s,%s,%s,%s,%d,%d,%d", c.Name, c.Normalized, c.Inferred, c.Declared, c.NonNull, c.Nulls, c.Distinct)
		if n := c.Numeric; n != nil {
			fmt.Fprintf(&buf, ",%s,%s,%s\n", ftoa(n.Mean), ftoa(n.Min), ftoa(n.Max))
		} else {
			buf.WriteString(",,,\n")
		}
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func ftoa(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
