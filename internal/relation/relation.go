// Package relation holds the in-memory relation produced by the CSV reader and
// handed directly to the insert step.
//
// Cells keep their source text (string) or nil for empty fields; each column
// carries the type inferred over the whole file. Conversion to the declared
// table types happens once, at insert time, through a Conformer.
package relation

import (
	"fmt"
	"strconv"
	"strings"

	"firecalls/internal/schema"
)

// Column is one inferred column of a Relation.
type Column struct {
	Name string
	Type schema.Type
	// NonNull counts non-empty cells observed for this column.
	NonNull int64
}

// Relation is a header plus its rows. Rows are aligned to Columns.
type Relation struct {
	Columns []Column
	Rows    [][]any
}

// Count returns the number of data rows.
func (r *Relation) Count() int64 {
	if r == nil {
		return 0
	}
	return int64(len(r.Rows))
}

// Index returns the position of the named column or -1.
func (r *Relation) Index(name string) int {
	for i, c := range r.Columns {
		if strings.EqualFold(c.Name, name) {
			return i
		}
	}
	return -1
}

// Strings returns the non-null cells of column idx.
func (r *Relation) Strings(idx int) []string {
	out := make([]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		if idx < len(row) {
			if s, ok := row[idx].(string); ok {
				out = append(out, s)
			}
		}
	}
	return out
}

// MismatchError reports a column whose inferred type cannot be stored in the
// declared column type.
type MismatchError struct {
	Column   string
	Inferred schema.Type
	Declared schema.Type
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("column %s: inferred %s is not assignable to declared %s", e.Column, e.Inferred, e.Declared)
}

// Conformer converts raw relation rows into values typed for the declared
// columns, position by position.
type Conformer struct {
	declared []schema.Column
}

// Conform checks that every inferred column can be stored in the declared
// column at the same position. Columns that held no values are accepted for
// any declared type since they only produce NULLs.
func (r *Relation) Conform(declared []schema.Column) (*Conformer, error) {
	if len(r.Columns) != len(declared) {
		return nil, fmt.Errorf("relation has %d columns, table declares %d", len(r.Columns), len(declared))
	}
	for i, c := range r.Columns {
		d := declared[i]
		if c.NonNull == 0 {
			continue
		}
		if !schema.Assignable(c.Type, d.Type) {
			return nil, &MismatchError{Column: d.Name, Inferred: c.Type, Declared: d.Type}
		}
	}
	return &Conformer{declared: declared}, nil
}

// Row converts one raw row into a freshly allocated typed row.
func (c *Conformer) Row(raw []any) ([]any, error) {
	out := make([]any, len(c.declared))
	for i, d := range c.declared {
		if i >= len(raw) || raw[i] == nil {
			continue
		}
		s, ok := raw[i].(string)
		if !ok {
			return nil, fmt.Errorf("column %s: unexpected cell type %T", d.Name, raw[i])
		}
		v, err := convert(s, d.Type)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", d.Name, err)
		}
		out[i] = v
	}
	return out, nil
}

func convert(s string, t schema.Type) (any, error) {
	switch t {
	case schema.Int:
		return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	case schema.Float:
		return strconv.ParseFloat(strings.TrimSpace(s), 64)
	case schema.Bool:
		return ParseBool(s)
	default:
		return s, nil
	}
}

// ParseBool accepts true/false in any letter case, the only spellings the
// inference treats as boolean.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", s)
}
