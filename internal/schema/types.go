// Package schema declares the logical column model shared by the reader, the
// DDL renderers and the storage dialects, plus the fire-service call table.
package schema

import (
	"fmt"
	"strings"
)

// Type is a backend-agnostic logical column type.
type Type string

const (
	Int       Type = "int"
	Float     Type = "float"
	Bool      Type = "bool"
	Date      Type = "date"
	Timestamp Type = "timestamp"
	Text      Type = "text"
)

// ParseType accepts the loose spellings used in config files and CSV
// inference output ("integer", "double", "string", ...).
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "int", "integer", "bigint", "long":
		return Int, nil
	case "float", "double", "real":
		return Float, nil
	case "bool", "boolean":
		return Bool, nil
	case "date":
		return Date, nil
	case "timestamp", "datetime":
		return Timestamp, nil
	case "text", "string", "":
		return Text, nil
	default:
		return "", fmt.Errorf("schema: unknown type %q", s)
	}
}

// Column is one declared column of a table.
type Column struct {
	Name     string `json:"name" yaml:"name"`
	Type     Type   `json:"type" yaml:"type"`
	Nullable bool   `json:"nullable" yaml:"nullable"`
}

// Names returns the column names in declared order.
func Names(cols []Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Name
	}
	return out
}

// Assignable reports whether a value inferred as 'from' may be inserted into a
// column declared as 'to'. Every type renders into Text and integers widen to
// Float; all other pairs must match exactly.
func Assignable(from, to Type) bool {
	if from == to || to == Text {
		return true
	}
	return from == Int && to == Float
}
