package csv

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"firecalls/internal/relation"
	"firecalls/internal/schema"
)

// dateLayouts and timestampLayouts are the shapes promoted to Date and
// Timestamp. Anything else stays Text.
var (
	dateLayouts = []string{"2006-01-02"}

	timestampLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05.999999999",
		"2006-01-02 15:04:05.999999999",
	}
)

// inference narrows the candidate types of one column as values arrive.
// Candidates only ever drop out, so the result does not depend on row order.
type inference struct {
	nonNull int64
	isInt   bool
	isFloat bool
	isBool  bool
	isTemp  bool // every value is a date or a timestamp
	anyTime bool
	settled bool // no candidate left but Text
}

func newInference() *inference {
	return &inference{isInt: true, isFloat: true, isBool: true, isTemp: true}
}

func (in *inference) observe(v string) {
	in.nonNull++
	if in.settled {
		return
	}
	s := strings.TrimSpace(v)
	if in.isInt {
		if _, err := strconv.ParseInt(s, 10, 64); err != nil {
			in.isInt = false
		}
	}
	if in.isFloat && !in.isInt {
		in.isFloat = isFloat(s)
	}
	if in.isBool {
		ls := strings.ToLower(s)
		in.isBool = ls == "true" || ls == "false"
	}
	if in.isTemp {
		ok, hasTime := parseTemporal(s)
		in.isTemp = ok
		in.anyTime = in.anyTime || hasTime
	}
	in.settled = !in.isInt && !in.isFloat && !in.isBool && !in.isTemp
}

// result applies the promotion order Int, Float, Bool, Timestamp/Date, Text.
func (in *inference) result() schema.Type {
	switch {
	case in.nonNull == 0:
		return schema.Text
	case in.isInt:
		return schema.Int
	case in.isFloat:
		return schema.Float
	case in.isBool:
		return schema.Bool
	case in.isTemp && in.anyTime:
		return schema.Timestamp
	case in.isTemp:
		return schema.Date
	default:
		return schema.Text
	}
}

// InferType returns the type Read would assign to a column holding values.
// Empty strings count as NULL.
func InferType(values []string) schema.Type {
	in := newInference()
	for _, v := range values {
		if v != "" {
			in.observe(v)
		}
	}
	return in.result()
}

// decimalRe is plain decimal or scientific notation. Hex floats, digit
// separators and NaN/Inf spellings stay text even though ParseFloat takes them.
var decimalRe = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

func isFloat(s string) bool {
	if !decimalRe.MatchString(s) {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func parseTemporal(s string) (ok, hasTime bool) {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true, false
		}
	}
	for _, layout := range timestampLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true, true
		}
	}
	return false, false
}

func columnsFrom(names []string, inf []*inference) []relation.Column {
	cols := make([]relation.Column, len(names))
	for i, n := range names {
		cols[i] = relation.Column{Name: n, Type: inf[i].result(), NonNull: inf[i].nonNull}
	}
	return cols
}
