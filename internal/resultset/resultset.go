// Package resultset holds backend-neutral query results.
package resultset

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/zeebo/xxh3"
)

// Set is an ordered sequence of rows with named columns. Cell values are
// normalized to int64, float64, bool, string or nil.
type Set struct {
	Name    string
	Columns []string
	Rows    [][]any
}

// Len returns the number of rows.
func (s Set) Len() int { return len(s.Rows) }

// Index returns the position of the named column or -1.
func (s Set) Index(name string) int {
	for i, c := range s.Columns {
		if strings.EqualFold(c, name) {
			return i
		}
	}
	return -1
}

// Column returns every value of the named column, or nil when absent.
func (s Set) Column(name string) []any {
	idx := s.Index(name)
	if idx < 0 {
		return nil
	}
	out := make([]any, len(s.Rows))
	for i, r := range s.Rows {
		out[i] = r[idx]
	}
	return out
}

// Fingerprint digests the rows with xxh3. When ordered is false the digest
// ignores row order, so two sets holding the same multiset of rows match.
func (s Set) Fingerprint(ordered bool) uint64 {
	hashes := make([]uint64, len(s.Rows))
	var sb strings.Builder
	for i, row := range s.Rows {
		sb.Reset()
		for _, v := range row {
			writeCell(&sb, v)
			sb.WriteByte(0x1f)
		}
		hashes[i] = xxh3.HashString(sb.String())
	}
	if !ordered {
		sort.Slice(hashes, func(i, j int) bool { return hashes[i] < hashes[j] })
	}

	h := xxh3.New()
	var buf [8]byte
	for _, c := range s.Columns {
		_, _ = h.WriteString(strings.ToLower(c))
		_, _ = h.Write([]byte{0x1e})
	}
	for _, v := range hashes {
		binary.LittleEndian.PutUint64(buf[:], v)
		_, _ = h.Write(buf[:])
	}
	return h.Sum64()
}

func writeCell(sb *strings.Builder, v any) {
	switch x := v.(type) {
	case nil:
		sb.WriteString("N")
	case int64:
		sb.WriteString("i")
		sb.WriteString(strconv.FormatInt(x, 10))
	case float64:
		sb.WriteString("f")
		sb.WriteString(strconv.FormatUint(math.Float64bits(x), 16))
	case bool:
		sb.WriteString("b")
		sb.WriteString(strconv.FormatBool(x))
	case string:
		sb.WriteString("s")
		sb.WriteString(x)
	default:
		fmt.Fprintf(sb, "?%v", x)
	}
}

// Normalize maps driver-specific scan results onto the value set used by
// Set. Unknown types fall back to their fmt representation.
func Normalize(v any) any {
	switch x := v.(type) {
	case nil, int64, float64, bool, string:
		return x
	case []byte:
		return string(x)
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		return int64(x)
	case float32:
		return float64(x)
	case time.Time:
		return x.Format(time.RFC3339Nano)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// NormalizeTyped is Normalize plus numeric text recovery for drivers that
// hand back numeric columns as text (MySQL's text protocol, DECIMAL).
// Integral DECIMAL values, such as SUM over an integer column, become int64.
// dbType is the driver's DatabaseTypeName for the column.
func NormalizeTyped(v any, dbType string) any {
	n := Normalize(v)
	s, ok := n.(string)
	if !ok {
		return n
	}
	switch strings.ToUpper(dbType) {
	case "TINYINT", "SMALLINT", "MEDIUMINT", "INT", "INTEGER", "BIGINT", "YEAR",
		"UNSIGNED TINYINT", "UNSIGNED SMALLINT", "UNSIGNED INT", "UNSIGNED BIGINT":
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i
		}
	case "DECIMAL", "NUMERIC":
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	case "FLOAT", "DOUBLE", "REAL", "DOUBLE PRECISION":
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}
