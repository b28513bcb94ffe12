package sqlite

import (
	"database/sql/driver"
	"fmt"
	"sync"
	"time"

	lite "modernc.org/sqlite"

	"firecalls/internal/storage"
)

const isoDate = "2006-01-02"

// SQLite has no pattern-driven date parser or ISO week function, so the
// backend registers its own. Registration is process-wide and must precede
// the first connection.
func init() {
	lite.MustRegisterDeterministicScalarFunction("fc_to_date", 2, toDate)
	lite.MustRegisterDeterministicScalarFunction("fc_year", 1, year)
	lite.MustRegisterDeterministicScalarFunction("fc_iso_week", 1, isoWeek)
}

var patterns sync.Map // pattern string -> storage.DatePattern

func cachedPattern(s string) (storage.DatePattern, error) {
	if v, ok := patterns.Load(s); ok {
		return v.(storage.DatePattern), nil
	}
	p, err := storage.ParseDatePattern(s)
	if err != nil {
		return storage.DatePattern{}, err
	}
	patterns.Store(s, p)
	return p, nil
}

func text(v driver.Value) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case []byte:
		return string(x), true
	default:
		return "", false
	}
}

// toDate(text, pattern) returns the ISO date or NULL when text does not match.
func toDate(_ *lite.FunctionContext, args []driver.Value) (driver.Value, error) {
	s, ok := text(args[0])
	if !ok {
		return nil, nil
	}
	pat, ok := text(args[1])
	if !ok {
		return nil, fmt.Errorf("fc_to_date: pattern must be text")
	}
	p, err := cachedPattern(pat)
	if err != nil {
		return nil, err
	}
	d, ok := p.Parse(s)
	if !ok {
		return nil, nil
	}
	return d.Format(isoDate), nil
}

func isoArg(v driver.Value) (time.Time, bool) {
	s, ok := text(v)
	if !ok {
		return time.Time{}, false
	}
	d, err := time.Parse(isoDate, s)
	return d, err == nil
}

func year(_ *lite.FunctionContext, args []driver.Value) (driver.Value, error) {
	d, ok := isoArg(args[0])
	if !ok {
		return nil, nil
	}
	return int64(d.Year()), nil
}

func isoWeek(_ *lite.FunctionContext, args []driver.Value) (driver.Value, error) {
	d, ok := isoArg(args[0])
	if !ok {
		return nil, nil
	}
	_, w := d.ISOWeek()
	return int64(w), nil
}
