package csv

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"firecalls/internal/relation"
)

// ErrNoHeader is returned when a header is expected but the input is empty.
var ErrNoHeader = errors.New("csv: missing header row")

// Read consumes r and returns every record as a relation. Short records are
// padded with NULL and extra fields are dropped, so the relation is as wide
// as the header (or the first record when there is none). Empty fields become
// NULL. A malformed record aborts the read; the returned error wraps the
// *csv.ParseError.
func Read(ctx context.Context, r io.Reader, opt Options) (*relation.Relation, error) {
	cr := csv.NewReader(r)
	if opt.Comma != 0 {
		cr.Comma = opt.Comma
	}
	cr.LazyQuotes = opt.LazyQuotes
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	first, err := cr.Read()
	if err == io.EOF {
		if opt.HasHeader {
			return nil, ErrNoHeader
		}
		return &relation.Relation{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("csv: read header: %w", err)
	}

	width := len(first)
	names := make([]string, width)
	inf := make([]*inference, width)
	for i := range inf {
		inf[i] = newInference()
	}
	rel := &relation.Relation{}

	add := func(rec []string) {
		row := make([]any, width)
		for i := 0; i < width && i < len(rec); i++ {
			v := rec[i]
			if opt.TrimSpace {
				v = strings.TrimSpace(v)
			}
			if v == "" {
				continue
			}
			// ReuseRecord shares the backing array between reads.
			row[i] = strings.Clone(v)
			inf[i].observe(v)
		}
		rel.Rows = append(rel.Rows, row)
	}

	if opt.HasHeader {
		for i, h := range first {
			if i == 0 {
				h = strings.TrimPrefix(h, utf8BOM)
			}
			names[i] = strings.TrimSpace(h)
		}
	} else {
		add(first)
	}

	const logEveryN = 100_000
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: %w", err)
		}
		add(rec)
		if n := len(rel.Rows); n%logEveryN == 0 {
			log.Printf("reader: rows=%d", n)
		}
	}

	rel.Columns = columnsFrom(names, inf)
	return rel, nil
}
