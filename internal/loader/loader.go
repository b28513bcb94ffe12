// Package loader moves the call-response file into its table in two steps.
// Read parses the whole file into a relation; Insert replaces the table
// contents with that relation inside one transaction and returns a Handle.
package loader

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"firecalls/internal/datasource"
	csvparser "firecalls/internal/parser/csv"
	"firecalls/internal/relation"
	"firecalls/internal/schema"
	"firecalls/internal/storage"
)

// Target names the table a relation is inserted into and its declared layout.
type Target struct {
	Namespace string
	Table     string
	Columns   []schema.Column
}

// Read opens src and parses it with opt.
func Read(ctx context.Context, src datasource.Source, opt csvparser.Options) (*relation.Relation, error) {
	start := time.Now()
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, fail(KindIO, err)
	}
	defer rc.Close()

	rel, err := csvparser.Read(ctx, rc, opt)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, fail(KindIO, err)
		}
		return nil, fail(KindParse, err)
	}
	log.Printf("loader: read rows=%d columns=%d elapsed=%s",
		rel.Count(), len(rel.Columns), time.Since(start).Truncate(time.Millisecond))
	return rel, nil
}

// CheckHeader compares the relation header with the declared columns
// position by position after NormalizeHeader. Unnamed columns (a file read
// without a header) are bound by position and always match.
func CheckHeader(cols []relation.Column, declared []schema.Column) error {
	if len(cols) != len(declared) {
		return fmt.Errorf("file has %d columns, table declares %d", len(cols), len(declared))
	}
	for i, c := range cols {
		if c.Name == "" {
			continue
		}
		if csvparser.NormalizeHeader(c.Name) != csvparser.NormalizeHeader(declared[i].Name) {
			return fmt.Errorf("column %d: header %q does not match declared %q", i+1, c.Name, declared[i].Name)
		}
	}
	return nil
}

// Insert truncates the target table and writes every row of rel into it in
// declared column order. Header and type checks run before the transaction
// starts; a failure after that rolls the whole load back.
func Insert(ctx context.Context, repo storage.Repository, target Target, rel *relation.Relation, batchSize int) (*Handle, error) {
	if rel == nil {
		return nil, fail(KindSchema, errors.New("nil relation"))
	}
	if err := CheckHeader(rel.Columns, target.Columns); err != nil {
		return nil, fail(KindSchema, err)
	}
	conf, err := rel.Conform(target.Columns)
	if err != nil {
		return nil, fail(KindSchema, err)
	}

	tx, err := repo.Begin(ctx)
	if err != nil {
		return nil, fail(KindInsert, err)
	}
	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil {
				log.Printf("loader: rollback: %v", rbErr)
			}
		}
	}()

	d := repo.Dialect()
	if err := tx.Exec(ctx, d.Truncate(target.Namespace, target.Table)); err != nil {
		return nil, fail(KindInsert, fmt.Errorf("truncate: %w", err))
	}

	var (
		stats   storage.BatchStats
		convErr error
	)
	columns := schema.Names(target.Columns)
	copyFn := func(ctx context.Context, cols []string, rows [][]any) (int64, error) {
		return tx.CopyFrom(ctx, target.Namespace, target.Table, cols, rows)
	}

	g, gctx := errgroup.WithContext(ctx)
	in := make(chan []any, batchSize)
	g.Go(func() error {
		defer close(in)
		for i, raw := range rel.Rows {
			row, err := conf.Row(raw)
			if err != nil {
				convErr = fmt.Errorf("row %d: %w", i+1, err)
				return convErr
			}
			select {
			case in <- row:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})
	g.Go(func() error {
		var err error
		stats, err = storage.LoadBatches(gctx, columns, in, batchSize, copyFn)
		return err
	})
	if err := g.Wait(); err != nil {
		if convErr != nil {
			return nil, fail(KindSchema, convErr)
		}
		return nil, fail(KindInsert, err)
	}

	if stats.Rows != rel.Count() {
		return nil, fail(KindInsert, fmt.Errorf("inserted %d of %d rows", stats.Rows, rel.Count()))
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fail(KindInsert, fmt.Errorf("commit: %w", err))
	}
	committed = true

	log.Printf("loader: inserted rows=%d batches=%d table=%s elapsed=%s",
		stats.Rows, stats.Batches, d.Qualify(target.Namespace, target.Table), stats.Elapsed.Truncate(time.Millisecond))
	return &Handle{repo: repo, target: target, rel: rel, stats: stats}, nil
}
