package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"firecalls/internal/config"
	"firecalls/internal/datasource"
	"firecalls/internal/datasource/file"
	"firecalls/internal/datasource/httpds"
	"firecalls/internal/loader"
	"firecalls/internal/metrics"
	csvparser "firecalls/internal/parser/csv"
	"firecalls/internal/probe"
	"firecalls/internal/provision"
	"firecalls/internal/query"
	"firecalls/internal/schema"
	"firecalls/internal/storage"
)

// runOptions are the per-invocation switches that do not live in the
// workflow file.
type runOptions struct {
	runID   string
	reset   bool
	format  string
	probe   bool
	verbose bool
	out     io.Writer
}

// errQueriesFailed is returned when at least one query failed. The other
// results have already been rendered.
var errQueriesFailed = errors.New("one or more queries failed")

// Test seams.
var (
	newRepositoryFn = func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return storage.New(ctx, cfg)
	}

	openSourceFn = openSource
)

// openSource builds the configured input source.
func openSource(w config.Workflow) (datasource.Source, error) {
	switch w.Source.Kind {
	case "file":
		return file.NewLocal(w.Source.File.Path), nil
	case "http":
		h := w.Source.HTTP
		c := httpds.NewClient(httpds.Config{
			Timeout:            time.Duration(h.TimeoutSeconds) * time.Second,
			MaxRetries:         h.Retries,
			InsecureSkipVerify: h.InsecureSkipVerify,
		})
		return httpds.NewSource(h.URL, c), nil
	default:
		return nil, fmt.Errorf("unsupported source.kind=%s", w.Source.Kind)
	}
}

// step times fn and records it under job.
func step(job, name string, fn func() error) error {
	start := time.Now()
	err := fn()
	metrics.RecordStep(job, name, err, time.Since(start))
	return err
}

// runWorkflow provisions the namespace, loads the source file and runs the
// selected queries, rendering their results to opt.out. With opt.probe set
// it only profiles the source.
func runWorkflow(ctx context.Context, w config.Workflow, opt runOptions) error {
	start := time.Now()
	db := w.Storage.DB
	log.Printf("run: id=%s job=%s source=%s storage=%s table=%s.%s",
		opt.runID, w.Job, w.Source.Kind, w.Storage.Kind, db.Namespace, db.Table)

	src, err := openSourceFn(w)
	if err != nil {
		return err
	}
	csvOpt := csvparser.FromConfig(w.Parser.Options)

	if opt.probe {
		p, err := probe.FromSource(ctx, src, csvOpt, schema.FireServiceCalls)
		if err != nil {
			return err
		}
		return probe.WriteSummary(opt.out, p)
	}

	// Resolve the query selection before touching the database.
	qopt, err := query.OptionsFrom(w.Queries)
	if err != nil {
		return err
	}
	reg, err := query.Default(qopt).Select(w.Queries.Only...)
	if err != nil {
		return err
	}

	repo, err := newRepositoryFn(ctx, storage.Config{
		Kind:      w.Storage.Kind,
		DSN:       db.DSN,
		Warehouse: db.Warehouse,
	})
	if err != nil {
		return fmt.Errorf("init repo: %w", err)
	}
	defer repo.Close()

	err = step(w.Job, "provision", func() error {
		return provision.New(repo).Provision(ctx, provision.Spec{
			Namespace: db.Namespace,
			Table:     db.Table,
			CacheName: db.CacheName,
			Columns:   schema.FireServiceCalls,
			Reset:     opt.reset,
		})
	})
	if err != nil {
		return err
	}

	var h *loader.Handle
	err = step(w.Job, "load", func() error {
		rel, err := loader.Read(ctx, src, csvOpt)
		if err != nil {
			return err
		}
		metrics.RecordRow(w.Job, "read", rel.Count())
		target := loader.Target{Namespace: db.Namespace, Table: db.Table, Columns: schema.FireServiceCalls}
		h, err = loader.Insert(ctx, repo, target, rel, w.Runtime.BatchSize)
		return err
	})
	if err != nil {
		return err
	}
	metrics.RecordRow(w.Job, "inserted", h.Count())
	metrics.RecordBatches(w.Job, h.Stats().Batches)
	if opt.verbose {
		log.Printf("load: rows=%d batches=%d elapsed=%s",
			h.Count(), h.Stats().Batches, h.Stats().Elapsed.Truncate(time.Millisecond))
	}

	var qsrc query.Source = query.Table(repo.Dialect(), db.Namespace, db.Table)
	if db.Cache {
		c := query.NewCache(repo, db.Namespace, db.Table, db.CacheName)
		defer func() {
			if err := c.Drop(context.WithoutCancel(ctx)); err != nil {
				log.Printf("query: drop cache: %v", err)
			}
		}()
		qsrc = c
	}

	outcomes := query.NewRunner(repo, qsrc, w.Job).RunAll(ctx, reg, w.Runtime.QueryWorkers)
	if err := render(opt.out, opt.format, outcomes); err != nil {
		return err
	}

	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
		}
	}
	log.Printf("run: id=%s rows=%d queries=%d failed=%d elapsed=%s",
		opt.runID, h.Count(), len(outcomes), failed, time.Since(start).Truncate(time.Millisecond))
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errQueriesFailed, failed, len(outcomes))
	}
	return nil
}
