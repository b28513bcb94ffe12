package query

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"firecalls/internal/metrics"
	"firecalls/internal/resultset"
	"firecalls/internal/storage"
)

// Kind names the stage a query failed in.
type Kind string

const (
	KindSource Kind = "source"
	KindRender Kind = "render"
	KindExec   Kind = "exec"
)

// Error is a failure of one query. It never affects other queries.
type Error struct {
	Query string
	Kind  Kind
	Err   error
}

func (e *Error) Error() string { return fmt.Sprintf("query %s: %s: %v", e.Query, e.Kind, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// Outcome is the result of one spec in RunAll.
type Outcome struct {
	Spec    Spec
	Set     resultset.Set
	Err     error
	Elapsed time.Duration
}

// Runner executes specs against one repository and source.
type Runner struct {
	repo storage.Repository
	src  Source
	job  string
}

func NewRunner(repo storage.Repository, src Source, job string) *Runner {
	return &Runner{repo: repo, src: src, job: job}
}

// SQL renders s against the runner's source without executing it.
func (r *Runner) SQL(ctx context.Context, s Spec) (string, error) {
	ref, err := r.src.Ref(ctx)
	if err != nil {
		return "", &Error{Query: s.Name, Kind: KindSource, Err: err}
	}
	stmt, err := Render(s, r.repo.Dialect(), r.src.Namespace(), ref)
	if err != nil {
		return "", &Error{Query: s.Name, Kind: KindRender, Err: err}
	}
	return stmt, nil
}

// Run executes one spec. The returned set is named after the spec.
func (r *Runner) Run(ctx context.Context, s Spec) (set resultset.Set, err error) {
	start := time.Now()
	defer func() {
		d := time.Since(start)
		metrics.RecordStep(r.job, "query:"+s.Name, err, d)
		if err != nil {
			log.Printf("query: name=%s failed elapsed=%s err=%v", s.Name, d.Truncate(time.Millisecond), err)
			return
		}
		metrics.RecordRow(r.job, "result", int64(set.Len()))
		log.Printf("query: name=%s rows=%d elapsed=%s", s.Name, set.Len(), d.Truncate(time.Millisecond))
	}()

	stmt, err := r.SQL(ctx, s)
	if err != nil {
		return resultset.Set{}, err
	}
	set, err = r.repo.Query(ctx, stmt)
	if err != nil {
		return resultset.Set{}, &Error{Query: s.Name, Kind: KindExec, Err: err}
	}
	set.Name = s.Name
	return set, nil
}

// RunAll runs every spec of reg with at most workers in flight and returns
// one Outcome per spec in registry order. A failing query does not cancel
// the others.
func (r *Runner) RunAll(ctx context.Context, reg *Registry, workers int) []Outcome {
	if workers < 1 {
		workers = 1
	}
	specs := reg.Specs()
	out := make([]Outcome, len(specs))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, s := range specs {
		i, s := i, s
		g.Go(func() error {
			start := time.Now()
			set, err := r.Run(ctx, s)
			out[i] = Outcome{Spec: s, Set: set, Err: err, Elapsed: time.Since(start)}
			return nil
		})
	}
	_ = g.Wait()
	return out
}
