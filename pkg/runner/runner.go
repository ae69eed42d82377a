// Package runner executes workbook queries concurrently, each with its own
// deadline.
package runner

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"relcore/pkg/expr"
	"relcore/pkg/logging"
	"relcore/pkg/plan"
	"relcore/pkg/relation"
	"relcore/pkg/workbook"
)

// Options control query execution.
type Options struct {
	// Parallelism bounds the number of queries running at once.
	Parallelism int
	// Timeout is the per-query deadline; zero disables it.
	Timeout             time.Duration
	CaseInsensitiveLike bool
}

// Result is the outcome of one query.
type Result struct {
	Query    *workbook.Query
	Relation *relation.Relation
	// Explain is the bound operator tree, with join statistics when the
	// query ran.
	Explain  string
	Duration time.Duration
	Err      error
}

// Runner executes queries against one catalog.
type Runner struct {
	catalog *relation.Catalog
	opts    Options
}

func New(catalog *relation.Catalog, opts Options) *Runner {
	if opts.Parallelism < 1 {
		opts.Parallelism = 1
	}
	return &Runner{catalog: catalog, opts: opts}
}

// Run executes queries with at most Parallelism in flight and returns their
// results in the order given. A failing query does not stop the others;
// only cancellation of ctx does.
func (r *Runner) Run(ctx context.Context, queries []*workbook.Query) ([]*Result, error) {
	results := make([]*Result, len(queries))

	var g errgroup.Group
	g.SetLimit(r.opts.Parallelism)
	for i, q := range queries {
		if err := ctx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			results[i] = r.RunOne(ctx, q)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	if err := ctx.Err(); err != nil {
		return results, fmt.Errorf("run cancelled: %w", err)
	}
	return results, nil
}

// RunOne executes a single query. Queries run synchronously and cannot be
// interrupted, so a query that misses its deadline keeps running in the
// background and its result is discarded.
func (r *Runner) RunOne(ctx context.Context, q *workbook.Query) *Result {
	log := logging.WithQuery(q.Name)
	res := &Result{Query: q}
	start := time.Now()

	if r.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.Timeout)
		defer cancel()
	}

	done := make(chan *Result, 1)
	go func() {
		done <- r.execute(q)
	}()

	log.Debug("query started")
	select {
	case out := <-done:
		res.Relation, res.Explain, res.Err = out.Relation, out.Explain, out.Err
	case <-ctx.Done():
		res.Err = fmt.Errorf("query %q abandoned after %s: %w", q.Name, time.Since(start).Round(time.Millisecond), ctx.Err())
	}
	res.Duration = time.Since(start)

	if res.Err != nil {
		logging.WithError(res.Err).Error("query failed", "query", q.Name, "duration", res.Duration)
		return res
	}
	log.Info("query finished", "rows", res.Relation.Len(), "duration", res.Duration)
	return res
}

func (r *Runner) execute(q *workbook.Query) *Result {
	env := expr.NewEnv(r.opts.CaseInsensitiveLike)
	c, err := plan.Compile(q.Plan, r.catalog, env)
	if err != nil {
		return &Result{Err: err}
	}
	rel, err := c.Run()
	return &Result{Relation: rel, Explain: c.Explain(), Err: err}
}
