package runner

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	dberror "relcore/pkg/error"
	"relcore/pkg/iterator"
	"relcore/pkg/relation"
	"relcore/pkg/workbook"
)

const salesWorkbook = `
relations:
  - name: orders
    columns:
      - {name: order_id, type: int}
      - {name: region, type: text}
      - {name: sales, type: int}
    rows:
      - [1, West, 100]
      - [2, East, 200]
      - [3, West, 300]

queries:
  - name: all
    plan:
      scan: {relation: orders}
  - name: west
    plan:
      filter:
        predicate: {op: like, left: {col: region}, right: {lit: "w%"}}
        input: {scan: {relation: orders}}
  - name: totals
    plan:
      aggregate:
        group_by: [region]
        aggregates: [{func: sum, column: sales}]
        input: {scan: {relation: orders}}
  - name: broken
    plan:
      scan: {relation: missing}
  - name: slow
    plan:
      scan: {relation: slow_orders}
`

// gate wraps a relation so every scan of it blocks for delay and records
// how many scans are open at once.
type gate struct {
	*relation.Relation
	delay time.Duration

	mu      sync.Mutex
	active  int
	maxSeen int
}

func (g *gate) Rows() iterator.DbIterator {
	return &gatedIter{DbIterator: g.Relation.Rows(), gate: g}
}

func (g *gate) enter() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.active++
	g.maxSeen = max(g.maxSeen, g.active)
}

func (g *gate) leave() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.active--
}

func (g *gate) peak() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.maxSeen
}

type gatedIter struct {
	iterator.DbIterator
	gate   *gate
	opened bool
}

func (it *gatedIter) Open() error {
	it.gate.enter()
	it.opened = true
	time.Sleep(it.gate.delay)
	return it.DbIterator.Open()
}

func (it *gatedIter) Close() error {
	if it.opened {
		it.opened = false
		it.gate.leave()
	}
	return it.DbIterator.Close()
}

func newWorkbook(t *testing.T, delay time.Duration) (*workbook.Workbook, *gate) {
	t.Helper()
	wb, err := workbook.Parse([]byte(salesWorkbook))
	require.NoError(t, err)

	orders, err := wb.Catalog.Lookup("orders")
	require.NoError(t, err)
	rel, err := relation.Materialize(orders.Rows())
	require.NoError(t, err)

	g := &gate{Relation: rel, delay: delay}
	require.NoError(t, wb.Catalog.Register("slow_orders", g))
	return wb, g
}

func rowStrings(rel *relation.Relation) []string {
	var out []string
	for _, row := range rel.Tuples() {
		out = append(out, row.String())
	}
	return out
}

func TestRun_ResultsInWorkbookOrder(t *testing.T) {
	wb, _ := newWorkbook(t, 0)
	queries, err := wb.Select("all", "west", "totals")
	require.NoError(t, err)

	results, err := New(wb.Catalog, Options{Parallelism: 3}).Run(context.Background(), queries)
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i, name := range []string{"all", "west", "totals"} {
		require.Equal(t, name, results[i].Query.Name)
		require.NoError(t, results[i].Err)
		require.NotEmpty(t, results[i].Explain)
	}
	require.Equal(t, 3, results[0].Relation.Len())
	require.Empty(t, results[1].Relation.Tuples(), "LIKE is case sensitive by default")
	require.Equal(t, []string{"('West', 400)", "('East', 200)"}, rowStrings(results[2].Relation))
}

func TestRun_CaseInsensitiveLike(t *testing.T) {
	wb, _ := newWorkbook(t, 0)
	q, err := wb.Query("west")
	require.NoError(t, err)

	res := New(wb.Catalog, Options{CaseInsensitiveLike: true}).RunOne(context.Background(), q)
	require.NoError(t, res.Err)
	require.Equal(t, []string{"(1, 'West', 100)", "(3, 'West', 300)"}, rowStrings(res.Relation))
}

func TestRun_FailureDoesNotStopOthers(t *testing.T) {
	wb, _ := newWorkbook(t, 0)
	queries, err := wb.Select("all", "broken", "totals")
	require.NoError(t, err)

	results, err := New(wb.Catalog, Options{Parallelism: 2}).Run(context.Background(), queries)
	require.NoError(t, err)

	// Select keeps workbook order
	names := make([]string, len(results))
	for i, res := range results {
		names[i] = res.Query.Name
	}
	require.Equal(t, []string{"all", "totals", "broken"}, names)

	require.NoError(t, results[0].Err)
	require.NoError(t, results[1].Err)
	require.True(t, dberror.IsSchemaError(results[2].Err), "got %v", results[2].Err)
	require.Nil(t, results[2].Relation)
}

func TestRunOne_Timeout(t *testing.T) {
	wb, _ := newWorkbook(t, 300*time.Millisecond)
	q, err := wb.Query("slow")
	require.NoError(t, err)

	res := New(wb.Catalog, Options{Timeout: 20 * time.Millisecond}).RunOne(context.Background(), q)
	require.Error(t, res.Err)
	require.True(t, errors.Is(res.Err, context.DeadlineExceeded))
	require.Nil(t, res.Relation)
	require.Less(t, res.Duration, 300*time.Millisecond)
}

func TestRun_ParallelismLimit(t *testing.T) {
	wb, g := newWorkbook(t, 30*time.Millisecond)
	q, err := wb.Query("slow")
	require.NoError(t, err)

	queries := []*workbook.Query{q, q, q, q, q, q}
	results, err := New(wb.Catalog, Options{Parallelism: 2}).Run(context.Background(), queries)
	require.NoError(t, err)

	for _, res := range results {
		require.NoError(t, res.Err)
		require.Equal(t, 3, res.Relation.Len())
	}
	require.LessOrEqual(t, g.peak(), 2)
	require.GreaterOrEqual(t, g.peak(), 1)
}

func TestRun_Cancelled(t *testing.T) {
	wb, _ := newWorkbook(t, 0)
	queries, err := wb.Select("all", "totals")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := New(wb.Catalog, Options{}).Run(ctx, queries)
	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, 2)
	require.Nil(t, results[0])
}

func TestNew_ClampsParallelism(t *testing.T) {
	r := New(relation.NewCatalog(), Options{Parallelism: 0})
	require.Equal(t, 1, r.opts.Parallelism)
}

var _ relation.Provider = (*gate)(nil)
