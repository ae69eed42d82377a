package query

import (
	"fmt"

	dberror "relcore/pkg/error"
	"relcore/pkg/execution"
	"relcore/pkg/iterator"
	"relcore/pkg/tuple"
)

// LimitOperator implements SQL LIMIT and OFFSET.
//
// Example: SELECT * FROM orders LIMIT 10 OFFSET 5
// returns 10 tuples starting from the 6th tuple.
type LimitOperator struct {
	*iterator.UnaryOperator
	execution.Label
	limit  int
	offset int
	count  int
}

// NewLimitOperator creates a limit over child. Negative limits or offsets
// are rejected.
func NewLimitOperator(child iterator.DbIterator, limit, offset int) (*LimitOperator, error) {
	if child == nil {
		return nil, dberror.NewInvalidPlan("limit child cannot be nil")
	}
	if limit < 0 {
		return nil, dberror.NewInvalidPlan("limit must be non-negative, got %d", limit)
	}
	if offset < 0 {
		return nil, dberror.NewInvalidPlan("offset must be non-negative, got %d", offset)
	}

	lo := &LimitOperator{
		limit:  limit,
		offset: offset,
	}

	unaryOp, err := iterator.NewUnaryOperator(child, lo.readNext)
	if err != nil {
		return nil, err
	}
	lo.UnaryOperator = unaryOp
	return lo, nil
}

// Open opens the child and skips the offset tuples.
func (lo *LimitOperator) Open() error {
	if err := lo.UnaryOperator.Open(); err != nil {
		return err
	}

	lo.count = 0
	return lo.skipOffset()
}

func (lo *LimitOperator) readNext() (*tuple.Tuple, error) {
	if lo.count >= lo.limit {
		return nil, nil
	}

	t, err := lo.FetchNext()
	if err != nil || t == nil {
		return t, err
	}

	lo.count++
	return t, nil
}

// Rewind restarts the child and skips the offset again.
func (lo *LimitOperator) Rewind() error {
	lo.count = 0

	if err := lo.UnaryOperator.Rewind(); err != nil {
		return err
	}

	return lo.skipOffset()
}

// skipOffset discards up to offset tuples, stopping early if the child runs
// out.
func (lo *LimitOperator) skipOffset() error {
	for i := 0; i < lo.offset; i++ {
		t, err := lo.FetchNext()
		if err != nil {
			return err
		}
		if t == nil {
			break
		}
	}
	return nil
}

func (lo *LimitOperator) String() string {
	if lo.offset == 0 {
		return fmt.Sprintf("Limit %d", lo.limit)
	}
	return fmt.Sprintf("Limit %d Offset %d", lo.limit, lo.offset)
}
