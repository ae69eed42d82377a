package query

import (
	"fmt"

	dberror "relcore/pkg/error"
	"relcore/pkg/execution"
	"relcore/pkg/expr"
	"relcore/pkg/iterator"
	"relcore/pkg/tuple"
	"relcore/pkg/types"
)

// Filter applies a predicate to each tuple from its child, passing through
// only the tuples for which the predicate is True. Unknown behaves like
// False, as in a SQL WHERE clause.
type Filter struct {
	*iterator.UnaryOperator
	execution.Label
	predicate expr.Expr
	env       *expr.Env
	ordinal   int
}

// NewFilter binds predicate against the child's schema, so unknown columns
// and kind mismatches are reported before any row is read.
func NewFilter(predicate expr.Expr, child iterator.DbIterator, env *expr.Env) (*Filter, error) {
	if predicate == nil {
		return nil, dberror.NewInvalidPlan("filter predicate cannot be nil")
	}
	if child == nil {
		return nil, dberror.NewInvalidPlan("filter child cannot be nil")
	}

	bound, err := expr.Bind(predicate, child.GetTupleDesc())
	if err != nil {
		return nil, err
	}
	if kind := expr.TypeOf(bound); kind != types.BoolType && kind != types.NullType {
		return nil, dberror.NewTypeError("filter predicate %s is %s, not BOOLEAN", bound, kind)
	}

	f := &Filter{
		predicate: bound,
		env:       env,
	}

	unaryOp, err := iterator.NewUnaryOperator(child, f.readNext)
	if err != nil {
		return nil, err
	}
	f.UnaryOperator = unaryOp
	return f, nil
}

// readNext keeps pulling from the child until a tuple satisfies the
// predicate or the input is exhausted.
func (f *Filter) readNext() (*tuple.Tuple, error) {
	for {
		t, err := f.FetchNext()
		if err != nil || t == nil {
			return t, err
		}
		f.ordinal++

		passes, err := expr.Test(f.predicate, f.env, t)
		if err != nil {
			return nil, f.RowError(err, "Filter", f.ordinal, t)
		}

		if passes == types.True {
			return t, nil
		}
	}
}

// Open opens the child and resets the row counter.
func (f *Filter) Open() error {
	f.ordinal = 0
	if err := f.UnaryOperator.Open(); err != nil {
		return err
	}
	f.Logger("Filter").Debug("filter opened", "predicate", f.predicate.String())
	return nil
}

// Rewind restarts the child from its first row.
func (f *Filter) Rewind() error {
	f.ordinal = 0
	return f.UnaryOperator.Rewind()
}

// Predicate returns the bound predicate.
func (f *Filter) Predicate() expr.Expr {
	return f.predicate
}

func (f *Filter) String() string {
	return fmt.Sprintf("Filter %s", f.predicate)
}
