package iterator

import (
	"fmt"

	"relcore/pkg/tuple"
)

// UnaryOperator is the base of operators with one child (Filter, Project,
// Limit, Sort, Aggregate, Window). It owns the child's lifecycle and the
// lookahead cache; embedders supply only the read function.
type UnaryOperator struct {
	base  *BaseIterator
	child DbIterator
}

// NewUnaryOperator creates the base for an operator reading from child.
func NewUnaryOperator(child DbIterator, readNextFunc ReadNextFunc) (*UnaryOperator, error) {
	if child == nil {
		return nil, fmt.Errorf("child operator cannot be nil")
	}

	u := &UnaryOperator{
		child: child,
	}
	u.base = NewBaseIterator(readNextFunc)
	return u, nil
}

// FetchNext pulls one row from the child, returning nil at its end.
func (u *UnaryOperator) FetchNext() (*tuple.Tuple, error) {
	hasNext, err := u.child.HasNext()
	if err != nil {
		return nil, err
	}

	if !hasNext {
		return nil, nil
	}

	return u.child.Next()
}

// Open opens the child operator and marks this operator as ready.
func (u *UnaryOperator) Open() error {
	if err := u.child.Open(); err != nil {
		return err
	}
	u.base.MarkOpened()
	return nil
}

// Close closes the child operator and releases resources.
func (u *UnaryOperator) Close() error {
	if err := u.child.Close(); err != nil {
		return err
	}
	return u.base.Close()
}

// Rewind restarts the child and clears the cache.
func (u *UnaryOperator) Rewind() error {
	if err := u.child.Rewind(); err != nil {
		return fmt.Errorf("failed to rewind child operator: %w", err)
	}
	return u.base.Rewind()
}

// GetTupleDesc returns the child's schema. Operators that change the schema
// shadow this method.
func (u *UnaryOperator) GetTupleDesc() *tuple.TupleDescription {
	return u.child.GetTupleDesc()
}

func (u *UnaryOperator) HasNext() (bool, error) {
	return u.base.HasNext()
}

func (u *UnaryOperator) Next() (*tuple.Tuple, error) {
	return u.base.Next()
}

// GetChild returns the child operator.
func (u *UnaryOperator) GetChild() DbIterator {
	return u.child
}
