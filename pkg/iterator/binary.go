package iterator

import (
	"errors"
	"fmt"

	"relcore/pkg/tuple"
)

// BinaryOperator is the base of operators with two children, such as joins.
type BinaryOperator struct {
	base       *BaseIterator
	leftChild  DbIterator
	rightChild DbIterator
}

// NewBinaryOperator creates the base for an operator reading from two children.
func NewBinaryOperator(leftChild, rightChild DbIterator, readNextFunc ReadNextFunc) (*BinaryOperator, error) {
	if leftChild == nil {
		return nil, fmt.Errorf("left child operator cannot be nil")
	}
	if rightChild == nil {
		return nil, fmt.Errorf("right child operator cannot be nil")
	}

	b := &BinaryOperator{
		leftChild:  leftChild,
		rightChild: rightChild,
	}
	b.base = NewBaseIterator(readNextFunc)
	return b, nil
}

// FetchLeft pulls one row from the left child, returning nil at its end.
func (b *BinaryOperator) FetchLeft() (*tuple.Tuple, error) {
	return fetchChild(b.leftChild)
}

// FetchRight pulls one row from the right child, returning nil at its end.
func (b *BinaryOperator) FetchRight() (*tuple.Tuple, error) {
	return fetchChild(b.rightChild)
}

func fetchChild(child DbIterator) (*tuple.Tuple, error) {
	hasNext, err := child.HasNext()
	if err != nil {
		return nil, err
	}
	if !hasNext {
		return nil, nil
	}
	return child.Next()
}

// Open opens both child operators and marks this operator as ready.
func (b *BinaryOperator) Open() error {
	if err := b.leftChild.Open(); err != nil {
		return err
	}
	if err := b.rightChild.Open(); err != nil {
		return err
	}
	b.base.MarkOpened()
	return nil
}

// Close closes both children, reporting every failure.
func (b *BinaryOperator) Close() error {
	var errs []error

	if err := b.leftChild.Close(); err != nil {
		errs = append(errs, fmt.Errorf("left child close: %w", err))
	}
	if err := b.rightChild.Close(); err != nil {
		errs = append(errs, fmt.Errorf("right child close: %w", err))
	}
	if err := b.base.Close(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Rewind restarts both children and clears the cache.
func (b *BinaryOperator) Rewind() error {
	if err := b.leftChild.Rewind(); err != nil {
		return fmt.Errorf("failed to rewind left child: %w", err)
	}
	if err := b.rightChild.Rewind(); err != nil {
		return fmt.Errorf("failed to rewind right child: %w", err)
	}
	return b.base.Rewind()
}

func (b *BinaryOperator) HasNext() (bool, error) {
	return b.base.HasNext()
}

func (b *BinaryOperator) Next() (*tuple.Tuple, error) {
	return b.base.Next()
}

func (b *BinaryOperator) GetLeftChild() DbIterator {
	return b.leftChild
}

func (b *BinaryOperator) GetRightChild() DbIterator {
	return b.rightChild
}
