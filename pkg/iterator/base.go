package iterator

import (
	"fmt"

	"relcore/pkg/tuple"
)

// ReadNextFunc produces the next row of an operator, or nil at the end of
// the sequence.
type ReadNextFunc func() (*tuple.Tuple, error)

// BaseIterator holds the lookahead cache and open state shared by every
// operator, delegating the actual row production to a ReadNextFunc.
type BaseIterator struct {
	nextTuple    *tuple.Tuple
	opened       bool
	readNextFunc ReadNextFunc
}

// NewBaseIterator creates a closed iterator around readNextFunc.
func NewBaseIterator(readNextFunc ReadNextFunc) *BaseIterator {
	return &BaseIterator{
		readNextFunc: readNextFunc,
	}
}

// HasNext reads ahead one row if none is cached.
func (it *BaseIterator) HasNext() (bool, error) {
	if !it.opened {
		return false, fmt.Errorf("iterator not opened")
	}

	if it.nextTuple == nil {
		var err error
		it.nextTuple, err = it.readNextFunc()
		if err != nil {
			return false, err
		}
	}
	return it.nextTuple != nil, nil
}

// Next returns the cached row, reading one first if needed.
func (it *BaseIterator) Next() (*tuple.Tuple, error) {
	if !it.opened {
		return nil, fmt.Errorf("iterator not opened")
	}

	if it.nextTuple == nil {
		var err error
		it.nextTuple, err = it.readNextFunc()
		if err != nil {
			return nil, err
		}
		if it.nextTuple == nil {
			return nil, fmt.Errorf("no more tuples")
		}
	}

	result := it.nextTuple
	it.nextTuple = nil
	return result, nil
}

// Close drops the cached row and marks the iterator closed.
func (it *BaseIterator) Close() error {
	it.nextTuple = nil
	it.opened = false
	return nil
}

// Rewind drops the cached row; the owner restarts its source.
func (it *BaseIterator) Rewind() error {
	it.nextTuple = nil
	return nil
}

// MarkOpened marks the iterator as opened and ready for use.
func (it *BaseIterator) MarkOpened() {
	it.opened = true
	it.nextTuple = nil
}

// IsOpen reports whether MarkOpened was called since the last Close.
func (it *BaseIterator) IsOpen() bool {
	return it.opened
}
