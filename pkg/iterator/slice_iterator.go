package iterator

import (
	"fmt"

	"relcore/pkg/tuple"
)

// SliceIterator walks a materialized slice. Sort, Aggregate, Window and the
// join build side buffer rows in memory and stream them back out with it.
//
//	iter := NewSliceIterator(rows)
//	for iter.HasNext() {
//	    row, _ := iter.Next()
//	}
type SliceIterator[T any] struct {
	data         []T
	currentIndex int
}

// NewSliceIterator creates an iterator positioned before the first element.
func NewSliceIterator[T any](data []T) *SliceIterator[T] {
	return &SliceIterator[T]{data: data}
}

func (it *SliceIterator[T]) HasNext() bool {
	return it.currentIndex < len(it.data)
}

// Next returns the next element and advances.
func (it *SliceIterator[T]) Next() (T, error) {
	var zero T
	if it.currentIndex >= len(it.data) {
		return zero, fmt.Errorf("no more elements in slice iterator")
	}

	element := it.data[it.currentIndex]
	it.currentIndex++
	return element, nil
}

// Rewind moves back to the first element.
func (it *SliceIterator[T]) Rewind() error {
	it.currentIndex = 0
	return nil
}

func (it *SliceIterator[T]) Len() int {
	return len(it.data)
}

// Remaining returns the number of elements left to iterate.
func (it *SliceIterator[T]) Remaining() int {
	return len(it.data) - it.currentIndex
}

// TupleSliceIterator is a DbIterator over rows already in memory.
type TupleSliceIterator struct {
	base *BaseIterator
	desc *tuple.TupleDescription
	rows *SliceIterator[*tuple.Tuple]
}

// NewTupleSliceIterator creates a DbIterator producing rows under desc.
func NewTupleSliceIterator(desc *tuple.TupleDescription, rows []*tuple.Tuple) *TupleSliceIterator {
	it := &TupleSliceIterator{
		desc: desc,
		rows: NewSliceIterator(rows),
	}
	it.base = NewBaseIterator(it.readNext)
	return it
}

func (it *TupleSliceIterator) readNext() (*tuple.Tuple, error) {
	if !it.rows.HasNext() {
		return nil, nil
	}
	return it.rows.Next()
}

func (it *TupleSliceIterator) Open() error {
	_ = it.rows.Rewind()
	it.base.MarkOpened()
	return nil
}

func (it *TupleSliceIterator) HasNext() (bool, error) {
	return it.base.HasNext()
}

func (it *TupleSliceIterator) Next() (*tuple.Tuple, error) {
	return it.base.Next()
}

func (it *TupleSliceIterator) Rewind() error {
	_ = it.rows.Rewind()
	return it.base.Rewind()
}

func (it *TupleSliceIterator) Close() error {
	return it.base.Close()
}

func (it *TupleSliceIterator) GetTupleDesc() *tuple.TupleDescription {
	return it.desc
}
