package iterator

import "relcore/pkg/tuple"

// DbIterator is the volcano-style contract every operator implements.
// Operators form a tree; a consumer opens the root, pulls rows with
// HasNext/Next and closes it when done.
type DbIterator interface {
	TupleIterator

	// Open prepares the iterator and its children. It must be called before
	// HasNext or Next. Operators that materialize their input do so here.
	Open() error

	// Rewind restarts the sequence from its first row.
	Rewind() error

	// Close releases the iterator and its children. Closing twice is safe.
	Close() error

	// GetTupleDesc returns the schema of the produced rows. It is available
	// before Open.
	GetTupleDesc() *tuple.TupleDescription
}

// TupleIterator is the pull half of DbIterator, shared by the helpers in
// this package.
type TupleIterator interface {
	// HasNext reports whether another row is available without consuming it.
	HasNext() (bool, error)

	// Next returns the next row and advances.
	Next() (*tuple.Tuple, error)
}
