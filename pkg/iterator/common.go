package iterator

import (
	"errors"

	"relcore/pkg/tuple"
)

// Iterate runs the HasNext/Next loop, skipping nil rows. processFunc returns
// false to stop early.
func Iterate(iter TupleIterator, processFunc func(*tuple.Tuple) (continueLooping bool, err error)) error {
	for {
		hasNext, err := iter.HasNext()
		if err != nil {
			return err
		}
		if !hasNext {
			return nil
		}

		tup, err := iter.Next()
		if err != nil {
			return err
		}
		if tup == nil {
			continue
		}

		shouldContinue, err := processFunc(tup)
		if err != nil {
			return err
		}
		if !shouldContinue {
			return nil
		}
	}
}

// Collect consumes the iterator into a slice.
func Collect(iter TupleIterator) ([]*tuple.Tuple, error) {
	var results []*tuple.Tuple

	err := Iterate(iter, func(tup *tuple.Tuple) (bool, error) {
		results = append(results, tup)
		return true, nil
	})

	return results, err
}

// Drain opens iter, collects every row and closes it again.
func Drain(iter DbIterator) ([]*tuple.Tuple, error) {
	if err := iter.Open(); err != nil {
		return nil, errors.Join(err, iter.Close())
	}
	rows, err := Collect(iter)
	if closeErr := iter.Close(); err == nil {
		err = closeErr
	}
	return rows, err
}
