package query

import (
	"fmt"
	"slices"

	dberror "relcore/pkg/error"
	"relcore/pkg/execution"
	"relcore/pkg/iterator"
	"relcore/pkg/tuple"
)

// Sort orders tuples by a list of keys (ORDER BY).
//
// Implementation:
//   - Materializes all tuples from its child on the first read (blocking)
//   - Stable sort, so rows with equal keys keep their input order
//   - Streams the sorted slice; Rewind replays it without sorting again
type Sort struct {
	*iterator.UnaryOperator
	execution.Label
	keys         []execution.SortKey
	comparator   *execution.RowComparator
	sorted       *iterator.SliceIterator[*tuple.Tuple]
	materialized bool
}

// NewSort resolves keys against the child's schema.
func NewSort(child iterator.DbIterator, keys []execution.SortKey) (*Sort, error) {
	if child == nil {
		return nil, dberror.NewInvalidPlan("sort child cannot be nil")
	}
	if len(keys) == 0 {
		return nil, dberror.NewInvalidPlan("sort needs at least one key")
	}

	cmp, err := execution.NewRowComparator(child.GetTupleDesc(), keys)
	if err != nil {
		return nil, err
	}

	s := &Sort{
		keys:       keys,
		comparator: cmp,
	}

	unaryOp, err := iterator.NewUnaryOperator(child, s.readNext)
	if err != nil {
		return nil, err
	}
	s.UnaryOperator = unaryOp
	return s, nil
}

func (s *Sort) materialize() error {
	var rows []*tuple.Tuple
	for {
		t, err := s.FetchNext()
		if err != nil {
			return fmt.Errorf("error fetching tuple from child: %w", err)
		}
		if t == nil {
			break
		}
		rows = append(rows, t)
	}

	slices.SortStableFunc(rows, s.comparator.Compare)
	s.Logger("Sort").Debug("sorted input", "rows", len(rows), "keys", execution.FormatKeys(s.keys))

	s.sorted = iterator.NewSliceIterator(rows)
	s.materialized = true
	return nil
}

func (s *Sort) readNext() (*tuple.Tuple, error) {
	if !s.materialized {
		if err := s.materialize(); err != nil {
			return nil, err
		}
	}

	if !s.sorted.HasNext() {
		return nil, nil
	}
	return s.sorted.Next()
}

// Open opens the child; sorting happens on the first read.
func (s *Sort) Open() error {
	s.materialized = false
	s.sorted = nil
	return s.UnaryOperator.Open()
}

// Rewind replays the sorted rows.
func (s *Sort) Rewind() error {
	if err := s.UnaryOperator.Rewind(); err != nil {
		return err
	}
	if s.sorted != nil {
		return s.sorted.Rewind()
	}
	return nil
}

// Close drops the sorted rows and closes the child.
func (s *Sort) Close() error {
	s.materialized = false
	s.sorted = nil
	return s.UnaryOperator.Close()
}

// Keys returns the ORDER BY list.
func (s *Sort) Keys() []execution.SortKey {
	return s.keys
}

func (s *Sort) String() string {
	return fmt.Sprintf("Sort %s", execution.FormatKeys(s.keys))
}
