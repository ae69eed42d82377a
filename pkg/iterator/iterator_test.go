package iterator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"relcore/pkg/tuple"
	"relcore/pkg/types"
)

func intRows(t *testing.T, values ...int64) (*tuple.TupleDescription, []*tuple.Tuple) {
	t.Helper()
	td, err := tuple.NewTupleDesc([]tuple.Column{{Name: "n", Type: types.IntType}})
	require.NoError(t, err)

	rows := make([]*tuple.Tuple, len(values))
	for i, v := range values {
		rows[i], err = tuple.NewTuple(td, []types.Field{types.NewIntField(v)})
		require.NoError(t, err)
	}
	return td, rows
}

func values(rows []*tuple.Tuple) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.At(0).String()
	}
	return out
}

// ========================================
// BaseIterator
// ========================================

func TestBaseIterator_NotOpened(t *testing.T) {
	it := NewBaseIterator(func() (*tuple.Tuple, error) { return nil, nil })
	_, err := it.HasNext()
	require.Error(t, err)
	_, err = it.Next()
	require.Error(t, err)
}

func TestBaseIterator_Lookahead(t *testing.T) {
	_, rows := intRows(t, 1, 2)
	pos := 0
	it := NewBaseIterator(func() (*tuple.Tuple, error) {
		if pos >= len(rows) {
			return nil, nil
		}
		pos++
		return rows[pos-1], nil
	})
	it.MarkOpened()

	for i := 0; i < 3; i++ {
		ok, err := it.HasNext()
		require.NoError(t, err)
		require.True(t, ok)
	}
	first, err := it.Next()
	require.NoError(t, err)
	require.Same(t, rows[0], first)

	second, err := it.Next()
	require.NoError(t, err)
	require.Same(t, rows[1], second)

	ok, err := it.HasNext()
	require.NoError(t, err)
	require.False(t, ok)

	_, err = it.Next()
	require.Error(t, err)
}

// ========================================
// TupleSliceIterator and helpers
// ========================================

func TestTupleSliceIterator(t *testing.T) {
	td, rows := intRows(t, 3, 1, 2)
	it := NewTupleSliceIterator(td, rows)
	require.Same(t, td, it.GetTupleDesc())

	require.NoError(t, it.Open())
	got, err := Collect(it)
	require.NoError(t, err)
	require.Equal(t, []string{"3", "1", "2"}, values(got))

	require.NoError(t, it.Rewind())
	again, err := Collect(it)
	require.NoError(t, err)
	require.Equal(t, values(got), values(again))
	require.NoError(t, it.Close())
}

func TestDrain(t *testing.T) {
	td, rows := intRows(t, 5, 6)
	got, err := Drain(NewTupleSliceIterator(td, rows))
	require.NoError(t, err)
	require.Len(t, got, 2)
}

// ========================================
// UnaryOperator
// ========================================

type doubling struct {
	*UnaryOperator
}

func newDoubling(t *testing.T, child DbIterator) *doubling {
	d := &doubling{}
	op, err := NewUnaryOperator(child, func() (*tuple.Tuple, error) {
		row, err := d.FetchNext()
		if err != nil || row == nil {
			return nil, err
		}
		v := row.At(0).(*types.IntField).Value
		return tuple.NewTuple(row.TupleDesc, []types.Field{types.NewIntField(v * 2)})
	})
	require.NoError(t, err)
	d.UnaryOperator = op
	return d
}

func TestUnaryOperator(t *testing.T) {
	td, rows := intRows(t, 1, 2, 3)
	op := newDoubling(t, NewTupleSliceIterator(td, rows))
	require.Same(t, td, op.GetTupleDesc())

	got, err := Drain(op)
	require.NoError(t, err)
	require.Equal(t, []string{"2", "4", "6"}, values(got))

	require.NoError(t, op.Open())
	_, err = op.Next()
	require.NoError(t, err)
	require.NoError(t, op.Rewind())
	again, err := Collect(op)
	require.NoError(t, err)
	require.Equal(t, []string{"2", "4", "6"}, values(again))
	require.NoError(t, op.Close())
}

func TestNewOperators_NilChild(t *testing.T) {
	_, err := NewUnaryOperator(nil, nil)
	require.Error(t, err)

	td, rows := intRows(t, 1)
	_, err = NewBinaryOperator(NewTupleSliceIterator(td, rows), nil, nil)
	require.Error(t, err)
}
