// Package exectest provides fixtures and a mock child iterator for operator
// tests.
package exectest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"relcore/pkg/tuple"
	"relcore/pkg/types"
)

// MockChild is a scripted child operator that records lifecycle calls.
type MockChild struct {
	tuples []*tuple.Tuple
	index  int
	isOpen bool
	td     *tuple.TupleDescription

	// FailOpen makes Open return an error.
	FailOpen bool
	// FailAt makes Next fail when reading the row at this position; -1
	// disables it.
	FailAt int

	Opens, Rewinds, Closes int
}

func NewMockChild(td *tuple.TupleDescription, tuples []*tuple.Tuple) *MockChild {
	return &MockChild{tuples: tuples, index: -1, td: td, FailAt: -1}
}

func (m *MockChild) Open() error {
	if m.FailOpen {
		return fmt.Errorf("mock open error")
	}
	m.Opens++
	m.isOpen = true
	m.index = -1
	return nil
}

func (m *MockChild) Close() error {
	m.Closes++
	m.isOpen = false
	return nil
}

func (m *MockChild) HasNext() (bool, error) {
	if !m.isOpen {
		return false, fmt.Errorf("iterator not open")
	}
	return m.index+1 < len(m.tuples), nil
}

func (m *MockChild) Next() (*tuple.Tuple, error) {
	if !m.isOpen {
		return nil, fmt.Errorf("iterator not open")
	}
	m.index++
	if m.index == m.FailAt {
		return nil, fmt.Errorf("mock next error at row %d", m.index)
	}
	if m.index >= len(m.tuples) {
		return nil, fmt.Errorf("no more tuples")
	}
	return m.tuples[m.index], nil
}

func (m *MockChild) Rewind() error {
	if !m.isOpen {
		return fmt.Errorf("iterator not open")
	}
	m.Rewinds++
	m.index = -1
	return nil
}

func (m *MockChild) GetTupleDesc() *tuple.TupleDescription {
	return m.td
}

// Schema builds a schema from "name type [null]" specs, for example
// "sales decimal null" or "tags text[] null".
func Schema(t testing.TB, specs ...string) *tuple.TupleDescription {
	t.Helper()
	cols := make([]tuple.Column, len(specs))
	for i, spec := range specs {
		parts := strings.Fields(spec)
		require.GreaterOrEqual(t, len(parts), 2, spec)

		col := tuple.Column{Name: parts[0]}
		kind := parts[1]
		if strings.HasSuffix(kind, "[]") {
			elem, err := types.ParseType(strings.TrimSuffix(kind, "[]"))
			require.NoError(t, err, spec)
			col.Type, col.Elem = types.ArrayType, elem
		} else {
			k, err := types.ParseType(kind)
			require.NoError(t, err, spec)
			col.Type = k
		}
		col.Nullable = len(parts) > 2 && parts[2] == "null"
		cols[i] = col
	}
	td, err := tuple.NewTupleDesc(cols)
	require.NoError(t, err)
	return td
}

// Rows converts plain Go values into tuples of td; nil becomes NULL.
func Rows(t testing.TB, td *tuple.TupleDescription, values ...[]any) []*tuple.Tuple {
	t.Helper()
	rows := make([]*tuple.Tuple, len(values))
	for i, vals := range values {
		require.Len(t, vals, td.NumFields(), "row %d", i)
		fields := make([]types.Field, len(vals))
		for j, v := range vals {
			col := td.Columns[j]
			f, err := types.FromValue(col.Type, col.Elem, v)
			require.NoError(t, err, "row %d column %s", i, col.Name)
			fields[j] = f
		}
		row, err := tuple.NewTuple(td, fields)
		require.NoError(t, err, "row %d", i)
		rows[i] = row
	}
	return rows
}

// Child is shorthand for a MockChild over Rows.
func Child(t testing.TB, td *tuple.TupleDescription, values ...[]any) *MockChild {
	t.Helper()
	return NewMockChild(td, Rows(t, td, values...))
}

// Orders is the orders(order_id, region, sales) relation
// [(1,'West',100),(2,'East',200),(3,'West',300)].
func Orders(t testing.TB) *MockChild {
	t.Helper()
	td := Schema(t, "order_id int", "region text null", "sales int null")
	return Child(t, td,
		[]any{1, "West", 100},
		[]any{2, "East", 200},
		[]any{3, "West", 300},
	)
}

// Strings renders each row with tuple.String.
func Strings(rows []*tuple.Tuple) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.String()
	}
	return out
}

// Column renders the values of one column.
func Column(rows []*tuple.Tuple, idx int) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.At(idx).String()
	}
	return out
}
