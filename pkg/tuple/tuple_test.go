package tuple

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"relcore/pkg/types"
)

func TestNewTuple(t *testing.T) {
	td := ordersDesc(t)
	tup, err := NewTuple(td, []types.Field{
		types.NewIntField(1),
		types.NewStringField("West"),
		types.NewDecimalField(decimal.NewFromInt(100)),
	})
	require.NoError(t, err)
	require.Equal(t, 3, tup.NumFields())
	require.Equal(t, "(1, 'West', 100)", tup.String())

	f, err := tup.GetField(1)
	require.NoError(t, err)
	require.Equal(t, "West", f.String())

	_, err = tup.GetField(5)
	require.Error(t, err)
}

func TestNewTuple_Validation(t *testing.T) {
	td := ordersDesc(t)

	_, err := NewTuple(td, []types.Field{types.NewIntField(1)})
	require.Error(t, err, "arity")

	_, err = NewTuple(td, []types.Field{
		types.NewStringField("1"), types.NewStringField("West"), types.NewNull(types.DecimalType),
	})
	require.Error(t, err, "kind")

	_, err = NewTuple(td, []types.Field{
		types.NewNull(types.IntType), types.NewStringField("West"), types.NewNull(types.DecimalType),
	})
	require.Error(t, err, "nullability")

	tup, err := NewTuple(td, []types.Field{types.NewIntField(1), nil, types.NewNull(types.NullType)})
	require.NoError(t, err)
	require.True(t, tup.At(1).IsNull())
	require.Equal(t, types.StringType, tup.At(1).Type())
}

func TestConcatAndExtend(t *testing.T) {
	left := ordersDesc(t).Qualify("o")
	right := ordersDesc(t).Qualify("r").AsNullable()
	joined, err := Combine(left, right)
	require.NoError(t, err)

	l, err := NewTuple(left, []types.Field{
		types.NewIntField(1), types.NewStringField("West"), types.NewNull(types.DecimalType),
	})
	require.NoError(t, err)

	row := Concat(joined, l, NullTuple(right))
	require.Equal(t, 6, row.NumFields())
	require.True(t, row.At(3).IsNull())
	require.Equal(t, types.IntType, row.At(3).Type())

	extDesc, err := NewTupleDesc(append(append([]Column{}, left.Columns...), Column{Name: "rn", Type: types.IntType}))
	require.NoError(t, err)
	ext := Extend(extDesc, l, types.NewIntField(7))
	require.Equal(t, "(1, 'West', NULL, 7)", ext.String())

	projDesc, err := NewTupleDesc([]Column{left.Columns[1]})
	require.NoError(t, err)
	require.Equal(t, "('West')", Project(projDesc, l, []int{1}).String())
}

func TestTuple_Equals(t *testing.T) {
	td := ordersDesc(t)
	a, err := NewTuple(td, []types.Field{types.NewIntField(1), nil, types.NewDecimalField(decimal.NewFromInt(5))})
	require.NoError(t, err)
	b, err := NewTuple(td, []types.Field{types.NewIntField(1), nil, types.NewDecimalField(decimal.RequireFromString("5.00"))})
	require.NoError(t, err)
	require.True(t, a.Equals(b))
	require.False(t, a.Equals(NullTuple(td)))
}
