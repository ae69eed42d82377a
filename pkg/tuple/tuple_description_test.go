package tuple

import (
	"testing"

	"github.com/stretchr/testify/require"

	dberror "relcore/pkg/error"
	"relcore/pkg/types"
)

func ordersDesc(t *testing.T) *TupleDescription {
	t.Helper()
	td, err := NewTupleDesc([]Column{
		{Name: "order_id", Type: types.IntType},
		{Name: "region", Type: types.StringType, Nullable: true},
		{Name: "sales", Type: types.DecimalType, Nullable: true},
	})
	require.NoError(t, err)
	return td
}

func TestNewTupleDesc(t *testing.T) {
	td := ordersDesc(t)
	require.Equal(t, 3, td.NumFields())
	require.Equal(t, []string{"order_id", "region", "sales"}, td.Names())

	name, err := td.GetFieldName(1)
	require.NoError(t, err)
	require.Equal(t, "region", name)

	kind, err := td.TypeAtIndex(2)
	require.NoError(t, err)
	require.Equal(t, types.DecimalType, kind)

	_, err = td.TypeAtIndex(3)
	require.Error(t, err)
}

func TestNewTupleDesc_Invalid(t *testing.T) {
	_, err := NewTupleDesc(nil)
	require.True(t, dberror.IsSchemaError(err))

	_, err = NewTupleDesc([]Column{{Name: "a", Type: types.IntType}, {Name: "a", Type: types.StringType}})
	require.True(t, dberror.IsSchemaError(err))

	_, err = NewTupleDesc([]Column{{Type: types.IntType}})
	require.True(t, dberror.IsSchemaError(err))
}

func TestFindFieldIndex(t *testing.T) {
	td := ordersDesc(t).Qualify("o")
	require.Equal(t, []string{"o.order_id", "o.region", "o.sales"}, td.Names())

	idx, err := td.FindFieldIndex("o.region")
	require.NoError(t, err)
	require.Equal(t, 1, idx)

	idx, err = td.FindFieldIndex("sales")
	require.NoError(t, err)
	require.Equal(t, 2, idx)

	_, err = td.FindFieldIndex("r.sales")
	require.True(t, dberror.IsSchemaError(err))

	_, err = td.FindFieldIndex("missing")
	require.True(t, dberror.IsSchemaError(err))
}

func TestFindFieldIndex_Ambiguous(t *testing.T) {
	returns, err := NewTupleDesc([]Column{
		{Name: "order_id", Type: types.IntType},
		{Name: "reason", Type: types.StringType},
	})
	require.NoError(t, err)

	joined, err := Combine(ordersDesc(t).Qualify("o"), returns.Qualify("r"))
	require.NoError(t, err)

	_, err = joined.FindFieldIndex("order_id")
	require.True(t, dberror.IsSchemaError(err))

	idx, err := joined.FindFieldIndex("reason")
	require.NoError(t, err)
	require.Equal(t, 4, idx)
}

func TestCombine_Collision(t *testing.T) {
	_, err := Combine(ordersDesc(t), ordersDesc(t))
	require.True(t, dberror.IsSchemaError(err))
}

func TestAsNullable(t *testing.T) {
	td := ordersDesc(t)
	nullable := td.AsNullable()
	require.False(t, td.Columns[0].Nullable)
	require.True(t, nullable.Columns[0].Nullable)
	require.False(t, td.Equals(nullable))
	require.True(t, td.Equals(ordersDesc(t)))
}

func TestTupleDescription_String(t *testing.T) {
	td, err := NewTupleDesc([]Column{
		{Name: "id", Type: types.IntType},
		{Name: "tags", Type: types.ArrayType, Elem: types.StringType, Nullable: true},
	})
	require.NoError(t, err)
	require.Equal(t, "(id INT NOT NULL, tags TEXT[])", td.String())
}
