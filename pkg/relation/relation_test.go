package relation

import (
	"testing"

	"github.com/stretchr/testify/require"

	dberror "relcore/pkg/error"
	"relcore/pkg/iterator"
	"relcore/pkg/tuple"
	"relcore/pkg/types"
)

func ordersRelation(t *testing.T) *Relation {
	t.Helper()
	td, err := tuple.NewTupleDesc([]tuple.Column{
		{Name: "order_id", Type: types.IntType},
		{Name: "region", Type: types.StringType},
		{Name: "sales", Type: types.IntType, Nullable: true},
	})
	require.NoError(t, err)

	rel, err := FromValues(td, [][]types.Field{
		{types.NewIntField(1), types.NewStringField("West"), types.NewIntField(100)},
		{types.NewIntField(2), types.NewStringField("East"), types.NewIntField(200)},
		{types.NewIntField(3), types.NewStringField("West"), types.NewIntField(300)},
	})
	require.NoError(t, err)
	return rel
}

func TestFromValues(t *testing.T) {
	rel := ordersRelation(t)
	require.Equal(t, 3, rel.Len())
	require.Equal(t, "(1, 'West', 100)", rel.Tuples()[0].String())

	_, err := FromValues(rel.Schema(), [][]types.Field{{types.NewIntField(1)}})
	require.True(t, dberror.IsInvalidData(err))
}

func TestRelation_RowsIsRestartable(t *testing.T) {
	rel := ordersRelation(t)
	for i := 0; i < 2; i++ {
		rows, err := iterator.Drain(rel.Rows())
		require.NoError(t, err)
		require.Len(t, rows, 3)
	}
}

func TestMaterialize(t *testing.T) {
	rel := ordersRelation(t)
	copied, err := Materialize(rel.Rows())
	require.NoError(t, err)
	require.Equal(t, rel.String(), copied.String())
}

func TestCatalog(t *testing.T) {
	cat := NewCatalog()
	require.NoError(t, cat.Register("orders", ordersRelation(t)))
	require.True(t, dberror.IsSchemaError(cat.Register("orders", ordersRelation(t))))
	require.Error(t, cat.Register("", ordersRelation(t)))

	p, err := cat.Lookup("orders")
	require.NoError(t, err)
	require.Equal(t, 3, p.Schema().NumFields())

	_, err = cat.Lookup("returns")
	require.True(t, dberror.IsSchemaError(err))
	require.Equal(t, []string{"orders"}, cat.Names())
}
