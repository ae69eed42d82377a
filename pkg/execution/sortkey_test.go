package execution

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	dberror "relcore/pkg/error"
	"relcore/pkg/tuple"
	"relcore/pkg/types"
)

func salesRows(t *testing.T) (*tuple.TupleDescription, []*tuple.Tuple) {
	t.Helper()
	td, err := tuple.NewTupleDesc([]tuple.Column{
		{Name: "id", Type: types.IntType},
		{Name: "sales", Type: types.IntType, Nullable: true},
	})
	require.NoError(t, err)

	var rows []*tuple.Tuple
	for i, v := range []any{10, nil, 20, 10} {
		sales := types.Field(types.NewNull(types.IntType))
		if v != nil {
			sales = types.NewIntField(int64(v.(int)))
		}
		row, err := tuple.NewTuple(td, []types.Field{types.NewIntField(int64(i + 1)), sales})
		require.NoError(t, err)
		rows = append(rows, row)
	}
	return td, rows
}

func order(t *testing.T, keys ...SortKey) []string {
	td, rows := salesRows(t)
	cmp, err := NewRowComparator(td, keys)
	require.NoError(t, err)
	slices.SortStableFunc(rows, cmp.Compare)

	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.At(0).String()
	}
	return ids
}

func TestRowComparator_DefaultNullPlacement(t *testing.T) {
	require.Equal(t, []string{"1", "4", "3", "2"}, order(t, Asc("sales")))
	require.Equal(t, []string{"2", "3", "1", "4"}, order(t, Desc("sales")))
}

func TestRowComparator_ExplicitNulls(t *testing.T) {
	first, last := true, false
	require.Equal(t, []string{"2", "1", "4", "3"}, order(t, SortKey{Column: "sales", NullsFirst: &first}))
	require.Equal(t, []string{"3", "1", "4", "2"}, order(t, SortKey{Column: "sales", Descending: true, NullsFirst: &last}))
}

func TestRowComparator_MultipleKeys(t *testing.T) {
	require.Equal(t, []string{"4", "1", "3", "2"}, order(t, Asc("sales"), Desc("id")))
}

func TestRowComparator_UnknownColumn(t *testing.T) {
	td, _ := salesRows(t)
	_, err := NewRowComparator(td, []SortKey{Asc("region")})
	require.True(t, dberror.IsSchemaError(err))
}

func TestFormatKeys(t *testing.T) {
	first := true
	require.Equal(t, "region, sales DESC NULLS FIRST",
		FormatKeys([]SortKey{Asc("region"), {Column: "sales", Descending: true, NullsFirst: &first}}))
}

func TestLabel_RowError(t *testing.T) {
	_, rows := salesRows(t)
	var l Label
	l.SetNodeID("01HX")

	err := l.RowError(dberror.NewDivisionByZero(), "Filter", 3, rows[2])
	require.True(t, dberror.IsDivisionByZero(err))
	require.Contains(t, err.Error(), "row 3: (3, 20)")
	require.Contains(t, err.Error(), "operation: Filter, component: 01HX")

	wrapped := (&Label{}).RowError(err, "Aggregate", 0, rows[0])
	require.Contains(t, wrapped.Error(), "row 3: (3, 20)")
	require.Contains(t, wrapped.Error(), "operation: Filter")
}
