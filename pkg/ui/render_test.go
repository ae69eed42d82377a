package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"relcore/pkg/relation"
	"relcore/pkg/tuple"
	"relcore/pkg/types"
)

func salesRelation(t *testing.T) *relation.Relation {
	t.Helper()
	td, err := tuple.NewTupleDesc([]tuple.Column{
		{Name: "region", Type: types.StringType, Nullable: true},
		{Name: "total", Type: types.IntType, Nullable: true},
	})
	require.NoError(t, err)
	rel, err := relation.FromValues(td, [][]types.Field{
		{types.NewStringField("West"), types.NewIntField(400)},
		{types.NewNull(types.StringType), types.NewIntField(50)},
		{types.NewStringField("East"), types.NewNull(types.IntType)},
	})
	require.NoError(t, err)
	return rel
}

func TestRenderRelation(t *testing.T) {
	out := RenderRelation(salesRelation(t), 0)

	require.Contains(t, out, "region")
	require.Contains(t, out, "total")
	require.Contains(t, out, "West")
	require.Contains(t, out, "400")
	require.Equal(t, 2, strings.Count(out, "NULL"))
	require.True(t, strings.HasSuffix(out, "(3 rows)"))
	require.NotContains(t, out, "'West'")
}

func TestRenderRelation_HeaderAboveRows(t *testing.T) {
	lines := strings.Split(RenderRelation(salesRelation(t), 0), "\n")
	require.Greater(t, len(lines), 4)

	require.Contains(t, lines[1], "region")
	require.Contains(t, lines[1], "total")
	require.True(t, strings.HasPrefix(lines[2], "├"), lines[2])
	require.Contains(t, lines[3], "West")
}

func TestRenderRelation_MaxRows(t *testing.T) {
	out := RenderRelation(salesRelation(t), 1)

	require.Contains(t, out, "West")
	require.NotContains(t, out, "East")
	require.True(t, strings.HasSuffix(out, "(showing 1 of 3 rows)"))
}

func TestRenderRelation_Empty(t *testing.T) {
	td, err := tuple.NewTupleDesc([]tuple.Column{{Name: "id", Type: types.IntType}})
	require.NoError(t, err)
	rel, err := relation.New(td, nil)
	require.NoError(t, err)

	out := RenderRelation(rel, 10)
	require.Contains(t, out, "id")
	require.True(t, strings.HasSuffix(out, "(0 rows)"))
}

func TestRenderRelation_TruncatesWideCells(t *testing.T) {
	td, err := tuple.NewTupleDesc([]tuple.Column{{Name: "note", Type: types.StringType}})
	require.NoError(t, err)
	rel, err := relation.FromValues(td, [][]types.Field{{types.NewStringField(strings.Repeat("x", 100))}})
	require.NoError(t, err)

	out := RenderRelation(rel, 0)
	require.NotContains(t, out, strings.Repeat("x", maxCellWidth))
	require.Contains(t, out, strings.Repeat("x", maxCellWidth-1)+"…")
}
