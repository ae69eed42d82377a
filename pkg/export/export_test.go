package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	dberror "relcore/pkg/error"
	"relcore/pkg/relation"
	"relcore/pkg/tuple"
	"relcore/pkg/types"
)

var placed = time.Date(2024, 1, 5, 10, 30, 0, 0, time.UTC)

func ordersRelation(t *testing.T) *relation.Relation {
	t.Helper()
	td, err := tuple.NewTupleDesc([]tuple.Column{
		{Name: "order_id", Type: types.IntType},
		{Name: "price", Type: types.DecimalType, Nullable: true},
		{Name: "region", Type: types.StringType, Nullable: true},
		{Name: "paid", Type: types.BoolType},
		{Name: "placed", Type: types.TimestampType},
		{Name: "tags", Type: types.ArrayType, Elem: types.StringType, Nullable: true},
		{Name: "meta", Type: types.DocumentType, Nullable: true},
	})
	require.NoError(t, err)

	doc, err := types.NewDocumentField(map[string]any{"channel": "web"})
	require.NoError(t, err)

	rel, err := relation.FromValues(td, [][]types.Field{
		{
			types.NewIntField(1),
			types.NewDecimalField(decimal.RequireFromString("1.10")),
			types.NewStringField("West"),
			types.NewBoolField(true),
			types.NewTimestampField(placed),
			types.NewArrayField(types.StringType, []types.Field{types.NewStringField("a"), types.NewStringField("b")}),
			doc,
		},
		{
			types.NewIntField(2),
			types.NewNull(types.DecimalType),
			types.NewNull(types.StringType),
			types.NewBoolField(false),
			types.NewTimestampField(placed.Add(time.Hour)),
			types.NewNull(types.ArrayType),
			types.NewNull(types.DocumentType),
		},
	})
	require.NoError(t, err)
	return rel
}

func TestSchema(t *testing.T) {
	schema, err := Schema(ordersRelation(t).Schema())
	require.NoError(t, err)
	require.Equal(t, 7, schema.NumFields())

	require.Equal(t, arrow.PrimitiveTypes.Int64, schema.Field(0).Type)
	require.False(t, schema.Field(0).Nullable)
	require.Equal(t, arrow.BinaryTypes.String, schema.Field(1).Type)
	require.True(t, schema.Field(1).Nullable)
	require.Equal(t, "DECIMAL", schema.Field(1).Metadata.Values()[schema.Field(1).Metadata.FindKey(KindKey)])
	require.Equal(t, -1, schema.Field(2).Metadata.FindKey(KindKey))
	require.Equal(t, arrow.FixedWidthTypes.Boolean, schema.Field(3).Type)
	require.Equal(t, arrow.TIMESTAMP, schema.Field(4).Type.ID())
	require.True(t, arrow.TypeEqual(arrow.ListOf(arrow.BinaryTypes.String), schema.Field(5).Type))
	require.Equal(t, "DOCUMENT", schema.Field(6).Metadata.Values()[schema.Field(6).Metadata.FindKey(KindKey)])
}

func TestSchema_NestedArray(t *testing.T) {
	td, err := tuple.NewTupleDesc([]tuple.Column{{Name: "m", Type: types.ArrayType, Elem: types.ArrayType}})
	require.NoError(t, err)

	_, err = Schema(td)
	require.True(t, dberror.IsTypeError(err))
}

func TestToRecord(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	rec, err := ToRecord(mem, ordersRelation(t))
	require.NoError(t, err)
	defer rec.Release()

	require.EqualValues(t, 2, rec.NumRows())

	ids := rec.Column(0).(*array.Int64)
	require.Equal(t, []int64{1, 2}, ids.Int64Values())

	prices := rec.Column(1).(*array.String)
	require.Equal(t, "1.1", prices.Value(0))
	require.True(t, prices.IsNull(1))

	regions := rec.Column(2).(*array.String)
	require.Equal(t, "West", regions.Value(0))
	require.True(t, regions.IsNull(1))

	paid := rec.Column(3).(*array.Boolean)
	require.True(t, paid.Value(0))
	require.False(t, paid.Value(1))

	ts := rec.Column(4).(*array.Timestamp)
	require.Equal(t, arrow.Timestamp(placed.UnixMicro()), ts.Value(0))

	tags := rec.Column(5).(*array.List)
	start, end := tags.ValueOffsets(0)
	values := tags.ListValues().(*array.String)
	var got []string
	for i := start; i < end; i++ {
		got = append(got, values.Value(int(i)))
	}
	require.Equal(t, []string{"a", "b"}, got)
	require.True(t, tags.IsNull(1))

	meta := rec.Column(6).(*array.String)
	require.JSONEq(t, `{"channel":"web"}`, meta.Value(0))
	require.True(t, meta.IsNull(1))
}

func TestToRecord_Empty(t *testing.T) {
	td, err := tuple.NewTupleDesc([]tuple.Column{{Name: "id", Type: types.IntType}})
	require.NoError(t, err)
	rel, err := relation.New(td, nil)
	require.NoError(t, err)

	rec, err := ToRecord(memory.NewGoAllocator(), rel)
	require.NoError(t, err)
	defer rec.Release()
	require.EqualValues(t, 0, rec.NumRows())
	require.EqualValues(t, 1, rec.NumCols())
}

func TestWriteIPC(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteIPC(&buf, ordersRelation(t)))

	rdr, err := ipc.NewReader(&buf)
	require.NoError(t, err)
	defer rdr.Release()

	require.Equal(t, "order_id", rdr.Schema().Field(0).Name)
	require.True(t, rdr.Next())
	rec := rdr.Record()
	require.EqualValues(t, 2, rec.NumRows())
	require.Equal(t, "West", rec.Column(2).(*array.String).Value(0))
	require.False(t, rdr.Next())
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.arrow")
	require.NoError(t, WriteFile(path, ordersRelation(t)))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rdr, err := ipc.NewReader(f)
	require.NoError(t, err)
	defer rdr.Release()
	require.True(t, rdr.Next())
	require.EqualValues(t, 2, rdr.Record().NumRows())
}
