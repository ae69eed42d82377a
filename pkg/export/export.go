// Package export converts relations into Apache Arrow records and writes
// them as Arrow IPC streams.
package export

import (
	"io"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	dberror "relcore/pkg/error"
	"relcore/pkg/relation"
	"relcore/pkg/tuple"
	"relcore/pkg/types"
)

// KindKey is the field metadata key carrying the original column kind for
// kinds that Arrow stores as text (DECIMAL, DOCUMENT).
const KindKey = "relcore.kind"

var timestampType = &arrow.TimestampType{Unit: arrow.Microsecond, TimeZone: "UTC"}

// Schema maps a relation schema onto an Arrow schema.
func Schema(td *tuple.TupleDescription) (*arrow.Schema, error) {
	fields := make([]arrow.Field, 0, td.NumFields())
	for _, col := range td.Columns {
		dt, err := arrowType(col.Type, col.Elem)
		if err != nil {
			return nil, err
		}
		f := arrow.Field{Name: col.Name, Type: dt, Nullable: col.Nullable || col.Type == types.NullType}
		switch col.Type {
		case types.DecimalType, types.DocumentType:
			f.Metadata = arrow.NewMetadata([]string{KindKey}, []string{col.Type.String()})
		}
		fields = append(fields, f)
	}
	return arrow.NewSchema(fields, nil), nil
}

func arrowType(kind, elem types.Type) (arrow.DataType, error) {
	switch kind {
	case types.NullType:
		return arrow.Null, nil
	case types.IntType:
		return arrow.PrimitiveTypes.Int64, nil
	case types.DecimalType, types.StringType, types.DocumentType:
		return arrow.BinaryTypes.String, nil
	case types.BoolType:
		return arrow.FixedWidthTypes.Boolean, nil
	case types.TimestampType:
		return timestampType, nil
	case types.ArrayType:
		if elem == types.ArrayType {
			return nil, dberror.NewTypeError("nested arrays cannot be exported")
		}
		inner, err := arrowType(elem, types.NullType)
		if err != nil {
			return nil, err
		}
		return arrow.ListOf(inner), nil
	}
	return nil, dberror.NewTypeError("no arrow type for %s", kind)
}

// ToRecord builds one record holding every row of rel. The caller releases
// the record.
func ToRecord(mem memory.Allocator, rel *relation.Relation) (arrow.Record, error) {
	schema, err := Schema(rel.Schema())
	if err != nil {
		return nil, err
	}

	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()

	for r, row := range rel.Tuples() {
		for i := range schema.NumFields() {
			if err := appendField(b.Field(i), row.At(i)); err != nil {
				return nil, dberror.WithRow(err, "Export", schema.Field(i).Name, r+1, row)
			}
		}
	}
	return b.NewRecord(), nil
}

func appendField(b array.Builder, f types.Field) error {
	if types.IsNull(f) {
		b.AppendNull()
		return nil
	}

	switch b := b.(type) {
	case *array.Int64Builder:
		v, ok := f.(*types.IntField)
		if !ok {
			return mismatch(f, "INT")
		}
		b.Append(v.Value)
	case *array.StringBuilder:
		b.Append(f.String())
	case *array.BooleanBuilder:
		v, ok := f.(*types.BoolField)
		if !ok {
			return mismatch(f, "BOOLEAN")
		}
		b.Append(v.Value)
	case *array.TimestampBuilder:
		v, ok := f.(*types.TimestampField)
		if !ok {
			return mismatch(f, "TIMESTAMP")
		}
		b.Append(arrow.Timestamp(v.Value.UnixMicro()))
	case *array.ListBuilder:
		v, ok := f.(*types.ArrayField)
		if !ok {
			return mismatch(f, "ARRAY")
		}
		b.Append(true)
		for _, elem := range v.Values {
			if err := appendField(b.ValueBuilder(), elem); err != nil {
				return err
			}
		}
	default:
		b.AppendNull()
	}
	return nil
}

func mismatch(f types.Field, want string) error {
	return dberror.NewTypeError("cannot export %s value %s as %s", f.Type(), f.String(), want)
}

// WriteIPC writes rel to w as an Arrow IPC stream holding a single record.
func WriteIPC(w io.Writer, rel *relation.Relation) error {
	mem := memory.NewGoAllocator()
	rec, err := ToRecord(mem, rel)
	if err != nil {
		return err
	}
	defer rec.Release()

	wr := ipc.NewWriter(w, ipc.WithSchema(rec.Schema()), ipc.WithAllocator(mem))
	if err := wr.Write(rec); err != nil {
		wr.Close()
		return err
	}
	return wr.Close()
}

// WriteFile writes rel as an Arrow IPC stream to path.
func WriteFile(path string, rel *relation.Relation) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return WriteIPC(f, rel)
}
