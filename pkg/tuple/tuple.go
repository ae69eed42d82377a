package tuple

import (
	"fmt"
	"strings"

	"relcore/pkg/types"
)

// Tuple represents a row of data. Tuples are never modified after
// construction; operators build new ones.
type Tuple struct {
	TupleDesc *TupleDescription // Schema of this tuple
	fields    []types.Field     // The actual field values
}

// NewTuple builds a tuple over td, checking arity, kinds and nullability.
// The tuple takes ownership of fields.
func NewTuple(td *TupleDescription, fields []types.Field) (*Tuple, error) {
	if len(fields) != td.NumFields() {
		return nil, fmt.Errorf("tuple has %d fields, schema %s has %d", len(fields), td, td.NumFields())
	}

	for i, f := range fields {
		col := td.Columns[i]
		if types.IsNull(f) {
			if !col.Nullable {
				return nil, fmt.Errorf("column %q does not admit NULL", col.Name)
			}
			if f == nil {
				fields[i] = types.NewNull(col.Type)
			}
			continue
		}
		if f.Type() != col.Type {
			return nil, fmt.Errorf("field type mismatch for column %q: expected %v, got %v",
				col.Name, col.Type, f.Type())
		}
	}

	return &Tuple{TupleDesc: td, fields: fields}, nil
}

// NullTuple returns a tuple of td whose fields are all NULL.
func NullTuple(td *TupleDescription) *Tuple {
	fields := make([]types.Field, td.NumFields())
	for i, c := range td.Columns {
		fields[i] = types.NewNull(c.Type)
	}
	return &Tuple{TupleDesc: td, fields: fields}
}

// GetField returns the value of the ith field
func (t *Tuple) GetField(i int) (types.Field, error) {
	if i < 0 || i >= len(t.fields) {
		return nil, fmt.Errorf("field index %d out of bounds [0, %d)", i, len(t.fields))
	}
	return t.fields[i], nil
}

// At returns the ith field without bounds reporting. Callers use indexes
// resolved against the tuple's schema.
func (t *Tuple) At(i int) types.Field {
	return t.fields[i]
}

// NumFields returns the number of fields in the tuple.
func (t *Tuple) NumFields() int {
	return len(t.fields)
}

// Values returns the fields at the given indexes.
func (t *Tuple) Values(indexes []int) []types.Field {
	out := make([]types.Field, len(indexes))
	for i, idx := range indexes {
		out[i] = t.fields[idx]
	}
	return out
}

// Fields returns a copy of all fields.
func (t *Tuple) Fields() []types.Field {
	out := make([]types.Field, len(t.fields))
	copy(out, t.fields)
	return out
}

// String returns a string representation of this tuple
// Format: (field1, field2, ..., fieldN)
func (t *Tuple) String() string {
	parts := make([]string, len(t.fields))
	for i, field := range t.fields {
		switch f := field.(type) {
		case *types.StringField:
			parts[i] = "'" + f.Value + "'"
		default:
			parts[i] = field.String()
		}
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Concat joins two tuples under td, which must be the combination of their
// schemas.
func Concat(td *TupleDescription, left, right *Tuple) *Tuple {
	fields := make([]types.Field, 0, len(left.fields)+len(right.fields))
	fields = append(fields, left.fields...)
	fields = append(fields, right.fields...)
	return &Tuple{TupleDesc: td, fields: fields}
}

// Extend returns a tuple of td holding t's fields followed by extra.
func Extend(td *TupleDescription, t *Tuple, extra ...types.Field) *Tuple {
	fields := make([]types.Field, 0, len(t.fields)+len(extra))
	fields = append(fields, t.fields...)
	fields = append(fields, extra...)
	return &Tuple{TupleDesc: td, fields: fields}
}

// Project returns a tuple of td holding the fields at indexes.
func Project(td *TupleDescription, t *Tuple, indexes []int) *Tuple {
	return &Tuple{TupleDesc: td, fields: t.Values(indexes)}
}

// Equals reports whether two tuples hold the same values position by
// position, treating NULLs as equal to each other.
func (t *Tuple) Equals(other *Tuple) bool {
	if other == nil || len(t.fields) != len(other.fields) {
		return false
	}
	for i := range t.fields {
		if types.GroupKey(t.fields[i]) != types.GroupKey(other.fields[i]) {
			return false
		}
	}
	return true
}
