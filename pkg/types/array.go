package types

import "strings"

// ArrayField is an ordered list of values sharing one element kind.
// Elements may be NULL.
type ArrayField struct {
	Elem   Type
	Values []Field
}

func NewArrayField(elem Type, values []Field) *ArrayField {
	return &ArrayField{Elem: elem, Values: values}
}

func (f *ArrayField) Type() Type {
	return ArrayType
}

func (f *ArrayField) IsNull() bool {
	return false
}

func (f *ArrayField) String() string {
	parts := make([]string, len(f.Values))
	for i, v := range f.Values {
		parts[i] = v.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (f *ArrayField) Key() string {
	var b strings.Builder
	b.WriteString("a[")
	for i, v := range f.Values {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(v.Key())
	}
	b.WriteByte(']')
	return b.String()
}

// Len returns the number of elements.
func (f *ArrayField) Len() int {
	return len(f.Values)
}
