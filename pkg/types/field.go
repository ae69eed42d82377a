package types

// Field is a single immutable value. A SQL NULL is represented by *NullField,
// never by a Go nil.
type Field interface {
	// Type returns the data kind of the value.
	Type() Type

	// IsNull reports whether the value is SQL NULL.
	IsNull() bool

	// String renders the value for display.
	String() string

	// Key returns the canonical grouping encoding of the value. Values that
	// belong in the same GROUP BY bucket share a key; all NULLs share one.
	Key() string
}

// NullField is an explicit SQL NULL that remembers the kind of the slot it
// occupies.
type NullField struct {
	Kind Type
}

// NewNull returns a NULL of the given kind.
func NewNull(kind Type) *NullField {
	return &NullField{Kind: kind}
}

func (f *NullField) Type() Type     { return f.Kind }
func (f *NullField) IsNull() bool   { return true }
func (f *NullField) String() string { return "NULL" }
func (f *NullField) Key() string    { return "\x00" }

// IsNull reports whether f is nil or SQL NULL.
func IsNull(f Field) bool {
	return f == nil || f.IsNull()
}
