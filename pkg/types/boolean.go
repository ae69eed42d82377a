package types

// BoolField represents a boolean field
type BoolField struct {
	Value bool
}

func NewBoolField(value bool) *BoolField {
	return &BoolField{Value: value}
}

func (f *BoolField) Type() Type {
	return BoolType
}

func (f *BoolField) IsNull() bool {
	return false
}

func (f *BoolField) String() string {
	if f.Value {
		return "true"
	}
	return "false"
}

func (f *BoolField) Key() string {
	if f.Value {
		return "b:1"
	}
	return "b:0"
}
