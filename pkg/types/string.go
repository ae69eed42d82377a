package types

import "strconv"

// StringField represents a text field
type StringField struct {
	Value string
}

func NewStringField(value string) *StringField {
	return &StringField{Value: value}
}

func (f *StringField) Type() Type {
	return StringType
}

func (f *StringField) IsNull() bool {
	return false
}

func (f *StringField) String() string {
	return f.Value
}

func (f *StringField) Key() string {
	return "s" + strconv.Quote(f.Value)
}
