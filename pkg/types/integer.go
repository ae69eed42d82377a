package types

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// IntField represents a 64-bit signed integer field
type IntField struct {
	Value int64
}

func NewIntField(value int64) *IntField {
	return &IntField{Value: value}
}

func (f *IntField) Type() Type {
	return IntType
}

func (f *IntField) IsNull() bool {
	return false
}

func (f *IntField) String() string {
	return strconv.FormatInt(f.Value, 10)
}

func (f *IntField) Key() string {
	return numericKey(f.Decimal())
}

// Decimal widens the integer for mixed INT/DECIMAL arithmetic and comparison.
func (f *IntField) Decimal() decimal.Decimal {
	return decimal.NewFromInt(f.Value)
}
