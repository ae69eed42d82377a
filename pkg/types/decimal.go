package types

import (
	"github.com/shopspring/decimal"
)

// DecimalField represents an exact fixed-point number.
type DecimalField struct {
	Value decimal.Decimal
}

func NewDecimalField(value decimal.Decimal) *DecimalField {
	return &DecimalField{Value: value}
}

// ParseDecimalField parses a decimal literal such as "12.50".
func ParseDecimalField(s string) (*DecimalField, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, err
	}
	return NewDecimalField(d), nil
}

func (f *DecimalField) Type() Type {
	return DecimalType
}

func (f *DecimalField) IsNull() bool {
	return false
}

func (f *DecimalField) String() string {
	return f.Value.String()
}

func (f *DecimalField) Key() string {
	return numericKey(f.Value)
}

func (f *DecimalField) Decimal() decimal.Decimal {
	return f.Value
}

// numeric is implemented by INT and DECIMAL fields.
type numeric interface {
	Field
	Decimal() decimal.Decimal
}

// numericKey gives numerically equal INT and DECIMAL values the same
// grouping key: decimal.String drops trailing zeros.
func numericKey(d decimal.Decimal) string {
	return "n" + d.String()
}

func decimalFromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}
