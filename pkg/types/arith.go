package types

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	dberror "relcore/pkg/error"
)

// ArithOp is a binary arithmetic operator.
type ArithOp int

const (
	Add ArithOp = iota
	Sub
	Mul
	Div
	Mod
)

func (op ArithOp) String() string {
	switch op {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	case Mod:
		return "%"
	default:
		return fmt.Sprintf("ArithOp(%d)", int(op))
	}
}

// ParseArithOp maps an operator symbol to an ArithOp.
func ParseArithOp(symbol string) (ArithOp, bool) {
	switch symbol {
	case "+":
		return Add, true
	case "-":
		return Sub, true
	case "*":
		return Mul, true
	case "/":
		return Div, true
	case "%":
		return Mod, true
	default:
		return 0, false
	}
}

// ArithResultType returns the kind produced by applying op to operands of
// kinds a and b: INT for two INTs, DECIMAL when either side is DECIMAL. An
// untyped NULL takes the kind of the other side.
func ArithResultType(op ArithOp, a, b Type) (Type, error) {
	if a == NullType {
		a = b
	}
	if b == NullType {
		b = a
	}
	if a == NullType {
		return NullType, nil
	}
	if !a.IsNumeric() || !b.IsNumeric() {
		return NullType, dberror.NewTypeError("operator %s is not defined for %s and %s", op, a, b)
	}
	if a == IntType && b == IntType {
		return IntType, nil
	}
	return DecimalType, nil
}

// Arith applies op to two values. A NULL operand yields NULL; a zero divisor
// for / or % yields a DivisionByZero error.
func Arith(op ArithOp, a, b Field) (Field, error) {
	kind, err := ArithResultType(op, a.Type(), b.Type())
	if err != nil {
		return nil, err
	}
	if IsNull(a) || IsNull(b) {
		return NewNull(kind), nil
	}

	x, xok := a.(numeric)
	y, yok := b.(numeric)
	if !xok || !yok {
		return nil, dberror.NewTypeError("operator %s is not defined for %s and %s", op, a.Type(), b.Type())
	}

	if xi, ok := a.(*IntField); ok {
		if yi, ok := b.(*IntField); ok {
			return intArith(op, xi.Value, yi.Value)
		}
	}

	l, r := x.Decimal(), y.Decimal()
	switch op {
	case Add:
		return NewDecimalField(l.Add(r)), nil
	case Sub:
		return NewDecimalField(l.Sub(r)), nil
	case Mul:
		return NewDecimalField(l.Mul(r)), nil
	case Div:
		if r.IsZero() {
			return nil, dberror.NewDivisionByZero()
		}
		return NewDecimalField(l.Div(r)), nil
	case Mod:
		if r.IsZero() {
			return nil, dberror.NewDivisionByZero()
		}
		return NewDecimalField(l.Mod(r)), nil
	}
	return nil, dberror.NewTypeError("unsupported operator %s", op)
}

// intArith follows SQL integer semantics: / truncates toward zero and a
// result outside the int64 range is an error rather than a wrapped value.
func intArith(op ArithOp, l, r int64) (Field, error) {
	switch op {
	case Add:
		sum := l + r
		if (r > 0 && sum < l) || (r < 0 && sum > l) {
			return nil, overflow(op, l, r)
		}
		return NewIntField(sum), nil
	case Sub:
		diff := l - r
		if (r > 0 && diff > l) || (r < 0 && diff < l) {
			return nil, overflow(op, l, r)
		}
		return NewIntField(diff), nil
	case Mul:
		if l == 0 || r == 0 {
			return NewIntField(0), nil
		}
		prod := l * r
		if prod/r != l || (l == -1 && r == math.MinInt64) || (r == -1 && l == math.MinInt64) {
			return nil, overflow(op, l, r)
		}
		return NewIntField(prod), nil
	case Div:
		if r == 0 {
			return nil, dberror.NewDivisionByZero()
		}
		if l == math.MinInt64 && r == -1 {
			return nil, overflow(op, l, r)
		}
		return NewIntField(l / r), nil
	case Mod:
		if r == 0 {
			return nil, dberror.NewDivisionByZero()
		}
		return NewIntField(l % r), nil
	}
	return nil, dberror.NewTypeError("unsupported operator %s", op)
}

func overflow(op ArithOp, l, r int64) error {
	return dberror.NewNumericOverflow("%d %s %d is out of range for INT", l, op, r)
}

// FitsInt reports whether d is an integral value within the int64 range.
func FitsInt(d decimal.Decimal) bool {
	return d.IsInteger() &&
		d.Cmp(decimal.NewFromInt(math.MinInt64)) >= 0 &&
		d.Cmp(decimal.NewFromInt(math.MaxInt64)) <= 0
}

// Negate returns -f for numeric values.
func Negate(f Field) (Field, error) {
	switch v := f.(type) {
	case *NullField:
		if v.Kind != NullType && !v.Kind.IsNumeric() {
			return nil, dberror.NewTypeError("unary minus is not defined for %s", v.Kind)
		}
		return v, nil
	case *IntField:
		if v.Value == math.MinInt64 {
			return nil, dberror.NewNumericOverflow("-(%d) is out of range for INT", v.Value)
		}
		return NewIntField(-v.Value), nil
	case *DecimalField:
		return NewDecimalField(v.Value.Neg()), nil
	default:
		return nil, dberror.NewTypeError("unary minus is not defined for %s", f.Type())
	}
}
