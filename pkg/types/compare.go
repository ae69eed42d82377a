package types

import (
	"cmp"
	"strings"

	dberror "relcore/pkg/error"
	"relcore/pkg/primitives"
)

// Compare orders two non-null values, returning -1, 0 or +1. INT and DECIMAL
// compare numerically. Arrays compare element by element, with NULL elements
// equal to each other and greater than any value. Incompatible kinds yield a
// TypeError.
func Compare(a, b Field) (int, error) {
	if IsNull(a) || IsNull(b) {
		return 0, dberror.NewTypeError("cannot order NULL with the comparison operators")
	}

	switch x := a.(type) {
	case *IntField:
		if y, ok := b.(*IntField); ok {
			return cmp.Compare(x.Value, y.Value), nil
		}
		if y, ok := b.(numeric); ok {
			return x.Decimal().Cmp(y.Decimal()), nil
		}
	case *DecimalField:
		if y, ok := b.(numeric); ok {
			return x.Value.Cmp(y.Decimal()), nil
		}
	case *StringField:
		if y, ok := b.(*StringField); ok {
			return strings.Compare(x.Value, y.Value), nil
		}
	case *BoolField:
		if y, ok := b.(*BoolField); ok {
			return compareBool(x.Value, y.Value), nil
		}
	case *TimestampField:
		if y, ok := b.(*TimestampField); ok {
			return x.Value.Compare(y.Value), nil
		}
	case *ArrayField:
		if y, ok := b.(*ArrayField); ok {
			return compareArrays(x, y)
		}
	case *DocumentField:
		if y, ok := b.(*DocumentField); ok {
			return strings.Compare(x.String(), y.String()), nil
		}
	}
	return 0, dberror.NewTypeError("cannot compare %s with %s", a.Type(), b.Type())
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

func compareArrays(a, b *ArrayField) (int, error) {
	n := min(len(a.Values), len(b.Values))
	for i := 0; i < n; i++ {
		av, bv := a.Values[i], b.Values[i]
		switch {
		case IsNull(av) && IsNull(bv):
			continue
		case IsNull(av):
			return 1, nil
		case IsNull(bv):
			return -1, nil
		}
		c, err := Compare(av, bv)
		if err != nil || c != 0 {
			return c, err
		}
	}
	return cmp.Compare(len(a.Values), len(b.Values)), nil
}

// Evaluate applies a comparison predicate under SQL semantics: a NULL on
// either side yields Unknown.
func Evaluate(op primitives.Predicate, a, b Field) (Tri, error) {
	if IsNull(a) || IsNull(b) {
		return Unknown, nil
	}
	c, err := Compare(a, b)
	if err != nil {
		return Unknown, err
	}
	return TriOf(op.Holds(c)), nil
}

// Equal is SQL equality as used by predicates and join matching. NULL is
// never equal to anything, including NULL. Values of incompatible kinds are
// not equal.
func Equal(a, b Field) Tri {
	t, err := Evaluate(primitives.Equals, a, b)
	if err != nil {
		return False
	}
	return t
}

// SortCompare is a total order for ORDER BY. NULLs sort before every value
// when nullsFirst is set and after every value otherwise. Values of
// incompatible kinds fall back to ordering by kind.
func SortCompare(a, b Field, nullsFirst bool) int {
	an, bn := IsNull(a), IsNull(b)
	switch {
	case an && bn:
		return 0
	case an:
		if nullsFirst {
			return -1
		}
		return 1
	case bn:
		if nullsFirst {
			return 1
		}
		return -1
	}
	c, err := Compare(a, b)
	if err != nil {
		if k := cmp.Compare(a.Type(), b.Type()); k != 0 {
			return k
		}
		return strings.Compare(a.String(), b.String())
	}
	return c
}
