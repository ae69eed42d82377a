package types

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	dberror "relcore/pkg/error"
	"relcore/pkg/primitives"
)

func dec(s string) *DecimalField {
	return NewDecimalField(decimal.RequireFromString(s))
}

func TestCompare_Numeric(t *testing.T) {
	c, err := Compare(NewIntField(2), NewIntField(10))
	require.NoError(t, err)
	require.Equal(t, -1, c)

	c, err = Compare(NewIntField(2), dec("2.00"))
	require.NoError(t, err)
	require.Equal(t, 0, c)

	c, err = Compare(dec("2.5"), NewIntField(2))
	require.NoError(t, err)
	require.Equal(t, 1, c)
}

func TestCompare_Scalars(t *testing.T) {
	c, err := Compare(NewStringField("East"), NewStringField("West"))
	require.NoError(t, err)
	require.Equal(t, -1, c)

	c, err = Compare(NewBoolField(true), NewBoolField(false))
	require.NoError(t, err)
	require.Equal(t, 1, c)

	early := NewTimestampField(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	late := NewTimestampField(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	c, err = Compare(early, late)
	require.NoError(t, err)
	require.Equal(t, -1, c)
}

func TestCompare_Arrays(t *testing.T) {
	a := NewArrayField(IntType, []Field{NewIntField(1), NewIntField(2)})
	b := NewArrayField(IntType, []Field{NewIntField(1), NewIntField(3)})
	c, err := Compare(a, b)
	require.NoError(t, err)
	require.Equal(t, -1, c)

	withNull := NewArrayField(IntType, []Field{NewIntField(1), NewNull(IntType)})
	c, err = Compare(withNull, b)
	require.NoError(t, err)
	require.Equal(t, 1, c, "NULL elements order after values")

	short := NewArrayField(IntType, []Field{NewIntField(1)})
	c, err = Compare(short, a)
	require.NoError(t, err)
	require.Equal(t, -1, c)
}

func TestCompare_IncompatibleKinds(t *testing.T) {
	_, err := Compare(NewStringField("1"), NewIntField(1))
	require.Error(t, err)
	require.True(t, dberror.IsTypeError(err))
}

func TestComparable(t *testing.T) {
	require.True(t, Comparable(IntType, DecimalType))
	require.True(t, Comparable(NullType, DocumentType))
	require.True(t, Comparable(DocumentType, DocumentType))
	require.False(t, Comparable(DocumentType, StringType))
	require.False(t, Comparable(IntType, DocumentType))
	require.False(t, Comparable(StringType, IntType))
}

func TestEvaluate_NullIsUnknown(t *testing.T) {
	for _, op := range []primitives.Predicate{
		primitives.Equals, primitives.NotEqual, primitives.LessThan,
		primitives.GreaterThan, primitives.LessThanOrEqual, primitives.GreaterThanOrEqual,
	} {
		got, err := Evaluate(op, NewNull(IntType), NewIntField(1))
		require.NoError(t, err)
		require.Equal(t, Unknown, got, op.String())

		got, err = Evaluate(op, NewNull(IntType), NewNull(IntType))
		require.NoError(t, err)
		require.Equal(t, Unknown, got, op.String())
	}
}

func TestEvaluate(t *testing.T) {
	got, err := Evaluate(primitives.GreaterThan, NewIntField(300), NewIntField(250))
	require.NoError(t, err)
	require.Equal(t, True, got)

	got, err = Evaluate(primitives.NotEqual, NewStringField("a"), NewStringField("a"))
	require.NoError(t, err)
	require.Equal(t, False, got)
}

func TestEqual_NullNeverEqual(t *testing.T) {
	require.Equal(t, Unknown, Equal(NewNull(StringType), NewNull(StringType)))
	require.Equal(t, True, Equal(NewIntField(3), dec("3.0")))
	require.Equal(t, False, Equal(NewIntField(3), NewStringField("3")))
}

func TestSortCompare_NullPlacement(t *testing.T) {
	null := NewNull(IntType)
	one := NewIntField(1)

	require.Equal(t, 1, SortCompare(null, one, false))
	require.Equal(t, -1, SortCompare(one, null, false))
	require.Equal(t, -1, SortCompare(null, one, true))
	require.Equal(t, 0, SortCompare(null, NewNull(IntType), true))
	require.Equal(t, -1, SortCompare(one, NewIntField(2), false))
}

// ========================================
// Group keys
// ========================================

func TestGroupKey_NullsGroupTogether(t *testing.T) {
	require.Equal(t, GroupKey(NewNull(IntType)), GroupKey(NewNull(StringType)))
	require.Equal(t,
		GroupKey(NewStringField("West"), NewNull(IntType)),
		GroupKey(NewStringField("West"), NewNull(IntType)))
}

func TestGroupKey_NumericEquivalence(t *testing.T) {
	require.Equal(t, GroupKey(NewIntField(100)), GroupKey(dec("100.00")))
	require.NotEqual(t, GroupKey(NewIntField(100)), GroupKey(dec("100.5")))
}

func TestGroupKey_Distinguishes(t *testing.T) {
	require.NotEqual(t, GroupKey(NewStringField("1")), GroupKey(NewIntField(1)))
	require.NotEqual(t,
		GroupKey(NewStringField("a"), NewStringField("b")),
		GroupKey(NewStringField("a"+keySeparator+"b")))
	require.NotEqual(t, GroupKey(NewNull(StringType)), GroupKey(NewStringField("")))
}

func TestHasNull(t *testing.T) {
	require.False(t, HasNull(NewIntField(1), NewStringField("x")))
	require.True(t, HasNull(NewIntField(1), NewNull(IntType)))
}
