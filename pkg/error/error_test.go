package error

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

type row string

func (r row) String() string { return string(r) }

func TestConstructors(t *testing.T) {
	tests := []struct {
		err      *DBError
		code     string
		category ErrorCategory
		is       func(error) bool
	}{
		{NewSchemaError("unknown column %q", "x"), CodeSchema, ErrCategoryUser, IsSchemaError},
		{NewTypeError("cannot add %s", "TEXT"), CodeType, ErrCategoryUser, IsTypeError},
		{NewDivisionByZero(), CodeDivisionByZero, ErrCategoryUser, IsDivisionByZero},
		{NewInvalidPattern("[", io.ErrUnexpectedEOF), CodeInvalidPattern, ErrCategoryUser, IsInvalidPattern},
		{NewInvalidPlan("limit %d", -1), CodeInvalidPlan, ErrCategoryUser, IsInvalidPlan},
		{NewInvalidData("bad cell"), CodeInvalidData, ErrCategoryData, IsInvalidData},
	}
	for _, tt := range tests {
		require.Equal(t, tt.code, tt.err.Code)
		require.Equal(t, tt.category, tt.err.Category)
		require.True(t, tt.is(tt.err))
		require.True(t, tt.is(fmt.Errorf("wrapped: %w", tt.err)))
		require.NotEmpty(t, tt.err.Stack)
	}
	require.Equal(t, `unknown column "x"`, NewSchemaError("unknown column %q", "x").Message)
}

func TestWrap(t *testing.T) {
	require.Nil(t, Wrap(nil, CodeInvalidData, "Filter", "n1"))

	plain := Wrap(io.EOF, CodeInvalidData, "Scan", "n1")
	require.Equal(t, CodeInvalidData, plain.Code)
	require.Equal(t, ErrCategorySystem, plain.Category)
	require.ErrorIs(t, plain, io.EOF)

	inner := NewDivisionByZero()
	inner.Operation = "Project"
	got := Wrap(inner, CodeInvalidData, "Filter", "n2")
	require.Same(t, inner, got)
	require.Equal(t, CodeDivisionByZero, got.Code)
	require.Equal(t, "Project", got.Operation, "inner operation is kept")
	require.Equal(t, "n2", got.Component)
}

func TestWithRow(t *testing.T) {
	require.NoError(t, WithRow(nil, "Filter", "n1", 1, row("(1)")))

	err := WithRow(NewDivisionByZero(), "Project", "n1", 2, row("(2, 'East', 200)"))
	var dbErr *DBError
	require.True(t, errors.As(err, &dbErr))
	require.Equal(t, "row 2: (2, 'East', 200)", dbErr.Detail)

	again := WithRow(err, "Aggregate", "n2", 7, row("(7)"))
	require.True(t, errors.As(again, &dbErr))
	require.Equal(t, "row 2: (2, 'East', 200)", dbErr.Detail, "first row recorded wins")
	require.Equal(t, "Project", dbErr.Operation)
}

func TestErrorString(t *testing.T) {
	err := NewInvalidPattern("[", io.ErrUnexpectedEOF)
	err.Detail = "row 1: ('[')"
	err.Operation = "Filter"
	err.Component = "n1"
	require.Equal(t,
		`[INVALID_PATTERN] invalid pattern "[": row 1: ('[') (operation: Filter, component: n1) caused by: unexpected EOF`,
		err.Error())

	require.Equal(t, "[DIVISION_BY_ZERO] division by zero", NewDivisionByZero().Error())
}

func TestCodeOf(t *testing.T) {
	require.Equal(t, "", CodeOf(io.EOF))
	require.Equal(t, "", CodeOf(nil))
	require.Equal(t, CodeType, CodeOf(fmt.Errorf("ctx: %w", NewTypeError("x"))))
}

func TestFormatStack(t *testing.T) {
	require.Contains(t, NewDivisionByZero().FormatStack(), "Stack trace:")
	require.Equal(t, "", (&DBError{}).FormatStack())
}

func TestCategoryString(t *testing.T) {
	require.Equal(t, "user", ErrCategoryUser.String())
	require.Equal(t, "system", ErrCategorySystem.String())
	require.Equal(t, "data", ErrCategoryData.String())
	require.Equal(t, "unknown", ErrorCategory(9).String())
}
