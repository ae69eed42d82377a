package error

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// ErrorCategory classifies errors by their nature and appropriate handling strategy.
type ErrorCategory int

const (
	// ErrCategoryUser represents errors caused by the query itself.
	// Examples: unknown columns, arithmetic on text, division by zero.
	// These errors are fixable by changing the query or its input data.
	ErrCategoryUser ErrorCategory = iota

	// ErrCategorySystem represents errors requiring operator intervention.
	// Examples: unreadable workbook files, bad configuration.
	ErrCategorySystem

	// ErrCategoryData represents malformed input data.
	// Examples: a workbook cell that does not parse as its column kind.
	ErrCategoryData
)

func (c ErrorCategory) String() string {
	switch c {
	case ErrCategoryUser:
		return "user"
	case ErrCategorySystem:
		return "system"
	case ErrCategoryData:
		return "data"
	default:
		return "unknown"
	}
}

// Error codes produced by the query core.
const (
	// CodeSchema: a referenced column or relation does not exist, is ambiguous,
	// or a schema would contain a duplicate name. Always raised at bind time.
	CodeSchema = "SCHEMA_ERROR"

	// CodeType: an operator or function was applied to an incompatible kind.
	CodeType = "TYPE_ERROR"

	// CodeDivisionByZero: arithmetic division or modulo with a zero divisor.
	CodeDivisionByZero = "DIVISION_BY_ZERO"

	// CodeNumericOverflow: an INT result does not fit in 64 bits.
	CodeNumericOverflow = "NUMERIC_OVERFLOW"

	// CodeInvalidPattern: a LIKE or regular expression pattern is malformed.
	CodeInvalidPattern = "INVALID_PATTERN"

	// CodeInvalidPlan: an operator descriptor is structurally invalid
	// (missing child, cross join with a predicate, negative limit...).
	CodeInvalidPlan = "INVALID_PLAN"

	// CodeInvalidData: an input value could not be decoded.
	CodeInvalidData = "INVALID_DATA"
)

// DBError represents a structured error with rich context information.
type DBError struct {
	// Code is a unique identifier for this error type (e.g., "SCHEMA_ERROR").
	Code string

	// Category classifies the error for appropriate handling strategy.
	Category ErrorCategory

	// Message is a human-readable description of what went wrong.
	Message string

	// Detail provides additional context about the specific error instance,
	// usually the row that triggered it.
	Detail string

	// Hint suggests how the user might fix or work around this error.
	Hint string

	// Operation identifies the operator that was running when the error
	// occurred. Examples: "Filter", "HashJoin", "Aggregate", "Window".
	Operation string

	// Component identifies where the error originated, typically the plan
	// node id of the operator.
	Component string

	// Cause is the underlying error that triggered this error.
	Cause error

	// Stack contains the call stack where this error was created.
	Stack []uintptr
}

// New creates a new DBError with the specified code, category, and message.
func New(category ErrorCategory, code, message string) *DBError {
	err := &DBError{
		Code:     code,
		Category: category,
		Message:  message,
		Stack:    captureStack(),
	}
	return err
}

// NewSchemaError reports a reference to something the operand's schema does not have.
func NewSchemaError(format string, args ...any) *DBError {
	err := New(ErrCategoryUser, CodeSchema, fmt.Sprintf(format, args...))
	err.Stack = captureStack()
	return err
}

// NewTypeError reports an operation applied to an incompatible data kind.
func NewTypeError(format string, args ...any) *DBError {
	err := New(ErrCategoryUser, CodeType, fmt.Sprintf(format, args...))
	err.Stack = captureStack()
	return err
}

// NewDivisionByZero reports a zero divisor.
func NewDivisionByZero() *DBError {
	err := New(ErrCategoryUser, CodeDivisionByZero, "division by zero")
	err.Stack = captureStack()
	return err
}

// NewNumericOverflow reports an INT computation outside the int64 range.
func NewNumericOverflow(format string, args ...any) *DBError {
	err := New(ErrCategoryUser, CodeNumericOverflow, fmt.Sprintf(format, args...))
	err.Stack = captureStack()
	return err
}

// NewInvalidPattern reports a malformed LIKE or regular expression pattern.
func NewInvalidPattern(pattern string, cause error) *DBError {
	err := New(ErrCategoryUser, CodeInvalidPattern, fmt.Sprintf("invalid pattern %q", pattern))
	err.Cause = cause
	err.Stack = captureStack()
	return err
}

// NewInvalidPlan reports a structurally invalid operator descriptor.
func NewInvalidPlan(format string, args ...any) *DBError {
	err := New(ErrCategoryUser, CodeInvalidPlan, fmt.Sprintf(format, args...))
	err.Stack = captureStack()
	return err
}

// NewInvalidData reports an input value that could not be decoded.
func NewInvalidData(format string, args ...any) *DBError {
	err := New(ErrCategoryData, CodeInvalidData, fmt.Sprintf(format, args...))
	err.Stack = captureStack()
	return err
}

// Wrap wraps an existing error with operator context information.
// If the error is already a DBError, it enriches the existing error with
// operation and component context (only if not already set).
func Wrap(err error, code, operation, component string) *DBError {
	if err == nil {
		return nil
	}

	var dbErr *DBError
	if errors.As(err, &dbErr) {
		if dbErr.Operation == "" {
			dbErr.Operation = operation
		}
		if dbErr.Component == "" {
			dbErr.Component = component
		}
		return dbErr
	}

	return &DBError{
		Code:      code,
		Category:  ErrCategorySystem,
		Message:   err.Error(),
		Operation: operation,
		Component: component,
		Cause:     err,
		Stack:     captureStack(),
	}
}

// WithRow attaches the row that triggered err as detail, keeping the first
// row recorded if an inner operator already did so.
func WithRow(err error, operation, component string, ordinal int, row fmt.Stringer) error {
	if err == nil {
		return nil
	}
	dbErr := Wrap(err, CodeInvalidData, operation, component)
	if dbErr.Detail == "" && row != nil {
		dbErr.Detail = fmt.Sprintf("row %d: %s", ordinal, row.String())
	}
	return dbErr
}

// captureStack captures the current call stack for debugging purposes.
// It skips the first 3 frames to exclude captureStack, New/Wrap, and the
// immediate caller, focusing on the actual error origin.
func captureStack() []uintptr {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	return pcs[0:n]
}

// Error implements the standard Go error interface
//
// The format follows the pattern:
// [ERROR_CODE] Message: Detail (operation: Operation, component: Component) caused by: underlying error
func (e *DBError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Detail != "" {
		b.WriteString(fmt.Sprintf(": %s", e.Detail))
	}

	if e.Operation != "" {
		b.WriteString(fmt.Sprintf(" (operation: %s", e.Operation))
		if e.Component != "" {
			b.WriteString(fmt.Sprintf(", component: %s", e.Component))
		}
		b.WriteString(")")
	}

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(" caused by: %v", e.Cause))
	}

	return b.String()
}

// Unwrap returns the underlying cause error, enabling error chain traversal
// with Go's standard error handling functions like errors.Is and errors.As.
func (e *DBError) Unwrap() error {
	return e.Cause
}

// FormatStack returns a human-readable stack trace for debugging purposes.
func (e *DBError) FormatStack() string {
	if len(e.Stack) == 0 {
		return ""
	}

	var b strings.Builder
	frames := runtime.CallersFrames(e.Stack)

	b.WriteString("Stack trace:\n")
	for {
		f, more := frames.Next()
		b.WriteString(fmt.Sprintf("  %s\n    %s:%d\n",
			f.Function, f.File, f.Line))
		if !more {
			break
		}
	}

	return b.String()
}

// CodeOf returns the code of the first DBError in err's chain, or "".
func CodeOf(err error) string {
	var dbErr *DBError
	if errors.As(err, &dbErr) {
		return dbErr.Code
	}
	return ""
}

func IsSchemaError(err error) bool    { return CodeOf(err) == CodeSchema }
func IsTypeError(err error) bool      { return CodeOf(err) == CodeType }
func IsDivisionByZero(err error) bool { return CodeOf(err) == CodeDivisionByZero }
func IsInvalidPattern(err error) bool { return CodeOf(err) == CodeInvalidPattern }
func IsNumericOverflow(err error) bool { return CodeOf(err) == CodeNumericOverflow }
func IsInvalidPlan(err error) bool    { return CodeOf(err) == CodeInvalidPlan }
func IsInvalidData(err error) bool    { return CodeOf(err) == CodeInvalidData }
