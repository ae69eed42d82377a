package types

import (
	"fmt"
	"strings"
)

// Type is the data kind of a column or value.
type Type int

const (
	// NullType is the kind of an untyped NULL literal. It is compatible with
	// every other kind.
	NullType Type = iota
	IntType
	DecimalType
	StringType
	BoolType
	TimestampType
	ArrayType
	DocumentType
)

// String returns a string representation of the type
func (t Type) String() string {
	switch t {
	case NullType:
		return "NULL"
	case IntType:
		return "INT"
	case DecimalType:
		return "DECIMAL"
	case StringType:
		return "TEXT"
	case BoolType:
		return "BOOLEAN"
	case TimestampType:
		return "TIMESTAMP"
	case ArrayType:
		return "ARRAY"
	case DocumentType:
		return "DOCUMENT"
	default:
		return "UNKNOWN"
	}
}

// ParseType maps a type name, including the common SQL aliases, to a Type.
func ParseType(name string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "int", "integer", "bigint", "smallint", "int64", "serial":
		return IntType, nil
	case "decimal", "numeric", "money", "real", "float", "double":
		return DecimalType, nil
	case "text", "string", "varchar", "char":
		return StringType, nil
	case "bool", "boolean":
		return BoolType, nil
	case "timestamp", "timestamptz", "date", "datetime", "time":
		return TimestampType, nil
	case "array", "list":
		return ArrayType, nil
	case "json", "jsonb", "document":
		return DocumentType, nil
	case "null":
		return NullType, nil
	default:
		return 0, fmt.Errorf("unknown type %q", name)
	}
}

// IsNumeric reports whether values of t support arithmetic.
func (t Type) IsNumeric() bool {
	return t == IntType || t == DecimalType
}

// Comparable reports whether values of kinds a and b can be compared with
// each other. An untyped NULL compares with anything; a document only with
// another document.
func Comparable(a, b Type) bool {
	if a == NullType || b == NullType {
		return true
	}
	if a.IsNumeric() && b.IsNumeric() {
		return true
	}
	return a == b
}
