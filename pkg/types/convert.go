package types

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	dberror "relcore/pkg/error"
)

// FromValue converts a decoded YAML or JSON value into a field of the given
// kind. elem is the element kind used for arrays. nil becomes NULL.
func FromValue(kind, elem Type, v any) (Field, error) {
	if v == nil {
		return NewNull(kind), nil
	}

	switch kind {
	case IntType:
		return toInt(v)
	case DecimalType:
		return toDecimal(v)
	case StringType:
		switch x := v.(type) {
		case string:
			return NewStringField(x), nil
		case int, int64, float64, bool:
			return NewStringField(fmt.Sprint(x)), nil
		}
	case BoolType:
		switch x := v.(type) {
		case bool:
			return NewBoolField(x), nil
		case string:
			if b, err := strconv.ParseBool(x); err == nil {
				return NewBoolField(b), nil
			}
		}
	case TimestampType:
		switch x := v.(type) {
		case time.Time:
			return NewTimestampField(x), nil
		case string:
			if ts, err := ParseTimestamp(x); err == nil {
				return ts, nil
			}
		}
	case ArrayType:
		items, ok := v.([]any)
		if !ok {
			break
		}
		values := make([]Field, len(items))
		for i, item := range items {
			f, err := FromValue(elem, NullType, item)
			if err != nil {
				return nil, err
			}
			values[i] = f
		}
		return NewArrayField(elem, values), nil
	case DocumentType:
		if s, ok := v.(string); ok {
			doc, err := ParseDocument([]byte(s))
			if err != nil {
				return nil, dberror.NewInvalidData("invalid document %q: %v", s, err)
			}
			return doc, nil
		}
		doc, err := NewDocumentField(v)
		if err != nil {
			return nil, dberror.NewInvalidData("invalid document value: %v", err)
		}
		return doc, nil
	case NullType:
		return nil, dberror.NewInvalidData("value %v given for a NULL-only column", v)
	}
	return nil, dberror.NewInvalidData("cannot read %v (%T) as %s", v, v, kind)
}

func toInt(v any) (Field, error) {
	switch x := v.(type) {
	case int:
		return NewIntField(int64(x)), nil
	case int64:
		return NewIntField(x), nil
	case uint64:
		if x <= math.MaxInt64 {
			return NewIntField(int64(x)), nil
		}
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < math.MaxInt64 {
			return NewIntField(int64(x)), nil
		}
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64); err == nil {
			return NewIntField(n), nil
		}
	}
	return nil, dberror.NewInvalidData("cannot read %v (%T) as %s", v, v, IntType)
}

func toDecimal(v any) (Field, error) {
	switch x := v.(type) {
	case int:
		return NewDecimalField(decimal.NewFromInt(int64(x))), nil
	case int64:
		return NewDecimalField(decimal.NewFromInt(x)), nil
	case float64:
		return NewDecimalField(decimal.NewFromFloat(x)), nil
	case decimal.Decimal:
		return NewDecimalField(x), nil
	case string:
		if d, err := ParseDecimalField(strings.TrimSpace(x)); err == nil {
			return d, nil
		}
	}
	return nil, dberror.NewInvalidData("cannot read %v (%T) as %s", v, v, DecimalType)
}

// InferValue converts an untyped literal into a field, choosing the kind
// from the Go type of v: integers become INT, floats DECIMAL, maps
// DOCUMENT and lists ARRAY of the first non-null element's kind.
func InferValue(v any) (Field, error) {
	switch x := v.(type) {
	case nil:
		return NewNull(NullType), nil
	case int, int64, uint64:
		return toInt(x)
	case float64:
		return toDecimal(x)
	case string:
		return NewStringField(x), nil
	case bool:
		return NewBoolField(x), nil
	case time.Time:
		return NewTimestampField(x), nil
	case map[string]any:
		return FromValue(DocumentType, NullType, x)
	case []any:
		elem := NullType
		for _, item := range x {
			if item == nil {
				continue
			}
			f, err := InferValue(item)
			if err != nil {
				return nil, err
			}
			elem = f.Type()
			break
		}
		return FromValue(ArrayType, elem, x)
	}
	return nil, dberror.NewInvalidData("unsupported literal %v (%T)", v, v)
}
