package types

import (
	"strconv"

	json "github.com/goccy/go-json"
)

// DocumentField holds a decoded JSON value: nil, bool, float64, string,
// []any or map[string]any.
type DocumentField struct {
	Value any
}

// NewDocumentField normalizes v through a JSON round trip so that numbers
// and nested maps take their canonical decoded shape.
func NewDocumentField(v any) (*DocumentField, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return ParseDocument(raw)
}

// ParseDocument decodes raw JSON text.
func ParseDocument(raw []byte) (*DocumentField, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return &DocumentField{Value: v}, nil
}

func (f *DocumentField) Type() Type {
	return DocumentType
}

func (f *DocumentField) IsNull() bool {
	return false
}

// String renders canonical JSON; object keys are sorted by the encoder.
func (f *DocumentField) String() string {
	raw, err := json.Marshal(f.Value)
	if err != nil {
		return "null"
	}
	return string(raw)
}

func (f *DocumentField) Key() string {
	return "d" + strconv.Quote(f.String())
}

// Get returns the member or element selected by key. A string key selects an
// object member; an integer key selects an array element. ok is false when
// the path does not exist.
func (f *DocumentField) Get(key Field) (any, bool) {
	switch k := key.(type) {
	case *StringField:
		obj, isObj := f.Value.(map[string]any)
		if !isObj {
			return nil, false
		}
		v, ok := obj[k.Value]
		return v, ok
	case *IntField:
		arr, isArr := f.Value.([]any)
		if !isArr || k.Value < 0 || k.Value >= int64(len(arr)) {
			return nil, false
		}
		return arr[k.Value], true
	default:
		return nil, false
	}
}

// FromJSONValue converts a decoded JSON value into the closest scalar field,
// keeping objects and arrays as documents. JSON null becomes a document NULL.
func FromJSONValue(v any) Field {
	switch x := v.(type) {
	case nil:
		return NewNull(DocumentType)
	case string:
		return NewStringField(x)
	case bool:
		return NewBoolField(x)
	case float64:
		if x == float64(int64(x)) {
			return NewIntField(int64(x))
		}
		return NewDecimalField(decimalFromFloat(x))
	default:
		return &DocumentField{Value: x}
	}
}
