package tuple

import (
	"fmt"
	"strings"

	dberror "relcore/pkg/error"
	"relcore/pkg/types"
)

// Column describes one named, typed slot of a schema.
type Column struct {
	Name string
	Type types.Type
	// Elem is the element kind of an ARRAY column.
	Elem types.Type
	// Nullable reports whether the column admits NULL.
	Nullable bool
}

func (c Column) String() string {
	kind := c.Type.String()
	if c.Type == types.ArrayType {
		kind = c.Elem.String() + "[]"
	}
	if !c.Nullable {
		kind += " NOT NULL"
	}
	return fmt.Sprintf("%s %s", c.Name, kind)
}

// BaseName returns the column name without its qualifier.
func (c Column) BaseName() string {
	if i := strings.LastIndexByte(c.Name, '.'); i >= 0 {
		return c.Name[i+1:]
	}
	return c.Name
}

// TupleDescription describes the schema of a tuple: an ordered sequence of
// uniquely named columns.
type TupleDescription struct {
	Columns []Column
}

// NewTupleDesc creates a schema from the given columns. Column names must be
// non-empty and unique.
func NewTupleDesc(columns []Column) (*TupleDescription, error) {
	if len(columns) < 1 {
		return nil, dberror.NewSchemaError("schema must have at least one column")
	}

	seen := make(map[string]struct{}, len(columns))
	cols := make([]Column, len(columns))
	for i, c := range columns {
		if c.Name == "" {
			return nil, dberror.NewSchemaError("column %d has no name", i)
		}
		if _, dup := seen[c.Name]; dup {
			return nil, dberror.NewSchemaError("duplicate column name %q", c.Name)
		}
		seen[c.Name] = struct{}{}
		cols[i] = c
	}
	return &TupleDescription{Columns: cols}, nil
}

// NumFields returns the number of fields in this tuple descriptor.
func (td *TupleDescription) NumFields() int {
	return len(td.Columns)
}

// Column returns the ith column.
func (td *TupleDescription) Column(i int) (Column, error) {
	if i < 0 || i >= len(td.Columns) {
		return Column{}, fmt.Errorf("field index %d out of bounds [0, %d)", i, len(td.Columns))
	}
	return td.Columns[i], nil
}

// GetFieldName returns the name of the ith field.
func (td *TupleDescription) GetFieldName(i int) (string, error) {
	c, err := td.Column(i)
	return c.Name, err
}

// TypeAtIndex returns the type of the ith field.
func (td *TupleDescription) TypeAtIndex(i int) (types.Type, error) {
	c, err := td.Column(i)
	return c.Type, err
}

// Names returns the column names in order.
func (td *TupleDescription) Names() []string {
	names := make([]string, len(td.Columns))
	for i, c := range td.Columns {
		names[i] = c.Name
	}
	return names
}

// Equals checks if two TupleDescriptions have the same columns in the same order.
func (td *TupleDescription) Equals(other *TupleDescription) bool {
	if other == nil || len(td.Columns) != len(other.Columns) {
		return false
	}
	for i, c := range td.Columns {
		if c != other.Columns[i] {
			return false
		}
	}
	return true
}

// String returns a string representation of this TupleDescription.
// Format: "(name1 TYPE1, name2 TYPE2, ...)"
func (td *TupleDescription) String() string {
	parts := make([]string, len(td.Columns))
	for i, c := range td.Columns {
		parts[i] = c.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// FindFieldIndex locates a field by name. An exact match wins; otherwise an
// unqualified name matches a qualified column ("region" finds "o.region")
// when exactly one column has that base name.
func (td *TupleDescription) FindFieldIndex(fieldName string) (int, error) {
	for i, c := range td.Columns {
		if c.Name == fieldName {
			return i, nil
		}
	}

	if strings.ContainsRune(fieldName, '.') {
		return -1, dberror.NewSchemaError("column %q does not exist", fieldName)
	}

	found := -1
	for i, c := range td.Columns {
		if c.BaseName() != fieldName {
			continue
		}
		if found >= 0 {
			return -1, dberror.NewSchemaError("column reference %q is ambiguous", fieldName)
		}
		found = i
	}
	if found < 0 {
		return -1, dberror.NewSchemaError("column %q does not exist", fieldName)
	}
	return found, nil
}

// Qualify returns a copy of the schema whose column names carry the given
// alias as qualifier, replacing any existing qualifier.
func (td *TupleDescription) Qualify(alias string) *TupleDescription {
	cols := make([]Column, len(td.Columns))
	for i, c := range td.Columns {
		c.Name = alias + "." + c.BaseName()
		cols[i] = c
	}
	return &TupleDescription{Columns: cols}
}

// AsNullable returns a copy of the schema in which every column admits NULL,
// as needed for the padded side of an outer join.
func (td *TupleDescription) AsNullable() *TupleDescription {
	cols := make([]Column, len(td.Columns))
	for i, c := range td.Columns {
		c.Nullable = true
		cols[i] = c
	}
	return &TupleDescription{Columns: cols}
}

// Combine concatenates two schemas, failing with a SchemaError when a column
// name appears on both sides.
func Combine(td1, td2 *TupleDescription) (*TupleDescription, error) {
	cols := make([]Column, 0, len(td1.Columns)+len(td2.Columns))
	cols = append(cols, td1.Columns...)
	cols = append(cols, td2.Columns...)
	return NewTupleDesc(cols)
}
