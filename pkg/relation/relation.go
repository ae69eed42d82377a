// Package relation holds materialized relations and the catalog of base
// relations a query can scan.
package relation

import (
	"fmt"
	"strings"

	dberror "relcore/pkg/error"
	"relcore/pkg/iterator"
	"relcore/pkg/tuple"
	"relcore/pkg/types"
)

// Provider is a source of base rows. Rows returns a fresh lazy sequence on
// every call.
type Provider interface {
	Schema() *tuple.TupleDescription
	Rows() iterator.DbIterator
}

// Relation is a schema plus an ordered, finite sequence of rows.
type Relation struct {
	desc *tuple.TupleDescription
	rows []*tuple.Tuple
}

// New creates a relation from rows already built against desc.
func New(desc *tuple.TupleDescription, rows []*tuple.Tuple) (*Relation, error) {
	for i, r := range rows {
		if r.NumFields() != desc.NumFields() {
			return nil, dberror.NewSchemaError("row %d has %d fields, schema %s has %d",
				i, r.NumFields(), desc, desc.NumFields())
		}
	}
	return &Relation{desc: desc, rows: rows}, nil
}

// FromValues builds and validates one tuple per value slice.
func FromValues(desc *tuple.TupleDescription, values [][]types.Field) (*Relation, error) {
	rows := make([]*tuple.Tuple, len(values))
	for i, v := range values {
		row, err := tuple.NewTuple(desc, v)
		if err != nil {
			return nil, dberror.NewInvalidData("row %d: %v", i, err)
		}
		rows[i] = row
	}
	return &Relation{desc: desc, rows: rows}, nil
}

// Materialize drains iter into a relation.
func Materialize(iter iterator.DbIterator) (*Relation, error) {
	rows, err := iterator.Drain(iter)
	if err != nil {
		return nil, err
	}
	return &Relation{desc: iter.GetTupleDesc(), rows: rows}, nil
}

func (r *Relation) Schema() *tuple.TupleDescription {
	return r.desc
}

// Rows returns a new iterator over the relation's rows.
func (r *Relation) Rows() iterator.DbIterator {
	return iterator.NewTupleSliceIterator(r.desc, r.rows)
}

// Tuples returns the rows. The slice must not be modified.
func (r *Relation) Tuples() []*tuple.Tuple {
	return r.rows
}

func (r *Relation) Len() int {
	return len(r.rows)
}

// String renders the schema and one row per line.
func (r *Relation) String() string {
	var b strings.Builder
	b.WriteString(r.desc.String())
	for _, row := range r.rows {
		b.WriteByte('\n')
		b.WriteString(row.String())
	}
	return b.String()
}

// Catalog maps relation names to providers, remembering registration order.
type Catalog struct {
	providers map[string]Provider
	order     []string
}

func NewCatalog() *Catalog {
	return &Catalog{providers: make(map[string]Provider)}
}

// Register adds a provider under name.
func (c *Catalog) Register(name string, p Provider) error {
	if name == "" {
		return fmt.Errorf("relation name cannot be empty")
	}
	if _, exists := c.providers[name]; exists {
		return dberror.NewSchemaError("relation %q already exists", name)
	}
	c.providers[name] = p
	c.order = append(c.order, name)
	return nil
}

// Lookup returns the provider for name or a SchemaError.
func (c *Catalog) Lookup(name string) (Provider, error) {
	p, ok := c.providers[name]
	if !ok {
		return nil, dberror.NewSchemaError("relation %q does not exist", name)
	}
	return p, nil
}

// Names returns relation names in registration order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}
