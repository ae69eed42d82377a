// Package workbook loads YAML documents that declare base relations and the
// operator trees to run against them.
package workbook

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	dberror "relcore/pkg/error"
	"relcore/pkg/logging"
	"relcore/pkg/plan"
	"relcore/pkg/relation"
	"relcore/pkg/tuple"
	"relcore/pkg/types"
)

// Workbook is a decoded workbook: its relations registered in a catalog and
// its queries as plan trees.
type Workbook struct {
	Path    string
	Catalog *relation.Catalog
	Queries []*Query
}

// Query is one named operator tree.
type Query struct {
	Name        string
	Description string
	Plan        plan.Node
}

type document struct {
	Relations []relationDoc `yaml:"relations"`
	Queries   []queryDoc    `yaml:"queries"`
}

type relationDoc struct {
	Name    string      `yaml:"name"`
	Columns []columnDoc `yaml:"columns"`
	Rows    []yaml.Node `yaml:"rows"`
}

type columnDoc struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Nullable bool   `yaml:"nullable"`
	// Elem is the element type of an array column; "text[]" in Type is
	// accepted too.
	Elem string `yaml:"elem"`
}

type queryDoc struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Plan        yaml.Node `yaml:"plan"`
}

// Load reads and decodes the workbook at path.
func Load(path string) (*Workbook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook: %w", err)
	}
	wb, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	wb.Path = path
	return wb, nil
}

// Parse decodes a workbook document.
func Parse(data []byte) (*Workbook, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, dberror.NewInvalidData("failed to parse workbook YAML: %v", err)
	}

	wb := &Workbook{Catalog: relation.NewCatalog()}
	for _, rd := range doc.Relations {
		rel, err := decodeRelation(rd)
		if err != nil {
			return nil, err
		}
		if err := wb.Catalog.Register(rd.Name, rel); err != nil {
			return nil, err
		}
		logging.WithRelation(rd.Name).Debug("loaded relation", "rows", rel.Len())
	}

	seen := make(map[string]bool)
	for i, qd := range doc.Queries {
		if qd.Name == "" {
			return nil, dberror.NewInvalidPlan("query %d has no name", i+1)
		}
		if seen[qd.Name] {
			return nil, dberror.NewInvalidPlan("query %q is declared twice", qd.Name)
		}
		seen[qd.Name] = true

		root, err := decodeNode(&qd.Plan)
		if err != nil {
			return nil, fmt.Errorf("query %q: %w", qd.Name, err)
		}
		wb.Queries = append(wb.Queries, &Query{Name: qd.Name, Description: qd.Description, Plan: root})
	}
	return wb, nil
}

// Query returns the query called name.
func (wb *Workbook) Query(name string) (*Query, error) {
	for _, q := range wb.Queries {
		if q.Name == name {
			return q, nil
		}
	}
	return nil, fmt.Errorf("workbook has no query %q", name)
}

// Select returns the named queries in workbook order, or every query when
// names is empty.
func (wb *Workbook) Select(names ...string) ([]*Query, error) {
	if len(names) == 0 {
		return wb.Queries, nil
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		if _, err := wb.Query(n); err != nil {
			return nil, err
		}
		want[n] = true
	}
	var out []*Query
	for _, q := range wb.Queries {
		if want[q.Name] {
			out = append(out, q)
		}
	}
	return out, nil
}

func decodeRelation(rd relationDoc) (*relation.Relation, error) {
	if rd.Name == "" {
		return nil, dberror.NewInvalidData("relation without a name")
	}

	cols := make([]tuple.Column, len(rd.Columns))
	for i, cd := range rd.Columns {
		col, err := decodeColumn(cd)
		if err != nil {
			return nil, fmt.Errorf("relation %q: %w", rd.Name, err)
		}
		cols[i] = col
	}
	td, err := tuple.NewTupleDesc(cols)
	if err != nil {
		return nil, fmt.Errorf("relation %q: %w", rd.Name, err)
	}

	rows := make([][]types.Field, len(rd.Rows))
	for i := range rd.Rows {
		row, err := decodeRow(td, &rd.Rows[i])
		if err != nil {
			return nil, dberror.NewInvalidData("relation %q row %d: %v", rd.Name, i+1, err)
		}
		rows[i] = row
	}

	rel, err := relation.FromValues(td, rows)
	if err != nil {
		return nil, fmt.Errorf("relation %q: %w", rd.Name, err)
	}
	return rel, nil
}

func decodeColumn(cd columnDoc) (tuple.Column, error) {
	if cd.Name == "" {
		return tuple.Column{}, dberror.NewInvalidData("column without a name")
	}
	kind, elem, err := parseType(cd.Type, cd.Elem)
	if err != nil {
		return tuple.Column{}, fmt.Errorf("column %q: %w", cd.Name, err)
	}
	return tuple.Column{Name: cd.Name, Type: kind, Elem: elem, Nullable: cd.Nullable}, nil
}

// parseType reads "int", "text[]" or "array" with a separate element type.
func parseType(name, elem string) (types.Type, types.Type, error) {
	if base, ok := strings.CutSuffix(strings.TrimSpace(name), "[]"); ok {
		elem, name = base, "array"
	}
	kind, err := types.ParseType(name)
	if err != nil {
		return types.NullType, types.NullType, err
	}
	if kind != types.ArrayType {
		return kind, types.NullType, nil
	}
	if elem == "" {
		return kind, types.NullType, fmt.Errorf("array column needs an element type")
	}
	elemKind, err := types.ParseType(elem)
	if err != nil {
		return types.NullType, types.NullType, err
	}
	return kind, elemKind, nil
}

func decodeRow(td *tuple.TupleDescription, n *yaml.Node) ([]types.Field, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("row must be a sequence")
	}
	if len(n.Content) != td.NumFields() {
		return nil, fmt.Errorf("row has %d values, relation has %d columns", len(n.Content), td.NumFields())
	}

	fields := make([]types.Field, len(n.Content))
	for i, cell := range n.Content {
		col := td.Columns[i]
		f, err := decodeCell(col.Type, col.Elem, cell)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", col.Name, err)
		}
		fields[i] = f
	}
	return fields, nil
}

// decodeCell converts one YAML value to a field of kind. Decimal scalars
// are read from their source text so that "1.10" keeps its digits.
func decodeCell(kind, elem types.Type, n *yaml.Node) (types.Field, error) {
	if n.Kind == yaml.ScalarNode && n.Tag == "!!null" {
		return types.NewNull(kind), nil
	}
	if kind == types.DecimalType && n.Kind == yaml.ScalarNode {
		return types.FromValue(kind, elem, n.Value)
	}

	var v any
	if err := n.Decode(&v); err != nil {
		return nil, err
	}
	return types.FromValue(kind, elem, v)
}
