package query

import (
	"fmt"
	"strings"

	dberror "relcore/pkg/error"
	"relcore/pkg/execution"
	"relcore/pkg/expr"
	"relcore/pkg/iterator"
	"relcore/pkg/tuple"
	"relcore/pkg/types"
)

// ProjectItem is one entry of a SELECT list.
type ProjectItem struct {
	Expr expr.Expr
	// Alias names the output column. Empty keeps a column reference's name
	// or uses the expression text.
	Alias string
}

// Project computes the SELECT list: it selects, reorders and derives
// columns. Expressions are bound against the child's schema at
// construction.
//
// Conceptually: SELECT region, sales * 2 AS doubled FROM orders
type Project struct {
	*iterator.UnaryOperator
	execution.Label
	items     []ProjectItem
	tupleDesc *tuple.TupleDescription
	env       *expr.Env
	ordinal   int
}

// NewProject binds each item and builds the output schema.
func NewProject(items []ProjectItem, child iterator.DbIterator, env *expr.Env) (*Project, error) {
	if child == nil {
		return nil, dberror.NewInvalidPlan("project child cannot be nil")
	}
	if len(items) == 0 {
		return nil, dberror.NewInvalidPlan("must project at least one column")
	}

	childDesc := child.GetTupleDesc()
	bound := make([]ProjectItem, len(items))
	columns := make([]tuple.Column, len(items))
	for i, item := range items {
		if item.Expr == nil {
			return nil, dberror.NewInvalidPlan("project item %d has no expression", i)
		}
		e, err := expr.Bind(item.Expr, childDesc)
		if err != nil {
			return nil, err
		}
		name := item.Alias
		if name == "" {
			name = e.String()
		}
		bound[i] = ProjectItem{Expr: e, Alias: name}
		columns[i] = expr.OutputColumn(e, name)
	}

	tupleDesc, err := tuple.NewTupleDesc(columns)
	if err != nil {
		return nil, err
	}

	p := &Project{
		items:     bound,
		tupleDesc: tupleDesc,
		env:       env,
	}

	unaryOp, err := iterator.NewUnaryOperator(child, p.readNext)
	if err != nil {
		return nil, err
	}
	p.UnaryOperator = unaryOp
	return p, nil
}

// GetTupleDesc returns the projected schema.
func (p *Project) GetTupleDesc() *tuple.TupleDescription {
	return p.tupleDesc
}

func (p *Project) readNext() (*tuple.Tuple, error) {
	t, err := p.FetchNext()
	if err != nil || t == nil {
		return t, err
	}
	p.ordinal++

	fields := make([]types.Field, len(p.items))
	for i, item := range p.items {
		v, err := expr.Eval(item.Expr, p.env, t)
		if err != nil {
			return nil, p.RowError(err, "Project", p.ordinal, t)
		}
		fields[i] = v
	}

	out, err := tuple.NewTuple(p.tupleDesc, fields)
	if err != nil {
		return nil, p.RowError(err, "Project", p.ordinal, t)
	}
	return out, nil
}

func (p *Project) Open() error {
	p.ordinal = 0
	return p.UnaryOperator.Open()
}

func (p *Project) Rewind() error {
	p.ordinal = 0
	return p.UnaryOperator.Rewind()
}

func (p *Project) String() string {
	parts := make([]string, len(p.items))
	for i, item := range p.items {
		if item.Alias == item.Expr.String() {
			parts[i] = item.Alias
		} else {
			parts[i] = fmt.Sprintf("%s AS %s", item.Expr, item.Alias)
		}
	}
	return "Project " + strings.Join(parts, ", ")
}
