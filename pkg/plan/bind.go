package plan

import (
	dberror "relcore/pkg/error"
	"relcore/pkg/execution/aggregation"
	"relcore/pkg/execution/join"
	"relcore/pkg/execution/query"
	"relcore/pkg/execution/window"
	"relcore/pkg/expr"
	"relcore/pkg/iterator"
	"relcore/pkg/logging"
	"relcore/pkg/relation"
)

// labeled is implemented by every operator through execution.Label.
type labeled interface {
	SetNodeID(id string)
}

// Compiled is a query tree bound to operators. It can be run once per
// Compile; Explain works before and after the run.
type Compiled struct {
	root     Node
	iter     iterator.DbIterator
	executed bool
}

// Compile binds every node of the tree. Every SchemaError and static
// TypeError is reported here, before any row is read.
func Compile(node Node, catalog *relation.Catalog, env *expr.Env) (*Compiled, error) {
	if catalog == nil {
		return nil, dberror.NewInvalidPlan("catalog cannot be nil")
	}
	if env == nil {
		env = expr.NewEnv(false)
	}

	b := &binder{catalog: catalog, env: env}
	iter, err := b.bind(node)
	if err != nil {
		return nil, err
	}
	return &Compiled{root: node, iter: iter}, nil
}

// Bind binds the tree and returns its root operator, ready to Open.
func Bind(node Node, catalog *relation.Catalog, env *expr.Env) (iterator.DbIterator, error) {
	c, err := Compile(node, catalog, env)
	if err != nil {
		return nil, err
	}
	return c.iter, nil
}

// Execute binds the tree, runs it to completion and returns the result.
func Execute(node Node, catalog *relation.Catalog, env *expr.Env) (*relation.Relation, error) {
	c, err := Compile(node, catalog, env)
	if err != nil {
		return nil, err
	}
	return c.Run()
}

// Iterator returns the root operator.
func (c *Compiled) Iterator() iterator.DbIterator {
	return c.iter
}

// Root returns the descriptor tree the operators were bound from.
func (c *Compiled) Root() Node {
	return c.root
}

// Run drains the root operator into a relation.
func (c *Compiled) Run() (*relation.Relation, error) {
	rel, err := relation.Materialize(c.iter)
	c.executed = true
	if err != nil {
		return nil, err
	}
	return rel, nil
}

type binder struct {
	catalog *relation.Catalog
	env     *expr.Env
}

func (b *binder) bind(node Node) (iterator.DbIterator, error) {
	if node == nil {
		return nil, dberror.NewInvalidPlan("plan node cannot be nil")
	}
	id := node.ID().String()

	op, err := b.build(node, id)
	if err != nil {
		return nil, dberror.Wrap(err, dberror.CodeInvalidPlan, node.GetNodeType(), id)
	}
	if l, ok := op.(labeled); ok {
		l.SetNodeID(id)
	}

	logging.WithOperator(node.GetNodeType(), id).Debug("bound plan node",
		"node", node.String(),
		"schema", op.GetTupleDesc().String())
	return op, nil
}

func (b *binder) build(node Node, id string) (iterator.DbIterator, error) {
	switch n := node.(type) {
	case *ScanNode:
		provider, err := b.catalog.Lookup(n.Relation)
		if err != nil {
			return nil, err
		}
		scan, err := query.NewScan(n.Relation, provider)
		if err != nil {
			return nil, err
		}
		if n.Alias != "" {
			scan.As(n.Alias)
		}
		return scan, nil

	case *FilterNode:
		child, err := b.bind(n.Child)
		if err != nil {
			return nil, err
		}
		return query.NewFilter(n.Predicate, child, b.env)

	case *JoinNode:
		left, err := b.bind(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := b.bind(n.Right)
		if err != nil {
			return nil, err
		}
		return join.NewJoin(n.Kind, n.On, left, right, b.env)

	case *AggregateNode:
		child, err := b.bind(n.Child)
		if err != nil {
			return nil, err
		}
		return aggregation.NewAggregateOperator(child, n.GroupBy, n.Aggregates, n.Having, b.env)

	case *WindowNode:
		if len(n.Functions) == 0 {
			return nil, dberror.NewInvalidPlan("window node has no functions")
		}
		child, err := b.bind(n.Child)
		if err != nil {
			return nil, err
		}
		// one operator per function, each reading the previous one's output
		var op iterator.DbIterator = child
		for _, spec := range n.Functions {
			w, err := window.NewWindow(op, spec, b.env)
			if err != nil {
				return nil, err
			}
			w.SetNodeID(id)
			op = w
		}
		return op, nil

	case *SortNode:
		child, err := b.bind(n.Child)
		if err != nil {
			return nil, err
		}
		return query.NewSort(child, n.Keys)

	case *ProjectNode:
		child, err := b.bind(n.Child)
		if err != nil {
			return nil, err
		}
		return query.NewProject(n.Items, child, b.env)

	case *LimitNode:
		child, err := b.bind(n.Child)
		if err != nil {
			return nil, err
		}
		return query.NewLimitOperator(child, n.Limit, n.Offset)
	}
	return nil, dberror.NewInvalidPlan("unsupported plan node %T", node)
}
