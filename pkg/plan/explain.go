package plan

import (
	"fmt"
	"strings"

	"relcore/pkg/execution/join"
	"relcore/pkg/expr"
	"relcore/pkg/iterator"
	"relcore/pkg/relation"
)

type unary interface {
	GetChild() iterator.DbIterator
}

type binary interface {
	GetLeftChild() iterator.DbIterator
	GetRightChild() iterator.DbIterator
}

type identified interface {
	NodeID() string
}

// Explain binds the tree and renders the operators it was bound to.
func Explain(node Node, catalog *relation.Catalog, env *expr.Env) (string, error) {
	c, err := Compile(node, catalog, env)
	if err != nil {
		return "", err
	}
	return c.Explain(), nil
}

// Explain renders the bound operator tree, one operator per line with its
// node id and output schema. Joins show the chosen algorithm and, once the
// query has run, their probe statistics.
func (c *Compiled) Explain() string {
	var sb strings.Builder
	c.explainOp(&sb, c.iter, "", true, true)
	return sb.String()
}

func (c *Compiled) explainOp(sb *strings.Builder, op iterator.DbIterator, prefix string, isLast, isRoot bool) {
	switch {
	case isRoot:
	case isLast:
		sb.WriteString(prefix + "└── ")
	default:
		sb.WriteString(prefix + "├── ")
	}

	sb.WriteString(fmt.Sprint(op))
	if n, ok := op.(identified); ok && n.NodeID() != "" {
		sb.WriteString(fmt.Sprintf(" #%s", n.NodeID()))
	}
	sb.WriteString(" -> " + op.GetTupleDesc().String())
	if j, ok := op.(*join.Join); ok && c.executed {
		sb.WriteString(" [" + j.Statistics().String() + "]")
	}
	sb.WriteString("\n")

	var children []iterator.DbIterator
	switch n := op.(type) {
	case binary:
		children = []iterator.DbIterator{n.GetLeftChild(), n.GetRightChild()}
	case unary:
		children = []iterator.DbIterator{n.GetChild()}
	}

	childPrefix := prefix
	switch {
	case isRoot:
	case isLast:
		childPrefix += "    "
	default:
		childPrefix += "│   "
	}
	for i, child := range children {
		c.explainOp(sb, child, childPrefix, i == len(children)-1, false)
	}
}
