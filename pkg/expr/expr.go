// Package expr implements scalar and predicate expressions over tuples.
//
// An expression tree is built from the node types in this package, bound
// against a schema with Bind (which resolves column names to positions and
// checks operand kinds), and then evaluated per row with Eval or Test.
// Predicates follow SQL three-valued logic: any comparison with a NULL
// operand is Unknown, and only IS [NOT] NULL turns NULL into a definite
// answer.
package expr

import (
	"fmt"
	"strings"

	"relcore/pkg/primitives"
	"relcore/pkg/types"
)

// Expr is a node of an expression tree.
type Expr interface {
	fmt.Stringer
	exprNode()
}

// ColumnRef reads a column of the current row.
type ColumnRef struct {
	Name string

	index int
	col   columnInfo
}

type columnInfo struct {
	kind     types.Type
	elem     types.Type
	nullable bool
	bound    bool
}

// Literal is a constant value.
type Literal struct {
	Value types.Field
}

// Comparison is one of = <> < <= > >=.
type Comparison struct {
	Op          primitives.Predicate
	Left, Right Expr
}

// Between is expr [NOT] BETWEEN low AND high, inclusive on both ends.
type Between struct {
	Expr, Low, High Expr
	Negate          bool
}

// InList is expr [NOT] IN (values...).
type InList struct {
	Expr   Expr
	Values []Expr
	Negate bool
}

// Like is expr [NOT] LIKE pattern. CaseInsensitive selects ILIKE.
type Like struct {
	Expr, Pattern   Expr
	Negate          bool
	CaseInsensitive bool
}

// Regex is expr ~ pattern (or !~ when Negate is set), using POSIX extended
// regular expressions.
type Regex struct {
	Expr, Pattern Expr
	Negate        bool
}

// IsNull is expr IS [NOT] NULL.
type IsNull struct {
	Expr   Expr
	Negate bool
}

// LogicOp is a binary boolean connective.
type LogicOp int

const (
	AndOp LogicOp = iota
	OrOp
)

func (op LogicOp) String() string {
	if op == OrOp {
		return "OR"
	}
	return "AND"
}

// Logical is left AND right or left OR right.
type Logical struct {
	Op          LogicOp
	Left, Right Expr
}

// Not negates a predicate.
type Not struct {
	Expr Expr
}

// Arithmetic is left (+ - * / %) right.
type Arithmetic struct {
	Op          types.ArithOp
	Left, Right Expr
}

// Negate is unary minus.
type Negate struct {
	Expr Expr
}

// Concat is left || right, rendering both sides as text.
type Concat struct {
	Left, Right Expr
}

// JSONAccess is doc -> key, or doc ->> key when AsText is set. A string key
// selects an object member, an integer key an array element.
type JSONAccess struct {
	Doc, Key Expr
	AsText   bool
}

func (*ColumnRef) exprNode()  {}
func (*Literal) exprNode()    {}
func (*Comparison) exprNode() {}
func (*Between) exprNode()    {}
func (*InList) exprNode()     {}
func (*Like) exprNode()       {}
func (*Regex) exprNode()      {}
func (*IsNull) exprNode()     {}
func (*Logical) exprNode()    {}
func (*Not) exprNode()        {}
func (*Arithmetic) exprNode() {}
func (*Negate) exprNode()     {}
func (*Concat) exprNode()     {}
func (*JSONAccess) exprNode() {}

// Col references a column by name.
func Col(name string) *ColumnRef {
	return &ColumnRef{Name: name, index: -1}
}

// Lit wraps a constant field.
func Lit(v types.Field) *Literal {
	return &Literal{Value: v}
}

// Cmp builds a comparison.
func Cmp(op primitives.Predicate, left, right Expr) *Comparison {
	return &Comparison{Op: op, Left: left, Right: right}
}

// Eq builds left = right.
func Eq(left, right Expr) *Comparison {
	return Cmp(primitives.Equals, left, right)
}

// And folds its operands with AND. It returns nil for no operands.
func And(exprs ...Expr) Expr {
	return fold(AndOp, exprs)
}

// Or folds its operands with OR. It returns nil for no operands.
func Or(exprs ...Expr) Expr {
	return fold(OrOp, exprs)
}

func fold(op LogicOp, exprs []Expr) Expr {
	if len(exprs) == 0 {
		return nil
	}
	out := exprs[0]
	for _, e := range exprs[1:] {
		out = &Logical{Op: op, Left: out, Right: e}
	}
	return out
}

// Index returns the resolved column position, or -1 before binding.
func (c *ColumnRef) Index() int {
	return c.index
}

func (c *ColumnRef) String() string { return c.Name }

func (l *Literal) String() string {
	switch v := l.Value.(type) {
	case *types.StringField:
		return "'" + strings.ReplaceAll(v.Value, "'", "''") + "'"
	case *types.TimestampField, *types.DocumentField:
		return "'" + v.String() + "'"
	default:
		return l.Value.String()
	}
}

func (c *Comparison) String() string {
	return fmt.Sprintf("(%s %s %s)", c.Left, c.Op, c.Right)
}

func (b *Between) String() string {
	not := ""
	if b.Negate {
		not = "NOT "
	}
	return fmt.Sprintf("(%s %sBETWEEN %s AND %s)", b.Expr, not, b.Low, b.High)
}

func (in *InList) String() string {
	parts := make([]string, len(in.Values))
	for i, v := range in.Values {
		parts[i] = v.String()
	}
	not := ""
	if in.Negate {
		not = "NOT "
	}
	return fmt.Sprintf("(%s %sIN (%s))", in.Expr, not, strings.Join(parts, ", "))
}

func (l *Like) String() string {
	op := "LIKE"
	if l.CaseInsensitive {
		op = "ILIKE"
	}
	if l.Negate {
		op = "NOT " + op
	}
	return fmt.Sprintf("(%s %s %s)", l.Expr, op, l.Pattern)
}

func (r *Regex) String() string {
	op := "~"
	if r.Negate {
		op = "!~"
	}
	return fmt.Sprintf("(%s %s %s)", r.Expr, op, r.Pattern)
}

func (n *IsNull) String() string {
	if n.Negate {
		return fmt.Sprintf("(%s IS NOT NULL)", n.Expr)
	}
	return fmt.Sprintf("(%s IS NULL)", n.Expr)
}

func (l *Logical) String() string {
	return fmt.Sprintf("(%s %s %s)", l.Left, l.Op, l.Right)
}

func (n *Not) String() string { return fmt.Sprintf("(NOT %s)", n.Expr) }

func (a *Arithmetic) String() string {
	return fmt.Sprintf("(%s %s %s)", a.Left, a.Op, a.Right)
}

func (n *Negate) String() string { return fmt.Sprintf("(-%s)", n.Expr) }

func (c *Concat) String() string { return fmt.Sprintf("(%s || %s)", c.Left, c.Right) }

func (j *JSONAccess) String() string {
	op := "->"
	if j.AsText {
		op = "->>"
	}
	return fmt.Sprintf("(%s %s %s)", j.Doc, op, j.Key)
}
