package workbook

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	dberror "relcore/pkg/error"
	"relcore/pkg/expr"
	"relcore/pkg/primitives"
	"relcore/pkg/types"
)

// exprDoc is the YAML form of an expression. Exactly one of col, lit or op
// is set:
//
//	{col: sales}
//	{lit: 250}  {lit: "2024-01-31", type: timestamp}
//	{op: ">", left: {col: sales}, right: {lit: 250}}
//	{op: and, args: [...]}  {op: not, arg: {...}}
//	{op: between, arg: {...}, low: {...}, high: {...}}
//	{op: in, arg: {...}, values: [...]}
type exprDoc struct {
	Col    string      `yaml:"col"`
	Lit    yaml.Node   `yaml:"lit"`
	Type   string      `yaml:"type"`
	Op     string      `yaml:"op"`
	Left   yaml.Node   `yaml:"left"`
	Right  yaml.Node   `yaml:"right"`
	Arg    yaml.Node   `yaml:"arg"`
	Args   []yaml.Node `yaml:"args"`
	Low    yaml.Node   `yaml:"low"`
	High   yaml.Node   `yaml:"high"`
	Values []yaml.Node `yaml:"values"`
}

func colRef(name string) expr.Expr {
	return expr.Col(strings.TrimSpace(name))
}

func decodeOptionalExpr(n *yaml.Node) (expr.Expr, error) {
	if n.Kind == 0 {
		return nil, nil
	}
	return decodeExpr(n)
}

func decodeExpr(n *yaml.Node) (expr.Expr, error) {
	if n.Kind == 0 {
		return nil, dberror.NewInvalidPlan("missing expression")
	}
	if n.Kind != yaml.MappingNode {
		return nil, dberror.NewInvalidPlan("line %d: an expression is a mapping with col, lit or op", n.Line)
	}

	var d exprDoc
	if err := n.Decode(&d); err != nil {
		return nil, err
	}

	switch {
	case d.Col != "":
		return colRef(d.Col), nil
	case d.Lit.Kind != 0:
		return decodeLiteral(&d.Lit, d.Type)
	case d.Op != "":
		e, err := decodeOp(&d)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return e, nil
	}
	return nil, dberror.NewInvalidPlan("line %d: expression needs col, lit or op", n.Line)
}

// decodeLiteral builds a literal, typed by kind when given and otherwise by
// the YAML value. Untyped floats become exact decimals.
func decodeLiteral(n *yaml.Node, kind string) (*expr.Literal, error) {
	if kind != "" {
		k, elem, err := parseType(kind, "")
		if err != nil {
			return nil, dberror.NewInvalidPlan("line %d: %v", n.Line, err)
		}
		f, err := decodeCell(k, elem, n)
		if err != nil {
			return nil, err
		}
		return expr.Lit(f), nil
	}

	if n.Kind == yaml.ScalarNode && n.Tag == "!!float" {
		d, err := types.ParseDecimalField(n.Value)
		if err != nil {
			return nil, dberror.NewInvalidData("line %d: %v", n.Line, err)
		}
		return expr.Lit(d), nil
	}

	var v any
	if err := n.Decode(&v); err != nil {
		return nil, err
	}
	f, err := types.InferValue(v)
	if err != nil {
		return nil, err
	}
	return expr.Lit(f), nil
}

func decodeOp(d *exprDoc) (expr.Expr, error) {
	op := strings.ToLower(strings.Join(strings.Fields(d.Op), " "))

	if pred, ok := primitives.ParsePredicate(op); ok {
		l, r, err := decodePair(d)
		if err != nil {
			return nil, err
		}
		return expr.Cmp(pred, l, r), nil
	}
	if arith, ok := types.ParseArithOp(op); ok {
		l, r, err := decodePair(d)
		if err != nil {
			return nil, err
		}
		return &expr.Arithmetic{Op: arith, Left: l, Right: r}, nil
	}

	switch op {
	case "and", "or":
		args, err := decodeArgs(d)
		if err != nil {
			return nil, err
		}
		if len(args) < 2 {
			return nil, fmt.Errorf("%s needs at least two operands", op)
		}
		if op == "and" {
			return expr.And(args...), nil
		}
		return expr.Or(args...), nil

	case "not", "neg", "is null", "is not null":
		arg, err := decodeExpr(&d.Arg)
		if err != nil {
			return nil, err
		}
		switch op {
		case "not":
			return &expr.Not{Expr: arg}, nil
		case "neg":
			return &expr.Negate{Expr: arg}, nil
		}
		return &expr.IsNull{Expr: arg, Negate: op == "is not null"}, nil

	case "like", "not like", "ilike", "not ilike":
		l, r, err := decodePair(d)
		if err != nil {
			return nil, err
		}
		return &expr.Like{
			Expr:            l,
			Pattern:         r,
			Negate:          strings.HasPrefix(op, "not "),
			CaseInsensitive: strings.HasSuffix(op, "ilike"),
		}, nil

	case "~", "!~":
		l, r, err := decodePair(d)
		if err != nil {
			return nil, err
		}
		return &expr.Regex{Expr: l, Pattern: r, Negate: op == "!~"}, nil

	case "||":
		l, r, err := decodePair(d)
		if err != nil {
			return nil, err
		}
		return &expr.Concat{Left: l, Right: r}, nil

	case "->", "->>":
		l, r, err := decodePair(d)
		if err != nil {
			return nil, err
		}
		return &expr.JSONAccess{Doc: l, Key: r, AsText: op == "->>"}, nil

	case "between", "not between":
		arg, err := decodeExpr(&d.Arg)
		if err != nil {
			return nil, err
		}
		low, err := decodeExpr(&d.Low)
		if err != nil {
			return nil, err
		}
		high, err := decodeExpr(&d.High)
		if err != nil {
			return nil, err
		}
		return &expr.Between{Expr: arg, Low: low, High: high, Negate: op == "not between"}, nil

	case "in", "not in":
		arg, err := decodeExpr(&d.Arg)
		if err != nil {
			return nil, err
		}
		values := make([]expr.Expr, len(d.Values))
		for i := range d.Values {
			v, err := decodeExpr(&d.Values[i])
			if err != nil {
				return nil, err
			}
			values[i] = v
		}
		return &expr.InList{Expr: arg, Values: values, Negate: op == "not in"}, nil
	}
	return nil, dberror.NewInvalidPlan("unknown operator %q", d.Op)
}

func decodePair(d *exprDoc) (expr.Expr, expr.Expr, error) {
	l, err := decodeExpr(&d.Left)
	if err != nil {
		return nil, nil, err
	}
	r, err := decodeExpr(&d.Right)
	if err != nil {
		return nil, nil, err
	}
	return l, r, nil
}

// decodeArgs reads args, falling back to left and right.
func decodeArgs(d *exprDoc) ([]expr.Expr, error) {
	nodes := d.Args
	if len(nodes) == 0 && d.Left.Kind != 0 {
		nodes = []yaml.Node{d.Left, d.Right}
	}
	out := make([]expr.Expr, len(nodes))
	for i := range nodes {
		e, err := decodeExpr(&nodes[i])
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}
