package expr

import (
	dberror "relcore/pkg/error"
	"relcore/pkg/tuple"
	"relcore/pkg/types"
)

// Bind resolves every column reference of e against desc and checks operand
// kinds. It returns a bound copy; e itself is left untouched and may be bound
// again against another schema. Unknown or ambiguous columns fail with a
// SchemaError, statically incompatible operands with a TypeError.
func Bind(e Expr, desc *tuple.TupleDescription) (Expr, error) {
	if e == nil {
		return nil, nil
	}

	switch n := e.(type) {
	case *ColumnRef:
		idx, err := desc.FindFieldIndex(n.Name)
		if err != nil {
			return nil, err
		}
		c := desc.Columns[idx]
		return &ColumnRef{
			Name:  n.Name,
			index: idx,
			col:   columnInfo{kind: c.Type, elem: c.Elem, nullable: c.Nullable, bound: true},
		}, nil

	case *Literal:
		if n.Value == nil {
			return &Literal{Value: types.NewNull(types.NullType)}, nil
		}
		return n, nil

	case *Comparison:
		l, r, err := bindPair(n.Left, n.Right, desc)
		if err != nil {
			return nil, err
		}
		if err := checkComparable(l, r); err != nil {
			return nil, err
		}
		return &Comparison{Op: n.Op, Left: l, Right: r}, nil

	case *Between:
		x, err := Bind(n.Expr, desc)
		if err != nil {
			return nil, err
		}
		lo, hi, err := bindPair(n.Low, n.High, desc)
		if err != nil {
			return nil, err
		}
		if err := checkComparable(x, lo); err != nil {
			return nil, err
		}
		if err := checkComparable(x, hi); err != nil {
			return nil, err
		}
		return &Between{Expr: x, Low: lo, High: hi, Negate: n.Negate}, nil

	case *InList:
		x, err := Bind(n.Expr, desc)
		if err != nil {
			return nil, err
		}
		values := make([]Expr, len(n.Values))
		for i, v := range n.Values {
			bv, err := Bind(v, desc)
			if err != nil {
				return nil, err
			}
			if err := checkComparable(x, bv); err != nil {
				return nil, err
			}
			values[i] = bv
		}
		return &InList{Expr: x, Values: values, Negate: n.Negate}, nil

	case *Like:
		x, p, err := bindPair(n.Expr, n.Pattern, desc)
		if err != nil {
			return nil, err
		}
		if err := checkText("LIKE", x, p); err != nil {
			return nil, err
		}
		return &Like{Expr: x, Pattern: p, Negate: n.Negate, CaseInsensitive: n.CaseInsensitive}, nil

	case *Regex:
		x, p, err := bindPair(n.Expr, n.Pattern, desc)
		if err != nil {
			return nil, err
		}
		if err := checkText("~", x, p); err != nil {
			return nil, err
		}
		if lit, ok := p.(*Literal); ok && !lit.Value.IsNull() {
			if _, err := compileRegex(lit.Value.String()); err != nil {
				return nil, err
			}
		}
		return &Regex{Expr: x, Pattern: p, Negate: n.Negate}, nil

	case *IsNull:
		x, err := Bind(n.Expr, desc)
		if err != nil {
			return nil, err
		}
		return &IsNull{Expr: x, Negate: n.Negate}, nil

	case *Logical:
		l, r, err := bindPair(n.Left, n.Right, desc)
		if err != nil {
			return nil, err
		}
		if err := checkBoolean(n.Op.String(), l, r); err != nil {
			return nil, err
		}
		return &Logical{Op: n.Op, Left: l, Right: r}, nil

	case *Not:
		x, err := Bind(n.Expr, desc)
		if err != nil {
			return nil, err
		}
		if err := checkBoolean("NOT", x); err != nil {
			return nil, err
		}
		return &Not{Expr: x}, nil

	case *Arithmetic:
		l, r, err := bindPair(n.Left, n.Right, desc)
		if err != nil {
			return nil, err
		}
		if _, err := types.ArithResultType(n.Op, TypeOf(l), TypeOf(r)); err != nil {
			return nil, err
		}
		return &Arithmetic{Op: n.Op, Left: l, Right: r}, nil

	case *Negate:
		x, err := Bind(n.Expr, desc)
		if err != nil {
			return nil, err
		}
		if k := TypeOf(x); k != types.NullType && !k.IsNumeric() {
			return nil, dberror.NewTypeError("unary minus is not defined for %s", k)
		}
		return &Negate{Expr: x}, nil

	case *Concat:
		l, r, err := bindPair(n.Left, n.Right, desc)
		if err != nil {
			return nil, err
		}
		return &Concat{Left: l, Right: r}, nil

	case *JSONAccess:
		d, k, err := bindPair(n.Doc, n.Key, desc)
		if err != nil {
			return nil, err
		}
		if dk := TypeOf(d); dk != types.DocumentType && dk != types.NullType {
			return nil, dberror.NewTypeError("operator -> requires a DOCUMENT operand, got %s", dk)
		}
		if kk := TypeOf(k); kk != types.StringType && kk != types.IntType && kk != types.NullType {
			return nil, dberror.NewTypeError("document key must be TEXT or INT, got %s", kk)
		}
		return &JSONAccess{Doc: d, Key: k, AsText: n.AsText}, nil
	}

	return nil, dberror.NewInvalidPlan("unsupported expression %T", e)
}

func bindPair(a, b Expr, desc *tuple.TupleDescription) (Expr, Expr, error) {
	if a == nil || b == nil {
		return nil, nil, dberror.NewInvalidPlan("expression is missing an operand")
	}
	ba, err := Bind(a, desc)
	if err != nil {
		return nil, nil, err
	}
	bb, err := Bind(b, desc)
	if err != nil {
		return nil, nil, err
	}
	return ba, bb, nil
}

func checkComparable(a, b Expr) error {
	ka, kb := TypeOf(a), TypeOf(b)
	if !types.Comparable(ka, kb) {
		return dberror.NewTypeError("cannot compare %s with %s in %s", ka, kb, a)
	}
	return nil
}

func checkText(op string, operands ...Expr) error {
	for _, e := range operands {
		if k := TypeOf(e); k != types.StringType && k != types.NullType {
			return dberror.NewTypeError("operator %s requires TEXT operands, got %s in %s", op, k, e)
		}
	}
	return nil
}

func checkBoolean(op string, operands ...Expr) error {
	for _, e := range operands {
		if k := TypeOf(e); k != types.BoolType && k != types.NullType {
			return dberror.NewTypeError("operator %s requires BOOLEAN operands, got %s in %s", op, k, e)
		}
	}
	return nil
}

// TypeOf returns the kind a bound expression produces. Unbound column
// references report NullType.
func TypeOf(e Expr) types.Type {
	switch n := e.(type) {
	case *ColumnRef:
		return n.col.kind
	case *Literal:
		if n.Value == nil {
			return types.NullType
		}
		return n.Value.Type()
	case *Comparison, *Between, *InList, *Like, *Regex, *IsNull, *Logical, *Not:
		return types.BoolType
	case *Arithmetic:
		k, err := types.ArithResultType(n.Op, TypeOf(n.Left), TypeOf(n.Right))
		if err != nil {
			return types.NullType
		}
		return k
	case *Negate:
		return TypeOf(n.Expr)
	case *Concat:
		return types.StringType
	case *JSONAccess:
		if n.AsText {
			return types.StringType
		}
		return types.DocumentType
	}
	return types.NullType
}

// OutputColumn describes the column a bound expression produces under the
// given name. A plain column reference keeps its source column's element
// kind and nullability; computed values are nullable.
func OutputColumn(e Expr, name string) tuple.Column {
	if c, ok := e.(*ColumnRef); ok && c.col.bound {
		return tuple.Column{Name: name, Type: c.col.kind, Elem: c.col.elem, Nullable: c.col.nullable}
	}
	col := tuple.Column{Name: name, Type: TypeOf(e), Nullable: true}
	if lit, ok := e.(*Literal); ok {
		if arr, isArr := lit.Value.(*types.ArrayField); isArr {
			col.Elem = arr.Elem
		}
	}
	return col
}
