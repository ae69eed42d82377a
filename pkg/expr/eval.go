package expr

import (
	dberror "relcore/pkg/error"
	"relcore/pkg/primitives"
	"relcore/pkg/tuple"
	"relcore/pkg/types"
)

// Eval computes the value of a bound expression for row. Predicates yield a
// BOOLEAN field, with Unknown rendered as a boolean NULL.
func Eval(e Expr, env *Env, row *tuple.Tuple) (types.Field, error) {
	switch n := e.(type) {
	case *ColumnRef:
		if n.index < 0 {
			return nil, dberror.NewSchemaError("column %q is not bound", n.Name)
		}
		return row.At(n.index), nil

	case *Literal:
		return n.Value, nil

	case *Arithmetic:
		l, r, err := evalPair(n.Left, n.Right, env, row)
		if err != nil {
			return nil, err
		}
		return types.Arith(n.Op, l, r)

	case *Negate:
		v, err := Eval(n.Expr, env, row)
		if err != nil {
			return nil, err
		}
		return types.Negate(v)

	case *Concat:
		l, r, err := evalPair(n.Left, n.Right, env, row)
		if err != nil {
			return nil, err
		}
		if types.IsNull(l) || types.IsNull(r) {
			return types.NewNull(types.StringType), nil
		}
		return types.NewStringField(l.String() + r.String()), nil

	case *JSONAccess:
		return evalJSON(n, env, row)

	case *Comparison, *Between, *InList, *Like, *Regex, *IsNull, *Logical, *Not:
		t, err := evalTri(e, env, row)
		if err != nil {
			return nil, err
		}
		return t.Field(), nil
	}
	return nil, dberror.NewInvalidPlan("unsupported expression %T", e)
}

// Test evaluates a bound predicate. A nil predicate is always True. A
// non-boolean result is a TypeError.
func Test(e Expr, env *Env, row *tuple.Tuple) (types.Tri, error) {
	if e == nil {
		return types.True, nil
	}
	return evalTri(e, env, row)
}

func evalTri(e Expr, env *Env, row *tuple.Tuple) (types.Tri, error) {
	switch n := e.(type) {
	case *Comparison:
		l, r, err := evalPair(n.Left, n.Right, env, row)
		if err != nil {
			return types.Unknown, err
		}
		return types.Evaluate(n.Op, l, r)

	case *Between:
		x, err := Eval(n.Expr, env, row)
		if err != nil {
			return types.Unknown, err
		}
		lo, hi, err := evalPair(n.Low, n.High, env, row)
		if err != nil {
			return types.Unknown, err
		}
		ge, err := types.Evaluate(primitives.GreaterThanOrEqual, x, lo)
		if err != nil {
			return types.Unknown, err
		}
		le, err := types.Evaluate(primitives.LessThanOrEqual, x, hi)
		if err != nil {
			return types.Unknown, err
		}
		return negateIf(ge.And(le), n.Negate), nil

	case *InList:
		return evalIn(n, env, row)

	case *Like:
		x, p, err := evalPair(n.Expr, n.Pattern, env, row)
		if err != nil {
			return types.Unknown, err
		}
		if types.IsNull(x) || types.IsNull(p) {
			return types.Unknown, nil
		}
		matched := matchLike(x.String(), p.String(), n.CaseInsensitive || env.likeFolds())
		return negateIf(types.TriOf(matched), n.Negate), nil

	case *Regex:
		x, p, err := evalPair(n.Expr, n.Pattern, env, row)
		if err != nil {
			return types.Unknown, err
		}
		if types.IsNull(x) || types.IsNull(p) {
			return types.Unknown, nil
		}
		re, err := env.regex(p.String())
		if err != nil {
			return types.Unknown, err
		}
		return negateIf(types.TriOf(re.MatchString(x.String())), n.Negate), nil

	case *IsNull:
		v, err := Eval(n.Expr, env, row)
		if err != nil {
			return types.Unknown, err
		}
		return negateIf(types.TriOf(types.IsNull(v)), n.Negate), nil

	case *Logical:
		l, err := evalTri(n.Left, env, row)
		if err != nil {
			return types.Unknown, err
		}
		if n.Op == AndOp && l == types.False {
			return types.False, nil
		}
		if n.Op == OrOp && l == types.True {
			return types.True, nil
		}
		r, err := evalTri(n.Right, env, row)
		if err != nil {
			return types.Unknown, err
		}
		if n.Op == AndOp {
			return l.And(r), nil
		}
		return l.Or(r), nil

	case *Not:
		t, err := evalTri(n.Expr, env, row)
		if err != nil {
			return types.Unknown, err
		}
		return t.Not(), nil
	}

	v, err := Eval(e, env, row)
	if err != nil {
		return types.Unknown, err
	}
	return toTri(v)
}

// evalIn follows SQL: a match is True; otherwise a NULL on either side makes
// the answer Unknown rather than False.
func evalIn(n *InList, env *Env, row *tuple.Tuple) (types.Tri, error) {
	x, err := Eval(n.Expr, env, row)
	if err != nil {
		return types.Unknown, err
	}

	result := types.False
	for _, ve := range n.Values {
		v, err := Eval(ve, env, row)
		if err != nil {
			return types.Unknown, err
		}
		t, err := types.Evaluate(primitives.Equals, x, v)
		if err != nil {
			return types.Unknown, err
		}
		if t == types.True {
			result = types.True
			break
		}
		if t == types.Unknown {
			result = types.Unknown
		}
	}
	return negateIf(result, n.Negate), nil
}

func evalJSON(n *JSONAccess, env *Env, row *tuple.Tuple) (types.Field, error) {
	resultKind := types.DocumentType
	if n.AsText {
		resultKind = types.StringType
	}

	d, k, err := evalPair(n.Doc, n.Key, env, row)
	if err != nil {
		return nil, err
	}
	doc, ok := d.(*types.DocumentField)
	if !ok || types.IsNull(k) {
		return types.NewNull(resultKind), nil
	}

	v, found := doc.Get(k)
	if !found {
		return types.NewNull(resultKind), nil
	}
	if !n.AsText {
		return &types.DocumentField{Value: v}, nil
	}
	switch x := v.(type) {
	case nil:
		return types.NewNull(types.StringType), nil
	case string:
		return types.NewStringField(x), nil
	default:
		return types.NewStringField((&types.DocumentField{Value: x}).String()), nil
	}
}

func evalPair(a, b Expr, env *Env, row *tuple.Tuple) (types.Field, types.Field, error) {
	l, err := Eval(a, env, row)
	if err != nil {
		return nil, nil, err
	}
	r, err := Eval(b, env, row)
	if err != nil {
		return nil, nil, err
	}
	return l, r, nil
}

func toTri(v types.Field) (types.Tri, error) {
	if types.IsNull(v) {
		return types.Unknown, nil
	}
	b, ok := v.(*types.BoolField)
	if !ok {
		return types.Unknown, dberror.NewTypeError("predicate produced %s, expected BOOLEAN", v.Type())
	}
	return types.TriOf(b.Value), nil
}

func negateIf(t types.Tri, negate bool) types.Tri {
	if negate {
		return t.Not()
	}
	return t
}
