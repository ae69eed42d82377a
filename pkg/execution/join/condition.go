package join

import (
	dberror "relcore/pkg/error"
	"relcore/pkg/expr"
	"relcore/pkg/primitives"
	"relcore/pkg/tuple"
	"relcore/pkg/types"
)

// KeyPair is one equality conjunct usable as a hash key: Left is bound
// against the left schema and Right against the right schema.
type KeyPair struct {
	Left, Right expr.Expr
}

// Condition is an ON predicate split for execution.
type Condition struct {
	// Keys are the equality conjuncts comparing a left-only expression with
	// a right-only expression.
	Keys []KeyPair
	// Residual holds the remaining conjuncts, bound against the joined
	// schema. It is nil when Keys cover the whole predicate.
	Residual expr.Expr
	// Full is the whole predicate bound against the joined schema; nil for
	// a cross join.
	Full expr.Expr
}

// AnalyzeCondition binds on against the joined schema and extracts hash
// keys. Unknown columns fail with a SchemaError and a non-boolean predicate
// with a TypeError.
func AnalyzeCondition(on expr.Expr, left, right, joined *tuple.TupleDescription) (*Condition, error) {
	if on == nil {
		return &Condition{}, nil
	}

	full, err := expr.Bind(on, joined)
	if err != nil {
		return nil, err
	}
	if kind := expr.TypeOf(full); kind != types.BoolType && kind != types.NullType {
		return nil, dberror.NewTypeError("join condition %s is %s, not BOOLEAN", full, kind)
	}

	cond := &Condition{Full: full}
	var residual []expr.Expr
	for _, c := range expr.Conjuncts(on) {
		if pair, ok := keyPair(c, left, right); ok {
			cond.Keys = append(cond.Keys, pair)
			continue
		}
		residual = append(residual, c)
	}

	if len(cond.Keys) == 0 {
		cond.Residual = full
		return cond, nil
	}
	if rest := expr.And(residual...); rest != nil {
		if cond.Residual, err = expr.Bind(rest, joined); err != nil {
			return nil, err
		}
	}
	return cond, nil
}

// keyPair recognizes a = b where one side only reads left columns and the
// other only right columns, in either orientation.
func keyPair(e expr.Expr, left, right *tuple.TupleDescription) (KeyPair, bool) {
	cmp, ok := e.(*expr.Comparison)
	if !ok || cmp.Op != primitives.Equals {
		return KeyPair{}, false
	}
	if len(expr.References(cmp.Left)) == 0 || len(expr.References(cmp.Right)) == 0 {
		return KeyPair{}, false
	}

	if pair, ok := bindSides(cmp.Left, cmp.Right, left, right); ok {
		return pair, true
	}
	return bindSides(cmp.Right, cmp.Left, left, right)
}

func bindSides(l, r expr.Expr, left, right *tuple.TupleDescription) (KeyPair, bool) {
	lb, err := expr.Bind(l, left)
	if err != nil {
		return KeyPair{}, false
	}
	rb, err := expr.Bind(r, right)
	if err != nil {
		return KeyPair{}, false
	}
	return KeyPair{Left: lb, Right: rb}, true
}

// keyOf evaluates key expressions against row. The second result is false
// when any key value is NULL, since NULL never equals anything.
func keyOf(keys []expr.Expr, env *expr.Env, row *tuple.Tuple) (string, bool, error) {
	values := make([]types.Field, len(keys))
	for i, k := range keys {
		v, err := expr.Eval(k, env, row)
		if err != nil {
			return "", false, err
		}
		values[i] = v
	}
	if types.HasNull(values...) {
		return "", false, nil
	}
	return types.GroupKey(values...), true, nil
}
