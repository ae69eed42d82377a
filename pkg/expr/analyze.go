package expr

// Conjuncts splits a predicate on its top-level ANDs.
func Conjuncts(e Expr) []Expr {
	if e == nil {
		return nil
	}
	if l, ok := e.(*Logical); ok && l.Op == AndOp {
		return append(Conjuncts(l.Left), Conjuncts(l.Right)...)
	}
	return []Expr{e}
}

// Walk calls fn for e and every sub-expression, parents first.
func Walk(e Expr, fn func(Expr)) {
	if e == nil {
		return
	}
	fn(e)
	for _, c := range children(e) {
		Walk(c, fn)
	}
}

func children(e Expr) []Expr {
	switch n := e.(type) {
	case *Comparison:
		return []Expr{n.Left, n.Right}
	case *Between:
		return []Expr{n.Expr, n.Low, n.High}
	case *InList:
		return append([]Expr{n.Expr}, n.Values...)
	case *Like:
		return []Expr{n.Expr, n.Pattern}
	case *Regex:
		return []Expr{n.Expr, n.Pattern}
	case *IsNull:
		return []Expr{n.Expr}
	case *Logical:
		return []Expr{n.Left, n.Right}
	case *Not:
		return []Expr{n.Expr}
	case *Arithmetic:
		return []Expr{n.Left, n.Right}
	case *Negate:
		return []Expr{n.Expr}
	case *Concat:
		return []Expr{n.Left, n.Right}
	case *JSONAccess:
		return []Expr{n.Doc, n.Key}
	}
	return nil
}

// References returns the column names e mentions, in order of appearance.
func References(e Expr) []string {
	var names []string
	Walk(e, func(n Expr) {
		if c, ok := n.(*ColumnRef); ok {
			names = append(names, c.Name)
		}
	})
	return names
}
