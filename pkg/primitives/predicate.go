package primitives

// Predicate is a binary comparison operator.
type Predicate int

const (
	Equals Predicate = iota
	LessThan
	GreaterThan
	LessThanOrEqual
	GreaterThanOrEqual
	NotEqual
)

func (p Predicate) String() string {
	switch p {
	case Equals:
		return "="

	case LessThan:
		return "<"

	case GreaterThan:
		return ">"

	case LessThanOrEqual:
		return "<="

	case GreaterThanOrEqual:
		return ">="

	case NotEqual:
		return "<>"

	default:
		return "UNKNOWN"
	}
}

// ParsePredicate maps an operator symbol to its Predicate. Both "<>" and "!="
// are accepted for inequality.
func ParsePredicate(symbol string) (Predicate, bool) {
	switch symbol {
	case "=", "==":
		return Equals, true
	case "<":
		return LessThan, true
	case ">":
		return GreaterThan, true
	case "<=":
		return LessThanOrEqual, true
	case ">=":
		return GreaterThanOrEqual, true
	case "<>", "!=":
		return NotEqual, true
	default:
		return 0, false
	}
}

// Holds reports whether a three-way comparison result satisfies p.
func (p Predicate) Holds(cmp int) bool {
	switch p {
	case Equals:
		return cmp == 0
	case LessThan:
		return cmp < 0
	case GreaterThan:
		return cmp > 0
	case LessThanOrEqual:
		return cmp <= 0
	case GreaterThanOrEqual:
		return cmp >= 0
	case NotEqual:
		return cmp != 0
	default:
		return false
	}
}
