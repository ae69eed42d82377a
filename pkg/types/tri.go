package types

// Tri is the result of a SQL predicate under three-valued logic.
type Tri uint8

const (
	False Tri = iota
	True
	Unknown
)

// TriOf converts a definite Go boolean.
func TriOf(b bool) Tri {
	if b {
		return True
	}
	return False
}

// And follows the Kleene table: false dominates, then unknown.
func (t Tri) And(o Tri) Tri {
	if t == False || o == False {
		return False
	}
	if t == Unknown || o == Unknown {
		return Unknown
	}
	return True
}

// Or follows the Kleene table: true dominates, then unknown.
func (t Tri) Or(o Tri) Tri {
	if t == True || o == True {
		return True
	}
	if t == Unknown || o == Unknown {
		return Unknown
	}
	return False
}

func (t Tri) Not() Tri {
	switch t {
	case True:
		return False
	case False:
		return True
	default:
		return Unknown
	}
}

func (t Tri) String() string {
	switch t {
	case True:
		return "TRUE"
	case False:
		return "FALSE"
	default:
		return "UNKNOWN"
	}
}

// Field converts t into a BOOLEAN field; Unknown becomes a boolean NULL.
func (t Tri) Field() Field {
	switch t {
	case True:
		return NewBoolField(true)
	case False:
		return NewBoolField(false)
	default:
		return NewNull(BoolType)
	}
}
