package join

import (
	"fmt"
	"strings"
)

// Kind is the join type.
type Kind int

const (
	Inner Kind = iota
	LeftOuter
	RightOuter
	FullOuter
	Cross
)

func (k Kind) String() string {
	switch k {
	case Inner:
		return "INNER"
	case LeftOuter:
		return "LEFT"
	case RightOuter:
		return "RIGHT"
	case FullOuter:
		return "FULL"
	case Cross:
		return "CROSS"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind accepts the SQL spellings, with or without OUTER.
func ParseKind(s string) (Kind, error) {
	switch strings.ToUpper(strings.Join(strings.Fields(s), " ")) {
	case "", "INNER", "JOIN", "INNER JOIN":
		return Inner, nil
	case "LEFT", "LEFT OUTER", "LEFT JOIN", "LEFT OUTER JOIN":
		return LeftOuter, nil
	case "RIGHT", "RIGHT OUTER", "RIGHT JOIN", "RIGHT OUTER JOIN":
		return RightOuter, nil
	case "FULL", "FULL OUTER", "FULL JOIN", "FULL OUTER JOIN":
		return FullOuter, nil
	case "CROSS", "CROSS JOIN":
		return Cross, nil
	}
	return Inner, fmt.Errorf("unknown join kind %q", s)
}

// keepsLeft reports whether unmatched left rows are emitted padded with
// NULLs.
func (k Kind) keepsLeft() bool {
	return k == LeftOuter || k == FullOuter
}

// keepsRight reports whether unmatched right rows are emitted padded with
// NULLs.
func (k Kind) keepsRight() bool {
	return k == RightOuter || k == FullOuter
}
