package aggregation

import (
	"fmt"
	"strings"
)

// AggregateOp represents the aggregate function to compute.
type AggregateOp int

const (
	CountStar AggregateOp = iota
	Count
	Sum
	Avg
	Min
	Max
)

// String returns a string representation of the aggregation operation
func (op AggregateOp) String() string {
	switch op {
	case CountStar, Count:
		return "COUNT"
	case Sum:
		return "SUM"
	case Avg:
		return "AVG"
	case Min:
		return "MIN"
	case Max:
		return "MAX"
	default:
		return "UNKNOWN"
	}
}

// IsCount reports whether op is COUNT(*) or COUNT(col).
func (op AggregateOp) IsCount() bool {
	return op == CountStar || op == Count
}

// ParseAggregateOp converts a function name to an AggregateOp. "COUNT"
// means COUNT(col); use "COUNT(*)" or "COUNT_STAR" for row counting.
func ParseAggregateOp(s string) (AggregateOp, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "COUNT(*)", "COUNT_STAR":
		return CountStar, nil
	case "COUNT":
		return Count, nil
	case "SUM":
		return Sum, nil
	case "AVG":
		return Avg, nil
	case "MIN":
		return Min, nil
	case "MAX":
		return Max, nil
	}
	return CountStar, fmt.Errorf("unknown aggregate function %q", s)
}

// Spec describes one aggregate in a SELECT list.
type Spec struct {
	Func AggregateOp
	// Column is the input column; empty for COUNT(*).
	Column string
	// Distinct aggregates each distinct non-NULL value once.
	Distinct bool
	// Alias names the output column. Empty picks "count" for COUNT(*) and
	// "<func>_<column>" otherwise.
	Alias string
}

// Name returns the output column name.
func (s Spec) Name() string {
	if s.Alias != "" {
		return s.Alias
	}
	if s.Func == CountStar {
		return "count"
	}
	col := s.Column
	if i := strings.LastIndexByte(col, '.'); i >= 0 {
		col = col[i+1:]
	}
	return strings.ToLower(s.Func.String()) + "_" + col
}

func (s Spec) String() string {
	if s.Func == CountStar {
		return "COUNT(*)"
	}
	if s.Distinct {
		return fmt.Sprintf("%s(DISTINCT %s)", s.Func, s.Column)
	}
	return fmt.Sprintf("%s(%s)", s.Func, s.Column)
}
