package window

import (
	"fmt"
	"strings"

	"relcore/pkg/execution"
	"relcore/pkg/types"
)

// Func is a window function.
type Func int

const (
	RowNumber Func = iota
	Rank
	DenseRank
	PercentRank
	CumeDist
	Ntile
	Lag
	Lead
	FirstValue
	LastValue
	NthValue
	Sum
	Avg
	Min
	Max
	Count
)

var funcNames = map[Func]string{
	RowNumber:   "ROW_NUMBER",
	Rank:        "RANK",
	DenseRank:   "DENSE_RANK",
	PercentRank: "PERCENT_RANK",
	CumeDist:    "CUME_DIST",
	Ntile:       "NTILE",
	Lag:         "LAG",
	Lead:        "LEAD",
	FirstValue:  "FIRST_VALUE",
	LastValue:   "LAST_VALUE",
	NthValue:    "NTH_VALUE",
	Sum:         "SUM",
	Avg:         "AVG",
	Min:         "MIN",
	Max:         "MAX",
	Count:       "COUNT",
}

func (f Func) String() string {
	if name, ok := funcNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Func(%d)", int(f))
}

// ParseFunc maps a function name to a Func.
func ParseFunc(s string) (Func, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for f, n := range funcNames {
		if n == name {
			return f, nil
		}
	}
	return RowNumber, fmt.Errorf("unknown window function %q", s)
}

// usesFrame reports whether the function reads its frame rather than the
// whole ordered partition.
func (f Func) usesFrame() bool {
	switch f {
	case FirstValue, LastValue, NthValue, Sum, Avg, Min, Max, Count:
		return true
	}
	return false
}

func (f Func) isAggregate() bool {
	switch f {
	case Sum, Avg, Min, Max, Count:
		return true
	}
	return false
}

// needsColumn reports whether the function reads an input column. COUNT
// without one counts rows.
func (f Func) needsColumn() bool {
	switch f {
	case Lag, Lead, FirstValue, LastValue, NthValue, Sum, Avg, Min, Max:
		return true
	}
	return false
}

// Spec describes one window function call:
//
//	Func(Column, Offset, Default) OVER (PARTITION BY ... ORDER BY ... Frame) AS Alias
type Spec struct {
	Func   Func
	Column string
	// Offset is the LAG/LEAD distance (0 means 1), the NTH_VALUE position
	// and the NTILE bucket count.
	Offset int
	// Default is returned by LAG/LEAD when the offset leaves the partition.
	// nil means NULL.
	Default     types.Field
	PartitionBy []string
	OrderBy     []execution.SortKey
	// Frame applies to FIRST_VALUE, LAST_VALUE, NTH_VALUE and the
	// aggregates. nil selects the default frame.
	Frame *Frame
	Alias string
}

// Name returns the output column name.
func (s Spec) Name() string {
	if s.Alias != "" {
		return s.Alias
	}
	return strings.ToLower(s.Func.String())
}

func (s Spec) String() string {
	var args []string
	if s.Column != "" {
		args = append(args, s.Column)
	} else if s.Func == Count {
		args = append(args, "*")
	}
	switch s.Func {
	case Lag, Lead:
		if s.Offset != 0 || s.Default != nil {
			args = append(args, fmt.Sprint(s.offset()))
		}
		if s.Default != nil {
			args = append(args, s.Default.String())
		}
	case NthValue, Ntile:
		args = append(args, fmt.Sprint(s.Offset))
	}

	var over []string
	if len(s.PartitionBy) > 0 {
		over = append(over, "PARTITION BY "+strings.Join(s.PartitionBy, ", "))
	}
	if len(s.OrderBy) > 0 {
		over = append(over, "ORDER BY "+execution.FormatKeys(s.OrderBy))
	}
	if s.Frame != nil {
		over = append(over, s.Frame.String())
	}
	return fmt.Sprintf("%s(%s) OVER (%s)", s.Func, strings.Join(args, ", "), strings.Join(over, " "))
}

func (s Spec) offset() int {
	if s.Offset == 0 {
		return 1
	}
	return s.Offset
}
