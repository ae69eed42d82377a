package window

import (
	"slices"

	"relcore/pkg/execution"
	"relcore/pkg/tuple"
	"relcore/pkg/types"
)

// partition is the rows of one partition in window order, with the extent
// of each row's ORDER BY peer group.
type partition struct {
	rows []*tuple.Tuple
	// peerStart[i] and peerEnd[i] delimit the half-open peer group of row i.
	peerStart, peerEnd []int
}

// partitionRows splits rows by the values at columns. Partitions keep the
// order of their first row, and rows keep input order within a partition.
// NULL keys form one partition.
func partitionRows(rows []*tuple.Tuple, columns []int) [][]*tuple.Tuple {
	if len(columns) == 0 {
		return [][]*tuple.Tuple{rows}
	}

	index := make(map[string]int)
	var parts [][]*tuple.Tuple
	for _, r := range rows {
		key := types.GroupKey(r.Values(columns)...)
		i, ok := index[key]
		if !ok {
			i = len(parts)
			index[key] = i
			parts = append(parts, nil)
		}
		parts[i] = append(parts[i], r)
	}
	return parts
}

// order sorts rows stably by cmp and computes peer groups. A nil cmp makes
// the whole partition one peer group.
func order(rows []*tuple.Tuple, cmp *execution.RowComparator) *partition {
	if cmp != nil {
		slices.SortStableFunc(rows, cmp.Compare)
	}

	n := len(rows)
	p := &partition{
		rows:      rows,
		peerStart: make([]int, n),
		peerEnd:   make([]int, n),
	}
	for start := 0; start < n; {
		end := start + 1
		for cmp != nil && end < n && cmp.Compare(rows[start], rows[end]) == 0 {
			end++
		}
		if cmp == nil {
			end = n
		}
		for i := start; i < end; i++ {
			p.peerStart[i], p.peerEnd[i] = start, end
		}
		start = end
	}
	return p
}

func (p *partition) len() int {
	return len(p.rows)
}
