package window

import (
	"strconv"

	"github.com/shopspring/decimal"

	"relcore/pkg/execution/aggregation"
	"relcore/pkg/types"
)

// rankValues computes ROW_NUMBER, RANK, DENSE_RANK, PERCENT_RANK and
// CUME_DIST. Peers share RANK, and the next distinct value skips past the
// whole tie group.
func rankValues(f Func, p *partition) []types.Field {
	n := p.len()
	out := make([]types.Field, n)
	dense := int64(0)
	for i := 0; i < n; i++ {
		if p.peerStart[i] == i {
			dense++
		}
		rank := int64(p.peerStart[i] + 1)

		switch f {
		case RowNumber:
			out[i] = types.NewIntField(int64(i + 1))
		case Rank:
			out[i] = types.NewIntField(rank)
		case DenseRank:
			out[i] = types.NewIntField(dense)
		case PercentRank:
			if n <= 1 {
				out[i] = types.NewDecimalField(decimal.Zero)
			} else {
				out[i] = types.NewDecimalField(decimal.NewFromInt(rank - 1).Div(decimal.NewFromInt(int64(n - 1))))
			}
		case CumeDist:
			out[i] = types.NewDecimalField(decimal.NewFromInt(int64(p.peerEnd[i])).Div(decimal.NewFromInt(int64(n))))
		}
	}
	return out
}

// ntileValues spreads n rows over buckets as evenly as possible, larger
// buckets first.
func ntileValues(buckets int, p *partition) []types.Field {
	n := p.len()
	out := make([]types.Field, n)
	size, extra := n/buckets, n%buckets
	bucket, inBucket := 1, 0
	for i := 0; i < n; i++ {
		limit := size
		if bucket <= extra {
			limit++
		}
		if inBucket == limit {
			bucket++
			inBucket = 0
		}
		out[i] = types.NewIntField(int64(bucket))
		inBucket++
	}
	return out
}

// offsetValues computes LAG (delta < 0) and LEAD (delta > 0).
func offsetValues(col, delta int, fallback types.Field, p *partition) []types.Field {
	n := p.len()
	out := make([]types.Field, n)
	for i := 0; i < n; i++ {
		j := i + delta
		if j < 0 || j >= n {
			out[i] = fallback
			continue
		}
		out[i] = p.rows[j].At(col)
	}
	return out
}

// frameValues computes FIRST_VALUE, LAST_VALUE and NTH_VALUE against each
// row's frame. Empty frames and positions past the frame yield NULL.
func frameValues(spec Spec, frame *Frame, col int, null types.Field, p *partition) []types.Field {
	n := p.len()
	out := make([]types.Field, n)
	for i := 0; i < n; i++ {
		start, end := frame.span(i, n, p.peerStart[i], p.peerEnd[i])
		pick := -1
		switch spec.Func {
		case FirstValue:
			pick = start
		case LastValue:
			pick = end - 1
		case NthValue:
			pick = start + spec.Offset - 1
		}
		if start >= end || pick < start || pick >= end {
			out[i] = null
			continue
		}
		out[i] = p.rows[pick].At(col)
	}
	return out
}

// aggregateValues computes a frame aggregate per row with the same
// calculators GROUP BY uses, one calculator group per output row. On error
// it also returns the partition index of the row that triggered it.
func aggregateValues(calc aggregation.AggregateCalculator, frame *Frame, col int, p *partition) ([]types.Field, int, error) {
	n := p.len()
	out := make([]types.Field, n)
	for i := 0; i < n; i++ {
		key := strconv.Itoa(i)
		calc.InitializeGroup(key)

		start, end := frame.span(i, n, p.peerStart[i], p.peerEnd[i])
		for j := start; j < end; j++ {
			var v types.Field
			if col >= 0 {
				v = p.rows[j].At(col)
			}
			if err := calc.UpdateAggregate(key, v); err != nil {
				return nil, j, err
			}
		}

		v, err := calc.GetFinalValue(key)
		if err != nil {
			return nil, i, err
		}
		out[i] = v
	}
	return out, -1, nil
}
