package aggregation

import (
	"relcore/pkg/tuple"
	"relcore/pkg/types"
)

// group is one GROUP BY bucket: its canonical key and the key values of
// the first row seen for it.
type group struct {
	key    string
	values []types.Field
}

// groupTable keeps groups in first-seen order. Keys come from
// types.GroupKey, so NULLs form a single group and 1 and 1.0 share one.
type groupTable struct {
	columns []int
	index   map[string]int
	groups  []*group
}

func newGroupTable(columns []int) *groupTable {
	return &groupTable{
		columns: columns,
		index:   make(map[string]int),
	}
}

// lookup returns the group of row, creating it if needed. created reports
// whether this is the group's first row.
func (gt *groupTable) lookup(row *tuple.Tuple) (g *group, created bool) {
	values := row.Values(gt.columns)
	key := types.GroupKey(values...)
	if i, ok := gt.index[key]; ok {
		return gt.groups[i], false
	}

	g = &group{key: key, values: values}
	gt.index[key] = len(gt.groups)
	gt.groups = append(gt.groups, g)
	return g, true
}

// ensure adds the empty-key group used when there is no GROUP BY.
func (gt *groupTable) ensure() (*group, bool) {
	if len(gt.groups) > 0 {
		return gt.groups[0], false
	}
	g := &group{key: types.GroupKey()}
	gt.index[g.key] = 0
	gt.groups = append(gt.groups, g)
	return g, true
}

func (gt *groupTable) len() int {
	return len(gt.groups)
}
