package join

import "relcore/pkg/tuple"

// NestedLoopJoin pairs every left row with every right row; the join
// operator's residual predicate does all the filtering.
//
// Time complexity: O(|L| * |R|).
type NestedLoopJoin struct {
	all []int
}

func NewNestedLoopJoin() *NestedLoopJoin {
	return &NestedLoopJoin{}
}

func (nl *NestedLoopJoin) Build(right []*tuple.Tuple) error {
	nl.all = make([]int, len(right))
	for i := range nl.all {
		nl.all[i] = i
	}
	return nil
}

func (nl *NestedLoopJoin) Probe(_ *tuple.Tuple) ([]int, error) {
	return nl.all, nil
}

func (nl *NestedLoopJoin) Close() {
	nl.all = nil
}

func (nl *NestedLoopJoin) Algorithm() Algorithm { return NestedLoop }
