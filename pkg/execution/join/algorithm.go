package join

import (
	"fmt"

	"relcore/pkg/tuple"
)

// Algorithm names a join strategy.
type Algorithm int

const (
	NestedLoop Algorithm = iota
	Hash
)

func (a Algorithm) String() string {
	switch a {
	case NestedLoop:
		return "NestedLoopJoin"
	case Hash:
		return "HashJoin"
	default:
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
}

// JoinAlgorithm finds the right rows that may pair with a left row. The
// join operator owns the right side's rows and evaluates the residual
// predicate on each candidate, so every algorithm yields the same output.
type JoinAlgorithm interface {
	// Build indexes the materialized right side.
	Build(right []*tuple.Tuple) error

	// Probe returns the positions of candidate right rows, in right input
	// order.
	Probe(left *tuple.Tuple) ([]int, error)

	// Close releases the index.
	Close()

	Algorithm() Algorithm
}

// SelectAlgorithm picks a hash join whenever the condition has at least one
// equality key, and a nested-loop join otherwise.
func SelectAlgorithm(cond *Condition) Algorithm {
	if cond != nil && len(cond.Keys) > 0 {
		return Hash
	}
	return NestedLoop
}

// Statistics describes one execution of a join.
type Statistics struct {
	Algorithm Algorithm
	// Keys is the number of equality conjuncts used as hash keys.
	Keys int
	// RightRows is the size of the materialized right side.
	RightRows int
	// Probes counts left rows read.
	Probes int
	// Candidates counts pairs examined after the algorithm's lookup.
	Candidates int
	// Matches counts pairs satisfying the condition.
	Matches int
	// Unmatched counts NULL-padded outer rows.
	Unmatched int
}

func (s Statistics) String() string {
	return fmt.Sprintf("%s keys=%d right=%d probes=%d candidates=%d matches=%d unmatched=%d",
		s.Algorithm, s.Keys, s.RightRows, s.Probes, s.Candidates, s.Matches, s.Unmatched)
}
