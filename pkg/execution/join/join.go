package join

import (
	"errors"
	"fmt"

	dberror "relcore/pkg/error"
	"relcore/pkg/execution"
	"relcore/pkg/expr"
	"relcore/pkg/iterator"
	"relcore/pkg/tuple"
	"relcore/pkg/types"
)

// Join combines rows of two inputs according to its Kind.
//
// The right input is materialized on Open and indexed by the selected
// JoinAlgorithm; the left input is streamed. Output is left-row-major: the
// matches of each left row appear in right input order, followed, for RIGHT
// and FULL joins, by the unmatched right rows in right input order.
type Join struct {
	*iterator.BinaryOperator
	execution.Label

	kind      Kind
	on        expr.Expr
	cond      *Condition
	algorithm JoinAlgorithm
	env       *expr.Env

	tupleDesc *tuple.TupleDescription
	leftDesc  *tuple.TupleDescription
	rightDesc *tuple.TupleDescription

	right        []*tuple.Tuple
	rightMatched []bool
	buffer       *matchBuffer
	leftDone     bool
	unmatchedPos int
	leftOrdinal  int
	stats        Statistics
}

// NewJoin binds on against the concatenation of the two schemas and picks
// the algorithm. A cross join must not have a condition; every other kind
// requires one.
func NewJoin(kind Kind, on expr.Expr, left, right iterator.DbIterator, env *expr.Env) (*Join, error) {
	if left == nil || right == nil {
		return nil, dberror.NewInvalidPlan("%s join needs two inputs", kind)
	}
	switch {
	case kind < Inner || kind > Cross:
		return nil, dberror.NewInvalidPlan("unknown join kind %s", kind)
	case kind == Cross && on != nil:
		return nil, dberror.NewInvalidPlan("cross join cannot have a condition, got %s", on)
	case kind != Cross && on == nil:
		return nil, dberror.NewInvalidPlan("%s join requires a condition", kind)
	}

	leftDesc, rightDesc := left.GetTupleDesc(), right.GetTupleDesc()
	if kind.keepsRight() {
		leftDesc = leftDesc.AsNullable()
	}
	if kind.keepsLeft() {
		rightDesc = rightDesc.AsNullable()
	}
	joined, err := tuple.Combine(leftDesc, rightDesc)
	if err != nil {
		return nil, err
	}

	cond, err := AnalyzeCondition(on, left.GetTupleDesc(), right.GetTupleDesc(), joined)
	if err != nil {
		return nil, err
	}

	j := &Join{
		kind:      kind,
		on:        on,
		cond:      cond,
		env:       env,
		tupleDesc: joined,
		leftDesc:  leftDesc,
		rightDesc: rightDesc,
		buffer:    newMatchBuffer(),
	}

	switch SelectAlgorithm(cond) {
	case Hash:
		j.algorithm = NewHashJoin(cond.Keys, env)
	default:
		j.algorithm = NewNestedLoopJoin()
	}

	binaryOp, err := iterator.NewBinaryOperator(left, right, j.readNext)
	if err != nil {
		return nil, err
	}
	j.BinaryOperator = binaryOp
	return j, nil
}

// Open opens both inputs and builds the right side's index.
func (j *Join) Open() error {
	if err := j.BinaryOperator.Open(); err != nil {
		return err
	}

	j.resetProbe()
	j.stats = Statistics{Algorithm: j.algorithm.Algorithm(), Keys: len(j.cond.Keys)}
	if err := j.build(); err != nil {
		return err
	}

	j.Logger("Join").Debug("join built",
		"kind", j.kind.String(),
		"algorithm", j.algorithm.Algorithm().String(),
		"keys", len(j.cond.Keys),
		"right_rows", len(j.right))
	return nil
}

func (j *Join) build() error {
	j.right = j.right[:0]
	for {
		row, err := j.FetchRight()
		if err != nil {
			return err
		}
		if row == nil {
			break
		}
		j.right = append(j.right, row)
	}
	j.rightMatched = make([]bool, len(j.right))
	j.stats.RightRows = len(j.right)

	if err := j.algorithm.Build(j.right); err != nil {
		var be *buildError
		if errors.As(err, &be) {
			return j.RowError(be.err, j.opName(), be.ordinal, be.row)
		}
		return err
	}
	return nil
}

func (j *Join) resetProbe() {
	j.buffer.Reset()
	j.leftDone = false
	j.unmatchedPos = 0
	j.leftOrdinal = 0
	for i := range j.rightMatched {
		j.rightMatched[i] = false
	}
}

func (j *Join) readNext() (*tuple.Tuple, error) {
	for {
		if j.buffer.HasNext() {
			return j.buffer.Next(), nil
		}

		if j.leftDone {
			return j.nextUnmatchedRight(), nil
		}

		left, err := j.FetchLeft()
		if err != nil {
			return nil, err
		}
		if left == nil {
			j.leftDone = true
			continue
		}

		if err := j.probe(left); err != nil {
			return nil, err
		}
	}
}

// probe fills the buffer with the output rows for one left row.
func (j *Join) probe(left *tuple.Tuple) error {
	j.leftOrdinal++
	j.stats.Probes++

	candidates, err := j.algorithm.Probe(left)
	if err != nil {
		return j.RowError(err, j.opName(), j.leftOrdinal, left)
	}

	j.buffer.StartNew()
	for _, i := range candidates {
		j.stats.Candidates++
		row := tuple.Concat(j.tupleDesc, left, j.right[i])
		if j.cond.Residual != nil {
			ok, err := expr.Test(j.cond.Residual, j.env, row)
			if err != nil {
				return j.RowError(err, j.opName(), j.leftOrdinal, row)
			}
			if ok != types.True {
				continue
			}
		}
		j.rightMatched[i] = true
		j.stats.Matches++
		j.buffer.Add(row)
	}

	if j.buffer.Len() == 0 && j.kind.keepsLeft() {
		j.stats.Unmatched++
		j.buffer.Add(tuple.Concat(j.tupleDesc, left, tuple.NullTuple(j.rightDesc)))
	}
	return nil
}

func (j *Join) nextUnmatchedRight() *tuple.Tuple {
	if !j.kind.keepsRight() {
		return nil
	}
	for j.unmatchedPos < len(j.right) {
		i := j.unmatchedPos
		j.unmatchedPos++
		if !j.rightMatched[i] {
			j.stats.Unmatched++
			return tuple.Concat(j.tupleDesc, tuple.NullTuple(j.leftDesc), j.right[i])
		}
	}
	return nil
}

// Rewind restarts the left input; the right side's index is reused.
func (j *Join) Rewind() error {
	if err := j.BinaryOperator.Rewind(); err != nil {
		return err
	}
	j.resetProbe()
	return nil
}

// Close releases both inputs and the right side's index.
func (j *Join) Close() error {
	j.algorithm.Close()
	j.right = nil
	j.rightMatched = nil
	j.buffer.Reset()
	return j.BinaryOperator.Close()
}

// GetTupleDesc returns the left schema followed by the right schema. The
// side padded with NULLs by an outer join is nullable.
func (j *Join) GetTupleDesc() *tuple.TupleDescription {
	return j.tupleDesc
}

// Kind returns the join type.
func (j *Join) Kind() Kind {
	return j.kind
}

// Condition returns the analyzed ON predicate.
func (j *Join) Condition() *Condition {
	return j.cond
}

// Statistics reports counters of the current or last execution.
func (j *Join) Statistics() Statistics {
	return j.stats
}

func (j *Join) opName() string {
	return j.algorithm.Algorithm().String()
}

func (j *Join) String() string {
	if j.on == nil {
		return fmt.Sprintf("%s %s", j.opName(), j.kind)
	}
	return fmt.Sprintf("%s %s ON %s", j.opName(), j.kind, j.on)
}
