package join

import (
	"relcore/pkg/expr"
	"relcore/pkg/tuple"
)

// HashJoin indexes the right side by its equality key values and probes it
// with each left row.
//
// Keys are canonical group keys, so 1 and 1.0 land in the same bucket,
// while rows whose key contains a NULL are never indexed or matched.
//
// Time complexity: O(|L| + |R|) plus the candidates examined.
// Space complexity: O(|R|) for the hash table.
type HashJoin struct {
	leftKeys  []expr.Expr
	rightKeys []expr.Expr
	env       *expr.Env
	hashTable map[string][]int
}

// NewHashJoin creates a hash join over the given key pairs.
func NewHashJoin(keys []KeyPair, env *expr.Env) *HashJoin {
	hj := &HashJoin{
		leftKeys:  make([]expr.Expr, len(keys)),
		rightKeys: make([]expr.Expr, len(keys)),
		env:       env,
		hashTable: make(map[string][]int),
	}
	for i, k := range keys {
		hj.leftKeys[i] = k.Left
		hj.rightKeys[i] = k.Right
	}
	return hj
}

// Build constructs the hash table. Buckets keep right input order.
func (hj *HashJoin) Build(right []*tuple.Tuple) error {
	hj.hashTable = make(map[string][]int)
	for i, row := range right {
		key, ok, err := keyOf(hj.rightKeys, hj.env, row)
		if err != nil {
			return &buildError{err: err, ordinal: i + 1, row: row}
		}
		if !ok {
			continue
		}
		hj.hashTable[key] = append(hj.hashTable[key], i)
	}
	return nil
}

// Probe looks up the bucket for left's key values.
func (hj *HashJoin) Probe(left *tuple.Tuple) ([]int, error) {
	key, ok, err := keyOf(hj.leftKeys, hj.env, left)
	if err != nil || !ok {
		return nil, err
	}
	return hj.hashTable[key], nil
}

func (hj *HashJoin) Close() {
	hj.hashTable = make(map[string][]int)
}

func (hj *HashJoin) Algorithm() Algorithm { return Hash }

// buildError remembers which right row failed while building an index.
type buildError struct {
	err     error
	ordinal int
	row     *tuple.Tuple
}

func (e *buildError) Error() string { return e.err.Error() }

func (e *buildError) Unwrap() error { return e.err }
