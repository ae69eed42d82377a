// Package execution is the root of relcore's query execution engine.
//
// The engine uses the iterator (volcano) model: every operator implements
// iterator.DbIterator with Open / HasNext / Next / Rewind / Close. Operators
// are composed into a tree; pulling from the root pulls rows through the
// pipeline. Filter and the probe side of a join stream; Sort, Aggregate,
// Window and the join build side materialize their input.
//
// # Sub-packages
//
//   - [relcore/pkg/execution/query]       – Scan, Filter, Sort, Project and
//     Limit.
//   - [relcore/pkg/execution/join]        – Inner, outer and cross joins with
//     hash and nested-loop algorithms.
//   - [relcore/pkg/execution/aggregation] – GROUP BY with COUNT, SUM, AVG,
//     MIN, MAX and HAVING.
//   - [relcore/pkg/execution/window]      – Ranking, offset and frame-bounded
//     window functions.
//
// This package holds what the operators share: ORDER BY keys and the row
// comparator built from them, operator labels, and row-context errors.
package execution
