package aggregation

import (
	"fmt"
	"strings"

	dberror "relcore/pkg/error"
	"relcore/pkg/execution"
	"relcore/pkg/expr"
	"relcore/pkg/iterator"
	"relcore/pkg/tuple"
	"relcore/pkg/types"
)

// AggregateOperator computes GROUP BY aggregates with an optional HAVING
// filter.
//
// The whole input is consumed on Open in a single pass. Groups are emitted
// in the order their first row was seen. Output rows hold the group-by
// columns in the requested order followed by one column per aggregate.
type AggregateOperator struct {
	*iterator.UnaryOperator
	execution.Label

	groupBy     []string
	groupIdx    []int
	aggs        []Spec
	aggIdx      []int
	calculators []AggregateCalculator
	having      expr.Expr
	env         *expr.Env
	tupleDesc   *tuple.TupleDescription

	results  *iterator.SliceIterator[*tuple.Tuple]
	inputLen int
}

// NewAggregateOperator resolves the group-by columns and aggregate inputs
// against the child's schema and binds having against the output schema.
func NewAggregateOperator(child iterator.DbIterator, groupBy []string, aggs []Spec, having expr.Expr, env *expr.Env) (*AggregateOperator, error) {
	if child == nil {
		return nil, dberror.NewInvalidPlan("aggregate child cannot be nil")
	}
	if len(groupBy) == 0 && len(aggs) == 0 {
		return nil, dberror.NewInvalidPlan("aggregate needs a group-by column or an aggregate")
	}

	agg := &AggregateOperator{
		groupBy: groupBy,
		aggs:    aggs,
		env:     env,
	}
	if err := agg.bind(child.GetTupleDesc(), having); err != nil {
		return nil, err
	}

	unaryOp, err := iterator.NewUnaryOperator(child, agg.readNext)
	if err != nil {
		return nil, err
	}
	agg.UnaryOperator = unaryOp
	return agg, nil
}

func (agg *AggregateOperator) bind(childDesc *tuple.TupleDescription, having expr.Expr) error {
	columns := make([]tuple.Column, 0, len(agg.groupBy)+len(agg.aggs))

	agg.groupIdx = make([]int, len(agg.groupBy))
	for i, name := range agg.groupBy {
		idx, err := childDesc.FindFieldIndex(name)
		if err != nil {
			return err
		}
		agg.groupIdx[i] = idx
		columns = append(columns, childDesc.Columns[idx])
	}

	agg.aggIdx = make([]int, len(agg.aggs))
	agg.calculators = make([]AggregateCalculator, len(agg.aggs))
	for i, spec := range agg.aggs {
		input := types.NullType
		agg.aggIdx[i] = -1
		if spec.Func != CountStar {
			if spec.Column == "" {
				return dberror.NewInvalidPlan("%s needs a column", spec.Func)
			}
			idx, err := childDesc.FindFieldIndex(spec.Column)
			if err != nil {
				return err
			}
			agg.aggIdx[i] = idx
			input = childDesc.Columns[idx].Type
		}

		calc, err := GetCalculator(spec, input)
		if err != nil {
			return err
		}
		agg.calculators[i] = calc
		columns = append(columns, tuple.Column{
			Name:     spec.Name(),
			Type:     calc.GetResultType(),
			Nullable: !spec.Func.IsCount(),
		})
	}

	td, err := tuple.NewTupleDesc(columns)
	if err != nil {
		return err
	}
	agg.tupleDesc = td

	if having != nil {
		bound, err := expr.Bind(having, td)
		if err != nil {
			return err
		}
		if kind := expr.TypeOf(bound); kind != types.BoolType && kind != types.NullType {
			return dberror.NewTypeError("HAVING %s is %s, not BOOLEAN", bound, kind)
		}
		agg.having = bound
	}
	return nil
}

// GetTupleDesc returns the group-by columns followed by the aggregates.
func (agg *AggregateOperator) GetTupleDesc() *tuple.TupleDescription {
	return agg.tupleDesc
}

// Open consumes the child and computes every group.
func (agg *AggregateOperator) Open() error {
	if err := agg.UnaryOperator.Open(); err != nil {
		return err
	}
	return agg.compute()
}

func (agg *AggregateOperator) compute() error {
	calcs := make([]AggregateCalculator, len(agg.aggs))
	for i, spec := range agg.aggs {
		input := types.NullType
		if agg.aggIdx[i] >= 0 {
			input = agg.GetChild().GetTupleDesc().Columns[agg.aggIdx[i]].Type
		}
		calc, err := GetCalculator(spec, input)
		if err != nil {
			return err
		}
		calcs[i] = calc
	}
	agg.calculators = calcs

	groups := newGroupTable(agg.groupIdx)
	if len(agg.groupIdx) == 0 {
		agg.initializeGroup(groups.ensure())
	}

	agg.inputLen = 0
	for {
		row, err := agg.FetchNext()
		if err != nil {
			return err
		}
		if row == nil {
			break
		}
		agg.inputLen++

		g, created := groups.lookup(row)
		if created {
			agg.initializeGroup(g, true)
		}
		for i, calc := range agg.calculators {
			var v types.Field
			if agg.aggIdx[i] >= 0 {
				v = row.At(agg.aggIdx[i])
			}
			if err := calc.UpdateAggregate(g.key, v); err != nil {
				return agg.RowError(err, "Aggregate", agg.inputLen, row)
			}
		}
	}

	rows, err := agg.finalize(groups)
	if err != nil {
		return err
	}
	agg.results = iterator.NewSliceIterator(rows)

	agg.Logger("Aggregate").Debug("aggregated input",
		"rows", agg.inputLen,
		"groups", groups.len(),
		"output", len(rows))
	return nil
}

func (agg *AggregateOperator) initializeGroup(g *group, created bool) {
	if !created {
		return
	}
	for _, calc := range agg.calculators {
		calc.InitializeGroup(g.key)
	}
}

func (agg *AggregateOperator) finalize(groups *groupTable) ([]*tuple.Tuple, error) {
	if agg.inputLen == 0 && len(agg.groupIdx) == 0 && !agg.onlyCounts() {
		return nil, nil
	}

	rows := make([]*tuple.Tuple, 0, groups.len())
	for _, g := range groups.groups {
		fields := make([]types.Field, 0, agg.tupleDesc.NumFields())
		fields = append(fields, g.values...)
		for _, calc := range agg.calculators {
			v, err := calc.GetFinalValue(g.key)
			if err != nil {
				return nil, agg.RowError(err, "Aggregate", 0, nil)
			}
			fields = append(fields, v)
		}

		row, err := tuple.NewTuple(agg.tupleDesc, fields)
		if err != nil {
			return nil, err
		}

		if agg.having != nil {
			ok, err := expr.Test(agg.having, agg.env, row)
			if err != nil {
				return nil, agg.RowError(err, "Aggregate", len(rows)+1, row)
			}
			if ok != types.True {
				continue
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// onlyCounts reports whether every aggregate is a COUNT variant, the only
// case in which an empty input without GROUP BY still yields a row.
func (agg *AggregateOperator) onlyCounts() bool {
	for _, spec := range agg.aggs {
		if !spec.Func.IsCount() {
			return false
		}
	}
	return true
}

func (agg *AggregateOperator) readNext() (*tuple.Tuple, error) {
	if agg.results == nil || !agg.results.HasNext() {
		return nil, nil
	}
	return agg.results.Next()
}

// Rewind replays the computed groups without reading the child again.
func (agg *AggregateOperator) Rewind() error {
	if err := agg.UnaryOperator.Rewind(); err != nil {
		return err
	}
	if agg.results != nil {
		return agg.results.Rewind()
	}
	return nil
}

// Close drops the computed groups and closes the child.
func (agg *AggregateOperator) Close() error {
	agg.results = nil
	return agg.UnaryOperator.Close()
}

// Aggregates returns the aggregate list.
func (agg *AggregateOperator) Aggregates() []Spec {
	return agg.aggs
}

// GroupBy returns the group-by column names.
func (agg *AggregateOperator) GroupBy() []string {
	return agg.groupBy
}

func (agg *AggregateOperator) String() string {
	parts := make([]string, len(agg.aggs))
	for i, spec := range agg.aggs {
		parts[i] = spec.String()
	}
	s := "Aggregate " + strings.Join(parts, ", ")
	if len(agg.groupBy) > 0 {
		s += fmt.Sprintf(" GROUP BY %s", strings.Join(agg.groupBy, ", "))
	}
	if agg.having != nil {
		s += fmt.Sprintf(" HAVING %s", agg.having)
	}
	return s
}
