package aggregation

import (
	"github.com/shopspring/decimal"

	dberror "relcore/pkg/error"
	"relcore/pkg/types"
)

// countCalculator implements COUNT(*) and COUNT(col).
type countCalculator struct {
	countRows bool
	counts    map[string]int64
}

func newCountCalculator(countRows bool) *countCalculator {
	return &countCalculator{
		countRows: countRows,
		counts:    make(map[string]int64),
	}
}

func (c *countCalculator) InitializeGroup(groupKey string) {
	c.counts[groupKey] = 0
}

func (c *countCalculator) UpdateAggregate(groupKey string, fieldValue types.Field) error {
	if c.countRows || !types.IsNull(fieldValue) {
		c.counts[groupKey]++
	}
	return nil
}

func (c *countCalculator) GetFinalValue(groupKey string) (types.Field, error) {
	n, ok := c.counts[groupKey]
	if !ok {
		return nil, dberror.NewInvalidPlan("unknown group %q", groupKey)
	}
	return types.NewIntField(n), nil
}

func (c *countCalculator) GetResultType() types.Type {
	return types.IntType
}

// numericCalculator implements SUM and AVG. Sums are exact decimals;
// SUM over an INT column is converted back to INT.
type numericCalculator struct {
	op     AggregateOp
	input  types.Type
	sums   map[string]decimal.Decimal
	counts map[string]int64
}

func newNumericCalculator(op AggregateOp, input types.Type) *numericCalculator {
	return &numericCalculator{
		op:     op,
		input:  input,
		sums:   make(map[string]decimal.Decimal),
		counts: make(map[string]int64),
	}
}

func (c *numericCalculator) InitializeGroup(groupKey string) {
	c.sums[groupKey] = decimal.Zero
	c.counts[groupKey] = 0
}

func (c *numericCalculator) UpdateAggregate(groupKey string, fieldValue types.Field) error {
	if types.IsNull(fieldValue) {
		return nil
	}

	var d decimal.Decimal
	switch f := fieldValue.(type) {
	case *types.IntField:
		d = f.Decimal()
	case *types.DecimalField:
		d = f.Decimal()
	default:
		return dberror.NewTypeError("%s received a non-numeric value %s", c.op, fieldValue)
	}

	c.sums[groupKey] = c.sums[groupKey].Add(d)
	c.counts[groupKey]++
	return nil
}

func (c *numericCalculator) GetFinalValue(groupKey string) (types.Field, error) {
	n, ok := c.counts[groupKey]
	if !ok {
		return nil, dberror.NewInvalidPlan("unknown group %q", groupKey)
	}
	if n == 0 {
		return types.NewNull(c.GetResultType()), nil
	}

	sum := c.sums[groupKey]
	if c.op == Avg {
		return types.NewDecimalField(sum.Div(decimal.NewFromInt(n))), nil
	}
	if c.input == types.IntType {
		if !types.FitsInt(sum) {
			return nil, dberror.NewNumericOverflow("SUM %s is out of range for INT", sum)
		}
		return types.NewIntField(sum.IntPart()), nil
	}
	return types.NewDecimalField(sum), nil
}

func (c *numericCalculator) GetResultType() types.Type {
	if c.op == Sum && c.input == types.IntType {
		return types.IntType
	}
	return types.DecimalType
}

// extremumCalculator implements MIN and MAX for any ordered kind.
type extremumCalculator struct {
	op     AggregateOp
	input  types.Type
	values map[string]types.Field
}

func newExtremumCalculator(op AggregateOp, input types.Type) *extremumCalculator {
	return &extremumCalculator{
		op:     op,
		input:  input,
		values: make(map[string]types.Field),
	}
}

func (c *extremumCalculator) InitializeGroup(groupKey string) {
	c.values[groupKey] = nil
}

func (c *extremumCalculator) UpdateAggregate(groupKey string, fieldValue types.Field) error {
	if types.IsNull(fieldValue) {
		return nil
	}

	current := c.values[groupKey]
	if current == nil {
		c.values[groupKey] = fieldValue
		return nil
	}

	cmp, err := types.Compare(fieldValue, current)
	if err != nil {
		return err
	}
	if (c.op == Min && cmp < 0) || (c.op == Max && cmp > 0) {
		c.values[groupKey] = fieldValue
	}
	return nil
}

func (c *extremumCalculator) GetFinalValue(groupKey string) (types.Field, error) {
	v, ok := c.values[groupKey]
	if !ok {
		return nil, dberror.NewInvalidPlan("unknown group %q", groupKey)
	}
	if v == nil {
		return types.NewNull(c.input), nil
	}
	return v, nil
}

func (c *extremumCalculator) GetResultType() types.Type {
	return c.input
}

// distinctCalculator passes each distinct non-NULL value of a group to the
// wrapped calculator once.
type distinctCalculator struct {
	inner AggregateCalculator
	seen  map[string]map[string]struct{}
}

func newDistinctCalculator(inner AggregateCalculator) *distinctCalculator {
	return &distinctCalculator{
		inner: inner,
		seen:  make(map[string]map[string]struct{}),
	}
}

func (c *distinctCalculator) InitializeGroup(groupKey string) {
	c.seen[groupKey] = make(map[string]struct{})
	c.inner.InitializeGroup(groupKey)
}

func (c *distinctCalculator) UpdateAggregate(groupKey string, fieldValue types.Field) error {
	if types.IsNull(fieldValue) {
		return nil
	}

	key := types.GroupKey(fieldValue)
	seen := c.seen[groupKey]
	if _, dup := seen[key]; dup {
		return nil
	}
	seen[key] = struct{}{}
	return c.inner.UpdateAggregate(groupKey, fieldValue)
}

func (c *distinctCalculator) GetFinalValue(groupKey string) (types.Field, error) {
	return c.inner.GetFinalValue(groupKey)
}

func (c *distinctCalculator) GetResultType() types.Type {
	return c.inner.GetResultType()
}
