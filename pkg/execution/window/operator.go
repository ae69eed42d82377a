package window

import (
	"fmt"

	dberror "relcore/pkg/error"
	"relcore/pkg/execution"
	"relcore/pkg/execution/aggregation"
	"relcore/pkg/expr"
	"relcore/pkg/iterator"
	"relcore/pkg/tuple"
	"relcore/pkg/types"
)

var aggregateOps = map[Func]aggregation.AggregateOp{
	Sum:   aggregation.Sum,
	Avg:   aggregation.Avg,
	Min:   aggregation.Min,
	Max:   aggregation.Max,
	Count: aggregation.Count,
}

// Window appends one window function column to every input row.
//
// The input is materialized on Open, split into partitions in the order
// their first row appears, and each partition is stably sorted by the
// ORDER BY keys. Output is partition by partition, each in window order.
type Window struct {
	*iterator.UnaryOperator
	execution.Label

	spec      Spec
	frame     *Frame
	partIdx   []int
	column    int
	inputType types.Type
	fallback  types.Field
	cmp       *execution.RowComparator
	env       *expr.Env
	tupleDesc *tuple.TupleDescription

	results *iterator.SliceIterator[*tuple.Tuple]
}

// NewWindow validates spec against the child's schema. Unknown columns are
// SchemaErrors, malformed frames or arguments are InvalidPlan errors, and
// aggregates over unsupported kinds are TypeErrors.
func NewWindow(child iterator.DbIterator, spec Spec, env *expr.Env) (*Window, error) {
	if child == nil {
		return nil, dberror.NewInvalidPlan("window child cannot be nil")
	}
	if _, ok := funcNames[spec.Func]; !ok {
		return nil, dberror.NewInvalidPlan("unknown window function %d", int(spec.Func))
	}

	w := &Window{spec: spec, env: env, column: -1}
	if err := w.bind(child.GetTupleDesc()); err != nil {
		return nil, err
	}

	unaryOp, err := iterator.NewUnaryOperator(child, w.readNext)
	if err != nil {
		return nil, err
	}
	w.UnaryOperator = unaryOp
	return w, nil
}

func (w *Window) bind(childDesc *tuple.TupleDescription) error {
	spec := w.spec

	if spec.Frame != nil && !spec.Func.usesFrame() {
		return dberror.NewInvalidPlan("%s does not take a frame", spec.Func)
	}
	w.frame = spec.Frame
	if w.frame == nil {
		w.frame = defaultFrame()
	}
	if err := w.frame.validate(); err != nil {
		return err
	}

	switch spec.Func {
	case Ntile:
		if spec.Offset <= 0 {
			return dberror.NewInvalidPlan("NTILE needs a positive bucket count, got %d", spec.Offset)
		}
	case NthValue:
		if spec.Offset < 1 {
			return dberror.NewInvalidPlan("NTH_VALUE position must be at least 1, got %d", spec.Offset)
		}
	case Lag, Lead:
		if spec.Offset < 0 {
			return dberror.NewInvalidPlan("%s offset must be non-negative, got %d", spec.Func, spec.Offset)
		}
	}

	w.partIdx = make([]int, len(spec.PartitionBy))
	for i, name := range spec.PartitionBy {
		idx, err := childDesc.FindFieldIndex(name)
		if err != nil {
			return err
		}
		w.partIdx[i] = idx
	}

	if len(spec.OrderBy) > 0 {
		cmp, err := execution.NewRowComparator(childDesc, spec.OrderBy)
		if err != nil {
			return err
		}
		w.cmp = cmp
	}

	w.inputType = types.NullType
	switch {
	case spec.Column != "":
		idx, err := childDesc.FindFieldIndex(spec.Column)
		if err != nil {
			return err
		}
		w.column = idx
		w.inputType = childDesc.Columns[idx].Type
	case spec.Func.needsColumn():
		return dberror.NewInvalidPlan("%s needs a column", spec.Func)
	}

	resultType, nullable, err := w.resultType()
	if err != nil {
		return err
	}

	columns := append([]tuple.Column{}, childDesc.Columns...)
	columns = append(columns, tuple.Column{Name: spec.Name(), Type: resultType, Nullable: nullable})
	td, err := tuple.NewTupleDesc(columns)
	if err != nil {
		return err
	}
	w.tupleDesc = td
	return nil
}

// resultType returns the kind and nullability of the output column and
// checks the function's arguments against the input kind.
func (w *Window) resultType() (types.Type, bool, error) {
	switch w.spec.Func {
	case RowNumber, Rank, DenseRank, Ntile:
		return types.IntType, false, nil
	case PercentRank, CumeDist:
		return types.DecimalType, false, nil
	case Lag, Lead:
		fallback, err := coerceDefault(w.spec.Default, w.inputType)
		if err != nil {
			return 0, false, err
		}
		w.fallback = fallback
		return w.inputType, true, nil
	case FirstValue, LastValue, NthValue:
		return w.inputType, true, nil
	}
	if !w.spec.Func.isAggregate() {
		return 0, false, dberror.NewInvalidPlan("unknown window function %s", w.spec.Func)
	}

	calc, err := w.newCalculator()
	if err != nil {
		return 0, false, err
	}
	return calc.GetResultType(), w.spec.Func != Count, nil
}

func (w *Window) newCalculator() (aggregation.AggregateCalculator, error) {
	agg := aggregation.Spec{Func: aggregateOps[w.spec.Func], Column: w.spec.Column}
	if w.spec.Func == Count && w.column < 0 {
		agg.Func = aggregation.CountStar
	}
	return aggregation.GetCalculator(agg, w.inputType)
}

// coerceDefault fits a LAG/LEAD default to the column kind. Integers widen
// to DECIMAL; any other mismatch is a TypeError.
func coerceDefault(def types.Field, kind types.Type) (types.Field, error) {
	if def == nil || def.IsNull() {
		return types.NewNull(kind), nil
	}
	if def.Type() == kind {
		return def, nil
	}
	if i, ok := def.(*types.IntField); ok && kind == types.DecimalType {
		return types.NewDecimalField(i.Decimal()), nil
	}
	return nil, dberror.NewTypeError("default %s is %s, column is %s", def, def.Type(), kind)
}

// GetTupleDesc returns the input columns followed by the window column.
func (w *Window) GetTupleDesc() *tuple.TupleDescription {
	return w.tupleDesc
}

// Open materializes the child and computes the window column.
func (w *Window) Open() error {
	if err := w.UnaryOperator.Open(); err != nil {
		return err
	}
	return w.compute()
}

func (w *Window) compute() error {
	var input []*tuple.Tuple
	for {
		row, err := w.FetchNext()
		if err != nil {
			return err
		}
		if row == nil {
			break
		}
		input = append(input, row)
	}

	ordinals := make(map[*tuple.Tuple]int, len(input))
	for i, r := range input {
		if _, seen := ordinals[r]; !seen {
			ordinals[r] = i + 1
		}
	}

	parts := partitionRows(input, w.partIdx)
	rows := make([]*tuple.Tuple, 0, len(input))
	for _, rowsOfPart := range parts {
		p := order(rowsOfPart, w.cmp)
		values, err := w.evaluate(p, ordinals)
		if err != nil {
			return err
		}
		for i, r := range p.rows {
			rows = append(rows, tuple.Extend(w.tupleDesc, r, values[i]))
		}
	}
	w.results = iterator.NewSliceIterator(rows)

	w.Logger("Window").Debug("computed window",
		"function", w.spec.Func.String(),
		"rows", len(input),
		"partitions", len(parts))
	return nil
}

// evaluate computes the function for every row of one ordered partition.
// ordinals maps each row to its 1-based input position for error context.
func (w *Window) evaluate(p *partition, ordinals map[*tuple.Tuple]int) ([]types.Field, error) {
	switch w.spec.Func {
	case RowNumber, Rank, DenseRank, PercentRank, CumeDist:
		return rankValues(w.spec.Func, p), nil
	case Ntile:
		return ntileValues(w.spec.Offset, p), nil
	case Lag:
		return offsetValues(w.column, -w.spec.offset(), w.fallback, p), nil
	case Lead:
		return offsetValues(w.column, w.spec.offset(), w.fallback, p), nil
	case FirstValue, LastValue, NthValue:
		return frameValues(w.spec, w.frame, w.column, types.NewNull(w.inputType), p), nil
	}

	calc, err := w.newCalculator()
	if err != nil {
		return nil, err
	}
	values, failed, err := aggregateValues(calc, w.frame, w.column, p)
	if err != nil {
		row := p.rows[failed]
		return nil, w.RowError(err, "Window", ordinals[row], row)
	}
	return values, nil
}

func (w *Window) readNext() (*tuple.Tuple, error) {
	if w.results == nil || !w.results.HasNext() {
		return nil, nil
	}
	return w.results.Next()
}

// Rewind replays the computed rows without reading the child again.
func (w *Window) Rewind() error {
	if err := w.UnaryOperator.Rewind(); err != nil {
		return err
	}
	if w.results != nil {
		return w.results.Rewind()
	}
	return nil
}

// Close drops the computed rows and closes the child.
func (w *Window) Close() error {
	w.results = nil
	return w.UnaryOperator.Close()
}

// Spec returns the window function description.
func (w *Window) Spec() Spec {
	return w.spec
}

func (w *Window) String() string {
	return fmt.Sprintf("Window %s AS %s", w.spec, w.spec.Name())
}
