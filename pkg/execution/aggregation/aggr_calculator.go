package aggregation

import (
	dberror "relcore/pkg/error"
	"relcore/pkg/types"
)

// AggregateCalculator computes one aggregate function over groups of data.
// Groups are initialized once, then updated with every value that belongs
// to them, then finalized.
type AggregateCalculator interface {
	// InitializeGroup sets up the running state for a new group.
	InitializeGroup(groupKey string)

	// UpdateAggregate folds one input value into the group's state. COUNT(*)
	// receives nil.
	UpdateAggregate(groupKey string, fieldValue types.Field) error

	// GetFinalValue returns the aggregate of a group once every value has
	// been folded in.
	GetFinalValue(groupKey string) (types.Field, error)

	// GetResultType returns the kind of the values GetFinalValue produces.
	GetResultType() types.Type
}

// GetCalculator returns the calculator for spec over an input column of
// kind input, or a TypeError when the function does not apply to it.
func GetCalculator(spec Spec, input types.Type) (AggregateCalculator, error) {
	var calc AggregateCalculator
	switch spec.Func {
	case CountStar:
		if spec.Distinct {
			return nil, dberror.NewInvalidPlan("COUNT(*) cannot be DISTINCT")
		}
		return newCountCalculator(true), nil
	case Count:
		calc = newCountCalculator(false)
	case Sum, Avg:
		if !input.IsNumeric() {
			return nil, dberror.NewTypeError("%s requires a numeric column, %s is %s", spec.Func, spec.Column, input)
		}
		calc = newNumericCalculator(spec.Func, input)
	case Min, Max:
		if input == types.ArrayType || input == types.DocumentType {
			return nil, dberror.NewTypeError("%s cannot order %s values of %s", spec.Func, input, spec.Column)
		}
		calc = newExtremumCalculator(spec.Func, input)
	default:
		return nil, dberror.NewInvalidPlan("unknown aggregate function %d", int(spec.Func))
	}

	if spec.Distinct {
		calc = newDistinctCalculator(calc)
	}
	return calc, nil
}
