package workbook

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	dberror "relcore/pkg/error"
	"relcore/pkg/execution"
	"relcore/pkg/execution/aggregation"
	"relcore/pkg/execution/join"
	"relcore/pkg/execution/query"
	"relcore/pkg/execution/window"
	"relcore/pkg/plan"
)

type scanDoc struct {
	Relation string `yaml:"relation"`
	Alias    string `yaml:"alias"`
}

type filterDoc struct {
	Predicate yaml.Node `yaml:"predicate"`
	Input     yaml.Node `yaml:"input"`
}

type joinDoc struct {
	Kind  string    `yaml:"kind"`
	Left  yaml.Node `yaml:"left"`
	Right yaml.Node `yaml:"right"`
	On    yaml.Node `yaml:"on"`
}

type aggregateDoc struct {
	GroupBy    []string       `yaml:"group_by"`
	Aggregates []aggregateFun `yaml:"aggregates"`
	Having     yaml.Node      `yaml:"having"`
	Input      yaml.Node      `yaml:"input"`
}

type aggregateFun struct {
	Func     string `yaml:"func"`
	Column   string `yaml:"column"`
	Distinct bool   `yaml:"distinct"`
	Alias    string `yaml:"alias"`
}

type windowDoc struct {
	Functions []windowFun `yaml:"functions"`
	Input     yaml.Node   `yaml:"input"`
}

type windowFun struct {
	Func        string    `yaml:"func"`
	Column      string    `yaml:"column"`
	Offset      int       `yaml:"offset"`
	Default     yaml.Node `yaml:"default"`
	PartitionBy []string  `yaml:"partition_by"`
	OrderBy     []sortDoc `yaml:"order_by"`
	Frame       *frameDoc `yaml:"frame"`
	Alias       string    `yaml:"alias"`
}

type frameDoc struct {
	Mode  string `yaml:"mode"`
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

type sortDoc struct {
	Column string `yaml:"column"`
	Desc   bool   `yaml:"desc"`
	// Nulls is "first" or "last"; empty keeps the direction's default.
	Nulls string `yaml:"nulls"`
}

type orderDoc struct {
	Keys  []sortDoc `yaml:"keys"`
	Input yaml.Node `yaml:"input"`
}

type projectDoc struct {
	Columns []yaml.Node `yaml:"columns"`
	Input   yaml.Node   `yaml:"input"`
}

type projectItemDoc struct {
	Expr  yaml.Node `yaml:"expr"`
	Alias string    `yaml:"alias"`
}

type limitDoc struct {
	Limit  int       `yaml:"limit"`
	Offset int       `yaml:"offset"`
	Input  yaml.Node `yaml:"input"`
}

// decodeNode reads a mapping with exactly one key naming the operator:
// scan, filter, join, aggregate, window, sort, project or limit.
func decodeNode(n *yaml.Node) (plan.Node, error) {
	if n.Kind == 0 {
		return nil, dberror.NewInvalidPlan("missing plan node")
	}
	if n.Kind != yaml.MappingNode || len(n.Content) != 2 {
		return nil, dberror.NewInvalidPlan("line %d: a plan node is a mapping with one operator key", n.Line)
	}
	key, body := n.Content[0].Value, n.Content[1]

	switch key {
	case "scan":
		var d scanDoc
		if err := body.Decode(&d); err != nil {
			return nil, err
		}
		if d.Relation == "" {
			return nil, dberror.NewInvalidPlan("line %d: scan needs a relation", body.Line)
		}
		return plan.NewScanNode(d.Relation, d.Alias), nil

	case "filter":
		var d filterDoc
		if err := body.Decode(&d); err != nil {
			return nil, err
		}
		child, err := decodeNode(&d.Input)
		if err != nil {
			return nil, err
		}
		pred, err := decodeExpr(&d.Predicate)
		if err != nil {
			return nil, err
		}
		return plan.NewFilterNode(child, pred), nil

	case "join":
		var d joinDoc
		if err := body.Decode(&d); err != nil {
			return nil, err
		}
		kind, err := join.ParseKind(d.Kind)
		if err != nil {
			return nil, dberror.NewInvalidPlan("line %d: %v", body.Line, err)
		}
		left, err := decodeNode(&d.Left)
		if err != nil {
			return nil, err
		}
		right, err := decodeNode(&d.Right)
		if err != nil {
			return nil, err
		}
		on, err := decodeOptionalExpr(&d.On)
		if err != nil {
			return nil, err
		}
		return plan.NewJoinNode(kind, left, right, on), nil

	case "aggregate":
		var d aggregateDoc
		if err := body.Decode(&d); err != nil {
			return nil, err
		}
		child, err := decodeNode(&d.Input)
		if err != nil {
			return nil, err
		}
		aggs := make([]aggregation.Spec, len(d.Aggregates))
		for i, a := range d.Aggregates {
			spec, err := decodeAggregate(a)
			if err != nil {
				return nil, dberror.NewInvalidPlan("line %d: %v", body.Line, err)
			}
			aggs[i] = spec
		}
		having, err := decodeOptionalExpr(&d.Having)
		if err != nil {
			return nil, err
		}
		return plan.NewAggregateNode(child, d.GroupBy, aggs, having), nil

	case "window":
		var d windowDoc
		if err := body.Decode(&d); err != nil {
			return nil, err
		}
		child, err := decodeNode(&d.Input)
		if err != nil {
			return nil, err
		}
		specs := make([]window.Spec, len(d.Functions))
		for i, f := range d.Functions {
			spec, err := decodeWindowFunc(f)
			if err != nil {
				return nil, dberror.NewInvalidPlan("line %d: %v", body.Line, err)
			}
			specs[i] = spec
		}
		return plan.NewWindowNode(child, specs...), nil

	case "sort":
		var d orderDoc
		if err := body.Decode(&d); err != nil {
			return nil, err
		}
		child, err := decodeNode(&d.Input)
		if err != nil {
			return nil, err
		}
		keys, err := decodeSortKeys(d.Keys)
		if err != nil {
			return nil, dberror.NewInvalidPlan("line %d: %v", body.Line, err)
		}
		return plan.NewSortNode(child, keys...), nil

	case "project":
		var d projectDoc
		if err := body.Decode(&d); err != nil {
			return nil, err
		}
		child, err := decodeNode(&d.Input)
		if err != nil {
			return nil, err
		}
		items := make([]query.ProjectItem, len(d.Columns))
		for i := range d.Columns {
			item, err := decodeProjectItem(&d.Columns[i])
			if err != nil {
				return nil, err
			}
			items[i] = item
		}
		return plan.NewProjectNode(child, items...), nil

	case "limit":
		var d limitDoc
		if err := body.Decode(&d); err != nil {
			return nil, err
		}
		child, err := decodeNode(&d.Input)
		if err != nil {
			return nil, err
		}
		return plan.NewLimitNode(child, d.Limit, d.Offset), nil
	}
	return nil, dberror.NewInvalidPlan("line %d: unknown operator %q", n.Line, key)
}

func decodeAggregate(a aggregateFun) (aggregation.Spec, error) {
	name := a.Func
	if strings.EqualFold(name, "count") && (a.Column == "" || a.Column == "*") {
		name = "count_star"
		a.Column = ""
	}
	op, err := aggregation.ParseAggregateOp(name)
	if err != nil {
		return aggregation.Spec{}, err
	}
	return aggregation.Spec{Func: op, Column: a.Column, Distinct: a.Distinct, Alias: a.Alias}, nil
}

func decodeWindowFunc(f windowFun) (window.Spec, error) {
	fn, err := window.ParseFunc(f.Func)
	if err != nil {
		return window.Spec{}, err
	}
	spec := window.Spec{
		Func:        fn,
		Column:      f.Column,
		Offset:      f.Offset,
		PartitionBy: f.PartitionBy,
		Alias:       f.Alias,
	}
	if fn == window.Count && spec.Column == "*" {
		spec.Column = ""
	}

	if f.Default.Kind != 0 {
		lit, err := decodeLiteral(&f.Default, "")
		if err != nil {
			return window.Spec{}, err
		}
		spec.Default = lit.Value
	}

	if spec.OrderBy, err = decodeSortKeys(f.OrderBy); err != nil {
		return window.Spec{}, err
	}

	if f.Frame != nil {
		frame, err := decodeFrame(*f.Frame)
		if err != nil {
			return window.Spec{}, err
		}
		spec.Frame = frame
	}
	return spec, nil
}

func decodeFrame(d frameDoc) (*window.Frame, error) {
	start, err := parseBound(d.Start)
	if err != nil {
		return nil, err
	}
	end, err := parseBound(d.End)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(d.Mode) {
	case "", "rows":
		return window.RowsBetween(start, end), nil
	case "range":
		return window.RangeBetween(start, end), nil
	}
	return nil, fmt.Errorf("unknown frame mode %q", d.Mode)
}

// parseBound reads "unbounded preceding", "3 preceding", "current row",
// "2 following" or "unbounded following".
func parseBound(s string) (window.Bound, error) {
	words := strings.Fields(strings.ToLower(s))
	if len(words) != 2 {
		return window.Bound{}, fmt.Errorf("invalid frame bound %q", s)
	}

	switch {
	case words[0] == "current" && words[1] == "row":
		return window.Bound{Kind: window.CurrentRow}, nil
	case words[0] == "unbounded" && words[1] == "preceding":
		return window.Bound{Kind: window.UnboundedPreceding}, nil
	case words[0] == "unbounded" && words[1] == "following":
		return window.Bound{Kind: window.UnboundedFollowing}, nil
	}

	offset, err := strconv.Atoi(words[0])
	if err != nil {
		return window.Bound{}, fmt.Errorf("invalid frame bound %q", s)
	}
	switch words[1] {
	case "preceding":
		return window.Bound{Kind: window.Preceding, Offset: offset}, nil
	case "following":
		return window.Bound{Kind: window.Following, Offset: offset}, nil
	}
	return window.Bound{}, fmt.Errorf("invalid frame bound %q", s)
}

func decodeSortKeys(docs []sortDoc) ([]execution.SortKey, error) {
	keys := make([]execution.SortKey, len(docs))
	for i, d := range docs {
		key := execution.SortKey{Column: d.Column, Descending: d.Desc}
		switch strings.ToLower(d.Nulls) {
		case "":
		case "first":
			first := true
			key.NullsFirst = &first
		case "last":
			first := false
			key.NullsFirst = &first
		default:
			return nil, fmt.Errorf("nulls must be first or last, got %q", d.Nulls)
		}
		keys[i] = key
	}
	return keys, nil
}

// decodeProjectItem accepts a bare column name or {expr, alias}.
func decodeProjectItem(n *yaml.Node) (query.ProjectItem, error) {
	if n.Kind == yaml.ScalarNode {
		return query.ProjectItem{Expr: colRef(n.Value)}, nil
	}
	var d projectItemDoc
	if err := n.Decode(&d); err != nil {
		return query.ProjectItem{}, err
	}
	e, err := decodeExpr(&d.Expr)
	if err != nil {
		return query.ProjectItem{}, err
	}
	return query.ProjectItem{Expr: e, Alias: d.Alias}, nil
}
