// Package plan describes query trees as operator descriptors and binds them
// to executable operators.
package plan

import (
	"fmt"
	"strings"

	"github.com/oklog/ulid/v2"

	"relcore/pkg/execution"
	"relcore/pkg/execution/aggregation"
	"relcore/pkg/execution/join"
	"relcore/pkg/execution/query"
	"relcore/pkg/execution/window"
	"relcore/pkg/expr"
)

// Node is one operator descriptor of a query tree. Descriptors only name
// columns and hold unbound expressions; Bind resolves them.
type Node interface {
	// ID returns the node id, assigning one if the node has none yet.
	ID() ulid.ULID

	// GetNodeType returns the operator kind (for errors and explain output).
	GetNodeType() string

	// GetChildren returns the input nodes.
	GetChildren() []Node

	String() string
}

// BaseNode carries the node id shared by every descriptor.
type BaseNode struct {
	NodeID ulid.ULID
}

func newBase() BaseNode {
	return BaseNode{NodeID: ulid.Make()}
}

func (b *BaseNode) ID() ulid.ULID {
	if b.NodeID == (ulid.ULID{}) {
		b.NodeID = ulid.Make()
	}
	return b.NodeID
}

// ScanNode reads a base relation from the catalog.
type ScanNode struct {
	BaseNode
	Relation string
	// Alias qualifies the output columns ("o" gives "o.region").
	Alias string
}

func NewScanNode(relation, alias string) *ScanNode {
	return &ScanNode{BaseNode: newBase(), Relation: relation, Alias: alias}
}

func (s *ScanNode) GetNodeType() string { return "Scan" }
func (s *ScanNode) GetChildren() []Node { return nil }

func (s *ScanNode) String() string {
	if s.Alias != "" {
		return fmt.Sprintf("Scan[%s AS %s]", s.Relation, s.Alias)
	}
	return fmt.Sprintf("Scan[%s]", s.Relation)
}

// FilterNode keeps the rows for which Predicate is True.
type FilterNode struct {
	BaseNode
	Child     Node
	Predicate expr.Expr
}

func NewFilterNode(child Node, predicate expr.Expr) *FilterNode {
	return &FilterNode{BaseNode: newBase(), Child: child, Predicate: predicate}
}

func (f *FilterNode) GetNodeType() string { return "Filter" }
func (f *FilterNode) GetChildren() []Node { return []Node{f.Child} }

func (f *FilterNode) String() string {
	return fmt.Sprintf("Filter[%s]", f.Predicate)
}

// JoinNode combines two inputs. On must be nil for CROSS joins and set for
// every other kind.
type JoinNode struct {
	BaseNode
	Kind        join.Kind
	Left, Right Node
	On          expr.Expr
}

func NewJoinNode(kind join.Kind, left, right Node, on expr.Expr) *JoinNode {
	return &JoinNode{BaseNode: newBase(), Kind: kind, Left: left, Right: right, On: on}
}

func (j *JoinNode) GetNodeType() string { return "Join" }
func (j *JoinNode) GetChildren() []Node { return []Node{j.Left, j.Right} }

func (j *JoinNode) String() string {
	if j.On == nil {
		return fmt.Sprintf("Join[%s]", j.Kind)
	}
	return fmt.Sprintf("Join[%s ON %s]", j.Kind, j.On)
}

// AggregateNode groups its input and computes aggregates per group.
type AggregateNode struct {
	BaseNode
	Child      Node
	GroupBy    []string
	Aggregates []aggregation.Spec
	Having     expr.Expr
}

func NewAggregateNode(child Node, groupBy []string, aggs []aggregation.Spec, having expr.Expr) *AggregateNode {
	return &AggregateNode{BaseNode: newBase(), Child: child, GroupBy: groupBy, Aggregates: aggs, Having: having}
}

func (a *AggregateNode) GetNodeType() string { return "Aggregate" }
func (a *AggregateNode) GetChildren() []Node { return []Node{a.Child} }

func (a *AggregateNode) String() string {
	return fmt.Sprintf("Aggregate[groups=%d, aggs=%d]", len(a.GroupBy), len(a.Aggregates))
}

// WindowNode appends one column per window function, in order.
type WindowNode struct {
	BaseNode
	Child     Node
	Functions []window.Spec
}

func NewWindowNode(child Node, functions ...window.Spec) *WindowNode {
	return &WindowNode{BaseNode: newBase(), Child: child, Functions: functions}
}

func (w *WindowNode) GetNodeType() string { return "Window" }
func (w *WindowNode) GetChildren() []Node { return []Node{w.Child} }

func (w *WindowNode) String() string {
	names := make([]string, len(w.Functions))
	for i, f := range w.Functions {
		names[i] = f.Name()
	}
	return fmt.Sprintf("Window[%s]", strings.Join(names, ", "))
}

// SortNode orders its input.
type SortNode struct {
	BaseNode
	Child Node
	Keys  []execution.SortKey
}

func NewSortNode(child Node, keys ...execution.SortKey) *SortNode {
	return &SortNode{BaseNode: newBase(), Child: child, Keys: keys}
}

func (s *SortNode) GetNodeType() string { return "Sort" }
func (s *SortNode) GetChildren() []Node { return []Node{s.Child} }

func (s *SortNode) String() string {
	return fmt.Sprintf("Sort[%s]", execution.FormatKeys(s.Keys))
}

// ProjectNode selects and computes output columns.
type ProjectNode struct {
	BaseNode
	Child Node
	Items []query.ProjectItem
}

func NewProjectNode(child Node, items ...query.ProjectItem) *ProjectNode {
	return &ProjectNode{BaseNode: newBase(), Child: child, Items: items}
}

func (p *ProjectNode) GetNodeType() string { return "Project" }
func (p *ProjectNode) GetChildren() []Node { return []Node{p.Child} }

func (p *ProjectNode) String() string {
	return fmt.Sprintf("Project[columns=%d]", len(p.Items))
}

// LimitNode skips Offset rows, then passes at most Limit rows.
type LimitNode struct {
	BaseNode
	Child  Node
	Limit  int
	Offset int
}

func NewLimitNode(child Node, limit, offset int) *LimitNode {
	return &LimitNode{BaseNode: newBase(), Child: child, Limit: limit, Offset: offset}
}

func (l *LimitNode) GetNodeType() string { return "Limit" }
func (l *LimitNode) GetChildren() []Node { return []Node{l.Child} }

func (l *LimitNode) String() string {
	return fmt.Sprintf("Limit[limit=%d, offset=%d]", l.Limit, l.Offset)
}
