package execution

import (
	"log/slog"

	dberror "relcore/pkg/error"
	"relcore/pkg/logging"
	"relcore/pkg/tuple"
)

// Label identifies an operator instance in errors and logs. Operators embed
// it; the plan binder assigns the node id.
type Label struct {
	nodeID string
}

// SetNodeID records the plan node the operator was built from.
func (l *Label) SetNodeID(id string) {
	l.nodeID = id
}

// NodeID returns the plan node id, or "" when the operator was built
// directly.
func (l *Label) NodeID() string {
	return l.nodeID
}

// Logger returns a logger tagged with the operator name and node id.
func (l *Label) Logger(op string) *slog.Logger {
	return logging.WithOperator(op, l.nodeID)
}

// RowError attaches the operator, node id and offending row to err. The
// first operator to see a row error records it; outer operators only fill
// in what is missing.
func (l *Label) RowError(err error, op string, ordinal int, row *tuple.Tuple) error {
	if row == nil {
		return dberror.WithRow(err, op, l.nodeID, ordinal, nil)
	}
	return dberror.WithRow(err, op, l.nodeID, ordinal, row)
}
