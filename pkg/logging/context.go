package logging

import (
	"log/slog"
)

// WithQuery creates a logger with query context.
// Use this to tag every log line of one query execution.
//
// Example:
//
//	log := logging.WithQuery("sales_by_region")
//	log.Info("query finished", "rows", n)
func WithQuery(name string) *slog.Logger {
	return GetLogger().With("query", name)
}

// WithOperator creates a logger with operator context.
//
// Example:
//
//	log := logging.WithOperator("HashJoin", nodeID)
//	log.Debug("build side materialized", "rows", len(rows))
func WithOperator(op, nodeID string) *slog.Logger {
	if nodeID == "" {
		return GetLogger().With("operator", op)
	}
	return GetLogger().With("operator", op, "node", nodeID)
}

// WithRelation creates a logger with relation context.
// Use this for workbook loading and catalog registration.
func WithRelation(name string) *slog.Logger {
	return GetLogger().With("relation", name)
}

// WithComponent creates a logger with component/subsystem context.
//
// Example:
//
//	log := logging.WithComponent("runner")
//	log.Info("component initialized")
func WithComponent(component string) *slog.Logger {
	return GetLogger().With("component", component)
}

// WithError creates a logger with error context.
// Use this when logging errors to include the error in structured format.
//
// Example:
//
//	log := logging.WithError(err)
//	log.Error("query failed", "query", name)
func WithError(err error) *slog.Logger {
	return GetLogger().With("error", err.Error())
}
