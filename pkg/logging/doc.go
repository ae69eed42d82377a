// Package logging holds relcore's process-wide [log/slog] logger.
//
// The CLI installs it once from configuration with Init; everything else
// asks for it through GetLogger or one of the context helpers, which add a
// fixed field to every line:
//
//	log := logging.WithQuery(name)          // query=<name>
//	log := logging.WithOperator(op, nodeID) // operator=<op> node=<id>
//	log := logging.WithRelation(name)       // relation=<name>
//
// Until Init runs, GetLogger falls back to INFO-level text on stderr, so
// library code and tests can log without setup.
package logging
