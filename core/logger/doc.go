// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments (development vs production)
// and integrates seamlessly with the Fiber web framework.
//
// # Context Awareness
//
// The logger is context-aware in two dimensions. WithRayID extracts the RayID
// (request ID) from a Fiber context and attaches it to the log entry, so all logs
// related to a specific request can be correlated. WithRun attaches the
// reconciliation run ID, so all logs produced by one run can be correlated across
// the fetch, lookup, and write phases.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Encoding: json (production) or console (development)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Server started")
//
//	// In a request handler:
//	l := logger.WithRayID(log, c)
//	l.Error("Handler failed", zap.Error(err))
package logger
