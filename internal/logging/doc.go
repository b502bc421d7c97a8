// Package logging assembles structured slog loggers and formatting helpers used
// across xtor.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so feed API calls are tagged with
// their correlation IDs and feed URLs. The package also provides a no-op
// logger for tests and wiring code that cannot fail.
package logging
