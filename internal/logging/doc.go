// Package logging builds the slog loggers used throughout showdrop.
//
// Two output formats are supported: a compact console format for interactive
// use and JSON for log ingestion. Components obtain scoped loggers through
// NewComponentLogger so every line carries a component attribute, and update
// handlers thread a correlation identifier through the context so all log
// lines for one inbound update can be grouped.
package logging
