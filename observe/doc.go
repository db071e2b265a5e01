// Package observe provides structured logging, metrics, and tracing for the
// budgeting tool service.
//
// It wires OpenTelemetry tracing and metrics behind a single Observer with
// noop fallbacks, registers gauge-style cache statistics, and provides a
// JSON structured logger with credential redaction.
package observe
