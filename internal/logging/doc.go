// Package logging assembles the structured slog loggers used by lidarcal.
//
// It owns the console and JSON handlers, level parsing and output routing,
// plus the attribute helpers and standard field keys (component, file,
// channel, tag, line) that let parser and calibration code tag log lines
// consistently. NewNop provides a discard logger for tests and for callers
// that pass no logger.
//
// Prefer these constructors over hand-rolled slog setup so every command
// emits records with the same shape.
package logging
