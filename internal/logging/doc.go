// Package logging assembles structured slog loggers and formatting helpers used
// across lgd-hemis.
//
// It owns the console/JSON handlers, centralizes level and output plumbing,
// and exposes context-aware helpers so the batch and per-subject code tag log
// lines with the run identifier and subject directory. The package also
// provides a no-op logger for tests and wiring code that cannot fail.
package logging
