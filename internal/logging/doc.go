// Package logging provides slog-based structured logging for spacedrive.
//
// It exposes a console handler for interactive use, a JSON handler for log
// files, attr helpers so call sites avoid importing log/slog directly, and
// context plumbing that threads job and location identifiers through
// whatever code a job touches.
package logging
