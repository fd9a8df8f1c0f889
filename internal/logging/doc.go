// Package logging builds slog loggers from configuration and provides
// the shared attribute helpers used across pipeline stages.
package logging
