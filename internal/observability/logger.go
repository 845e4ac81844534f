// Package observability wires structured logging for the server.
package observability

import (
	"log/slog"
	"os"
)

// NewLogger builds the process logger: JSON in prod, text in dev, with the
// instance mode attached to every line.
func NewLogger(mode string) *slog.Logger {
	level := slog.LevelInfo
	if mode != "prod" {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	if mode == "prod" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}
	return slog.New(handler).With("mode", mode)
}

// SetDefault installs the logger as the process default so package-level
// slog calls inherit it.
func SetDefault(logger *slog.Logger) {
	slog.SetDefault(logger)
}
