package logger

import (
	"os"

	"log/slog"
)

// New builds the process-wide structured logger: JSON records on stdout with
// a service attribute on every line. Development environments log at debug,
// everything else at info.
func New(service, environment string) *slog.Logger {
	level := slog.LevelInfo
	if environment == "development" {
		level = slog.LevelDebug
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With("service", service)
}
