package logging

import (
	"log/slog"

	"github.com/go-logr/logr"
)

// Logr adapts an slog.Logger to the logr.Logger interface.
// Libraries that report internal errors through logr (notably the
// OpenTelemetry SDK via otel.SetLogger) can be pointed at the same
// structured log stream as the rest of the application.
// If logger is nil, slog.Default() is used.
func Logr(logger *slog.Logger) logr.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return logr.FromSlogHandler(logger.Handler())
}
