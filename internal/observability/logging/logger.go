package logging

import (
	"log/slog"
	"os"
	"strings"
)

// NewJSONLogger builds the shared slog logger for a binary. The api and
// worker processes log to the same stream shape, distinguished by the
// service attribute.
func NewJSONLogger(service, level string) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(level),
	})
	return slog.New(handler).With("service", service)
}

// parseLevel is forgiving: an unknown LOG_LEVEL falls back to info
// rather than failing startup.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
