package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Init installs the process-wide slog logger. Session and relay internals log
// through slog; user-facing output goes through internal/ui instead, so the
// default level hides everything below errors and keeps the call screen clean.
func Init() {
	slog.SetDefault(slog.New(
		slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: levelFromEnv(os.Getenv("ALGOCALL_LOG_LEVEL")),
		}),
	))
}

// levelFromEnv maps an ALGOCALL_LOG_LEVEL value onto a slog level.
// Unrecognized or empty values fall back to errors-only.
func levelFromEnv(value string) slog.Level {
	switch strings.ToLower(value) {
	case "debug", "dev", "development":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
