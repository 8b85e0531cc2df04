package alloc

import (
	"io"
	"log/slog"
	"os"
)

// LogEnv names the environment variable that switches engine logging on.
// Any non-empty value sends debug records to stderr.
const LogEnv = "ALLOC_LOG"

// DefaultLogger returns the logger engines use when none is configured:
// a stderr debug logger when LogEnv is set, otherwise a discarding one.
func DefaultLogger() *slog.Logger {
	if os.Getenv(LogEnv) != "" {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
