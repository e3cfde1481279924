// Package corelog provides leveled structured logging tagged by subsystem,
// wrapping log/slog the way the rest of ozzie configures its default logger.
package corelog

import (
	"log/slog"
	"os"
)

// Setup installs a text-handler slog default logger at the given level.
// Mirrors cmd/commands' slog.SetDefault(slog.New(slog.NewTextHandler(...)))
// wiring, so the orchestration runtime and its host CLI share one format.
func Setup(level slog.Level) {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// For returns a logger tagged with the given subsystem name, so every log
// line a component emits can be filtered/grepped by subsystem.
func For(subsystem string) *slog.Logger {
	return slog.Default().With("subsystem", subsystem)
}
