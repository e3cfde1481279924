// Command ozzie-orchestrator is a demonstration CLI over the task
// orchestration runtime (spec §4.10's SDK Facade): it wires a small set of
// sample actions, agents, queues, and routing rules, then exposes the
// submit, demo, status, serve, and secrets subcommands. Grounded on the
// teacher's cmd/ozzie/main.go + cmd/commands/root.go construct-and-run
// shape.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/dohr-michael/ozzie-core/cmd/ozzie-orchestrator/commands"
	"github.com/dohr-michael/ozzie-core/internal/config"
)

// Set by goreleaser ldflags.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	if err := config.LoadDotenv(config.DotenvPath()); err != nil {
		slog.Warn("failed to load .env", "error", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cmd := commands.NewRootCommand(version, commit)
	if err := cmd.Run(ctx, os.Args); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}
