package commands

import (
	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/ozzie-core/internal/config"
)

// NewRootCommand returns the top-level CLI command.
func NewRootCommand(version, commit string) *cli.Command {
	return &cli.Command{
		Name:    "ozzie-orchestrator",
		Usage:   "Voice-driven task orchestration runtime (demo CLI)",
		Version: version + " (" + commit + ")",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:       "config",
				Aliases:    []string{"c"},
				Usage:      "Path to config file",
				Value:      config.ConfigPath(),
				Persistent: true,
			},
			&cli.BoolFlag{
				Name:       "debug",
				Usage:      "Enable debug logging",
				Persistent: true,
			},
		},
		Commands: []*cli.Command{
			NewSubmitCommand(),
			NewDemoCommand(),
			NewStatusCommand(),
			NewServeCommand(),
			NewSecretsCommand(),
		},
	}
}
