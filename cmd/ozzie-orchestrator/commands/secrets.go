package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/ozzie-core/internal/config"
	"github.com/dohr-michael/ozzie-core/internal/secrets"
)

// NewSecretsCommand returns the secrets subcommand. Grounded on the
// teacher's internal/plugins.SetSecretTool: decrypt an ENC[age:...] blob,
// write the plaintext into .env, then hot-reload the config so it takes
// effect without a restart. The teacher exposes that sequence as an
// agent-invoked tool; this module ships no plugin host, so it is exposed
// here as a CLI command instead.
func NewSecretsCommand() *cli.Command {
	return &cli.Command{
		Name:  "secrets",
		Usage: "Manage encrypted secrets stored in .env",
		Commands: []*cli.Command{
			{
				Name:      "set",
				Usage:     "Decrypt an ENC[age:...] value, store it in .env, and hot-reload config",
				ArgsUsage: "<NAME> <ENC[age:...]>",
				Action:    runSecretsSet,
			},
		},
	}
}

func runSecretsSet(_ context.Context, cmd *cli.Command) error {
	name := cmd.Args().Get(0)
	value := cmd.Args().Get(1)
	if name == "" || value == "" {
		return fmt.Errorf("usage: ozzie-orchestrator secrets set <NAME> <ENC[age:...]>")
	}
	if !secrets.IsEncrypted(value) {
		return fmt.Errorf("secrets set: value must be encrypted (ENC[age:...] format)")
	}

	identity, err := secrets.LoadIdentity(secrets.KeyPath())
	if err != nil {
		return fmt.Errorf("secrets set: load age identity: %w", err)
	}
	plaintext, err := secrets.Decrypt(value, identity)
	if err != nil {
		return fmt.Errorf("secrets set: decrypt: %w", err)
	}

	if err := secrets.SetEntry(config.DotenvPath(), name, plaintext); err != nil {
		return fmt.Errorf("secrets set: write .env: %w", err)
	}

	path := cmd.String("config")
	cfg, err := loadConfigDecrypted(path)
	if err != nil {
		return fmt.Errorf("secrets set: %w", err)
	}
	reloader := config.NewReloader(path, config.DotenvPath(), cfg)
	if err := reloader.Reload(); err != nil {
		return fmt.Errorf("secrets set: reload config: %w", err)
	}

	fmt.Printf("stored %s in .env, config reloaded from %s\n", name, path)
	return nil
}
