package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/ozzie-core/internal/config"
	"github.com/dohr-michael/ozzie-core/internal/corelog"
	"github.com/dohr-michael/ozzie-core/internal/sdk"
	"github.com/dohr-michael/ozzie-core/internal/sdk/httpapi"
)

// NewServeCommand runs the HTTP/WebSocket facade against a file-loaded
// config, reloading the config on SIGHUP. Grounded on the teacher's
// cmd/commands/gateway.go (config.Load(configPath) → build runtime →
// serve), extended with config.Reloader's listener contract so an
// operator can rotate the AI classifier's apiKey without restarting the
// process.
func NewServeCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Run the HTTP/WebSocket facade, reloading config on SIGHUP",
		Action: runServe,
	}
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")
	log := corelog.For("serve")

	cfg, err := loadConfigDecrypted(path)
	if err != nil {
		return fmt.Errorf("serve: %w", err)
	}

	s, err := sdk.New(sdk.Options{Config: *cfg})
	if err != nil {
		return fmt.Errorf("serve: construct sdk: %w", err)
	}
	defer s.Close()

	reloader := config.NewReloader(path, config.DotenvPath(), cfg)
	reloader.OnReload(func(next *config.Config) {
		log.Info("config reloaded", "classifier_mode", next.Classifier.Mode)
	})

	sighup := make(chan os.Signal, 1)
	signal.Notify(sighup, syscall.SIGHUP)
	defer signal.Stop(sighup)
	go func() {
		for range sighup {
			if err := reloader.Reload(); err != nil {
				log.Error("config reload failed", "error", err)
			}
		}
	}()

	srv := httpapi.NewServer(s, cfg.HTTP.Host, cfg.HTTP.Port)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("shutdown error", "error", err)
		}
	}()

	return srv.Start()
}
