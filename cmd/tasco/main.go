// Package main is the entry point for the tasco CLI.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"tasco/internal/backend/googletasks"
	"tasco/internal/backend/restapi"
	"tasco/internal/cli"
	"tasco/internal/commands"
	"tasco/internal/config"
	"tasco/internal/service"
	"tasco/internal/session"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, newService)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// newService builds the backend named in the settings.
func newService(ctx context.Context, cfg *config.Config, store *session.Store, log zerolog.Logger) (service.Service, error) {
	if cfg.Settings.Backend == config.BackendGoogle {
		c, err := googletasks.New(ctx, cfg, store, log)
		if errors.Is(err, googletasks.ErrNoOAuthClient) {
			return nil, &cli.SetupError{Err: err, Help: googletasks.SetupHelp(cfg.Dir)}
		}
		if err != nil {
			return nil, err
		}
		return c, nil
	}

	c, err := restapi.New(cfg, store, log)
	if err != nil {
		return nil, err
	}
	return c, nil
}
