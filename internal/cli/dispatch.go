// Package cli parses the command line and runs commands against a configured backend.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"tasco/internal/commands"
	"tasco/internal/config"
	"tasco/internal/exitcode"
	"tasco/internal/logging"
	"tasco/internal/service"
	"tasco/internal/session"
)

// ServiceFactory creates the backend for a command.
// Used to inject the backend during dispatch.
type ServiceFactory func(ctx context.Context, cfg *config.Config, store *session.Store, log zerolog.Logger) (service.Service, error)

// SetupError is a backend setup failure that comes with instructions for the user.
type SetupError struct {
	Err  error
	Help string
}

func (e *SetupError) Error() string { return e.Err.Error() }
func (e *SetupError) Unwrap() error { return e.Err }

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory

	// Now is passed to commands as their clock. Nil means time.Now.
	Now func() time.Time
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		cmd, ok := d.registry.Default()
		if !ok {
			fmt.Fprintln(errOut, "error: no command given")
			return exitcode.UserError
		}
		return d.dispatch(ctx, cmd, nil, out, errOut)
	}

	name := args[0]

	// Flags require a command
	if strings.HasPrefix(name, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", name)
		return exitcode.UserError
	}

	cmd, ok := d.registry.Find(name)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", name)
		return exitcode.UserError
	}
	return d.dispatch(ctx, cmd, args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var configDir string
	var quiet, debug bool
	fs.StringVar(&configDir, "config", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", flagError(err))
		return exitcode.UserError
	}

	positional := fs.Args()
	if len(positional) > 0 && strings.HasPrefix(positional[0], "-") && positional[0] != "-" {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positional[0])
		return exitcode.UserError
	}

	cfg, err := config.New(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug

	log := logging.New(errOut, cfg.Settings.LogLevel, debug).
		With().Str("cmd", cmd.Name()).Logger()

	store := session.NewStore(cfg.SessionPath())
	if err := store.Init(); err != nil {
		if !errors.Is(err, session.ErrCorrupt) {
			fmt.Fprintf(errOut, "error: %s\n", err)
			return exitcode.AuthError
		}
		log.Warn().Err(err).Msg("ignoring session file (run: tasco login)")
	}

	if cmd.NeedsAuth() && !store.Authenticated() {
		fmt.Fprintln(errOut, "error: not logged in (run: tasco login)")
		return exitcode.AuthError
	}

	env := &commands.Env{Config: cfg, Session: store, Log: log, Now: d.Now}

	if cmd.NeedsAuth() || cmd.NeedsBackend() {
		svc, err := d.factory(ctx, cfg, store, log)
		if err != nil {
			return backendSetupFailure(err, errOut)
		}
		env.Service = svc
	}

	log.Debug().Strs("args", positional).Str("backend", cfg.Settings.Backend).Msg("dispatch")
	return cmd.Run(ctx, env, positional, out, errOut)
}

// flagError rewrites flag package errors into the CLI's wording.
func flagError(err error) string {
	msg := err.Error()
	switch {
	case strings.HasPrefix(msg, "flag needs an argument: "):
		return msg
	case strings.HasPrefix(msg, "flag provided but not defined: "):
		return "unknown flag: " + strings.TrimPrefix(msg, "flag provided but not defined: ")
	}
	return msg
}

func backendSetupFailure(err error, errOut io.Writer) int {
	var setup *SetupError
	if errors.As(err, &setup) {
		fmt.Fprintf(errOut, "error: %s\n\n%s", setup.Err, setup.Help)
		return exitcode.AuthError
	}
	if errors.Is(err, service.ErrUnauthorized) {
		fmt.Fprintf(errOut, "error: auth error: %s\n", err)
		return exitcode.AuthError
	}
	fmt.Fprintf(errOut, "error: backend error: %s\n", err)
	return exitcode.BackendError
}
