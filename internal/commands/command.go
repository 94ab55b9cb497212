// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"tasco/internal/config"
	"tasco/internal/exitcode"
	"tasco/internal/service"
	"tasco/internal/session"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsAuth returns true if the command requires a stored session.
	// Implies NeedsBackend.
	NeedsAuth() bool

	// NeedsBackend returns true if the command talks to the API.
	NeedsBackend() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command and returns the exit code.
	Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int
}

// Env is what a command runs against.
type Env struct {
	Config  *config.Config
	Session *session.Store

	// Service is nil unless the command needs the backend.
	Service service.Service

	Log zerolog.Logger

	// Now is the clock used for due labels. Nil means time.Now.
	Now func() time.Time
}

func (e *Env) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// base supplies defaults shared by most commands.
type base struct{}

func (base) Aliases() []string              { return nil }
func (base) NeedsAuth() bool                { return false }
func (base) NeedsBackend() bool             { return false }
func (base) RegisterFlags(fs *flag.FlagSet) {}

// errNotifier writes notifications as error lines.
type errNotifier struct{ w io.Writer }

func (n errNotifier) Notify(msg string) { fmt.Fprintf(n.w, "error: %s\n", msg) }

// failure reports a backend failure that was already notified and picks the exit code.
func failure(env *Env, errOut io.Writer, op string, err error) int {
	env.Log.Debug().Err(err).Str("op", op).Msg("operation failed")
	if errors.Is(err, service.ErrUnauthorized) {
		fmt.Fprintln(errOut, "error: session rejected (run: tasco login)")
		return exitcode.AuthError
	}
	return exitcode.BackendError
}
