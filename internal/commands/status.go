package commands

import (
	"context"
	"fmt"
	"io"

	"tasco/internal/config"
	"tasco/internal/exitcode"
)

func init() {
	Register(&StatusCmd{})
}

// StatusCmd prints the backend and who is signed in. It never contacts the backend.
type StatusCmd struct{ base }

func (c *StatusCmd) Name() string      { return "status" }
func (c *StatusCmd) Aliases() []string { return []string{"whoami"} }
func (c *StatusCmd) Synopsis() string  { return "Show session and backend" }
func (c *StatusCmd) Usage() string     { return "tasco status [common flags]" }

func (c *StatusCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	s := env.Config.Settings
	if s.Backend == config.BackendAPI {
		fmt.Fprintf(out, "backend: %s (%s)\n", s.Backend, s.APIURL)
	} else {
		fmt.Fprintf(out, "backend: %s\n", s.Backend)
	}

	switch {
	case !env.Session.Authenticated():
		fmt.Fprintln(out, "session: not logged in")
	case env.Session.Subject() != "":
		fmt.Fprintf(out, "session: logged in as %s\n", env.Session.Subject())
	default:
		fmt.Fprintln(out, "session: logged in")
	}
	return exitcode.Success
}
