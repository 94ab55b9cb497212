package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"tasco/internal/exitcode"
	"tasco/internal/taskpage"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	base
	description string
	due         string
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "tasco add [--description <text>] [--due <YYYY-MM-DD>] <title...>"
}
func (c *AddCmd) NeedsAuth() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.description, "description", "", "")
	fs.StringVar(&c.description, "d", "", "")
	fs.StringVar(&c.due, "due", "", "")
}

func (c *AddCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	page := taskpage.New(env.Service, errNotifier{errOut})
	form := page.Form()
	form.SetTitle(strings.Join(args, " "))
	form.SetDescription(c.description)
	form.SetDueDate(c.due)

	err := form.Submit(ctx)
	switch {
	case err == nil:
	case errors.Is(err, taskpage.ErrTitleRequired), errors.Is(err, taskpage.ErrInvalidDueDate):
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	default:
		return failure(env, errOut, "add", err)
	}

	if !env.Config.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
