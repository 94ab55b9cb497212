package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"

	"tasco/internal/exitcode"
	"tasco/internal/taskpage"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command. Tasks are addressed by the number shown in
// `tasco list` or by ID.
type RmCmd struct {
	base
	id string
}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Delete a task" }
func (c *RmCmd) Usage() string     { return "tasco rm <n> | tasco rm --id <id>" }
func (c *RmCmd) NeedsAuth() bool   { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.id, "id", "", "")
}

func (c *RmCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if c.id != "" && len(args) > 0 {
		fmt.Fprintln(errOut, "error: use either a task number or --id")
		return exitcode.UserError
	}
	if c.id == "" && len(args) != 1 {
		fmt.Fprintln(errOut, "error: task number required")
		return exitcode.UserError
	}

	page := taskpage.New(env.Service, errNotifier{errOut})

	id := c.id
	if id == "" {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			fmt.Fprintf(errOut, "error: invalid task number: %s\n", args[0])
			return exitcode.UserError
		}
		if err := page.Refresh(ctx); err != nil {
			return failure(env, errOut, "rm", err)
		}
		task, ok := page.TaskAt(n)
		if !ok {
			fmt.Fprintf(errOut, "error: no task %d\n", n)
			return exitcode.UserError
		}
		id = task.ID
	}

	if err := page.Delete(ctx, id); err != nil {
		return failure(env, errOut, "rm", err)
	}

	if !env.Config.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
