package commands

import (
	"context"
	"fmt"
	"io"

	"tasco/internal/exitcode"
	"tasco/internal/output"
	"tasco/internal/taskpage"
)

func init() {
	Register(&ListCmd{})
	DefaultRegistry.SetDefault("list")
}

// ListCmd implements the list command. It is also what `tasco` runs with no args.
type ListCmd struct{ base }

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string     { return "tasco list [common flags]" }
func (c *ListCmd) NeedsAuth() bool   { return true }

func (c *ListCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	page := taskpage.New(env.Service, errNotifier{errOut})
	if err := page.Refresh(ctx); err != nil {
		return failure(env, errOut, "list", err)
	}

	tasks := page.Tasks()
	if len(tasks) == 0 && env.Config.Quiet {
		return exitcode.Success
	}
	output.RenderTasks(out, tasks, env.now())
	return exitcode.Success
}
