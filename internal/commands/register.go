package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"tasco/internal/auth"
	"tasco/internal/exitcode"
	"tasco/internal/service"
)

func init() {
	Register(&RegisterCmd{})
}

// RegisterCmd implements the register command.
type RegisterCmd struct {
	base
	email    string
	password string
	confirm  string

	// In is read for prompts. Nil means stdin.
	In io.Reader
}

func (c *RegisterCmd) Name() string     { return "register" }
func (c *RegisterCmd) Synopsis() string { return "Create an account" }
func (c *RegisterCmd) Usage() string {
	return "tasco register [--email <e>] [--password <p>] [--confirm <p>]"
}
func (c *RegisterCmd) NeedsBackend() bool { return true }

func (c *RegisterCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.password, "password", "", "")
	fs.StringVar(&c.confirm, "confirm", "", "")
}

func (c *RegisterCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	p := newPrompter(c.In, errOut)
	email, password, confirm := c.email, c.password, c.confirm
	var err error
	if email == "" {
		email, err = p.line("Email")
	}
	if err == nil && password == "" {
		password, err = p.secret("Password")
	}
	if err == nil && confirm == "" {
		confirm, err = p.secret("Confirm password")
	}
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}

	form := auth.NewRegisterForm(env.Service, errNotifier{errOut})
	form.SetEmail(email)
	form.SetPassword(password)
	form.SetConfirm(confirm)

	if _, err := form.Submit(ctx); err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailRequired), errors.Is(err, auth.ErrPasswordRequired),
			errors.Is(err, auth.ErrConfirmRequired), errors.Is(err, auth.ErrPasswordMismatch):
			fmt.Fprintf(errOut, "error: %s\n", err)
			return exitcode.UserError
		case errors.Is(err, service.ErrUnsupported):
			fmt.Fprintf(errOut, "error: the %s backend does not support registration\n", env.Config.Settings.Backend)
			return exitcode.UserError
		}
		env.Log.Debug().Err(err).Msg("registration failed")
		return exitcode.BackendError
	}

	if !env.Config.Quiet {
		fmt.Fprintln(out, "ok (run: tasco login)")
	}
	return exitcode.Success
}
