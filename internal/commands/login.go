package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"tasco/internal/auth"
	"tasco/internal/config"
	"tasco/internal/exitcode"
	"tasco/internal/service"
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command. Missing credentials are prompted for.
type LoginCmd struct {
	base
	email    string
	password string

	// In is read for prompts. Nil means stdin.
	In io.Reader
}

func (c *LoginCmd) Name() string       { return "login" }
func (c *LoginCmd) Synopsis() string   { return "Sign in and store the session" }
func (c *LoginCmd) Usage() string      { return "tasco login [--email <e>] [--password <p>]" }
func (c *LoginCmd) NeedsBackend() bool { return true }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.password, "password", "", "")
}

func (c *LoginCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if env.Session.Authenticated() {
		if !env.Config.Quiet {
			fmt.Fprintln(out, "already logged in")
		}
		return exitcode.Success
	}

	if env.Config.Settings.Backend == config.BackendGoogle {
		return c.runOAuth(ctx, env, out, errOut)
	}

	p := newPrompter(c.In, errOut)
	email, password := c.email, c.password
	var err error
	if email == "" {
		if email, err = p.line("Email"); err != nil {
			fmt.Fprintf(errOut, "error: %s\n", err)
			return exitcode.UserError
		}
	}
	if password == "" {
		if password, err = p.secret("Password"); err != nil {
			fmt.Fprintf(errOut, "error: %s\n", err)
			return exitcode.UserError
		}
	}

	form := auth.NewLoginForm(env.Service, env.Session, errNotifier{errOut})
	form.SetEmail(email)
	form.SetPassword(password)

	if _, err := form.Submit(ctx); err != nil {
		if errors.Is(err, auth.ErrEmailRequired) || errors.Is(err, auth.ErrPasswordRequired) {
			fmt.Fprintf(errOut, "error: %s\n", err)
			return exitcode.UserError
		}
		env.Log.Debug().Err(err).Msg("login failed")
		return exitcode.AuthError
	}

	if !env.Config.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// runOAuth signs in through the browser. There are no credentials to ask for.
func (c *LoginCmd) runOAuth(ctx context.Context, env *Env, out, errOut io.Writer) int {
	if err := oauthLogin(ctx, env, errOut); err != nil {
		return exitcode.AuthError
	}
	if !env.Config.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// oauthLogin runs the backend's browser flow and stores the session.
func oauthLogin(ctx context.Context, env *Env, errOut io.Writer) error {
	sess, err := env.Service.Login(ctx, service.Credentials{})
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", auth.MsgLoginFailed)
		env.Log.Debug().Err(err).Msg("oauth login failed")
		return err
	}
	if err := env.Session.Set(sess); err != nil {
		fmt.Fprintf(errOut, "error: failed to save session: %v\n", err)
		return err
	}
	return nil
}
