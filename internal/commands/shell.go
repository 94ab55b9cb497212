package commands

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"tasco/internal/auth"
	"tasco/internal/config"
	"tasco/internal/exitcode"
	"tasco/internal/nav"
	"tasco/internal/output"
	"tasco/internal/taskpage"
)

func init() {
	Register(&ShellCmd{})
}

// ShellCmd runs an interactive session that moves between the login, register
// and tasks pages. Each input line is one event.
type ShellCmd struct {
	base
	path string

	// In is read for input lines. Nil means stdin.
	In io.Reader
}

func (c *ShellCmd) Name() string       { return "shell" }
func (c *ShellCmd) Synopsis() string   { return "Interactive session" }
func (c *ShellCmd) Usage() string      { return "tasco shell [--path <route>]" }
func (c *ShellCmd) NeedsBackend() bool { return true }

func (c *ShellCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.path, "path", "", "")
}

func (c *ShellCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	in := c.In
	if in == nil {
		in = os.Stdin
	}

	path := c.path
	if path == "" {
		path = nav.Login.Path()
		if env.Session.Authenticated() {
			path = nav.Tasks.Path()
		}
	}

	sh := &shellSession{
		env:    env,
		out:    out,
		errOut: errOut,
		nav:    nav.NewShell(path, env.Session),
		notify: errNotifier{errOut},
	}
	sh.mount(ctx)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprintf(out, "%s> ", sh.nav.Page().Path())
		if !scanner.Scan() {
			fmt.Fprintln(out)
			break
		}
		if !sh.exec(ctx, scanner.Text()) {
			break
		}
		if ctx.Err() != nil {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(errOut, "error: failed to read input: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}

// shellSession holds the navigation shell and the state of the mounted page.
// Forms are recreated each time their page is entered.
type shellSession struct {
	env    *Env
	out    io.Writer
	errOut io.Writer
	nav    *nav.Shell
	notify errNotifier

	login    *auth.LoginForm
	register *auth.RegisterForm
	tasks    *taskpage.Page
}

// mount builds the state for the active page and shows it.
func (s *shellSession) mount(ctx context.Context) {
	s.login, s.register, s.tasks = nil, nil, nil

	page := s.nav.Page()
	fmt.Fprintf(s.out, "== %s ==\n", page.Label())
	s.printLinks()

	switch page {
	case nav.Login:
		s.login = auth.NewLoginForm(s.env.Service, s.env.Session, s.notify)
	case nav.Register:
		s.register = auth.NewRegisterForm(s.env.Service, s.notify)
	case nav.Tasks:
		s.tasks = taskpage.New(s.env.Service, s.notify)
		s.refresh(ctx)
	}
}

func (s *shellSession) navigate(ctx context.Context, p nav.Page) {
	s.nav.Navigate(p)
	s.mount(ctx)
}

func (s *shellSession) printLinks() {
	labels := make([]string, 0, 2)
	for _, l := range s.nav.Links() {
		if l.Active {
			labels = append(labels, "["+l.Label+"]")
		} else {
			labels = append(labels, l.Label)
		}
	}
	fmt.Fprintln(s.out, strings.Join(labels, "  "))
}

func (s *shellSession) refresh(ctx context.Context) {
	if err := s.tasks.Refresh(ctx); err != nil {
		s.env.Log.Debug().Err(err).Msg("refresh failed")
		return
	}
	output.RenderTasks(s.out, s.tasks.Tasks(), s.env.now())
}

// exec handles one input line and reports whether the session continues.
func (s *shellSession) exec(ctx context.Context, line string) bool {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "":
		return true
	case "quit", "exit":
		return false
	case "help", "?":
		s.help()
		return true
	case "go":
		if arg == "" {
			s.errorf("route required")
			return true
		}
		s.nav.NavigatePath(arg)
		s.mount(ctx)
		return true
	case "menu":
		if s.nav.ToggleMenu() == nav.Expanded {
			fmt.Fprintln(s.out, "menu: expanded")
			s.printLinks()
		} else {
			fmt.Fprintln(s.out, "menu: collapsed")
		}
		return true
	case "logout":
		if !s.hasLogoutLink() {
			break
		}
		if err := s.nav.Logout(); err != nil {
			s.errorf("failed to remove session: %v", err)
		}
		s.mount(ctx)
		return true
	}

	var handled bool
	switch s.nav.Page() {
	case nav.Login:
		handled = s.execLogin(ctx, cmd, arg)
	case nav.Register:
		handled = s.execRegister(ctx, cmd, arg)
	case nav.Tasks:
		handled = s.execTasks(ctx, cmd, arg)
	}
	if !handled {
		s.errorf("unknown command: %s (type help)", cmd)
	}
	return true
}

func (s *shellSession) execLogin(ctx context.Context, cmd, arg string) bool {
	switch cmd {
	case "email":
		s.login.SetEmail(arg)
	case "password":
		s.login.SetPassword(arg)
	case "submit":
		if s.env.Config.Settings.Backend == config.BackendGoogle {
			if oauthLogin(ctx, s.env, s.errOut) == nil {
				s.navigate(ctx, nav.Tasks)
			}
			return true
		}
		next, err := s.login.Submit(ctx)
		if err != nil {
			s.reportFormError(err, auth.ErrEmailRequired, auth.ErrPasswordRequired, auth.ErrSubmitting)
			return true
		}
		s.navigate(ctx, next)
	default:
		return false
	}
	return true
}

func (s *shellSession) execRegister(ctx context.Context, cmd, arg string) bool {
	switch cmd {
	case "email":
		s.register.SetEmail(arg)
	case "password":
		s.register.SetPassword(arg)
	case "confirm":
		s.register.SetConfirm(arg)
	case "submit":
		next, err := s.register.Submit(ctx)
		if err != nil {
			s.reportFormError(err, auth.ErrEmailRequired, auth.ErrPasswordRequired,
				auth.ErrConfirmRequired, auth.ErrPasswordMismatch, auth.ErrSubmitting)
			return true
		}
		fmt.Fprintln(s.out, "registered, please sign in")
		s.navigate(ctx, next)
	default:
		return false
	}
	return true
}

func (s *shellSession) execTasks(ctx context.Context, cmd, arg string) bool {
	form := s.tasks.Form()
	switch cmd {
	case "title":
		form.SetTitle(arg)
	case "desc", "description":
		form.SetDescription(arg)
	case "due":
		form.SetDueDate(arg)
	case "form":
		title, desc, due := form.Fields()
		fmt.Fprintf(s.out, "title: %s\ndescription: %s\ndue: %s\n", title, desc, due)
	case "add", "submit":
		if err := form.Submit(ctx); err != nil {
			s.reportFormError(err, taskpage.ErrTitleRequired, taskpage.ErrInvalidDueDate, taskpage.ErrSubmitting)
			return true
		}
		output.RenderTasks(s.out, s.tasks.Tasks(), s.env.now())
	case "rm", "delete":
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 {
			s.errorf("invalid task number: %s", arg)
			return true
		}
		task, ok := s.tasks.TaskAt(n)
		if !ok {
			s.errorf("no task %d", n)
			return true
		}
		if err := s.tasks.Delete(ctx, task.ID); err != nil {
			s.env.Log.Debug().Err(err).Msg("delete failed")
			return true
		}
		output.RenderTasks(s.out, s.tasks.Tasks(), s.env.now())
	case "list", "refresh":
		s.refresh(ctx)
	default:
		return false
	}
	return true
}

// reportFormError prints validation errors. Other errors were already notified.
func (s *shellSession) reportFormError(err error, validation ...error) {
	for _, v := range validation {
		if errors.Is(err, v) {
			s.errorf("%s", err)
			return
		}
	}
	s.env.Log.Debug().Err(err).Msg("submit failed")
}

func (s *shellSession) hasLogoutLink() bool {
	for _, l := range s.nav.Links() {
		if l.Logout {
			return true
		}
	}
	return false
}

func (s *shellSession) errorf(format string, args ...any) {
	fmt.Fprintf(s.errOut, "error: "+format+"\n", args...)
}

func (s *shellSession) help() {
	fmt.Fprintln(s.out, "go <route>  menu  help  quit")
	switch s.nav.Page() {
	case nav.Login:
		fmt.Fprintln(s.out, "email <e>  password <p>  submit")
	case nav.Register:
		fmt.Fprintln(s.out, "email <e>  password <p>  confirm <p>  submit")
	case nav.Tasks:
		fmt.Fprintln(s.out, "title <t>  desc <t>  due <YYYY-MM-DD>  form  add  rm <n>  refresh  logout")
	}
}
