// Package auth holds the login and registration forms.
//
// Forms only check that fields are present; credentials are validated by the
// backend. A successful login persists the session and leads to the task page,
// a successful registration leads to the login page.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"tasco/internal/nav"
	"tasco/internal/service"
	"tasco/internal/session"
)

// Notification texts shown to the user.
const (
	MsgLoginFailed    = "Login failed"
	MsgRegisterFailed = "Registration failed"
)

var (
	ErrEmailRequired    = errors.New("email required")
	ErrPasswordRequired = errors.New("password required")
	ErrConfirmRequired  = errors.New("password confirmation required")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrSubmitting       = errors.New("submission in progress")
)

// Notifier surfaces a blocking failure message to the user.
type Notifier interface {
	Notify(msg string)
}

// SessionSetter is the part of the session store a login needs.
type SessionSetter interface {
	Set(sess session.Session) error
}

type fields struct {
	mu         sync.Mutex
	email      string
	password   string
	confirm    string
	submitting bool
}

func (f *fields) set(field *string, s string) {
	f.mu.Lock()
	*field = s
	f.mu.Unlock()
}

func (f *fields) begin() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitting {
		return ErrSubmitting
	}
	f.submitting = true
	return nil
}

func (f *fields) end() {
	f.mu.Lock()
	f.submitting = false
	f.mu.Unlock()
}

func (f *fields) credentials() (service.Credentials, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	email := strings.TrimSpace(f.email)
	if email == "" {
		return service.Credentials{}, ErrEmailRequired
	}
	if f.password == "" {
		return service.Credentials{}, ErrPasswordRequired
	}
	return service.Credentials{Email: email, Password: f.password}, nil
}

func (f *fields) clearSecrets() {
	f.mu.Lock()
	f.password, f.confirm = "", ""
	f.mu.Unlock()
}

// LoginForm exchanges email and password for a session.
type LoginForm struct {
	fields
	svc    service.AuthService
	store  SessionSetter
	notify Notifier
}

// NewLoginForm creates an empty login form.
func NewLoginForm(svc service.AuthService, store SessionSetter, notify Notifier) *LoginForm {
	return &LoginForm{svc: svc, store: store, notify: notify}
}

func (f *LoginForm) SetEmail(s string)    { f.set(&f.email, s) }
func (f *LoginForm) SetPassword(s string) { f.set(&f.password, s) }

// Submit logs in. It returns the page to show next: Tasks on success, Login otherwise.
func (f *LoginForm) Submit(ctx context.Context) (nav.Page, error) {
	creds, err := f.credentials()
	if err != nil {
		return nav.Login, err
	}
	if err := f.begin(); err != nil {
		return nav.Login, err
	}
	defer f.end()

	sess, err := f.svc.Login(ctx, creds)
	if err != nil {
		f.notify.Notify(MsgLoginFailed)
		return nav.Login, fmt.Errorf("login failed: %w", err)
	}
	if err := f.store.Set(sess); err != nil {
		f.notify.Notify(MsgLoginFailed)
		return nav.Login, err
	}

	f.clearSecrets()
	return nav.Tasks, nil
}

// RegisterForm creates an account.
type RegisterForm struct {
	fields
	svc    service.AuthService
	notify Notifier
}

// NewRegisterForm creates an empty registration form.
func NewRegisterForm(svc service.AuthService, notify Notifier) *RegisterForm {
	return &RegisterForm{svc: svc, notify: notify}
}

func (f *RegisterForm) SetEmail(s string)    { f.set(&f.email, s) }
func (f *RegisterForm) SetPassword(s string) { f.set(&f.password, s) }
func (f *RegisterForm) SetConfirm(s string)  { f.set(&f.confirm, s) }

// Submit registers. It returns Login on success and Register otherwise.
// Nothing is persisted locally either way.
func (f *RegisterForm) Submit(ctx context.Context) (nav.Page, error) {
	creds, err := f.credentials()
	if err != nil {
		return nav.Register, err
	}
	if err := f.checkConfirm(); err != nil {
		return nav.Register, err
	}
	if err := f.begin(); err != nil {
		return nav.Register, err
	}
	defer f.end()

	if err := f.svc.Register(ctx, creds); err != nil {
		f.notify.Notify(MsgRegisterFailed)
		return nav.Register, fmt.Errorf("registration failed: %w", err)
	}

	f.clearSecrets()
	return nav.Login, nil
}

func (f *RegisterForm) checkConfirm() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.confirm == "" {
		return ErrConfirmRequired
	}
	if f.confirm != f.password {
		return ErrPasswordMismatch
	}
	return nil
}
