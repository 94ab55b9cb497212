package auth_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"tasco/internal/auth"
	"tasco/internal/nav"
	"tasco/internal/session"
	"tasco/internal/testutil"
)

type recorder struct{ msgs []string }

func (r *recorder) Notify(msg string) { r.msgs = append(r.msgs, msg) }

func newStore(t *testing.T) *session.Store {
	t.Helper()
	return session.NewStore(filepath.Join(t.TempDir(), "session.json"))
}

func TestLogin_Success(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser("ada@example.com", "hunter22")
	store := newStore(t)
	form := auth.NewLoginForm(svc, store, &recorder{})
	form.SetEmail("  ada@example.com ")
	form.SetPassword("hunter22")

	next, err := form.Submit(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != nav.Tasks {
		t.Errorf("expected tasks page, got %v", next)
	}
	if !store.Authenticated() || store.Current().Token != "token-ada@example.com" {
		t.Errorf("expected stored session, got %+v", store.Current())
	}
}

func TestLogin_FailureLeavesSessionAbsent(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser("ada@example.com", "hunter22")
	store := newStore(t)
	notes := &recorder{}
	form := auth.NewLoginForm(svc, store, notes)
	form.SetEmail("ada@example.com")
	form.SetPassword("wrong")

	next, err := form.Submit(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if next != nav.Login {
		t.Errorf("expected to stay on login, got %v", next)
	}
	if store.Authenticated() {
		t.Error("session must stay absent")
	}
	if len(notes.msgs) != 1 || notes.msgs[0] != auth.MsgLoginFailed {
		t.Errorf("unexpected notifications: %v", notes.msgs)
	}

	// Nothing persisted either: a fresh store sees no session.
	reloaded := session.NewStore(store.Path())
	if err := reloaded.Init(); err != nil || reloaded.Authenticated() {
		t.Errorf("expected no persisted session, got %v", err)
	}
}

func TestLogin_PresenceChecks(t *testing.T) {
	svc := testutil.NewFakeService()
	form := auth.NewLoginForm(svc, newStore(t), &recorder{})

	if _, err := form.Submit(context.Background()); !errors.Is(err, auth.ErrEmailRequired) {
		t.Errorf("expected ErrEmailRequired, got %v", err)
	}
	form.SetEmail("ada@example.com")
	if _, err := form.Submit(context.Background()); !errors.Is(err, auth.ErrPasswordRequired) {
		t.Errorf("expected ErrPasswordRequired, got %v", err)
	}
	if n := svc.CallCount("login"); n != 0 {
		t.Errorf("expected no login request, got %d", n)
	}
}

func TestRegister_Success(t *testing.T) {
	svc := testutil.NewFakeService()
	form := auth.NewRegisterForm(svc, &recorder{})
	form.SetEmail("new@example.com")
	form.SetPassword("pw")
	form.SetConfirm("pw")

	next, err := form.Submit(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != nav.Login {
		t.Errorf("expected login page, got %v", next)
	}
	if svc.CallCount("register") != 1 {
		t.Error("expected one register request")
	}
}

func TestRegister_PasswordMismatch(t *testing.T) {
	svc := testutil.NewFakeService()
	form := auth.NewRegisterForm(svc, &recorder{})
	form.SetEmail("new@example.com")
	form.SetPassword("pw")
	form.SetConfirm("pW")

	next, err := form.Submit(context.Background())
	if !errors.Is(err, auth.ErrPasswordMismatch) {
		t.Errorf("expected ErrPasswordMismatch, got %v", err)
	}
	if next != nav.Register {
		t.Errorf("expected to stay on register, got %v", next)
	}
	if svc.CallCount("register") != 0 {
		t.Error("mismatch must not reach the backend")
	}
}

func TestRegister_BackendFailure(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.RegisterErr = errors.New("email already registered")
	notes := &recorder{}
	form := auth.NewRegisterForm(svc, notes)
	form.SetEmail("new@example.com")
	form.SetPassword("pw")
	form.SetConfirm("pw")

	next, err := form.Submit(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if next != nav.Register {
		t.Errorf("expected to stay on register, got %v", next)
	}
	if len(notes.msgs) != 1 || notes.msgs[0] != auth.MsgRegisterFailed {
		t.Errorf("unexpected notifications: %v", notes.msgs)
	}
}
