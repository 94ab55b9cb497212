package restapi_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"tasco/internal/backend/restapi"
	"tasco/internal/config"
	"tasco/internal/service"
	"tasco/internal/session"
	"tasco/internal/testutil"
)

func newClient(t *testing.T, srv *testutil.APIServer) (*restapi.Client, *session.Store) {
	t.Helper()
	cfg := &config.Config{
		Dir: t.TempDir(),
		Settings: config.Settings{
			APIURL:  srv.URL,
			Backend: config.BackendAPI,
			Timeout: 5 * time.Second,
		},
	}
	store := session.NewStore(filepath.Join(cfg.Dir, config.SessionFile))
	client, err := restapi.New(cfg, store, zerolog.New(io.Discard))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return client, store
}

func TestNew_InvalidURL(t *testing.T) {
	cfg := &config.Config{Settings: config.Settings{APIURL: "not a url", Timeout: time.Second}}
	if _, err := restapi.New(cfg, session.NewStore("unused"), zerolog.Nop()); err == nil {
		t.Error("expected error for invalid api_url")
	}
}

func TestLogin_Success(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	srv.AddUser(t, "ada@example.com", "hunter22")
	client, _ := newClient(t, srv)

	sess, err := client.Login(context.Background(), service.Credentials{Email: "ada@example.com", Password: "hunter22"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.Token == "" {
		t.Error("expected a token")
	}

	reqs := srv.Requests()
	if len(reqs) != 1 || reqs[0].Authorization != "" {
		t.Errorf("login must not send a bearer token: %+v", reqs)
	}
}

func TestLogin_BadPassword(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	srv.AddUser(t, "ada@example.com", "hunter22")
	client, _ := newClient(t, srv)

	_, err := client.Login(context.Background(), service.Credentials{Email: "ada@example.com", Password: "wrong"})
	if !errors.Is(err, service.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if !strings.Contains(err.Error(), "invalid email or password") {
		t.Errorf("expected server message in error, got %v", err)
	}
}

func TestRegister(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	client, _ := newClient(t, srv)
	creds := service.Credentials{Email: "new@example.com", Password: "pw"}

	if err := client.Register(context.Background(), creds); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !srv.HasUser("new@example.com") {
		t.Error("expected user to be registered")
	}

	err := client.Register(context.Background(), creds)
	var apiErr *restapi.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusConflict {
		t.Fatalf("expected 409 APIError, got %v", err)
	}
	if apiErr.Message != "email already registered" {
		t.Errorf("unexpected message: %q", apiErr.Message)
	}
}

func TestTasks_RoundTrip(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	client, store := newClient(t, srv)
	if err := store.Set(session.Session{Token: srv.Token(t, "ada@example.com")}); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	created, err := client.CreateTask(ctx, service.NewTask{
		Title:       "Buy milk",
		Description: "semi-skimmed",
		DueDate:     service.NewDate(2026, 10, 15),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID == "" || created.Title != "Buy milk" || created.DueDate.String() != "2026-10-15" {
		t.Errorf("unexpected created task: %+v", created)
	}

	tasks, err := client.ListTasks(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != created.ID || tasks[0].Description != "semi-skimmed" {
		t.Fatalf("unexpected tasks: %+v", tasks)
	}

	if err := client.DeleteTask(ctx, created.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := client.DeleteTask(ctx, created.ID); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}

	for _, r := range srv.Requests() {
		if !strings.HasPrefix(r.Authorization, "Bearer ") {
			t.Errorf("%s %s: missing bearer token", r.Method, r.Path)
		}
		if _, err := uuid.Parse(r.RequestID); err != nil {
			t.Errorf("%s %s: request id %q is not a uuid", r.Method, r.Path, r.RequestID)
		}
	}
}

func TestListTasks_EmptyIsNotError(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	client, store := newClient(t, srv)
	if err := store.Set(session.Session{Token: srv.Token(t, "ada@example.com")}); err != nil {
		t.Fatal(err)
	}

	tasks, err := client.ListTasks(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("expected no tasks, got %+v", tasks)
	}
}

func TestListTasks_NoSession(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	client, _ := newClient(t, srv)

	_, err := client.ListTasks(context.Background())
	if !errors.Is(err, service.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if len(srv.Requests()) != 0 {
		t.Error("no request should reach the server without a session")
	}
}

func TestListTasks_RejectedToken(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	client, store := newClient(t, srv)
	if err := store.Set(session.Session{Token: "forged"}); err != nil {
		t.Fatal(err)
	}

	if _, err := client.ListTasks(context.Background()); !errors.Is(err, service.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestDeleteTask_ServerError(t *testing.T) {
	srv := testutil.NewAPIServer(t)
	client, store := newClient(t, srv)
	if err := store.Set(session.Session{Token: srv.Token(t, "ada@example.com")}); err != nil {
		t.Fatal(err)
	}
	srv.AddTask("ada@example.com", service.Task{ID: "5", Title: "keep me"})
	srv.FailMethod(http.MethodDelete, http.StatusInternalServerError)

	err := client.DeleteTask(context.Background(), "5")
	var apiErr *restapi.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusInternalServerError {
		t.Fatalf("expected 500 APIError, got %v", err)
	}
	if len(srv.Tasks("ada@example.com")) != 1 {
		t.Error("task should still exist")
	}
}
