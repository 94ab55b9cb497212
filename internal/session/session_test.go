package session_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"tasco/internal/session"
)

func TestStore_InitMissingFile(t *testing.T) {
	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.Authenticated() {
		t.Error("expected unauthenticated store")
	}
	if _, err := store.Token(); !errors.Is(err, session.ErrNoSession) {
		t.Errorf("expected ErrNoSession, got %v", err)
	}
}

func TestStore_SetInitClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := session.NewStore(path)

	if err := store.Set(session.Session{Token: "abc"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("session file not written: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("expected mode 0600, got %o", perm)
	}

	// A fresh store sees the persisted token.
	reloaded := session.NewStore(path)
	if err := reloaded.Init(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tok, err := reloaded.Token()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.AccessToken != "abc" || tok.TokenType != "Bearer" {
		t.Errorf("unexpected token: %+v", tok)
	}

	if err := reloaded.Clear(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reloaded.Authenticated() {
		t.Error("expected unauthenticated after Clear")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected session file to be removed")
	}

	// Clearing twice is fine.
	if err := reloaded.Clear(); err != nil {
		t.Errorf("unexpected error on second Clear: %v", err)
	}
}

func TestStore_SetRejectsEmptyToken(t *testing.T) {
	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	if err := store.Set(session.Session{}); err == nil {
		t.Error("expected error for empty token")
	}
	if store.Authenticated() {
		t.Error("expected store to stay unauthenticated")
	}
}

func TestStore_InitCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	store := session.NewStore(path)
	if err := store.Init(); !errors.Is(err, session.ErrCorrupt) {
		t.Errorf("expected ErrCorrupt, got %v", err)
	}
	if store.Authenticated() {
		t.Error("expected corrupt session to be unauthenticated")
	}
	if !store.HasFile() {
		t.Error("expected HasFile to report the corrupt file")
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if store.HasFile() {
		t.Error("expected file removed by Clear")
	}
}

func TestStore_Subject(t *testing.T) {
	store := session.NewStore(filepath.Join(t.TempDir(), "session.json"))

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "42",
		"email": "ada@example.com",
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Set(session.Session{Token: signed}); err != nil {
		t.Fatal(err)
	}
	if got := store.Subject(); got != "ada@example.com" {
		t.Errorf("expected email claim, got %q", got)
	}

	if err := store.Set(session.Session{Token: "opaque-token"}); err != nil {
		t.Fatal(err)
	}
	if got := store.Subject(); got != "" {
		t.Errorf("expected empty subject for opaque token, got %q", got)
	}
}
