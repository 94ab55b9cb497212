package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"tasco/internal/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"TASCO_API_URL", "TASCO_BACKEND", "TASCO_TIMEOUT", "TASCO_LOG_LEVEL"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestNew_Defaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfg, err := config.New(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Dir != dir {
		t.Errorf("expected dir %s, got %s", dir, cfg.Dir)
	}
	want := config.Settings{
		APIURL:   "http://localhost:5000",
		Backend:  config.BackendAPI,
		Timeout:  10 * time.Second,
		LogLevel: "warn",
	}
	if cfg.Settings != want {
		t.Errorf("expected %+v, got %+v", want, cfg.Settings)
	}
	if cfg.SessionPath() != filepath.Join(dir, "session.json") {
		t.Errorf("unexpected session path: %s", cfg.SessionPath())
	}
}

func TestNew_SettingsFileAndEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	yaml := "api_url: https://tasks.example.com/api\ntimeout: 3s\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TASCO_TIMEOUT", "7s")

	cfg, err := config.New(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Settings.APIURL != "https://tasks.example.com/api" {
		t.Errorf("expected api_url from file, got %s", cfg.Settings.APIURL)
	}
	if cfg.Settings.Timeout != 7*time.Second {
		t.Errorf("expected env to override timeout, got %s", cfg.Settings.Timeout)
	}
}

func TestNew_DotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("TASCO_API_URL=http://dotenv.local\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("TASCO_API_URL") })

	cfg, err := config.New(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Settings.APIURL != "http://dotenv.local" {
		t.Errorf("expected api_url from .env, got %s", cfg.Settings.APIURL)
	}
}

func TestNew_UnknownBackend(t *testing.T) {
	clearEnv(t)
	t.Setenv("TASCO_BACKEND", "carrier-pigeon")

	if _, err := config.New(t.TempDir()); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestDefaultConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := config.DefaultConfigDir(); got != "/tmp/xdg/tasco" {
		t.Errorf("expected /tmp/xdg/tasco, got %s", got)
	}
}
