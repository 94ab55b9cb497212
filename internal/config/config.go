// Package config resolves the configuration directory and reads client settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	// AppName is the application directory name.
	AppName = "tasco"

	// SettingsFile is the optional settings file inside the config directory.
	SettingsFile = "config.yaml"

	// EnvFile is an optional dotenv file loaded before the environment is read.
	EnvFile = ".env"

	// SessionFile holds the session token.
	SessionFile = "session.json"

	// OAuthClientFile holds Google OAuth client credentials for the google backend.
	OAuthClientFile = "oauth_client.json"
)

// Backends.
const (
	BackendAPI    = "api"
	BackendGoogle = "google"
)

// Settings are read from config.yaml and TASCO_* environment variables.
// Environment variables win over the file. Timeout bounds every backend request
// so a stalled API cannot hang a command.
type Settings struct {
	APIURL   string        `yaml:"api_url" env:"TASCO_API_URL" env-default:"http://localhost:5000"`
	Backend  string        `yaml:"backend" env:"TASCO_BACKEND" env-default:"api"`
	Timeout  time.Duration `yaml:"timeout" env:"TASCO_TIMEOUT" env-default:"10s"`
	LogLevel string        `yaml:"log_level" env:"TASCO_LOG_LEVEL" env-default:"warn"`
}

// Config holds the config directory, settings and per-invocation flags.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	Settings Settings

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// New creates a Config for configDir, or the default directory when empty,
// and reads its settings.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{Dir: dir}
	if err := cfg.load(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) load() error {
	if err := godotenv.Load(filepath.Join(c.Dir, EnvFile)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to read %s: %w", EnvFile, err)
	}

	var err error
	if fileExists(c.SettingsPath()) {
		err = cleanenv.ReadConfig(c.SettingsPath(), &c.Settings)
	} else {
		err = cleanenv.ReadEnv(&c.Settings)
	}
	if err != nil {
		return fmt.Errorf("failed to read settings: %w", err)
	}

	switch c.Settings.Backend {
	case BackendAPI, BackendGoogle:
	default:
		return fmt.Errorf("unknown backend: %s", c.Settings.Backend)
	}
	if c.Settings.Timeout <= 0 {
		return fmt.Errorf("invalid timeout: %s", c.Settings.Timeout)
	}
	return nil
}

// DefaultConfigDir returns XDG_CONFIG_HOME/tasco, or $HOME/.config/tasco.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// SettingsPath returns the path to config.yaml.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, SettingsFile)
}

// SessionPath returns the path to the stored session token.
func (c *Config) SessionPath() string {
	return filepath.Join(c.Dir, SessionFile)
}

// OAuthClientPath returns the path to the Google OAuth client credentials.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	return fileExists(c.OAuthClientPath())
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
