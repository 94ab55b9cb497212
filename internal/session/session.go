// Package session holds the credential token that marks the client as logged in.
//
// The token is opaque to the client. It is read once on startup with Init, replaced
// on login with Set and removed on logout with Clear. Its presence is the only
// authentication signal; nothing here checks expiry.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

// ErrNoSession is returned by Token when nobody is logged in.
var ErrNoSession = errors.New("not logged in")

// ErrCorrupt is returned by Init when the session file cannot be decoded.
var ErrCorrupt = errors.New("corrupt session file")

// Session is the persisted credential.
type Session struct {
	// Token is the opaque bearer token. Empty means unauthenticated.
	Token string `json:"token"`

	// OAuth is the full OAuth token for backends that refresh credentials.
	OAuth *oauth2.Token `json:"oauth,omitempty"`
}

// Store persists a Session in a single file. It is safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	path string
	cur  Session
}

// NewStore returns a store bound to path. Call Init to load it.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// HasFile reports whether the session file exists, decodable or not.
func (s *Store) HasFile() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Init loads the session from disk. A missing file leaves the store unauthenticated.
// So does an undecodable one, which is reported as ErrCorrupt.
func (s *Store) Init() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.mu.Lock()
		s.cur = Session{}
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		s.mu.Lock()
		s.cur = Session{}
		s.mu.Unlock()
		return fmt.Errorf("%w %s: %w", ErrCorrupt, s.path, err)
	}

	s.mu.Lock()
	s.cur = sess
	s.mu.Unlock()
	return nil
}

// Set replaces the session and writes it with mode 0600.
// The in-memory session only changes once the write succeeded.
func (s *Store) Set(sess Session) error {
	if sess.Token == "" {
		return errors.New("empty session token")
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	s.mu.Lock()
	s.cur = sess
	s.mu.Unlock()
	return nil
}

// Clear forgets the session and removes the file. Clearing an empty store is a no-op.
func (s *Store) Clear() error {
	s.mu.Lock()
	s.cur = Session{}
	s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}

// Current returns a copy of the session.
func (s *Store) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// Authenticated reports whether a token is present.
func (s *Store) Authenticated() bool {
	return s.Current().Token != ""
}

// Token implements oauth2.TokenSource so HTTP clients attach the bearer token
// through oauth2.Transport.
func (s *Store) Token() (*oauth2.Token, error) {
	sess := s.Current()
	if sess.Token == "" {
		return nil, ErrNoSession
	}
	return &oauth2.Token{AccessToken: sess.Token, TokenType: "Bearer"}, nil
}

// Subject returns the email or subject claim of a JWT-shaped token, for display.
// The signature is not verified and opaque tokens yield "".
func (s *Store) Subject() string {
	tok := s.Current().Token
	if tok == "" {
		return ""
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		return ""
	}
	if email, ok := claims["email"].(string); ok && email != "" {
		return email
	}
	sub, _ := claims.GetSubject()
	return sub
}
