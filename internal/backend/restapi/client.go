// Package restapi implements service.Service against the task REST API.
package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"tasco/internal/config"
	"tasco/internal/service"
	"tasco/internal/session"
)

// RequestIDHeader carries a per-request UUID for server-side correlation.
const RequestIDHeader = "X-Request-ID"

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 64 << 10

// APIError is a non-2xx response that maps to no service sentinel.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("api error: %d %s", e.Status, e.Message)
}

// Client talks JSON over HTTP to the task API.
type Client struct {
	base    *url.URL
	anon    *http.Client // login and register
	authed  *http.Client // bearer token from the session store
	timeout time.Duration
	log     zerolog.Logger
}

// New creates a client for cfg.Settings.APIURL. Authenticated requests take their
// token from store at send time, so a later login is picked up without rebuilding.
func New(cfg *config.Config, store *session.Store, log zerolog.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.Settings.APIURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid api_url: %q", cfg.Settings.APIURL)
	}

	return &Client{
		base: base,
		anon: &http.Client{},
		authed: &http.Client{
			Transport: &oauth2.Transport{Source: store, Base: http.DefaultTransport},
		},
		timeout: cfg.Settings.Timeout,
		log:     log.With().Str("backend", config.BackendAPI).Logger(),
	}, nil
}

type loginResponse struct {
	Token       string `json:"token"`
	AccessToken string `json:"access_token"`
}

// Login implements service.Service.
func (c *Client) Login(ctx context.Context, creds service.Credentials) (session.Session, error) {
	var resp loginResponse
	if err := c.do(ctx, c.anon, http.MethodPost, "/login", creds, &resp); err != nil {
		return session.Session{}, err
	}
	tok := resp.Token
	if tok == "" {
		tok = resp.AccessToken
	}
	if tok == "" {
		return session.Session{}, errors.New("login response has no token")
	}
	return session.Session{Token: tok}, nil
}

// Register implements service.Service.
func (c *Client) Register(ctx context.Context, creds service.Credentials) error {
	return c.do(ctx, c.anon, http.MethodPost, "/register", creds, nil)
}

// ListTasks implements service.Service.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	var tasks []service.Task
	if err := c.do(ctx, c.authed, http.MethodGet, "/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask implements service.Service.
func (c *Client) CreateTask(ctx context.Context, task service.NewTask) (service.Task, error) {
	var created service.Task
	if err := c.do(ctx, c.authed, http.MethodPost, "/tasks", task, &created); err != nil {
		return service.Task{}, err
	}
	return created, nil
}

// DeleteTask implements service.Service.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, c.authed, http.MethodDelete, "/tasks/"+url.PathEscape(id), nil, nil)
}

// do sends one request. in is JSON-encoded when non-nil; out is decoded from a
// non-empty 2xx body when non-nil.
func (c *Client) do(ctx context.Context, hc *http.Client, method, path string, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	// JoinPath would escape the already-escaped id, so paths are appended raw.
	target := c.base.String() + path
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeader, reqID)

	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		c.log.Debug().
			Str("request_id", reqID).
			Str("method", method).
			Str("path", path).
			Err(err).
			Msg("request failed")
		return wrapTransportError(err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("request_id", reqID).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("api request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}
	if out == nil {
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("invalid response from %s %s: %w", method, path, err)
	}
	return nil
}

// statusError maps a non-2xx response to a service sentinel or an *APIError.
func statusError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := errorMessage(data)

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		if msg == "" {
			return service.ErrUnauthorized
		}
		return fmt.Errorf("%w: %s", service.ErrUnauthorized, msg)
	case http.StatusNotFound:
		return service.ErrNotFound
	default:
		return &APIError{Status: resp.StatusCode, Message: msg}
	}
}

// errorMessage extracts {"error": ...} or {"message": ...} from a body.
func errorMessage(data []byte) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return strings.TrimSpace(string(data))
	}
	if body.Error != "" {
		return body.Error
	}
	return body.Message
}

func wrapTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return errors.New("request timed out")
	}
	if errors.Is(err, session.ErrNoSession) {
		return fmt.Errorf("%w: %w", service.ErrUnauthorized, session.ErrNoSession)
	}
	return fmt.Errorf("request failed: %w", err)
}
