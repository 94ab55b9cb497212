// Package googletasks implements service.Service on the user's default Google Tasks list.
//
// Descriptions are stored in the task notes and due dates in the due field. Accounts
// are Google accounts, so Register is unsupported and Login runs the OAuth flow.
package googletasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"tasco/internal/config"
	"tasco/internal/service"
	"tasco/internal/session"
)

const (
	// DefaultListID is the special ID for the default list.
	DefaultListID = "@default"

	// PageSize is the number of tasks requested per page.
	PageSize = 100

	// OAuth scope for Google Tasks
	tasksScope = "https://www.googleapis.com/auth/tasks"
)

// ErrNoOAuthClient is returned when oauth_client.json is missing.
var ErrNoOAuthClient = errors.New("oauth_client.json not found")

// Client implements service.Service using the Google Tasks API.
type Client struct {
	oauth   *oauth2.Config
	store   *session.Store
	timeout time.Duration
	log     zerolog.Logger

	// Prompt receives the authorization URL during Login.
	Prompt io.Writer

	svc *tasks.Service // fixed service for tests; nil means build from the session
}

// New creates a Google Tasks client. It requires oauth_client.json in the config dir.
func New(ctx context.Context, cfg *config.Config, store *session.Store, log zerolog.Logger) (*Client, error) {
	if !cfg.HasOAuthClient() {
		return nil, ErrNoOAuthClient
	}
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}

	oauthConfig, err := google.ConfigFromJSON(clientJSON, tasksScope)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
	}

	return &Client{
		oauth:   oauthConfig,
		store:   store,
		timeout: cfg.Settings.Timeout,
		log:     log.With().Str("backend", config.BackendGoogle).Logger(),
		Prompt:  os.Stderr,
	}, nil
}

// NewWithHTTPClient creates a client bound to a fixed HTTP client and endpoint (for testing).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, endpoint string) (*Client, error) {
	svc, err := tasks.NewService(ctx, option.WithHTTPClient(httpClient), option.WithEndpoint(endpoint))
	if err != nil {
		return nil, err
	}
	return &Client{svc: svc, timeout: 5 * time.Second, log: zerolog.Nop(), Prompt: io.Discard}, nil
}

// Login implements service.Service. Credentials are ignored; the user signs in
// with Google in the browser.
func (c *Client) Login(ctx context.Context, creds service.Credentials) (session.Session, error) {
	if c.oauth == nil {
		return session.Session{}, ErrNoOAuthClient
	}
	tok, err := authorize(ctx, c.oauth, c.Prompt)
	if err != nil {
		return session.Session{}, fmt.Errorf("%w: %w", service.ErrUnauthorized, err)
	}
	return session.Session{Token: tok.AccessToken, OAuth: tok}, nil
}

// Register implements service.Service.
func (c *Client) Register(ctx context.Context, creds service.Credentials) error {
	return fmt.Errorf("register: %w", service.ErrUnsupported)
}

// ListTasks implements service.Service.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	svc, err := c.tasks(ctx)
	if err != nil {
		return nil, err
	}

	var result []service.Task
	err = svc.Tasks.List(DefaultListID).
		MaxResults(PageSize).
		ShowCompleted(false).
		ShowDeleted(false).
		ShowHidden(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, item := range resp.Items {
				result = append(result, fromAPI(item))
			}
			return nil
		})
	if err != nil {
		return nil, c.wrapError("list", err)
	}
	return result, nil
}

// CreateTask implements service.Service.
func (c *Client) CreateTask(ctx context.Context, task service.NewTask) (service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	svc, err := c.tasks(ctx)
	if err != nil {
		return service.Task{}, err
	}

	item := &tasks.Task{Title: task.Title, Notes: task.Description}
	if !task.DueDate.IsZero() {
		item.Due = task.DueDate.Time().UTC().Format(time.RFC3339)
	}
	created, err := svc.Tasks.Insert(DefaultListID, item).Context(ctx).Do()
	if err != nil {
		return service.Task{}, c.wrapError("create", err)
	}
	return fromAPI(created), nil
}

// DeleteTask implements service.Service.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	svc, err := c.tasks(ctx)
	if err != nil {
		return err
	}
	if err := svc.Tasks.Delete(DefaultListID, id).Context(ctx).Do(); err != nil {
		return c.wrapError("delete", err)
	}
	return nil
}

// tasks returns the fixed test service or one authorized by the stored OAuth token.
func (c *Client) tasks(ctx context.Context) (*tasks.Service, error) {
	if c.svc != nil {
		return c.svc, nil
	}
	sess := c.store.Current()
	if sess.OAuth == nil {
		return nil, fmt.Errorf("%w: no google token (run: tasco login)", service.ErrUnauthorized)
	}

	src := &savingSource{
		src:   c.oauth.TokenSource(context.Background(), sess.OAuth),
		store: c.store,
		log:   c.log,
	}
	svc, err := tasks.NewService(ctx, option.WithHTTPClient(oauth2.NewClient(ctx, src)))
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	return svc, nil
}

// savingSource persists refreshed access tokens back into the session store.
type savingSource struct {
	src   oauth2.TokenSource
	store *session.Store
	log   zerolog.Logger
}

func (s *savingSource) Token() (*oauth2.Token, error) {
	tok, err := s.src.Token()
	if err != nil {
		return nil, err
	}
	if tok.AccessToken != s.store.Current().Token {
		if err := s.store.Set(session.Session{Token: tok.AccessToken, OAuth: tok}); err != nil {
			s.log.Warn().Err(err).Msg("failed to persist refreshed token")
		} else {
			s.log.Debug().Msg("persisted refreshed token")
		}
	}
	return tok, nil
}

func fromAPI(item *tasks.Task) service.Task {
	task := service.Task{ID: item.Id, Title: item.Title, Description: item.Notes}
	if due, err := service.ParseDate(item.Due); err == nil {
		task.DueDate = due
	}
	return task
}

// wrapError maps API errors to service sentinels.
func (c *Client) wrapError(op string, err error) error {
	c.log.Debug().Str("op", op).Err(err).Msg("google tasks call failed")

	if errors.Is(err, context.DeadlineExceeded) {
		return errors.New("request timed out")
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%w: token expired or revoked (run: tasco login)", service.ErrUnauthorized)
		case http.StatusNotFound:
			return service.ErrNotFound
		}
	}

	// oauth2 refresh failures are not googleapi errors.
	if strings.Contains(err.Error(), "oauth2:") {
		return fmt.Errorf("%w: %v", service.ErrUnauthorized, err)
	}
	return err
}
