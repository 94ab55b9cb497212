package testutil

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"tasco/internal/service"
)

type ctxKey string

const userCtxKey ctxKey = "user"

// RecordedRequest is what the fake API server saw.
type RecordedRequest struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
}

// APIServer is an httptest-backed fake of the task REST API.
// Passwords are stored as bcrypt hashes and sessions are HS256 JWTs.
type APIServer struct {
	*httptest.Server

	secret []byte

	mu       sync.Mutex
	users    map[string][]byte         // email -> bcrypt hash
	tasks    map[string][]service.Task // email -> tasks
	requests []RecordedRequest
	fail     map[string]int // method -> forced status
}

// NewAPIServer starts a fake API server closed at test cleanup.
func NewAPIServer(t *testing.T) *APIServer {
	t.Helper()

	s := &APIServer{
		secret: []byte("test-secret"),
		users:  make(map[string][]byte),
		tasks:  make(map[string][]service.Task),
		fail:   make(map[string]int),
	}

	r := mux.NewRouter()
	r.Use(s.recordMiddleware)
	r.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)

	tasks := r.PathPrefix("/tasks").Subrouter()
	tasks.Use(s.authMiddleware)
	tasks.HandleFunc("", s.handleListTasks).Methods(http.MethodGet)
	tasks.HandleFunc("", s.handleCreateTask).Methods(http.MethodPost)
	tasks.HandleFunc("/{id}", s.handleDeleteTask).Methods(http.MethodDelete)

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// AddUser registers an account directly.
func (s *APIServer) AddUser(t *testing.T, email, password string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[email] = hash
}

// AddTask stores a task for email.
func (s *APIServer) AddTask(email string, task service.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[email] = append(s.tasks[email], task)
}

// Tasks returns the tasks stored for email.
func (s *APIServer) Tasks(email string) []service.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]service.Task(nil), s.tasks[email]...)
}

// HasUser reports whether email is registered.
func (s *APIServer) HasUser(email string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.users[email]
	return ok
}

// Requests returns all requests seen so far.
func (s *APIServer) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedRequest(nil), s.requests...)
}

// FailMethod makes every request with method answer status.
func (s *APIServer) FailMethod(method string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[method] = status
}

// Token mints a session token for email, as /login would.
func (s *APIServer) Token(t *testing.T, email string) string {
	t.Helper()
	tok, err := s.mint(email)
	if err != nil {
		t.Fatalf("failed to mint token: %v", err)
	}
	return tok
}

func (s *APIServer) mint(email string) (string, error) {
	now := time.Now()
	return jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   email,
		"email": email,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	}).SignedString(s.secret)
}

func (s *APIServer) recordMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, RecordedRequest{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-ID"),
		})
		status, forced := s.fail[r.Method]
		s.mu.Unlock()

		if forced {
			writeError(w, status, http.StatusText(status))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *APIServer) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			writeError(w, http.StatusUnauthorized, "missing token")
			return
		}

		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
			return s.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		email, _ := claims.GetSubject()

		ctx := context.WithValue(r.Context(), userCtxKey, email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *APIServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds service.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	hash, ok := s.users[creds.Email]
	s.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(hash, []byte(creds.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	tok, err := s.mint(creds.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": tok})
}

func (s *APIServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	var creds service.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil || creds.Email == "" || creds.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.MinCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[creds.Email]; exists {
		writeError(w, http.StatusConflict, "email already registered")
		return
	}
	s.users[creds.Email] = hash
	writeJSON(w, http.StatusCreated, map[string]string{"message": "registered"})
}

func (s *APIServer) handleListTasks(w http.ResponseWriter, r *http.Request) {
	email, _ := r.Context().Value(userCtxKey).(string)
	tasks := s.Tasks(email)
	if tasks == nil {
		tasks = []service.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *APIServer) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	email, _ := r.Context().Value(userCtxKey).(string)

	var req service.NewTask
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	task := service.Task{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	}
	s.AddTask(email, task)
	writeJSON(w, http.StatusCreated, task)
}

func (s *APIServer) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	email, _ := r.Context().Value(userCtxKey).(string)
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	defer s.mu.Unlock()
	tasks := s.tasks[email]
	for i, t := range tasks {
		if t.ID == id {
			s.tasks[email] = append(tasks[:i], tasks[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeError(w, http.StatusNotFound, "task not found")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
