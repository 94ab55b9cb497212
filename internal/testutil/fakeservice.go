// Package testutil provides fakes and helpers shared by package tests.
package testutil

import (
	"context"
	"strconv"
	"sync"

	"tasco/internal/service"
	"tasco/internal/session"
)

// FakeService is an in-memory service.Service that records calls in order.
type FakeService struct {
	mu     sync.Mutex
	tasks  []service.Task
	users  map[string]string // email -> password
	nextID int
	calls  []string

	// Error injection
	LoginErr      error
	RegisterErr   error
	ListTasksErr  error
	CreateTaskErr error
	DeleteTaskErr error

	// CreateGate, when set, blocks CreateTask until it receives or is closed.
	CreateGate chan struct{}
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{users: make(map[string]string), nextID: 1}
}

// AddUser registers an account the fake accepts on Login.
func (f *FakeService) AddUser(email, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[email] = password
}

// AddTask appends a task with the given ID.
func (f *FakeService) AddTask(task service.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, task)
}

// Tasks returns a copy of the stored tasks.
func (f *FakeService) Tasks() []service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]service.Task(nil), f.tasks...)
}

// Calls returns the operations invoked so far, e.g. ["create", "list"].
func (f *FakeService) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// CallCount returns how many times op was invoked.
func (f *FakeService) CallCount(op string) int {
	n := 0
	for _, c := range f.Calls() {
		if c == op {
			n++
		}
	}
	return n
}

func (f *FakeService) record(op string) {
	f.mu.Lock()
	f.calls = append(f.calls, op)
	f.mu.Unlock()
}

// Login implements service.Service.
func (f *FakeService) Login(ctx context.Context, creds service.Credentials) (session.Session, error) {
	f.record("login")
	if f.LoginErr != nil {
		return session.Session{}, f.LoginErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if pw, ok := f.users[creds.Email]; !ok || pw != creds.Password {
		return session.Session{}, service.ErrUnauthorized
	}
	return session.Session{Token: "token-" + creds.Email}, nil
}

// Register implements service.Service.
func (f *FakeService) Register(ctx context.Context, creds service.Credentials) error {
	f.record("register")
	if f.RegisterErr != nil {
		return f.RegisterErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[creds.Email] = creds.Password
	return nil
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]service.Task, error) {
	f.record("list")
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	return f.Tasks(), nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, task service.NewTask) (service.Task, error) {
	f.record("create")
	if f.CreateGate != nil {
		select {
		case <-f.CreateGate:
		case <-ctx.Done():
			return service.Task{}, ctx.Err()
		}
	}
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	// Skip IDs already taken by AddTask.
	id := strconv.Itoa(f.nextID)
	for f.hasID(id) {
		f.nextID++
		id = strconv.Itoa(f.nextID)
	}
	f.nextID++

	created := service.Task{
		ID:          id,
		Title:       task.Title,
		Description: task.Description,
		DueDate:     task.DueDate,
	}
	f.tasks = append(f.tasks, created)
	return created, nil
}

func (f *FakeService) hasID(id string) bool {
	for _, t := range f.tasks {
		if t.ID == id {
			return true
		}
	}
	return false
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id string) error {
	f.record("delete")
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return service.ErrNotFound
}
