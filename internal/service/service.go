// Package service defines the backend-agnostic contract for task and account operations.
package service

import (
	"context"
	"errors"

	"tasco/internal/session"
)

var (
	// ErrUnauthorized is returned when the backend rejects the credentials or token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound is returned when the addressed task does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnsupported is returned by backends that do not offer an operation.
	ErrUnsupported = errors.New("not supported by this backend")
)

// Service is the API collaborator. Commands and controllers never talk HTTP directly.
type Service interface {
	// Login exchanges credentials for a session.
	Login(ctx context.Context, creds Credentials) (session.Session, error)

	// Register creates an account. It does not log in.
	Register(ctx context.Context, creds Credentials) error

	// ListTasks returns all tasks in server order.
	ListTasks(ctx context.Context) ([]Task, error)

	// CreateTask creates a task and returns it as stored.
	CreateTask(ctx context.Context, task NewTask) (Task, error)

	// DeleteTask deletes a task by ID.
	DeleteTask(ctx context.Context, id string) error
}

// TaskService is the subset of Service used by the task page.
type TaskService interface {
	ListTasks(ctx context.Context) ([]Task, error)
	CreateTask(ctx context.Context, task NewTask) (Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// AuthService is the subset of Service used by the auth forms.
type AuthService interface {
	Login(ctx context.Context, creds Credentials) (session.Session, error)
	Register(ctx context.Context, creds Credentials) error
}
