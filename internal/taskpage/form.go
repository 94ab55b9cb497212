package taskpage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tasco/internal/service"
)

var (
	// ErrTitleRequired is returned when the title is empty or whitespace.
	ErrTitleRequired = errors.New("title required")

	// ErrInvalidDueDate is returned for a due date that is not YYYY-MM-DD.
	ErrInvalidDueDate = errors.New("invalid due date")

	// ErrSubmitting is returned while a previous submission is in flight.
	ErrSubmitting = errors.New("submission in progress")
)

// Form is the add-task form. Its fields are local text until submitted.
type Form struct {
	page *Page

	title       string
	description string
	dueDate     string
	submitting  bool
}

// SetTitle sets the title field.
func (f *Form) SetTitle(s string) { f.set(&f.title, s) }

// SetDescription sets the description field.
func (f *Form) SetDescription(s string) { f.set(&f.description, s) }

// SetDueDate sets the due date field (YYYY-MM-DD, may be empty).
func (f *Form) SetDueDate(s string) { f.set(&f.dueDate, s) }

func (f *Form) set(field *string, s string) {
	f.page.mu.Lock()
	*field = s
	f.page.mu.Unlock()
}

// Fields returns the current title, description and due date.
func (f *Form) Fields() (title, description, dueDate string) {
	f.page.mu.Lock()
	defer f.page.mu.Unlock()
	return f.title, f.description, f.dueDate
}

// Submitting reports whether a submission is in flight.
func (f *Form) Submitting() bool {
	f.page.mu.Lock()
	defer f.page.mu.Unlock()
	return f.submitting
}

// CanSubmit reports whether Submit would send a request now.
func (f *Form) CanSubmit() bool {
	f.page.mu.Lock()
	defer f.page.mu.Unlock()
	return !f.submitting && strings.TrimSpace(f.title) != ""
}

// Submit validates the fields and creates the task. Invalid input never reaches
// the service. On success the list is refreshed and then the fields are cleared;
// on failure the fields are kept and the user is notified.
func (f *Form) Submit(ctx context.Context) error {
	payload, err := f.begin()
	if err != nil {
		return err
	}
	defer f.end()

	if _, err := f.page.svc.CreateTask(ctx, payload); err != nil {
		f.page.notify.Notify(MsgAddFailed)
		return fmt.Errorf("failed to add task: %w", err)
	}

	_ = f.page.Refresh(ctx)
	f.clear()
	return nil
}

// begin validates and marks the form as submitting.
func (f *Form) begin() (service.NewTask, error) {
	f.page.mu.Lock()
	defer f.page.mu.Unlock()

	if f.submitting {
		return service.NewTask{}, ErrSubmitting
	}
	title := strings.TrimSpace(f.title)
	if title == "" {
		return service.NewTask{}, ErrTitleRequired
	}
	due, err := service.ParseDate(f.dueDate)
	if err != nil {
		return service.NewTask{}, fmt.Errorf("%w: %s", ErrInvalidDueDate, strings.TrimSpace(f.dueDate))
	}

	f.submitting = true
	return service.NewTask{Title: title, Description: f.description, DueDate: due}, nil
}

func (f *Form) end() {
	f.page.mu.Lock()
	f.submitting = false
	f.page.mu.Unlock()
}

func (f *Form) clear() {
	f.page.mu.Lock()
	f.title, f.description, f.dueDate = "", "", ""
	f.page.mu.Unlock()
}
