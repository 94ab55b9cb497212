// Package taskpage holds the state behind the task list view: the cached task
// list, the add-task form and the delete action.
//
// Every successful mutation is followed by Refresh, which replaces the cached
// list wholesale. Failures are surfaced through a Notifier and leave the cached
// list and form fields as they were.
package taskpage

import (
	"context"
	"fmt"
	"sync"

	"tasco/internal/service"
)

// Notification texts shown to the user.
const (
	MsgLoadFailed   = "Failed to load tasks"
	MsgAddFailed    = "Failed to add task"
	MsgDeleteFailed = "Failed to delete task"
)

// Notifier surfaces a blocking failure message to the user.
type Notifier interface {
	Notify(msg string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(msg string)

// Notify implements Notifier.
func (f NotifierFunc) Notify(msg string) { f(msg) }

// Page is the task list view state.
type Page struct {
	svc    service.TaskService
	notify Notifier

	mu       sync.Mutex
	tasks    []service.Task
	inflight int  // refreshes not yet finished
	settled  bool // at least one refresh finished

	form *Form
}

// New creates a page in the loading state with an empty form.
func New(svc service.TaskService, notify Notifier) *Page {
	if notify == nil {
		notify = NotifierFunc(func(string) {})
	}
	p := &Page{svc: svc, notify: notify}
	p.form = &Form{page: p}
	return p
}

// Form returns the add-task form.
func (p *Page) Form() *Form { return p.form }

// Tasks returns a copy of the cached list in server order.
func (p *Page) Tasks() []service.Task {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]service.Task(nil), p.tasks...)
}

// TaskAt returns the task at 1-based position n of the cached list.
func (p *Page) TaskAt(n int) (service.Task, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n < 1 || n > len(p.tasks) {
		return service.Task{}, false
	}
	return p.tasks[n-1], true
}

// Loading reports whether a fetch is in flight or none has completed yet.
func (p *Page) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inflight > 0 || !p.settled
}

// Refresh fetches the task list and replaces the cached copy. On failure the
// previous list is kept. The loading flag resets either way.
func (p *Page) Refresh(ctx context.Context) error {
	p.beginLoad()
	defer p.endLoad()

	tasks, err := p.svc.ListTasks(ctx)
	if err != nil {
		p.notify.Notify(MsgLoadFailed)
		return fmt.Errorf("failed to load tasks: %w", err)
	}
	if tasks == nil {
		tasks = []service.Task{}
	}

	p.mu.Lock()
	p.tasks = tasks
	p.mu.Unlock()
	return nil
}

// Delete deletes a task and refreshes. On failure the cached list is untouched.
// A failed refresh after a successful delete is notified but not returned.
func (p *Page) Delete(ctx context.Context, id string) error {
	if err := p.svc.DeleteTask(ctx, id); err != nil {
		p.notify.Notify(MsgDeleteFailed)
		return fmt.Errorf("failed to delete task %s: %w", id, err)
	}
	_ = p.Refresh(ctx)
	return nil
}

func (p *Page) beginLoad() {
	p.mu.Lock()
	p.inflight++
	p.mu.Unlock()
}

func (p *Page) endLoad() {
	p.mu.Lock()
	p.inflight--
	p.settled = true
	p.mu.Unlock()
}
