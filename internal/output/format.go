// Package output renders tasks for the terminal.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"tasco/internal/priority"
	"tasco/internal/service"
)

const (
	// EmptyTitle is the first line of the empty-state block.
	EmptyTitle = "No tasks yet"

	// EmptyHint is the second line of the empty-state block.
	EmptyHint = "Add your first task to get started!"

	// NoDueDate labels tasks without a due date.
	NoDueDate = "No due date"

	// detailIndent lines up detail lines under the title column.
	detailIndent = "      "
)

// Item is a task annotated with its derived due fields.
type Item struct {
	Task     service.Task
	Days     int
	Priority priority.Priority
	Label    string
}

// Annotate derives due fields for each task, keeping server order.
func Annotate(tasks []service.Task, now time.Time) []Item {
	items := make([]Item, 0, len(tasks))
	for _, task := range tasks {
		item := Item{Task: task, Priority: priority.Normal, Label: NoDueDate}
		if !task.DueDate.IsZero() {
			item.Days, item.Priority = priority.Derive(task.DueDate.Time(), now)
			item.Label = DueLabel(item.Days, item.Priority)
		}
		items = append(items, item)
	}
	return items
}

// DueLabel formats the human-readable due label.
func DueLabel(days int, p priority.Priority) string {
	switch {
	case p == priority.Overdue:
		if days < 0 {
			days = -days
		}
		return fmt.Sprintf("%d days overdue", days)
	case days == 0:
		return "Due today"
	case days == 1:
		return "Due tomorrow"
	default:
		return fmt.Sprintf("%d days left", days)
	}
}

// Badge returns the short marker shown next to the title, or "".
func Badge(p priority.Priority) string {
	switch p {
	case priority.Overdue:
		return "Overdue"
	case priority.Urgent:
		return "Due Soon"
	default:
		return ""
	}
}

// RenderTasks writes the task list, or the empty-state block for no tasks.
// Tasks are numbered from 1 in input order.
func RenderTasks(w io.Writer, tasks []service.Task, now time.Time) {
	if len(tasks) == 0 {
		FormatEmpty(w)
		return
	}
	for i, item := range Annotate(tasks, now) {
		FormatItem(w, i+1, item)
	}
}

// FormatEmpty writes the empty-state block.
func FormatEmpty(w io.Writer) {
	fmt.Fprintln(w, EmptyTitle)
	fmt.Fprintln(w, EmptyHint)
}

// FormatItem writes one task.
// Format: "{N:>4}  {TITLE}[  [{BADGE}]]" then indented due and description lines.
func FormatItem(w io.Writer, num int, item Item) {
	title := normalizeTitle(item.Task.Title)
	if badge := Badge(item.Priority); badge != "" {
		title += "  [" + badge + "]"
	}
	fmt.Fprintf(w, "%4d  %s\n", num, title)

	if item.Task.DueDate.IsZero() {
		fmt.Fprintf(w, "%s%s\n", detailIndent, NoDueDate)
	} else {
		fmt.Fprintf(w, "%sDue: %s (%s)\n", detailIndent, item.Task.DueDate, item.Label)
	}

	if desc := normalizeText(item.Task.Description); desc != "" {
		fmt.Fprintf(w, "%s%s\n", detailIndent, desc)
	}
}

// normalizeTitle normalizes a task title for display.
// Empty or whitespace-only titles become "(untitled)".
func normalizeTitle(title string) string {
	title = normalizeText(title)
	if title == "" {
		return "(untitled)"
	}
	return title
}

// normalizeText folds newlines into spaces and trims the result.
func normalizeText(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}
