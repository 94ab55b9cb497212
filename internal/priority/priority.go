// Package priority derives the day offset and urgency bucket of a due date.
package priority

import "time"

// Day is the length of one calendar day used for offsets.
const Day = 24 * time.Hour

// Priority is the urgency bucket of a task. It is derived, never stored.
type Priority string

const (
	Overdue Priority = "overdue"
	Urgent  Priority = "urgent"
	High    Priority = "high"
	Normal  Priority = "normal"
)

// DaysUntilDue returns ceil((due - now) / Day).
// Negative values mean the task is overdue. A due instant earlier than now by less
// than a full day yields 0.
func DaysUntilDue(due, now time.Time) int {
	d := due.Sub(now)
	days := d / Day
	// Integer division truncates toward zero, which is already the ceiling for
	// negative offsets.
	if d%Day > 0 {
		days++
	}
	return int(days)
}

// Classify maps a day offset to its bucket.
func Classify(days int) Priority {
	switch {
	case days < 0:
		return Overdue
	case days <= 1:
		return Urgent
	case days <= 3:
		return High
	default:
		return Normal
	}
}

// Derive returns the day offset of due relative to now and its bucket.
func Derive(due, now time.Time) (int, Priority) {
	days := DaysUntilDue(due, now)
	return days, Classify(days)
}
