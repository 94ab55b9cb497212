package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire and input layout of a due date.
const DateLayout = "2006-01-02"

// Task is a single to-do item as returned by the backend.
type Task struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	DueDate     Date   `json:"due_date"`
}

// NewTask is the payload of a create request.
type NewTask struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     Date   `json:"due_date"`
}

// Credentials are the email and password sent to login and register.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Date is a calendar date with no time-of-day meaning.
// The zero Date means the task has no due date.
type Date struct {
	t time.Time
}

// NewDate returns the date of y-m-d at midnight UTC.
func NewDate(y int, m time.Month, d int) Date {
	return Date{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses user or wire input. Empty input yields the zero Date.
// Date-only values are midnight UTC; RFC 3339 timestamps keep their instant.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return Date{t: t}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return Date{t: t}, nil
	}
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return Date{t: t}, nil
	}
	return Date{}, fmt.Errorf("invalid date: %s", s)
}

// IsZero reports whether no due date is set.
func (d Date) IsZero() bool { return d.t.IsZero() }

// Time returns the instant the date denotes.
func (d Date) Time() time.Time { return d.t }

// String formats the date as YYYY-MM-DD in the offset it was given with, or ""
// for the zero Date. Date-only values are UTC.
func (d Date) String() string {
	if d.t.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler. null and "" decode to the zero Date.
func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("due_date: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return fmt.Errorf("due_date: %w", err)
	}
	*d = parsed
	return nil
}
