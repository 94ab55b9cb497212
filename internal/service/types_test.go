package service_test

import (
	"encoding/json"
	"testing"
	"time"

	"tasco/internal/service"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2026-10-15", time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)},
		{" 2026-10-15 ", time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)},
		{"2026-10-15T09:00:00Z", time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)},
		{"2026-10-15T09:00:00", time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		d, err := service.ParseDate(tt.in)
		if err != nil {
			t.Errorf("ParseDate(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if !d.Time().Equal(tt.want) {
			t.Errorf("ParseDate(%q): expected %v, got %v", tt.in, tt.want, d.Time())
		}
	}
}

func TestParseDate_EmptyAndInvalid(t *testing.T) {
	d, err := service.ParseDate("   ")
	if err != nil || !d.IsZero() {
		t.Errorf("expected zero date without error, got %v, %v", d, err)
	}
	if _, err := service.ParseDate("next tuesday"); err == nil {
		t.Error("expected error for invalid date")
	}
}

func TestTaskJSON_DueDateForms(t *testing.T) {
	payload := `[
		{"id":"1","title":"a","due_date":"2026-10-15"},
		{"id":"2","title":"b","due_date":"2026-10-15T00:00:00.000Z"},
		{"id":"3","title":"c","due_date":null},
		{"id":"4","title":"d","due_date":""},
		{"id":"5","title":"e"}
	]`
	var tasks []service.Task
	if err := json.Unmarshal([]byte(payload), &tasks); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tasks[0].DueDate.String() != "2026-10-15" || tasks[1].DueDate.String() != "2026-10-15" {
		t.Errorf("expected both dated tasks on 2026-10-15, got %q and %q", tasks[0].DueDate, tasks[1].DueDate)
	}
	for _, task := range tasks[2:] {
		if !task.DueDate.IsZero() {
			t.Errorf("task %s: expected zero due date, got %q", task.ID, task.DueDate)
		}
	}
}

func TestNewTaskJSON(t *testing.T) {
	body, err := json.Marshal(service.NewTask{Title: "Buy milk", DueDate: service.NewDate(2026, 10, 15)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"title":"Buy milk","description":"","due_date":"2026-10-15"}`
	if string(body) != want {
		t.Errorf("expected %s, got %s", want, body)
	}
}

func TestDateString_KeepsOffset(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2026-10-15", "2026-10-15"},
		{"2026-10-15T00:00:00+05:00", "2026-10-15"},
		{"2026-10-15T23:30:00-04:00", "2026-10-15"},
		{"2026-10-15T09:00:00Z", "2026-10-15"},
	}
	for _, tt := range tests {
		d, err := service.ParseDate(tt.in)
		if err != nil {
			t.Fatalf("ParseDate(%q): %v", tt.in, err)
		}
		if got := d.String(); got != tt.want {
			t.Errorf("ParseDate(%q).String(): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}
