package priority_test

import (
	"testing"
	"time"

	"tasco/internal/priority"
)

var now = time.Date(2026, 10, 14, 15, 30, 0, 0, time.UTC)

func TestDerive_Boundaries(t *testing.T) {
	tests := []struct {
		name     string
		due      time.Time
		wantDays int
		wantPrio priority.Priority
	}{
		{"exactly now", now, 0, priority.Urgent},
		{"one second ago", now.Add(-time.Second), 0, priority.Urgent},
		{"one hour ahead", now.Add(time.Hour), 1, priority.Urgent},
		{"one day ahead", now.Add(priority.Day), 1, priority.Urgent},
		{"one day and a second", now.Add(priority.Day + time.Second), 2, priority.High},
		{"two days ahead", now.Add(2 * priority.Day), 2, priority.High},
		{"three days ahead", now.Add(3 * priority.Day), 3, priority.High},
		{"four days ahead", now.Add(4 * priority.Day), 4, priority.Normal},
		{"one day ago", now.Add(-priority.Day), -1, priority.Overdue},
		{"one day and a second ago", now.Add(-priority.Day - time.Second), -1, priority.Overdue},
		{"ten days ago", now.Add(-10 * priority.Day), -10, priority.Overdue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days, prio := priority.Derive(tt.due, now)
			if days != tt.wantDays {
				t.Errorf("expected %d days, got %d", tt.wantDays, days)
			}
			if prio != tt.wantPrio {
				t.Errorf("expected %s, got %s", tt.wantPrio, prio)
			}
		})
	}
}

// A date-only due value is midnight UTC, so a task due today is already a
// fraction of a day in the past by the afternoon and still counts as urgent.
func TestDerive_DueTodayAfternoon(t *testing.T) {
	due := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)

	days, prio := priority.Derive(due, now)
	if days != 0 || prio != priority.Urgent {
		t.Errorf("expected 0/urgent, got %d/%s", days, prio)
	}

	yesterday := due.AddDate(0, 0, -1)
	days, prio = priority.Derive(yesterday, now)
	if days != -1 || prio != priority.Overdue {
		t.Errorf("expected -1/overdue, got %d/%s", days, prio)
	}
}

func TestDerive_DependsOnlyOnOffset(t *testing.T) {
	offsets := []time.Duration{-49 * time.Hour, -time.Minute, 0, 25 * time.Hour, 71 * time.Hour, 100 * time.Hour}
	other := time.Date(1999, 1, 2, 3, 4, 5, 0, time.UTC)

	for _, off := range offsets {
		d1, p1 := priority.Derive(now.Add(off), now)
		d2, p2 := priority.Derive(other.Add(off), other)
		if d1 != d2 || p1 != p2 {
			t.Errorf("offset %v: %d/%s vs %d/%s", off, d1, p1, d2, p2)
		}
	}
}

func TestClassify(t *testing.T) {
	want := map[int]priority.Priority{
		-2: priority.Overdue,
		-1: priority.Overdue,
		0:  priority.Urgent,
		1:  priority.Urgent,
		2:  priority.High,
		3:  priority.High,
		4:  priority.Normal,
		30: priority.Normal,
	}
	for days, p := range want {
		if got := priority.Classify(days); got != p {
			t.Errorf("Classify(%d): expected %s, got %s", days, p, got)
		}
	}
}
