package models

import (
	"testing"
	"time"

	"github.com/mbenson/tracker/internal/constants"
)

func day(now time.Time, offset int) string {
	return now.AddDate(0, 0, offset).Format(constants.DateFormat)
}

func TestCalculateStreak(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		dates []string
		want  int
	}{
		{
			name:  "empty set",
			dates: []string{},
			want:  0,
		},
		{
			name:  "three consecutive days ending today",
			dates: []string{day(now, 0), day(now, -1), day(now, -2)},
			want:  3,
		},
		{
			name:  "gap breaks the chain",
			dates: []string{day(now, 0), day(now, -3)},
			want:  1,
		},
		{
			name:  "still active when yesterday was the last completion",
			dates: []string{day(now, -1), day(now, -2)},
			want:  2,
		},
		{
			name:  "most recent older than yesterday is dead",
			dates: []string{day(now, -2), day(now, -3), day(now, -4)},
			want:  0,
		},
		{
			name:  "unsorted input",
			dates: []string{day(now, -2), day(now, 0), day(now, -1)},
			want:  3,
		},
		{
			name:  "duplicates count as one day",
			dates: []string{day(now, 0), day(now, 0), day(now, -1)},
			want:  2,
		},
		{
			name:  "single completion today",
			dates: []string{day(now, 0)},
			want:  1,
		},
		{
			name:  "gap in the middle stops the count",
			dates: []string{day(now, 0), day(now, -1), day(now, -3), day(now, -4)},
			want:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateStreak(tt.dates, now); got != tt.want {
				t.Errorf("CalculateStreak() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSetCompletedDatesRecomputesStreak(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	h := Habit{ID: "h1", Title: "Read", Streak: 99}
	h.SetCompletedDates([]string{day(now, 0), day(now, -1), day(now, 0)}, now)

	if len(h.CompletedDates) != 2 {
		t.Errorf("expected duplicates removed, got %v", h.CompletedDates)
	}
	if h.Streak != 2 {
		t.Errorf("expected streak recomputed to 2, got %d", h.Streak)
	}
}

func TestToggleCompletion(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	h := Habit{ID: "h1", Title: "Run"}
	h.ToggleCompletion(now, now)
	if h.Streak != 1 {
		t.Errorf("expected streak 1 after marking today, got %d", h.Streak)
	}

	h.ToggleCompletion(now, now)
	if len(h.CompletedDates) != 0 || h.Streak != 0 {
		t.Errorf("expected toggle to unmark today, got dates=%v streak=%d", h.CompletedDates, h.Streak)
	}
}

func TestHabitPatchIgnoresClientStreak(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	h := Habit{ID: "h1", Title: "Stretch"}
	dates := []string{day(now, 0)}
	patched := HabitPatch{CompletedDates: &dates}.Apply(h, now)

	if patched.Streak != 1 {
		t.Errorf("expected streak recomputed through patch, got %d", patched.Streak)
	}
}
