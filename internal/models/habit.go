package models

import (
	"sort"
	"time"

	"github.com/mbenson/tracker/internal/constants"
)

type Habit struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
	Title  string `json:"title"`
	// Frequency holds weekday tags ("Mon", "Tue", ...) or the single sentinel
	// value "Daily".
	Frequency []string `json:"frequency"`
	// CompletedDates holds YYYY-MM-DD strings, each day at most once.
	CompletedDates []string `json:"completedDates"`
	// Streak is cached alongside CompletedDates. It must only change through
	// SetCompletedDates so the two never drift apart.
	Streak    int       `json:"streak"`
	CreatedAt time.Time `json:"createdAt"`
}

func (h Habit) RecordID() string { return h.ID }

// SetCompletedDates is the single mutation entry point for completion dates.
// It de-duplicates the incoming dates (preserving first occurrence order) and
// recomputes the cached streak relative to now.
func (h *Habit) SetCompletedDates(dates []string, now time.Time) {
	seen := make(map[string]struct{}, len(dates))
	deduped := make([]string, 0, len(dates))
	for _, d := range dates {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		deduped = append(deduped, d)
	}
	h.CompletedDates = deduped
	h.Streak = CalculateStreak(deduped, now)
}

// ToggleCompletion marks or unmarks the given day as completed and recomputes
// the streak in the same operation.
func (h *Habit) ToggleCompletion(day time.Time, now time.Time) {
	dateStr := day.Format(constants.DateFormat)
	dates := make([]string, 0, len(h.CompletedDates)+1)
	found := false
	for _, d := range h.CompletedDates {
		if d == dateStr {
			found = true
			continue
		}
		dates = append(dates, d)
	}
	if !found {
		dates = append(dates, dateStr)
	}
	h.SetCompletedDates(dates, now)
}

// CalculateStreak counts consecutive completed calendar days ending today or
// yesterday. A most recent completion older than yesterday yields 0, and any
// gap stops the count. Duplicate and unparseable dates are ignored.
func CalculateStreak(completedDates []string, now time.Time) int {
	if len(completedDates) == 0 {
		return 0
	}

	seen := make(map[string]struct{}, len(completedDates))
	days := make([]time.Time, 0, len(completedDates))
	for _, d := range completedDates {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		t, err := time.Parse(constants.DateFormat, d)
		if err != nil {
			continue
		}
		days = append(days, t)
	}
	if len(days) == 0 {
		return 0
	}

	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	today, _ := time.Parse(constants.DateFormat, now.Format(constants.DateFormat))
	yesterday := today.AddDate(0, 0, -1)
	if !days[0].Equal(today) && !days[0].Equal(yesterday) {
		return 0
	}

	streak := 1
	current := days[0]
	for _, day := range days[1:] {
		expected := current.AddDate(0, 0, -1)
		if !day.Equal(expected) {
			break
		}
		streak++
		current = day
	}
	return streak
}

// HabitPatch holds the fields of a partial update. A patched CompletedDates
// goes through SetCompletedDates, so the cached streak is recomputed; a
// client-supplied streak value is never trusted.
type HabitPatch struct {
	Title          *string   `json:"title,omitempty"`
	Frequency      *[]string `json:"frequency,omitempty"`
	CompletedDates *[]string `json:"completedDates,omitempty"`
}

// Apply merges the patch into h and returns the result.
func (p HabitPatch) Apply(h Habit, now time.Time) Habit {
	if p.Title != nil {
		h.Title = *p.Title
	}
	if p.Frequency != nil {
		h.Frequency = *p.Frequency
	}
	if p.CompletedDates != nil {
		h.SetCompletedDates(*p.CompletedDates, now)
	}
	return h
}
