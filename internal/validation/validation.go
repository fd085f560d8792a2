// Package validation checks resource records before they are persisted.
// Failures map to a 400 response at the API boundary.
package validation

import (
	"fmt"
	"time"

	"github.com/mbenson/tracker/internal/constants"
	"github.com/mbenson/tracker/internal/models"
)

// Error describes a malformed or missing field on a record.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) *Error {
	return &Error{Field: field, Reason: reason}
}

func validDate(s string) bool {
	_, err := time.Parse(constants.DateFormat, s)
	return err == nil
}

func ValidateTask(t models.Task) error {
	if t.Title == "" {
		return invalid("title", "must not be empty")
	}
	if !t.Priority.Valid() {
		return invalid("priority", fmt.Sprintf("unknown value %q", t.Priority))
	}
	if t.DueDate != "" && !validDate(t.DueDate) {
		return invalid("dueDate", "must be YYYY-MM-DD")
	}
	return nil
}

func ValidateHabit(h models.Habit) error {
	if h.Title == "" {
		return invalid("title", "must not be empty")
	}
	if len(h.Frequency) == 0 {
		return invalid("frequency", "must not be empty")
	}
	for _, f := range h.Frequency {
		if f == constants.FrequencyDaily {
			continue
		}
		if !validWeekday(f) {
			return invalid("frequency", fmt.Sprintf("unknown weekday tag %q", f))
		}
	}
	for _, d := range h.CompletedDates {
		if !validDate(d) {
			return invalid("completedDates", fmt.Sprintf("%q must be YYYY-MM-DD", d))
		}
	}
	return nil
}

func ValidateTransaction(t models.Transaction) error {
	if t.Amount.IsNegative() {
		return invalid("amount", "must not be negative")
	}
	if t.Category == "" {
		return invalid("category", "must not be empty")
	}
	if !validDate(t.Date) {
		return invalid("date", "must be YYYY-MM-DD")
	}
	if !t.Type.Valid() {
		return invalid("type", fmt.Sprintf("unknown value %q", t.Type))
	}
	return nil
}

func ValidateTimeBlock(b models.TimeBlock) error {
	if b.Title == "" {
		return invalid("title", "must not be empty")
	}
	if !validWeekdayName(b.Day) {
		return invalid("day", fmt.Sprintf("unknown weekday %q", b.Day))
	}
	if b.StartHour < 0 || b.StartHour > 23 {
		return invalid("startHour", "must be between 0 and 23")
	}
	if b.Duration < 1 {
		return invalid("duration", "must be at least 1 hour")
	}
	if !b.Category.Valid() {
		return invalid("category", fmt.Sprintf("unknown value %q", b.Category))
	}
	return nil
}

var weekdayTags = map[string]bool{
	"Mon": true, "Tue": true, "Wed": true, "Thu": true,
	"Fri": true, "Sat": true, "Sun": true,
}

func validWeekday(tag string) bool {
	return weekdayTags[tag]
}

var weekdayNames = map[string]bool{
	"Monday": true, "Tuesday": true, "Wednesday": true, "Thursday": true,
	"Friday": true, "Saturday": true, "Sunday": true,
}

func validWeekdayName(name string) bool {
	return weekdayNames[name]
}
