package client

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mbenson/tracker/internal/aggregate"
	"github.com/mbenson/tracker/internal/constants"
	"github.com/mbenson/tracker/internal/models"
)

// Typed collections pair the generic sync client with the derived views each
// kind exposes. Views are plain reads over a snapshot; they never mutate.

// Tasks syncs the task collection. New tasks are shown most recent first.
type Tasks struct {
	*Collection[models.Task]
}

func NewTasks(remote Remote[models.Task]) Tasks {
	return Tasks{NewCollection(remote, true)}
}

// CompletionRate returns the completed fraction of all held tasks.
func (t Tasks) CompletionRate() float64 {
	return aggregate.CompletionRate(t.Snapshot())
}

// DueToday returns tasks due on the calendar day of now.
func (t Tasks) DueToday(now time.Time) []models.Task {
	return aggregate.DueToday(t.Snapshot(), now)
}

// Habits syncs the habit collection.
type Habits struct {
	*Collection[models.Habit]
}

func NewHabits(remote Remote[models.Habit]) Habits {
	return Habits{NewCollection(remote, true)}
}

// TotalStreak sums the current streaks of all habits.
func (h Habits) TotalStreak() int {
	return aggregate.TotalStreak(h.Snapshot())
}

// CompletedToday counts habits checked off on the calendar day of now.
func (h Habits) CompletedToday(now time.Time) int {
	return aggregate.CompletedToday(h.Snapshot(), now)
}

// Finance syncs the transaction collection.
type Finance struct {
	*Collection[models.Transaction]
}

func NewFinance(remote Remote[models.Transaction]) Finance {
	return Finance{NewCollection(remote, true)}
}

func (f Finance) Income() decimal.Decimal {
	return aggregate.Income(f.Snapshot())
}

func (f Finance) Expenses() decimal.Decimal {
	return aggregate.Expenses(f.Snapshot())
}

// Balance is income minus expenses over the whole held collection.
func (f Finance) Balance() decimal.Decimal {
	return aggregate.Balance(f.Snapshot())
}

// CategoryTotals sums expense amounts per category.
func (f Finance) CategoryTotals() map[string]decimal.Decimal {
	return aggregate.CategoryTotals(f.Snapshot())
}

// LastDays returns transactions in the trailing n-day window ending at now.
func (f Finance) LastDays(n int, now time.Time) []models.Transaction {
	return aggregate.TransactionsInLastDays(f.Snapshot(), n, now)
}

// Planner syncs the time block collection. Blocks keep insertion order.
type Planner struct {
	*Collection[models.TimeBlock]
}

func NewPlanner(remote Remote[models.TimeBlock]) Planner {
	return Planner{NewCollection(remote, false)}
}

// ForDay returns the blocks scheduled on the named weekday, e.g. "Monday".
func (p Planner) ForDay(day string) []models.TimeBlock {
	var out []models.TimeBlock
	for _, b := range p.Snapshot() {
		if b.Day == day {
			out = append(out, b)
		}
	}
	return out
}

// Session bundles one collection per kind for a single user scope, all backed
// by the same kind of remote.
type Session struct {
	Tasks   Tasks
	Habits  Habits
	Finance Finance
	Planner Planner
}

// NewHTTPSession wires every collection to the REST server at base.
func NewHTTPSession(base, userID string) *Session {
	return &Session{
		Tasks:   NewTasks(NewHTTPRemote[models.Task](base, constants.KindTasks, userID)),
		Habits:  NewHabits(NewHTTPRemote[models.Habit](base, constants.KindHabits, userID)),
		Finance: NewFinance(NewHTTPRemote[models.Transaction](base, constants.KindFinance, userID)),
		Planner: NewPlanner(NewHTTPRemote[models.TimeBlock](base, constants.KindPlanner, userID)),
	}
}

// NewLocalSession wires every collection to the on-disk fallback under dir.
func NewLocalSession(dir, userID string) *Session {
	return &Session{
		Tasks:   NewTasks(NewLocalRemote[models.Task](dir, userID, constants.KindTasks)),
		Habits:  NewHabits(NewLocalRemote[models.Habit](dir, userID, constants.KindHabits)),
		Finance: NewFinance(NewLocalRemote[models.Transaction](dir, userID, constants.KindFinance)),
		Planner: NewPlanner(NewLocalRemote[models.TimeBlock](dir, userID, constants.KindPlanner)),
	}
}
