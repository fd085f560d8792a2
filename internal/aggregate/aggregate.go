// Package aggregate computes read-only summaries over collection snapshots.
// Every function is pure and recomputes from scratch, so results always
// reflect the latest optimistic state of the caller's collection.
package aggregate

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mbenson/tracker/internal/constants"
	"github.com/mbenson/tracker/internal/models"
)

// Income sums the amounts of all income transactions.
func Income(txs []models.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txs {
		if t.Type == models.TransactionIncome {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// Expenses sums the amounts of all expense transactions.
func Expenses(txs []models.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txs {
		if t.Type == models.TransactionExpense {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// Balance is income minus expenses. Never stored, always recomputed.
func Balance(txs []models.Transaction) decimal.Decimal {
	return Income(txs).Sub(Expenses(txs))
}

// CategoryTotals groups expense amounts by category.
func CategoryTotals(txs []models.Transaction) map[string]decimal.Decimal {
	totals := map[string]decimal.Decimal{}
	for _, t := range txs {
		if t.Type != models.TransactionExpense {
			continue
		}
		current, ok := totals[t.Category]
		if !ok {
			current = decimal.Zero
		}
		totals[t.Category] = current.Add(t.Amount)
	}
	return totals
}

// CompletionRate is completed/total as a fraction in [0, 1]. An empty
// collection yields 0, not NaN.
func CompletionRate(tasks []models.Task) float64 {
	if len(tasks) == 0 {
		return 0
	}
	completed := 0
	for _, t := range tasks {
		if t.Completed {
			completed++
		}
	}
	return float64(completed) / float64(len(tasks))
}

// DueToday returns tasks whose due date falls on the calendar day of now.
// Calendar-day equality, not a rolling 24-hour window.
func DueToday(tasks []models.Task, now time.Time) []models.Task {
	today := now.Format(constants.DateFormat)
	due := []models.Task{}
	for _, t := range tasks {
		if t.DueDate == today {
			due = append(due, t)
		}
	}
	return due
}

// TransactionsInLastDays returns transactions whose date falls within the
// trailing n-day window ending today (inclusive on both ends).
func TransactionsInLastDays(txs []models.Transaction, n int, now time.Time) []models.Transaction {
	today, _ := time.Parse(constants.DateFormat, now.Format(constants.DateFormat))
	start := today.AddDate(0, 0, -(n - 1))

	recent := []models.Transaction{}
	for _, t := range txs {
		day, err := time.Parse(constants.DateFormat, t.Date)
		if err != nil {
			continue
		}
		if !day.Before(start) && !day.After(today) {
			recent = append(recent, t)
		}
	}
	return recent
}

// TotalStreak sums the cached streaks of all habits.
func TotalStreak(habits []models.Habit) int {
	total := 0
	for _, h := range habits {
		total += h.Streak
	}
	return total
}

// CompletedToday counts habits marked complete on the calendar day of now.
func CompletedToday(habits []models.Habit, now time.Time) int {
	today := now.Format(constants.DateFormat)
	count := 0
	for _, h := range habits {
		for _, d := range h.CompletedDates {
			if d == today {
				count++
				break
			}
		}
	}
	return count
}
