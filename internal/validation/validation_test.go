package validation

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mbenson/tracker/internal/models"
)

func TestValidateTask(t *testing.T) {
	tests := []struct {
		name    string
		task    models.Task
		wantErr bool
	}{
		{
			name: "valid task",
			task: models.Task{Title: "Write report", Priority: models.PriorityHigh},
		},
		{
			name:    "missing title",
			task:    models.Task{Priority: models.PriorityLow},
			wantErr: true,
		},
		{
			name:    "invalid priority",
			task:    models.Task{Title: "x", Priority: "urgent"},
			wantErr: true,
		},
		{
			name: "valid due date",
			task: models.Task{Title: "x", Priority: models.PriorityMedium, DueDate: "2026-03-14"},
		},
		{
			name:    "malformed due date",
			task:    models.Task{Title: "x", Priority: models.PriorityMedium, DueDate: "14/03/2026"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTask(tt.task)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTask() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateHabit(t *testing.T) {
	tests := []struct {
		name    string
		habit   models.Habit
		wantErr bool
	}{
		{
			name:  "daily habit",
			habit: models.Habit{Title: "Read", Frequency: []string{"Daily"}},
		},
		{
			name:  "weekday tags",
			habit: models.Habit{Title: "Gym", Frequency: []string{"Mon", "Wed", "Fri"}},
		},
		{
			name:    "empty frequency",
			habit:   models.Habit{Title: "Read"},
			wantErr: true,
		},
		{
			name:    "unknown weekday tag",
			habit:   models.Habit{Title: "Read", Frequency: []string{"Funday"}},
			wantErr: true,
		},
		{
			name:    "malformed completion date",
			habit:   models.Habit{Title: "Read", Frequency: []string{"Daily"}, CompletedDates: []string{"not-a-date"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHabit(tt.habit)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateHabit() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateTransaction(t *testing.T) {
	tests := []struct {
		name    string
		tx      models.Transaction
		wantErr bool
	}{
		{
			name: "valid expense",
			tx: models.Transaction{
				Amount:   decimal.NewFromInt(40),
				Category: "Food",
				Date:     "2026-03-14",
				Type:     models.TransactionExpense,
			},
		},
		{
			name: "negative amount",
			tx: models.Transaction{
				Amount:   decimal.NewFromInt(-1),
				Category: "Food",
				Date:     "2026-03-14",
				Type:     models.TransactionExpense,
			},
			wantErr: true,
		},
		{
			name: "missing category",
			tx: models.Transaction{
				Amount: decimal.NewFromInt(10),
				Date:   "2026-03-14",
				Type:   models.TransactionIncome,
			},
			wantErr: true,
		},
		{
			name: "unknown type",
			tx: models.Transaction{
				Amount:   decimal.NewFromInt(10),
				Category: "Misc",
				Date:     "2026-03-14",
				Type:     "transfer",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTransaction(tt.tx)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTransaction() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateTimeBlock(t *testing.T) {
	tests := []struct {
		name    string
		block   models.TimeBlock
		wantErr bool
	}{
		{
			name:  "valid block",
			block: models.TimeBlock{Title: "Deep work", Day: "Monday", StartHour: 9, Duration: 2, Category: models.BlockWork},
		},
		{
			name:    "bad weekday",
			block:   models.TimeBlock{Title: "x", Day: "Mon", StartHour: 9, Duration: 1, Category: models.BlockWork},
			wantErr: true,
		},
		{
			name:    "start hour out of range",
			block:   models.TimeBlock{Title: "x", Day: "Monday", StartHour: 24, Duration: 1, Category: models.BlockWork},
			wantErr: true,
		},
		{
			name:    "zero duration",
			block:   models.TimeBlock{Title: "x", Day: "Monday", StartHour: 9, Duration: 0, Category: models.BlockWork},
			wantErr: true,
		},
		{
			name:    "unknown category",
			block:   models.TimeBlock{Title: "x", Day: "Monday", StartHour: 9, Duration: 1, Category: "Chores"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTimeBlock(tt.block)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTimeBlock() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
