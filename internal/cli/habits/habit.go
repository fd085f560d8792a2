// Package habits holds the habit subcommands.
package habits

import (
	"fmt"
	"strings"
	"time"

	"github.com/mbenson/tracker/internal/cli"
	"github.com/mbenson/tracker/internal/constants"
	"github.com/mbenson/tracker/internal/models"
	"github.com/mbenson/tracker/internal/storage"
)

type AddCmd struct {
	Title     string `arg:"" help:"Habit title."`
	Frequency string `short:"f" help:"Frequency: 'daily' or comma-separated weekdays (mon,wed,fri)." default:"daily"`
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	frequency, err := cli.ParseFrequency(c.Frequency)
	if err != nil {
		return err
	}

	session, err := ctx.Session()
	if err != nil {
		return err
	}
	runCtx, cancel := ctx.RunCtx()
	defer cancel()

	if err := session.Habits.Load(runCtx); err != nil {
		return err
	}
	habit := models.Habit{
		ID:        storage.EnsureID(""),
		Title:     c.Title,
		Frequency: frequency,
		CreatedAt: time.Now(),
	}
	if err := session.Habits.Create(runCtx, habit); err != nil {
		return fmt.Errorf("failed to add habit: %w", err)
	}
	fmt.Println(cli.OK("added habit %q (%s)", c.Title, strings.Join(frequency, ",")))
	return nil
}

type ListCmd struct {
	ShowIDs bool `help:"Show habit IDs." name:"show-ids"`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	session, err := ctx.Session()
	if err != nil {
		return err
	}
	runCtx, cancel := ctx.RunCtx()
	defer cancel()

	if err := session.Habits.Load(runCtx); err != nil {
		return err
	}

	habits := session.Habits.Snapshot()
	if len(habits) == 0 {
		fmt.Println("No habits found")
		return nil
	}

	today := cli.Today()
	fmt.Println(cli.Header("Habits:"))
	for _, habit := range habits {
		mark := "[ ]"
		for _, d := range habit.CompletedDates {
			if d == today {
				mark = "[x]"
				break
			}
		}
		idStr := ""
		if c.ShowIDs {
			idStr = cli.Faint(fmt.Sprintf(" (ID: %s)", habit.ID))
		}
		fmt.Printf("  %s %s%s - streak %d (%s)\n",
			mark, habit.Title, idStr, habit.Streak, strings.Join(habit.Frequency, ","))
	}
	fmt.Printf("\nCompleted today: %d  Total streak: %d\n",
		session.Habits.CompletedToday(time.Now()), session.Habits.TotalStreak())
	return nil
}

type CheckCmd struct {
	ID   string `arg:"" help:"Habit ID."`
	Date string `short:"d" help:"Date to toggle (YYYY-MM-DD), defaults to today."`
}

func (c *CheckCmd) Validate() error {
	_, err := cli.ParseDate(c.Date)
	return err
}

func (c *CheckCmd) Run(ctx *cli.Context) error {
	dayStr := c.Date
	if dayStr == "" {
		dayStr = cli.Today()
	}
	day, err := time.Parse(constants.DateFormat, dayStr)
	if err != nil {
		return fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", dayStr)
	}

	session, err := ctx.Session()
	if err != nil {
		return err
	}
	runCtx, cancel := ctx.RunCtx()
	defer cancel()

	if err := session.Habits.Load(runCtx); err != nil {
		return err
	}
	err = session.Habits.Update(runCtx, c.ID, func(h models.Habit) models.Habit {
		h.ToggleCompletion(day, time.Now())
		return h
	})
	if err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}

	if habit, ok := session.Habits.Get(c.ID); ok {
		fmt.Println(cli.OK("toggled %s on %s (streak %d)", habit.Title, dayStr, habit.Streak))
	}
	return nil
}

type DeleteCmd struct {
	ID string `arg:"" help:"Habit ID."`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	session, err := ctx.Session()
	if err != nil {
		return err
	}
	runCtx, cancel := ctx.RunCtx()
	defer cancel()

	if err := session.Habits.Load(runCtx); err != nil {
		return err
	}
	if err := session.Habits.Delete(runCtx, c.ID); err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	fmt.Println(cli.OK("deleted habit %s", c.ID))
	return nil
}
