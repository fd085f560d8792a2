// Package planner holds the time block subcommands.
package planner

import (
	"fmt"

	"github.com/mbenson/tracker/internal/cli"
	"github.com/mbenson/tracker/internal/models"
	"github.com/mbenson/tracker/internal/storage"
)

type AddCmd struct {
	Title    string `arg:"" help:"Block title."`
	Day      string `arg:"" help:"Weekday, e.g. monday."`
	Start    int    `short:"s" help:"Start hour (0-23)." required:""`
	Duration int    `short:"d" help:"Duration in hours." default:"1"`
	Category string `short:"c" help:"Category (Work|Personal|Study|Fitness)." default:"Work"`
}

func (c *AddCmd) Validate() error {
	if c.Start < 0 || c.Start > 23 {
		return fmt.Errorf("start hour must be between 0 and 23")
	}
	if c.Duration < 1 {
		return fmt.Errorf("duration must be at least 1 hour")
	}
	if !models.BlockCategory(c.Category).Valid() {
		return fmt.Errorf("category must be Work, Personal, Study, or Fitness")
	}
	_, err := cli.ParseWeekday(c.Day)
	return err
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	day, err := cli.ParseWeekday(c.Day)
	if err != nil {
		return err
	}

	session, err := ctx.Session()
	if err != nil {
		return err
	}
	runCtx, cancel := ctx.RunCtx()
	defer cancel()

	if err := session.Planner.Load(runCtx); err != nil {
		return err
	}
	block := models.TimeBlock{
		ID:        storage.EnsureID(""),
		Title:     c.Title,
		Day:       day,
		StartHour: c.Start,
		Duration:  c.Duration,
		Category:  models.BlockCategory(c.Category),
	}
	if err := session.Planner.Create(runCtx, block); err != nil {
		return fmt.Errorf("failed to add time block: %w", err)
	}
	fmt.Println(cli.OK("added %q on %s at %02d:00", c.Title, day, c.Start))
	return nil
}

type ListCmd struct {
	Day     string `short:"d" help:"Show only this weekday."`
	ShowIDs bool   `help:"Show block IDs." name:"show-ids"`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	session, err := ctx.Session()
	if err != nil {
		return err
	}
	runCtx, cancel := ctx.RunCtx()
	defer cancel()

	if err := session.Planner.Load(runCtx); err != nil {
		return err
	}

	blocks := session.Planner.Snapshot()
	if c.Day != "" {
		day, err := cli.ParseWeekday(c.Day)
		if err != nil {
			return err
		}
		blocks = session.Planner.ForDay(day)
	}
	if len(blocks) == 0 {
		fmt.Println("No time blocks found")
		return nil
	}

	fmt.Println(cli.Header("Time blocks:"))
	for _, block := range blocks {
		idStr := ""
		if c.ShowIDs {
			idStr = cli.Faint(fmt.Sprintf(" (ID: %s)", block.ID))
		}
		fmt.Printf("  %-9s %02d:00-%02d:00  %s (%s)%s\n",
			block.Day, block.StartHour, block.StartHour+block.Duration, block.Title, block.Category, idStr)
	}
	return nil
}

type DeleteCmd struct {
	ID string `arg:"" help:"Block ID."`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	session, err := ctx.Session()
	if err != nil {
		return err
	}
	runCtx, cancel := ctx.RunCtx()
	defer cancel()

	if err := session.Planner.Load(runCtx); err != nil {
		return err
	}
	if err := session.Planner.Delete(runCtx, c.ID); err != nil {
		return fmt.Errorf("failed to delete time block: %w", err)
	}
	fmt.Println(cli.OK("deleted time block %s", c.ID))
	return nil
}
