// Package tasks holds the task subcommands.
package tasks

import (
	"fmt"
	"time"

	"github.com/mbenson/tracker/internal/cli"
	"github.com/mbenson/tracker/internal/models"
	"github.com/mbenson/tracker/internal/storage"
)

type AddCmd struct {
	Title    string `arg:"" help:"Task title."`
	Due      string `short:"d" help:"Due date (YYYY-MM-DD)."`
	Priority string `short:"p" help:"Priority (low|medium|high)." default:"medium"`
}

func (c *AddCmd) Validate() error {
	if !models.Priority(c.Priority).Valid() {
		return fmt.Errorf("priority must be low, medium, or high")
	}
	_, err := cli.ParseDate(c.Due)
	return err
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	session, err := ctx.Session()
	if err != nil {
		return err
	}
	runCtx, cancel := ctx.RunCtx()
	defer cancel()

	if err := session.Tasks.Load(runCtx); err != nil {
		return err
	}
	task := models.Task{
		ID:        storage.EnsureID(""),
		Title:     c.Title,
		DueDate:   c.Due,
		Priority:  models.Priority(c.Priority),
		CreatedAt: time.Now(),
	}
	if err := session.Tasks.Create(runCtx, task); err != nil {
		return fmt.Errorf("failed to add task: %w", err)
	}
	fmt.Println(cli.OK("added task %q", c.Title))
	return nil
}

type ListCmd struct {
	ShowIDs bool `help:"Show task IDs." name:"show-ids"`
	DueToday bool `help:"Show only tasks due today." name:"due-today"`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	session, err := ctx.Session()
	if err != nil {
		return err
	}
	runCtx, cancel := ctx.RunCtx()
	defer cancel()

	if err := session.Tasks.Load(runCtx); err != nil {
		return err
	}

	tasks := session.Tasks.Snapshot()
	if c.DueToday {
		tasks = session.Tasks.DueToday(time.Now())
	}
	if len(tasks) == 0 {
		fmt.Println("No tasks found")
		return nil
	}

	fmt.Println(cli.Header("Tasks:"))
	for _, task := range tasks {
		mark := "[ ]"
		if task.Completed {
			mark = "[x]"
		}
		idStr := ""
		if c.ShowIDs {
			idStr = cli.Faint(fmt.Sprintf(" (ID: %s)", task.ID))
		}
		due := ""
		if task.DueDate != "" {
			due = " due " + task.DueDate
		}
		fmt.Printf("  %s %s%s (%s)%s\n", mark, task.Title, idStr, task.Priority, due)
	}
	fmt.Printf("\nCompletion rate: %.0f%%\n", session.Tasks.CompletionRate()*100)
	return nil
}

type DoneCmd struct {
	ID string `arg:"" help:"Task ID."`
}

func (c *DoneCmd) Run(ctx *cli.Context) error {
	session, err := ctx.Session()
	if err != nil {
		return err
	}
	runCtx, cancel := ctx.RunCtx()
	defer cancel()

	if err := session.Tasks.Load(runCtx); err != nil {
		return err
	}
	err = session.Tasks.Update(runCtx, c.ID, func(t models.Task) models.Task {
		t.Completed = !t.Completed
		return t
	})
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	fmt.Println(cli.OK("toggled task %s", c.ID))
	return nil
}

type DeleteCmd struct {
	ID string `arg:"" help:"Task ID."`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	session, err := ctx.Session()
	if err != nil {
		return err
	}
	runCtx, cancel := ctx.RunCtx()
	defer cancel()

	if err := session.Tasks.Load(runCtx); err != nil {
		return err
	}
	if err := session.Tasks.Delete(runCtx, c.ID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	fmt.Println(cli.OK("deleted task %s", c.ID))
	return nil
}
