package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/mbenson/tracker/internal/cli"
	"github.com/mbenson/tracker/internal/cli/backups"
	"github.com/mbenson/tracker/internal/cli/finance"
	"github.com/mbenson/tracker/internal/cli/habits"
	"github.com/mbenson/tracker/internal/cli/planner"
	"github.com/mbenson/tracker/internal/cli/system"
	"github.com/mbenson/tracker/internal/cli/tasks"
	"github.com/mbenson/tracker/internal/cli/users"
	"github.com/mbenson/tracker/internal/identity"
	"github.com/mbenson/tracker/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	DataDir string `help:"Data directory for local files and identity." default:"~/.local/share/tracker"`
	Server  string `short:"s" help:"Base URL of a tracker API server. When unset, data commands use local files."`
	Debug   bool   `help:"Enable debug logging."`

	Init   system.InitCmd   `cmd:"" help:"Initialize local storage and identity."`
	Backup struct {
		Create  backups.CreateCmd  `cmd:"" help:"Create a database snapshot." default:"1"`
		List    backups.ListCmd    `cmd:"" help:"List available snapshots."`
		Restore backups.RestoreCmd `cmd:"" help:"Restore from a snapshot."`
	} `cmd:"" help:"Manage database snapshots."`
	Serve  system.ServeCmd  `cmd:"" help:"Run the REST API server."`
	Doctor system.DoctorCmd `cmd:"" help:"Run health checks and diagnostics."`
	Config struct {
		SetDB    system.ConfigSetDBCmd    `cmd:"" name:"set-db" help:"Store the database connection string in the OS keyring."`
		GetDB    system.ConfigGetDBCmd    `cmd:"" name:"get-db" help:"Show whether a connection string is stored."`
		DeleteDB system.ConfigDeleteDBCmd `cmd:"" name:"delete-db" help:"Remove the stored connection string."`
	} `cmd:"" help:"Manage configuration."`
	User struct {
		Register users.RegisterCmd `cmd:"" help:"Create a local account and log in."`
		Login    users.LoginCmd    `cmd:"" help:"Log in to a local account."`
		Logout   users.LogoutCmd   `cmd:"" help:"Log out of the current account."`
		Whoami   users.WhoamiCmd   `cmd:"" help:"Show the current user scope."`
	} `cmd:"" help:"Manage local accounts."`
	Task struct {
		Add    tasks.AddCmd    `cmd:"" help:"Add a new task."`
		List   tasks.ListCmd   `cmd:"" help:"List tasks." default:"1"`
		Done   tasks.DoneCmd   `cmd:"" help:"Toggle a task's completion."`
		Delete tasks.DeleteCmd `cmd:"" help:"Delete a task."`
	} `cmd:"" help:"Manage tasks."`
	Habit struct {
		Add    habits.AddCmd    `cmd:"" help:"Add a new habit."`
		List   habits.ListCmd   `cmd:"" help:"List habits." default:"1"`
		Check  habits.CheckCmd  `cmd:"" help:"Toggle a habit's completion for a day."`
		Delete habits.DeleteCmd `cmd:"" help:"Delete a habit."`
	} `cmd:"" help:"Manage habits and streaks."`
	Finance struct {
		Add     finance.AddCmd     `cmd:"" help:"Record a transaction."`
		List    finance.ListCmd    `cmd:"" help:"List transactions." default:"1"`
		Summary finance.SummaryCmd `cmd:"" help:"Show income, expenses, and balance."`
		Delete  finance.DeleteCmd  `cmd:"" help:"Delete a transaction."`
	} `cmd:"" help:"Manage finances."`
	Planner struct {
		Add    planner.AddCmd    `cmd:"" help:"Add a time block."`
		List   planner.ListCmd   `cmd:"" help:"List time blocks." default:"1"`
		Delete planner.DeleteCmd `cmd:"" help:"Delete a time block."`
	} `cmd:"" help:"Manage the weekly planner."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("tracker"),
		kong.Description("Personal productivity tracker: tasks, habits, finances, and a weekly planner"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": "v0.1.0"},
	)

	dataDir := expandHome(CLI.DataDir)
	if err := logger.Init(logger.Config{Debug: CLI.Debug, DataDir: dataDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}

	appCtx := &cli.Context{
		DataDir:  dataDir,
		Server:   strings.TrimRight(CLI.Server, "/"),
		Registry: identity.NewRegistry(dataDir),
	}

	if err := ctx.Run(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
