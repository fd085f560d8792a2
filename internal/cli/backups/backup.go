// Package backups holds the database snapshot subcommands. They operate on
// file-backed stores; PostgreSQL deployments use their own backup tooling.
package backups

import (
	"fmt"
	"path/filepath"

	"github.com/mbenson/tracker/internal/backup"
	"github.com/mbenson/tracker/internal/cli"
	"github.com/mbenson/tracker/internal/storage/postgres"
)

func manager(ctx *cli.Context, db string) (*backup.Manager, error) {
	target := db
	if target == "" {
		target = filepath.Join(ctx.DataDir, "tracker.db")
	}
	if postgres.IsDSN(target) {
		return nil, fmt.Errorf("snapshots only work for file-backed stores; use pg_dump for PostgreSQL")
	}
	return backup.NewManager(target), nil
}

type CreateCmd struct {
	DB string `help:"Database file to snapshot. Defaults to tracker.db in the data directory."`
}

func (c *CreateCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx, c.DB)
	if err != nil {
		return err
	}
	path, err := mgr.Create()
	if err != nil {
		return err
	}
	fmt.Println(cli.OK("created backup %s", filepath.Base(path)))
	return nil
}

type ListCmd struct {
	DB string `help:"Database file whose snapshots to list."`
}

func (c *ListCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx, c.DB)
	if err != nil {
		return err
	}
	backups, err := mgr.List()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		fmt.Println("No backups found")
		return nil
	}

	fmt.Println(cli.Header("Backups:"))
	for _, b := range backups {
		fmt.Printf("  %s  %s  %d bytes\n",
			b.Timestamp.Format("2006-01-02 15:04"), filepath.Base(b.Path), b.Size)
	}
	return nil
}

type RestoreCmd struct {
	Backup string `arg:"" help:"Backup filename or path to restore."`
	DB     string `help:"Database file to restore into."`
}

func (c *RestoreCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx, c.DB)
	if err != nil {
		return err
	}

	path := c.Backup
	if filepath.Dir(path) == "." {
		path = filepath.Join(mgr.Dir(), path)
	}
	if err := mgr.Restore(path); err != nil {
		return err
	}
	fmt.Println(cli.OK("restored from %s", filepath.Base(path)))
	return nil
}
