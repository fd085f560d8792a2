package system

import (
	"fmt"

	"github.com/mbenson/tracker/internal/cli"
)

// InitCmd prepares the data directory, the device identity, and the default
// database so first use does not trip over missing files.
type InitCmd struct {
	DB string `help:"SQLite path, .xlsx workbook path, or PostgreSQL connection string to initialize."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if err := checkDataDir(ctx.DataDir); err != nil {
		return fmt.Errorf("failed to prepare data directory: %w", err)
	}

	deviceID, err := ctx.Registry.DeviceID()
	if err != nil {
		return err
	}

	target, err := resolveDB(c.DB, ctx.DataDir)
	if err != nil {
		return err
	}
	store, err := openStore(target)
	if err != nil {
		return err
	}
	if err := store.Close(); err != nil {
		return err
	}

	fmt.Println(cli.OK("data directory ready: %s", ctx.DataDir))
	fmt.Println(cli.OK("device identity: %s", deviceID))
	fmt.Println(cli.OK("storage initialized: %s", describeTarget(target)))
	return nil
}
