// Package users holds account commands backed by the local user registry.
package users

import (
	"errors"
	"fmt"

	"github.com/mbenson/tracker/internal/cli"
	"github.com/mbenson/tracker/internal/identity"
)

type RegisterCmd struct {
	Username string `arg:"" help:"Username (at least 3 characters)."`
	Password string `arg:"" help:"Password (at least 4 characters)."`
}

func (c *RegisterCmd) Run(ctx *cli.Context) error {
	user, err := ctx.Registry.Register(c.Username, c.Password)
	if err != nil {
		return err
	}
	fmt.Println(cli.OK("registered and logged in as %s", user.Username))
	return nil
}

type LoginCmd struct {
	Username string `arg:"" help:"Username."`
	Password string `arg:"" help:"Password."`
}

func (c *LoginCmd) Run(ctx *cli.Context) error {
	user, err := ctx.Registry.Login(c.Username, c.Password)
	if err != nil {
		return err
	}
	fmt.Println(cli.OK("logged in as %s", user.Username))
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *cli.Context) error {
	if err := ctx.Registry.Logout(); err != nil {
		return err
	}
	fmt.Println("Logged out. Data commands now use the device scope.")
	return nil
}

type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(ctx *cli.Context) error {
	user, err := ctx.Registry.Current()
	if err != nil {
		if !errors.Is(err, identity.ErrNotLoggedIn) {
			return err
		}
		deviceID, derr := ctx.Registry.DeviceID()
		if derr != nil {
			return derr
		}
		fmt.Printf("Not logged in. Device scope: %s\n", deviceID)
		return nil
	}
	fmt.Printf("Logged in as %s\n", user.Username)
	return nil
}
