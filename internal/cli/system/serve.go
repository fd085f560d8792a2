// Package system holds server, diagnostics, and configuration commands.
package system

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mbenson/tracker/internal/cli"
	"github.com/mbenson/tracker/internal/keyring"
	"github.com/mbenson/tracker/internal/logger"
	"github.com/mbenson/tracker/internal/server"
	"github.com/mbenson/tracker/internal/storage"
	"github.com/mbenson/tracker/internal/storage/postgres"
	"github.com/mbenson/tracker/internal/storage/sqlite"
	"github.com/mbenson/tracker/internal/storage/xlsx"
)

// EnvDBConnection overrides the stored database connection when set.
const EnvDBConnection = "TRACKER_DB_CONNECTION"

type ServeCmd struct {
	Port           int    `short:"p" help:"Port to listen on." default:"3001"`
	DB             string `help:"SQLite path, .xlsx workbook path, or PostgreSQL connection string. Defaults to tracker.db in the data directory."`
	AllowAnonymous bool   `help:"Serve requests without an identity header from a shared default scope." name:"allow-anonymous"`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	// A .env next to the binary is a convenience for development setups.
	_ = godotenv.Load()

	target, err := resolveDB(c.DB, ctx.DataDir)
	if err != nil {
		return err
	}
	store, err := openStore(target)
	if err != nil {
		return err
	}
	defer store.Close()

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting server", "port", c.Port, "anonymous", c.AllowAnonymous)
	return server.New(store, c.AllowAnonymous).ListenAndServe(runCtx, c.Port)
}

// resolveDB picks the database target: explicit flag, then environment, then
// OS keyring, then the default SQLite file in the data directory.
func resolveDB(flag, dataDir string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if env := os.Getenv(EnvDBConnection); env != "" {
		return env, nil
	}
	stored, err := keyring.GetConnectionString()
	if err == nil {
		return stored, nil
	}
	if !errors.Is(err, keyring.ErrNotFound) && !errors.Is(err, keyring.ErrKeyringUnavailable) {
		return "", err
	}
	return filepath.Join(dataDir, "tracker.db"), nil
}

// openStore initializes the backend matching the target: a PostgreSQL DSN, an
// .xlsx workbook, or a SQLite file.
func openStore(target string) (storage.Provider, error) {
	var store storage.Provider
	switch {
	case postgres.IsDSN(target):
		if postgres.HasEmbeddedCredentials(target) {
			return nil, fmt.Errorf("connection strings with embedded credentials are not allowed; store the full string with 'tracker config set-db' or use .pgpass")
		}
		store = postgres.NewStore(target)
	case strings.HasSuffix(target, ".xlsx"):
		store = xlsx.NewStore(target)
	default:
		store = sqlite.NewStore(target)
	}
	if err := store.Init(); err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	return store, nil
}
