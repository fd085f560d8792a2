package system

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/mbenson/tracker/internal/cli"
	"github.com/mbenson/tracker/internal/constants"
	"github.com/mbenson/tracker/internal/keyring"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false

	// Check 1: data directory writable
	if err := checkDataDir(ctx.DataDir); err != nil {
		fmt.Printf("❌ Data directory: FAIL\n   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Data directory: OK (%s)\n", ctx.DataDir)
	}

	// Check 2: storage reachable
	target, err := resolveDB("", ctx.DataDir)
	if err == nil {
		err = checkStorage(target)
	}
	if err != nil {
		fmt.Printf("❌ Storage reachable: FAIL\n   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Storage reachable: OK (%s)\n", describeTarget(target))
	}

	// Check 3: user scope resolvable
	if scope, err := ctx.Registry.Scope(); err != nil {
		fmt.Printf("❌ User scope: FAIL\n   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ User scope: OK (%s)\n", scope)
	}

	// Check 4: OS keyring (warning only; falls back to env or flags)
	if keyring.IsAvailable() {
		fmt.Printf("✓ OS keyring: OK\n")
	} else {
		fmt.Printf("⚠ OS keyring: WARNING (unavailable, use %s or --db)\n", EnvDBConnection)
	}

	// Check 5: API server (skipped unless configured)
	if ctx.Server == "" {
		fmt.Printf("⊘ API server: SKIPPED (no --server configured)\n")
	} else if err := checkServer(ctx.Server); err != nil {
		fmt.Printf("❌ API server: FAIL\n   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ API server: OK (%s)\n", ctx.Server)
	}

	// Check 6: another tracker serve process
	if running, pid := findServerProcess(); running {
		fmt.Printf("✓ Server process: running (pid %d)\n", pid)
	} else {
		fmt.Printf("⊘ Server process: none found\n")
	}

	// Check 7: clock sanity
	if err := checkClock(); err != nil {
		fmt.Printf("❌ Clock: FAIL\n   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Clock: OK\n")
	}

	fmt.Println()
	if hasError {
		return fmt.Errorf("diagnostics found problems")
	}
	fmt.Println("All checks passed")
	return nil
}

func checkDataDir(dir string) error {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}
	probe := filepath.Join(dir, ".doctor-probe")
	if err := os.WriteFile(probe, []byte("ok"), 0600); err != nil {
		return fmt.Errorf("directory not writable: %w", err)
	}
	return os.Remove(probe)
}

func checkStorage(target string) error {
	store, err := openStore(target)
	if err != nil {
		return err
	}
	return store.Close()
}

func checkServer(base string) error {
	client := &http.Client{Timeout: 5 * time.Second}
	res, err := client.Get(strings.TrimRight(base, "/") + "/api/health")
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", res.StatusCode)
	}
	return nil
}

// findServerProcess looks for another tracker process, which usually means a
// local server is already running.
func findServerProcess() (bool, int) {
	procs, err := ps.Processes()
	if err != nil {
		return false, 0
	}
	self := os.Getpid()
	for _, p := range procs {
		if p.Pid() != self && p.Executable() == constants.AppName {
			return true, p.Pid()
		}
	}
	return false, 0
}

func checkClock() error {
	now := time.Now()
	if now.Year() < 2020 {
		return fmt.Errorf("system clock reports %s, which looks wrong", now.Format(time.RFC3339))
	}
	if _, err := time.Parse(constants.DateFormat, now.Format(constants.DateFormat)); err != nil {
		return err
	}
	return nil
}

// describeTarget keeps connection strings out of the diagnostics output.
func describeTarget(target string) string {
	if strings.HasPrefix(target, "postgres://") || strings.HasPrefix(target, "postgresql://") {
		return "postgresql"
	}
	return target
}
