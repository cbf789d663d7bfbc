package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/riskibarqy/gameday-api/internal/config"
	"github.com/riskibarqy/gameday-api/internal/infrastructure/database"
	"github.com/riskibarqy/gameday-api/internal/platform/logging"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := logging.NewConsole(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	fatal := func(msg string, err error) {
		logger.Error(msg, "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}

	migrationsDir, err := database.ResolveMigrationsDir(cfg.MigrationsDir)
	if err != nil {
		fatal("resolve migrations dir", err)
	}

	m, err := database.NewMigrator(cfg.DBURL, migrationsDir, logger)
	if err != nil {
		fatal("create migrator", err)
	}
	defer m.Close()

	cmd := strings.ToLower(strings.TrimSpace(os.Args[1]))
	switch cmd {
	case "up":
		if err := m.Up(); err != nil {
			fatal("apply migrations", err)
		}
	case "down":
		steps, err := parseSteps(os.Args[2:])
		if err != nil {
			fatal("parse steps", err)
		}
		if err := m.Down(steps); err != nil {
			fatal("roll back migrations", err)
		}
	case "reset":
		if err := m.Reset(); err != nil {
			fatal("reset schema", err)
		}
	case "version":
		version, dirty, ok, err := m.Version()
		if err != nil {
			fatal("read version", err)
		}
		if !ok {
			fmt.Println("version: none")
			fmt.Println("dirty: false")
			return
		}
		fmt.Printf("version: %d\n", version)
		fmt.Printf("dirty: %t\n", dirty)
	case "force":
		if len(os.Args) < 3 {
			fatal("force", fmt.Errorf("force requires a version argument"))
		}
		version, err := parseVersion(os.Args[2])
		if err != nil {
			fatal("parse version", err)
		}
		if err := m.Force(version); err != nil {
			fatal("force version", err)
		}
		logger.Info("forced version", "version", version)
	case "goto", "migrate":
		if len(os.Args) < 3 {
			fatal("goto", fmt.Errorf("goto requires a target version argument"))
		}
		target, err := parseTarget(os.Args[2])
		if err != nil {
			fatal("parse target", err)
		}
		if err := m.Goto(target); err != nil {
			fatal("migrate", err)
		}
		logger.Info("migrated", "version", target)
	default:
		printUsage()
		os.Exit(2)
	}
}

func parseSteps(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}

	steps, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return 0, fmt.Errorf("invalid down steps %q: %w", args[0], err)
	}
	if steps <= 0 {
		return 0, fmt.Errorf("down steps must be > 0")
	}

	return steps, nil
}

func parseVersion(raw string) (int, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid version %q: %w", raw, err)
	}
	if value < 0 {
		return 0, fmt.Errorf("version must be >= 0")
	}
	if value > int64(^uint(0)>>1) {
		return 0, fmt.Errorf("version is too large for this platform")
	}

	return int(value), nil
}

func parseTarget(raw string) (uint, error) {
	value, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid target version %q: %w", raw, err)
	}
	return uint(value), nil
}

func printUsage() {
	name := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "usage: %s <up|down|reset|version|force|goto> [args]\n", name)
	fmt.Fprintln(os.Stderr, "examples:")
	fmt.Fprintf(os.Stderr, "  %s up\n", name)
	fmt.Fprintf(os.Stderr, "  %s down 1\n", name)
	fmt.Fprintf(os.Stderr, "  %s reset\n", name)
	fmt.Fprintf(os.Stderr, "  %s version\n", name)
	fmt.Fprintf(os.Stderr, "  %s force 1\n", name)
	fmt.Fprintf(os.Stderr, "  %s goto 1\n", name)
}
