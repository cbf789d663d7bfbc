package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/riskibarqy/gameday-api/internal/app"
	"github.com/riskibarqy/gameday-api/internal/config"
	"github.com/riskibarqy/gameday-api/internal/infrastructure/database"
	"github.com/riskibarqy/gameday-api/internal/platform/logging"
	"github.com/riskibarqy/gameday-api/internal/usecase"
	"github.com/spf13/cobra"
)

type options struct {
	dataDir       string
	migrationsDir string
	seedFile      string
	reset         bool
	workers       int
}

func main() {
	var opts options

	rootCmd := &cobra.Command{
		Use:           "setup",
		Short:         "Create the schema and import teams and gamedays",
		Long:          "setup applies the migrations (dropping the schema first with --reset), runs an optional seed script and bulk imports teams.json and gameday-*.json from the data directory.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}

	rootCmd.Flags().StringVarP(&opts.dataDir, "data-dir", "d", "", "directory holding teams.json and gameday-*.json (default IMPORT_DATA_DIR)")
	rootCmd.Flags().StringVar(&opts.migrationsDir, "migrations-dir", "", "migration directory (default MIGRATIONS_DIR)")
	rootCmd.Flags().StringVar(&opts.seedFile, "seed-file", "./db/seed/insert.sql", "SQL script run after migrating, skipped when missing")
	rootCmd.Flags().BoolVar(&opts.reset, "reset", true, "drop the schema before migrating")
	rootCmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "gameday files parsed concurrently (default IMPORT_WORKERS)")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "setup failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if opts.dataDir == "" {
		opts.dataDir = cfg.ImportDataDir
	}
	if opts.migrationsDir == "" {
		opts.migrationsDir = cfg.MigrationsDir
	}

	logger := logging.NewConsole(cfg.LogLevel).Named("setup")
	defer func() { _ = logger.Sync() }()
	logger.Info("starting setup", "data_dir", opts.dataDir, "reset", opts.reset)

	if err := migrateSchema(cfg, opts, logger); err != nil {
		return err
	}

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := application.Close(); err != nil {
			logger.Warn("close app", "error", err)
		}
	}()

	if err := runSeed(ctx, application.DB, opts.seedFile, logger); err != nil {
		return err
	}

	report, err := application.NewImportService(opts.workers).Run(ctx, opts.dataDir)
	if err != nil {
		return fmt.Errorf("import %s: %w", opts.dataDir, err)
	}
	logReport(logger, report)

	logger.Info("setup complete")
	return nil
}

func migrateSchema(cfg config.Config, opts options, logger *logging.Logger) error {
	dir, err := database.ResolveMigrationsDir(opts.migrationsDir)
	if err != nil {
		return err
	}

	m, err := database.NewMigrator(cfg.DBURL, dir, logger)
	if err != nil {
		return err
	}
	defer m.Close()

	if opts.reset {
		return m.Reset()
	}
	return m.Up()
}

func runSeed(ctx context.Context, db *database.Database, path string, logger *logging.Logger) error {
	if path == "" {
		return nil
	}

	script, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Info("no seed script, skipping", "path", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read seed script: %w", err)
	}

	if _, err := db.Exec(ctx, string(script)); err != nil {
		return fmt.Errorf("run seed script %s: %w", path, err)
	}
	logger.Info("data inserted", "path", path)
	return nil
}

func logReport(logger *logging.Logger, report usecase.ImportReport) {
	for _, skipped := range report.TeamsSkipped {
		logger.Warn("team skipped", "team", skipped.Input, "reason", skipped.Reason)
	}
	for _, skipped := range report.GamesSkipped {
		logger.Warn("game skipped",
			"date", skipped.Date,
			"home", skipped.Matchup.Home.Name,
			"away", skipped.Matchup.Away.Name,
			"reason", skipped.Reason,
		)
	}

	logger.Info("import finished",
		"teams_inserted", report.TeamsInserted,
		"teams_skipped", len(report.TeamsSkipped),
		"files_parsed", report.FilesParsed,
		"files_failed", report.FilesFailed,
		"rejections", report.Rejections,
		"games_inserted", report.GamesInserted,
		"games_skipped", len(report.GamesSkipped),
	)
}
