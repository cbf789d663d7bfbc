package database

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/riskibarqy/gameday-api/internal/platform/logging"
)

// Migrator applies the schema in db/migrations.
type Migrator struct {
	m      *migrate.Migrate
	source string
	logger *logging.Logger
}

func NewMigrator(dbURL, migrationsDir string, logger *logging.Logger) (*Migrator, error) {
	if logger == nil {
		logger = logging.Default()
	}

	abs, err := filepath.Abs(migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("resolve migrations dir: %w", err)
	}
	sourceURL := "file://" + filepath.ToSlash(abs)

	m, err := migrate.New(sourceURL, dbURL)
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}

	return &Migrator{m: m, source: sourceURL, logger: logger.Named("migrate")}, nil
}

// Up applies every pending migration. No pending migration is not an error.
func (m *Migrator) Up() error {
	if err := ignoreNoChange(m.m.Up()); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	m.logger.Info("migrations applied", "source", m.source)
	return nil
}

// Down rolls back the given number of steps.
func (m *Migrator) Down(steps int) error {
	if steps <= 0 {
		return fmt.Errorf("down steps must be > 0")
	}
	if err := ignoreNoChange(m.m.Steps(-steps)); err != nil {
		return fmt.Errorf("migrate down %d: %w", steps, err)
	}
	m.logger.Info("migrations rolled back", "steps", steps)
	return nil
}

// Reset rolls back every migration and applies them again, leaving empty
// tables behind.
func (m *Migrator) Reset() error {
	if err := ignoreNoChange(m.m.Down()); err != nil {
		return fmt.Errorf("migrate down: %w", err)
	}
	m.logger.Info("schema dropped")
	return m.Up()
}

// Version returns the applied version; ok is false when nothing was applied.
func (m *Migrator) Version() (version uint, dirty bool, ok bool, err error) {
	version, dirty, err = m.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, false, nil
	}
	if err != nil {
		return 0, false, false, fmt.Errorf("read version: %w", err)
	}
	return version, dirty, true, nil
}

func (m *Migrator) Force(version int) error {
	if err := m.m.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	return nil
}

func (m *Migrator) Goto(target uint) error {
	if err := ignoreNoChange(m.m.Migrate(target)); err != nil {
		return fmt.Errorf("migrate to %d: %w", target, err)
	}
	return nil
}

func (m *Migrator) Close() {
	srcErr, dbErr := m.m.Close()
	if srcErr != nil {
		m.logger.Warn("close migration source", "error", srcErr)
	}
	if dbErr != nil {
		m.logger.Warn("close migration db", "error", dbErr)
	}
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

// ResolveMigrationsDir returns the first existing directory among the
// preferred one and the usual locations.
func ResolveMigrationsDir(preferred string) (string, error) {
	candidates := []string{
		strings.TrimSpace(preferred),
		strings.TrimSpace(os.Getenv("MIGRATIONS_DIR")),
		"./db/migrations",
		"/app/db/migrations",
	}

	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		info, err := os.Stat(abs)
		if err != nil || !info.IsDir() {
			continue
		}
		return abs, nil
	}

	return "", fmt.Errorf("migration directory not found (checked %q, MIGRATIONS_DIR, ./db/migrations, /app/db/migrations)", preferred)
}
