// Package pgtest starts a throwaway PostgreSQL for integration tests.
package pgtest

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/riskibarqy/gameday-api/internal/infrastructure/database"
	"github.com/riskibarqy/gameday-api/internal/platform/logging"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

const (
	image    = "postgres:16-alpine"
	dbName   = "gameday"
	user     = "gameday"
	password = "gameday"
)

// Start runs a migrated PostgreSQL container for the test and returns its
// connection string. The test is skipped under -short or without Docker.
func Start(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := postgres.Run(ctx,
		image,
		postgres.WithDatabase(dbName),
		postgres.WithUsername(user),
		postgres.WithPassword(password),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, container)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("postgres connection string: %v", err)
	}

	migrator, err := database.NewMigrator(connStr, MigrationsDir(), logging.NewNop())
	if err != nil {
		t.Fatalf("create migrator: %v", err)
	}
	defer migrator.Close()
	if err := migrator.Up(); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	return connStr
}

// Open returns an opened connection manager against a fresh container.
func Open(t *testing.T) *database.Database {
	t.Helper()
	connStr := Start(t)

	db := database.New(connStr, database.Options{MaxOpenConns: 4}, logging.NewNop())
	if err := db.Open(context.Background()); err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() {
		if db.IsOpen() {
			_ = db.Close()
		}
	})
	return db
}

// MigrationsDir is the absolute path of db/migrations in this repository.
func MigrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "db", "migrations")
}
