package database_test

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/gameday-api/internal/infrastructure/database"
	"github.com/riskibarqy/gameday-api/internal/platform/logging"
	"github.com/riskibarqy/gameday-api/internal/platform/pgtest"
)

func TestDatabase_Lifecycle(t *testing.T) {
	connStr := pgtest.Start(t)
	ctx := context.Background()

	db := database.New(connStr, database.Options{MaxOpenConns: 2}, logging.NewNop())
	if err := db.Open(ctx); err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := db.Open(ctx); !errors.Is(err, database.ErrAlreadyOpen) {
		t.Fatalf("expected ErrAlreadyOpen on second open, got %v", err)
	}
	if err := db.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}

	res, err := db.Query(ctx, "SELECT $1::int AS n, 'x'::text AS s UNION ALL SELECT 2, 'y'", 1)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if res.RowCount != 2 || len(res.Rows) != 2 {
		t.Fatalf("unexpected row count: %+v", res)
	}
	if res.Rows[0]["s"] != "x" {
		t.Fatalf("unexpected first row: %+v", res.Rows[0])
	}

	if _, err := db.Query(ctx, "SELECT * FROM does_not_exist"); err == nil {
		t.Fatalf("expected error for invalid query")
	}

	// A failing query must still hand its connection back to the pool.
	for i := 0; i < 5; i++ {
		if _, err := db.Query(ctx, "SELECT broken syntax"); err == nil {
			t.Fatalf("expected syntax error")
		}
	}
	if err := db.Ping(ctx); err != nil {
		t.Fatalf("ping after failed queries: %v", err)
	}

	affected, err := db.Exec(ctx, "INSERT INTO teams (name, slug) VALUES ('Valur', 'valur'), ('KR', 'kr')")
	if err != nil {
		t.Fatalf("exec: %v", err)
	}
	if affected != 2 {
		t.Fatalf("expected 2 affected rows, got %d", affected)
	}

	var names []string
	if err := db.Select(ctx, &names, "SELECT name FROM teams ORDER BY name"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(names) != 2 || names[0] != "KR" {
		t.Fatalf("unexpected names: %+v", names)
	}

	var slug string
	err = db.Get(ctx, &slug, "SELECT slug FROM teams WHERE name = $1", "Nope")
	if !database.IsNoRows(err) {
		t.Fatalf("expected no rows, got %v", err)
	}

	if err := db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := db.Close(); !errors.Is(err, database.ErrNotOpen) {
		t.Fatalf("expected ErrNotOpen on second close, got %v", err)
	}
	if err := db.Open(ctx); !errors.Is(err, database.ErrClosed) {
		t.Fatalf("expected ErrClosed when reopening, got %v", err)
	}
	if _, err := db.Query(ctx, "SELECT 1"); !errors.Is(err, database.ErrNotOpen) {
		t.Fatalf("expected ErrNotOpen after close, got %v", err)
	}
}
