package cache

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/gameday-api/internal/domain/team"
	"github.com/riskibarqy/gameday-api/internal/infrastructure/repository/memory"
	basecache "github.com/riskibarqy/gameday-api/internal/platform/cache"
)

type countingRepo struct {
	team.Repository
	slugLookups int
}

func (c *countingRepo) GetBySlug(ctx context.Context, slug string) (team.Team, bool, error) {
	c.slugLookups++
	return c.Repository.GetBySlug(ctx, slug)
}

func TestTeamRepository_CachesLookupsAndInvalidatesOnWrite(t *testing.T) {
	ctx := context.Background()
	next := &countingRepo{Repository: memory.NewStore().Teams()}
	repo := NewTeamRepository(next, basecache.NewStore(time.Minute))

	if _, ok, err := repo.GetBySlug(ctx, "valur"); err != nil || ok {
		t.Fatalf("expected miss before insert, got %v %v", ok, err)
	}
	if _, ok, _ := repo.GetBySlug(ctx, "valur"); ok {
		t.Fatalf("expected second miss")
	}
	if next.slugLookups != 2 {
		t.Fatalf("expected misses to reach the backend, got %d lookups", next.slugLookups)
	}

	if _, err := repo.Insert(ctx, "Valur", ""); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, ok, err := repo.GetBySlug(ctx, "valur")
	if err != nil || !ok || got.Name != "Valur" {
		t.Fatalf("expected fresh lookup after insert, got %+v %v %v", got, ok, err)
	}
	if _, ok, _ := repo.GetBySlug(ctx, "valur"); !ok {
		t.Fatalf("expected cached hit")
	}
	if next.slugLookups != 3 {
		t.Fatalf("expected found team to be cached, lookups=%d", next.slugLookups)
	}

	teams, err := repo.List(ctx)
	if err != nil || len(teams) != 1 {
		t.Fatalf("unexpected list: %v %v", teams, err)
	}
	teams[0].Name = "mutated"
	again, _ := repo.List(ctx)
	if again[0].Name != "Valur" {
		t.Fatalf("cached list must not be shared with callers")
	}

	if err := repo.DeleteBySlug(ctx, "valur"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := repo.GetBySlug(ctx, "valur"); ok {
		t.Fatalf("expected miss after delete")
	}
}

func TestTeamRepository_SeesTeamsWrittenBehindTheCache(t *testing.T) {
	ctx := context.Background()
	backend := memory.NewStore().Teams()
	repo := NewTeamRepository(backend, basecache.NewStore(time.Hour))

	if _, ok, err := repo.GetByID(ctx, 1); err != nil || ok {
		t.Fatalf("expected miss on empty store, got %v %v", ok, err)
	}

	// Another process inserts without going through this cache.
	inserted, err := backend.Insert(ctx, "Fram", "")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, ok, err := repo.GetByID(ctx, inserted.ID)
	if err != nil || !ok || got.Name != "Fram" {
		t.Fatalf("expected team inserted behind the cache, got %+v %v %v", got, ok, err)
	}
	if _, ok, _ := repo.GetBySlug(ctx, "fram"); !ok {
		t.Fatalf("expected slug lookup to find the team")
	}
}
