package cache

import (
	"context"
	"errors"
	"strconv"

	"github.com/riskibarqy/gameday-api/internal/domain/team"
	basecache "github.com/riskibarqy/gameday-api/internal/platform/cache"
)

const teamKeyPrefix = "team:"

// errTeamMissing keeps lookup misses out of the cache. Teams created by
// another process, such as the import CLI, are visible on the next lookup.
var errTeamMissing = errors.New("team not found")

// TeamRepository serves team reads from a local cache and drops every cached
// team entry on any write. Only found teams are cached.
type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store
}

func NewTeamRepository(next team.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	v, err := r.cache.GetOrLoad(ctx, teamKeyPrefix+"list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]team.Team(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]team.Team)
	return append(make([]team.Team, 0, len(items)), items...), nil
}

func (r *TeamRepository) GetBySlug(ctx context.Context, slug string) (team.Team, bool, error) {
	return r.getOne(ctx, teamKeyPrefix+"slug:"+slug, func(ctx context.Context) (team.Team, bool, error) {
		return r.next.GetBySlug(ctx, slug)
	})
}

func (r *TeamRepository) GetByID(ctx context.Context, id int64) (team.Team, bool, error) {
	return r.getOne(ctx, teamKeyPrefix+"id:"+strconv.FormatInt(id, 10), func(ctx context.Context) (team.Team, bool, error) {
		return r.next.GetByID(ctx, id)
	})
}

func (r *TeamRepository) getOne(ctx context.Context, key string, load func(context.Context) (team.Team, bool, error)) (team.Team, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := load(ctx)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, errTeamMissing
		}
		return item, nil
	})
	if errors.Is(err, errTeamMissing) {
		return team.Team{}, false, nil
	}
	if err != nil {
		return team.Team{}, false, err
	}

	item, _ := v.(team.Team)
	return item, true, nil
}

func (r *TeamRepository) Insert(ctx context.Context, name, description string) (team.Team, error) {
	defer r.invalidate(ctx)
	return r.next.Insert(ctx, name, description)
}

func (r *TeamRepository) InsertMany(ctx context.Context, names []string) (team.BulkResult, error) {
	defer r.invalidate(ctx)
	return r.next.InsertMany(ctx, names)
}

func (r *TeamRepository) Update(ctx context.Context, id int64, patch team.Patch) (team.Team, bool, error) {
	defer r.invalidate(ctx)
	return r.next.Update(ctx, id, patch)
}

func (r *TeamRepository) DeleteBySlug(ctx context.Context, slug string) error {
	defer r.invalidate(ctx)
	return r.next.DeleteBySlug(ctx, slug)
}

func (r *TeamRepository) invalidate(ctx context.Context) {
	r.cache.DeletePrefix(ctx, teamKeyPrefix)
}
