package memory

import (
	"context"
	"errors"
	"fmt"

	"github.com/riskibarqy/gameday-api/internal/domain/team"
)

type TeamRepository struct {
	store *Store
}

func NewTeamRepository(store *Store) *TeamRepository {
	return store.Teams()
}

func (r *TeamRepository) List(_ context.Context) ([]team.Team, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]team.Team, 0, len(r.store.teams))
	out = append(out, r.store.teams...)
	return out, nil
}

func (r *TeamRepository) GetBySlug(_ context.Context, slug string) (team.Team, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if idx := r.store.teamIndexBy(func(t team.Team) bool { return t.Slug == slug }); idx >= 0 {
		return r.store.teams[idx], true, nil
	}
	return team.Team{}, false, nil
}

func (r *TeamRepository) GetByID(_ context.Context, id int64) (team.Team, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	if idx := r.store.teamIndexBy(func(t team.Team) bool { return t.ID == id }); idx >= 0 {
		return r.store.teams[idx], true, nil
	}
	return team.Team{}, false, nil
}

func (r *TeamRepository) Insert(_ context.Context, name, description string) (team.Team, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	slug := team.Slugify(name)
	conflict := r.store.teamIndexBy(func(t team.Team) bool { return t.Name == name || t.Slug == slug })
	if conflict >= 0 {
		return team.Team{}, fmt.Errorf("%w: %q", team.ErrAlreadyExists, name)
	}

	item := team.Team{
		ID:          r.store.nextTeamID,
		Name:        name,
		Slug:        slug,
		Description: description,
	}
	r.store.nextTeamID++
	r.store.teams = append(r.store.teams, item)
	return item, nil
}

func (r *TeamRepository) InsertMany(ctx context.Context, names []string) (team.BulkResult, error) {
	result := team.BulkResult{Inserted: make([]team.Team, 0, len(names))}
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		item, err := r.Insert(ctx, name, "")
		if err != nil {
			reason := err.Error()
			if errors.Is(err, team.ErrAlreadyExists) {
				reason = "already exists"
			}
			result.Skipped = append(result.Skipped, team.Skipped{Input: name, Reason: reason})
			continue
		}
		result.Inserted = append(result.Inserted, item)
	}
	return result, nil
}

func (r *TeamRepository) Update(_ context.Context, id int64, patch team.Patch) (team.Team, bool, error) {
	if patch.Empty() {
		return team.Team{}, false, nil
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	idx := r.store.teamIndexBy(func(t team.Team) bool { return t.ID == id })
	if idx < 0 {
		return team.Team{}, false, nil
	}

	updated := r.store.teams[idx]
	if patch.Name != nil {
		updated.Name = *patch.Name
	}
	if patch.Slug != nil {
		updated.Slug = *patch.Slug
	}
	if patch.Description != nil {
		updated.Description = *patch.Description
	}

	for i, other := range r.store.teams {
		if i == idx {
			continue
		}
		if other.Name == updated.Name {
			return team.Team{}, false, fmt.Errorf("%w: %q", team.ErrAlreadyExists, updated.Name)
		}
		if other.Slug == updated.Slug {
			return team.Team{}, false, fmt.Errorf("%w: %q", team.ErrSlugTaken, updated.Slug)
		}
	}

	r.store.teams[idx] = updated
	return updated, true, nil
}

func (r *TeamRepository) DeleteBySlug(_ context.Context, slug string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	idx := r.store.teamIndexBy(func(t team.Team) bool { return t.Slug == slug })
	if idx < 0 {
		return fmt.Errorf("%w: 0 rows affected", team.ErrNotDeleted)
	}

	id := r.store.teams[idx].ID
	r.store.teams = append(r.store.teams[:idx], r.store.teams[idx+1:]...)

	kept := r.store.games[:0]
	for _, g := range r.store.games {
		if g.data.HomeID == id || g.data.AwayID == id {
			continue
		}
		kept = append(kept, g)
	}
	r.store.games = kept
	return nil
}
