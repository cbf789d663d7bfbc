package memory

import (
	"context"
	"fmt"

	"github.com/riskibarqy/gameday-api/internal/domain/game"
	"github.com/riskibarqy/gameday-api/internal/domain/team"
)

type GameRepository struct {
	store *Store
}

func NewGameRepository(store *Store) *GameRepository {
	return store.Games()
}

func (r *GameRepository) List(_ context.Context, limit int) ([]game.Game, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	sorted := r.store.sortedGames()
	limit = game.NormalizeLimit(limit)
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	out := make([]game.Game, 0, len(sorted))
	for _, g := range sorted {
		out = append(out, r.store.view(g))
	}
	return out, nil
}

func (r *GameRepository) GetByID(_ context.Context, id int64) (game.Game, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, g := range r.store.games {
		if g.id == id {
			return r.store.view(g), true, nil
		}
	}
	return game.Game{}, false, nil
}

func (r *GameRepository) Insert(_ context.Context, g game.NewGame) (game.Game, error) {
	if err := g.Validate(); err != nil {
		return game.Game{}, fmt.Errorf("insert game: %w", err)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, id := range []int64{g.HomeID, g.AwayID} {
		if r.store.teamIndexBy(func(t team.Team) bool { return t.ID == id }) < 0 {
			return game.Game{}, fmt.Errorf("insert game: team %d does not exist", id)
		}
	}

	stored := storedGame{id: r.store.nextGameID, data: g}
	r.store.nextGameID++
	r.store.games = append(r.store.games, stored)
	return r.store.view(stored), nil
}

func (r *GameRepository) InsertGamedays(ctx context.Context, gamedays []game.Gameday, teams []team.Team) (game.ImportResult, error) {
	if len(gamedays) == 0 {
		return game.ImportResult{}, fmt.Errorf("%w: no gamedays", game.ErrNothingToImport)
	}
	if len(teams) == 0 {
		return game.ImportResult{}, fmt.Errorf("%w: no teams", game.ErrNothingToImport)
	}

	ids := team.IDsByName(teams)
	var result game.ImportResult
	for _, gameday := range gamedays {
		for _, matchup := range gameday.Games {
			if err := ctx.Err(); err != nil {
				return result, err
			}

			homeID, homeOK := ids[matchup.Home.Name]
			awayID, awayOK := ids[matchup.Away.Name]
			if !homeOK || !awayOK {
				result.Skipped = append(result.Skipped, game.Skipped{Date: gameday.Date, Matchup: matchup, Reason: "unable to find team id"})
				continue
			}

			newGame, err := matchup.NewGame(gameday.Date, homeID, awayID)
			if err == nil {
				_, err = r.Insert(ctx, newGame)
			}
			if err != nil {
				result.Skipped = append(result.Skipped, game.Skipped{Date: gameday.Date, Matchup: matchup, Reason: err.Error()})
				continue
			}
			result.Inserted++
		}
	}
	return result, nil
}

func (r *GameRepository) DeleteByID(_ context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i, g := range r.store.games {
		if g.id == id {
			r.store.games = append(r.store.games[:i], r.store.games[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: 0 rows affected", game.ErrNotDeleted)
}
