package postgres

import (
	"context"
	"fmt"

	"github.com/riskibarqy/gameday-api/internal/domain/game"
	"github.com/riskibarqy/gameday-api/internal/domain/team"
	"github.com/riskibarqy/gameday-api/internal/infrastructure/database"
	"github.com/riskibarqy/gameday-api/internal/platform/logging"
	qb "github.com/riskibarqy/gameday-api/internal/platform/querybuilder"
)

type GameRepository struct {
	db     *database.Database
	logger *logging.Logger
}

func NewGameRepository(db *database.Database, logger *logging.Logger) *GameRepository {
	if logger == nil {
		logger = logging.Default()
	}
	return &GameRepository{db: db, logger: logger}
}

func selectGames() *qb.SelectBuilder {
	return qb.Select(gameViewColumns...).
		From("games").
		Join("LEFT JOIN teams AS home_team ON home_team.id = games.home").
		Join("LEFT JOIN teams AS away_team ON away_team.id = games.away")
}

// List returns the newest games first, at most game.MaxListLimit of them.
func (r *GameRepository) List(ctx context.Context, limit int) ([]game.Game, error) {
	query, args, err := selectGames().
		OrderBy("games.date DESC", "games.id DESC").
		Limit(game.NormalizeLimit(limit)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select games query: %w", err)
	}

	var rows []gameViewModel
	if err := r.db.Select(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select games: %w", err)
	}

	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *GameRepository) GetByID(ctx context.Context, id int64) (game.Game, bool, error) {
	query, args, err := selectGames().Where(qb.Eq("games.id", id)).ToSQL()
	if err != nil {
		return game.Game{}, false, fmt.Errorf("build select game query: %w", err)
	}

	var rows []gameViewModel
	if err := r.db.Select(ctx, &rows, query, args...); err != nil {
		return game.Game{}, false, fmt.Errorf("select game: %w", err)
	}
	if len(rows) != 1 {
		return game.Game{}, false, nil
	}
	return rows[0].toDomain(), true, nil
}

// Insert writes the game and reads it back through the joined view. The two
// statements are not atomic.
func (r *GameRepository) Insert(ctx context.Context, g game.NewGame) (game.Game, error) {
	query, args, err := qb.InsertModel("games", newGameInsertModel(g), "RETURNING id")
	if err != nil {
		return game.Game{}, fmt.Errorf("build insert game query: %w", err)
	}

	var id int64
	if err := r.db.Get(ctx, &id, query, args...); err != nil {
		return game.Game{}, fmt.Errorf("insert game: %w", err)
	}

	created, ok, err := r.GetByID(ctx, id)
	if err != nil {
		return game.Game{}, err
	}
	if !ok {
		return game.Game{}, fmt.Errorf("inserted game %d not found", id)
	}
	return created, nil
}

func (r *GameRepository) InsertGamedays(ctx context.Context, gamedays []game.Gameday, teams []team.Team) (game.ImportResult, error) {
	if len(gamedays) == 0 {
		r.logger.WarnContext(ctx, "no gamedays to insert")
		return game.ImportResult{}, fmt.Errorf("%w: no gamedays", game.ErrNothingToImport)
	}
	if len(teams) == 0 {
		r.logger.WarnContext(ctx, "no teams to insert")
		return game.ImportResult{}, fmt.Errorf("%w: no teams", game.ErrNothingToImport)
	}

	ids := team.IDsByName(teams)
	var result game.ImportResult
	for _, gameday := range gamedays {
		for _, matchup := range gameday.Games {
			if err := ctx.Err(); err != nil {
				return result, err
			}

			skip := func(reason string) {
				r.logger.WarnContext(ctx, "unable to insert game",
					"date", gameday.Date,
					"home", matchup.Home.Name,
					"away", matchup.Away.Name,
					"reason", reason,
				)
				result.Skipped = append(result.Skipped, game.Skipped{
					Date:    gameday.Date,
					Matchup: matchup,
					Reason:  reason,
				})
			}

			homeID, homeOK := ids[matchup.Home.Name]
			awayID, awayOK := ids[matchup.Away.Name]
			if !homeOK || !awayOK {
				skip("unable to find team id")
				continue
			}

			newGame, err := matchup.NewGame(gameday.Date, homeID, awayID)
			if err != nil {
				skip(err.Error())
				continue
			}
			if _, err := r.Insert(ctx, newGame); err != nil {
				skip(err.Error())
				continue
			}
			result.Inserted++
		}
	}

	return result, nil
}

func (r *GameRepository) DeleteByID(ctx context.Context, id int64) error {
	query, args, err := qb.DeleteFrom("games").Where(qb.Eq("id", id)).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete game query: %w", err)
	}

	affected, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	if affected != 1 {
		r.logger.WarnContext(ctx, "unable to delete game", "id", id, "affected", affected)
		return fmt.Errorf("%w: %d rows affected", game.ErrNotDeleted, affected)
	}
	return nil
}
