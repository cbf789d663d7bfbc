package game

import (
	"context"

	"github.com/riskibarqy/gameday-api/internal/domain/team"
)

// Repository exposes game persistence.
type Repository interface {
	List(ctx context.Context, limit int) ([]Game, error)
	GetByID(ctx context.Context, id int64) (Game, bool, error)
	Insert(ctx context.Context, g NewGame) (Game, error)
	// InsertGamedays stores every resolvable matchup one by one, resolving
	// team names against teams.
	InsertGamedays(ctx context.Context, gamedays []Gameday, teams []team.Team) (ImportResult, error)
	DeleteByID(ctx context.Context, id int64) error
}
