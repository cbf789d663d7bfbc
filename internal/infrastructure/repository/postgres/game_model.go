package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/gameday-api/internal/domain/game"
)

type gameViewModel struct {
	ID        int64          `db:"id"`
	Date      time.Time      `db:"date"`
	HomeName  sql.NullString `db:"home_name"`
	HomeScore int            `db:"home_score"`
	AwayName  sql.NullString `db:"away_name"`
	AwayScore int            `db:"away_score"`
}

type gameInsertModel struct {
	Date      time.Time `db:"date"`
	Home      int64     `db:"home"`
	Away      int64     `db:"away"`
	HomeScore int       `db:"home_score"`
	AwayScore int       `db:"away_score"`
}

var gameViewColumns = []string{
	"games.id AS id",
	"games.date AS date",
	"home_team.name AS home_name",
	"games.home_score AS home_score",
	"away_team.name AS away_name",
	"games.away_score AS away_score",
}

func (m gameViewModel) toDomain() game.Game {
	return game.Game{
		ID:   m.ID,
		Date: m.Date.UTC(),
		Home: game.Side{Name: m.HomeName.String, Score: m.HomeScore},
		Away: game.Side{Name: m.AwayName.String, Score: m.AwayScore},
	}
}

func newGameInsertModel(g game.NewGame) gameInsertModel {
	return gameInsertModel{
		Date:      g.Date.UTC(),
		Home:      g.HomeID,
		Away:      g.AwayID,
		HomeScore: g.HomeScore,
		AwayScore: g.AwayScore,
	}
}
