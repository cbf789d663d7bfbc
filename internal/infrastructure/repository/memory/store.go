package memory

import (
	"sort"
	"sync"

	"github.com/riskibarqy/gameday-api/internal/domain/game"
	"github.com/riskibarqy/gameday-api/internal/domain/team"
)

// Store holds teams and games in process. Games reference teams by id and
// are removed with them, as the foreign keys do in PostgreSQL.
type Store struct {
	mu         sync.RWMutex
	teams      []team.Team
	games      []storedGame
	nextTeamID int64
	nextGameID int64
}

type storedGame struct {
	id   int64
	data game.NewGame
}

func NewStore() *Store {
	return &Store{nextTeamID: 1, nextGameID: 1}
}

// Teams and Games share one Store so joins and cascades stay consistent.
func (s *Store) Teams() *TeamRepository {
	return &TeamRepository{store: s}
}

func (s *Store) Games() *GameRepository {
	return &GameRepository{store: s}
}

func (s *Store) teamIndexBy(match func(team.Team) bool) int {
	for i, item := range s.teams {
		if match(item) {
			return i
		}
	}
	return -1
}

func (s *Store) teamName(id int64) string {
	if idx := s.teamIndexBy(func(t team.Team) bool { return t.ID == id }); idx >= 0 {
		return s.teams[idx].Name
	}
	return ""
}

func (s *Store) view(g storedGame) game.Game {
	return game.Game{
		ID:   g.id,
		Date: g.data.Date.UTC(),
		Home: game.Side{Name: s.teamName(g.data.HomeID), Score: g.data.HomeScore},
		Away: game.Side{Name: s.teamName(g.data.AwayID), Score: g.data.AwayScore},
	}
}

func (s *Store) sortedGames() []storedGame {
	out := append([]storedGame(nil), s.games...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].data.Date.Equal(out[j].data.Date) {
			return out[i].id > out[j].id
		}
		return out[i].data.Date.After(out[j].data.Date)
	})
	return out
}
