package game

import (
	"fmt"
	"math"
	"time"
)

const (
	MaxListLimit = 100
	MaxScore     = 99
)

// Side is one team's name and score within a game.
type Side struct {
	Name  string
	Score int
}

// Game is the joined read view of a stored game.
type Game struct {
	ID   int64
	Date time.Time
	Home Side
	Away Side
}

// NewGame is the write shape of a game, referencing teams by id.
type NewGame struct {
	Date      time.Time
	HomeID    int64
	AwayID    int64
	HomeScore int
	AwayScore int
}

func (g NewGame) Validate() error {
	if g.Date.IsZero() {
		return fmt.Errorf("game date is required")
	}
	if g.HomeID == g.AwayID {
		return fmt.Errorf("home and away teams must differ")
	}
	if g.HomeScore < 0 || g.HomeScore > MaxScore {
		return fmt.Errorf("home score must be between 0 and %d", MaxScore)
	}
	if g.AwayScore < 0 || g.AwayScore > MaxScore {
		return fmt.Errorf("away score must be between 0 and %d", MaxScore)
	}
	return nil
}

// MatchupSide is one side as read from a gameday file. Score is any
// non-negative number; whether it fits a stored game is decided by
// Matchup.NewGame.
type MatchupSide struct {
	Name  string
	Score float64
}

// Matchup is a game as it appears in a gameday file, before team ids are known.
type Matchup struct {
	Home MatchupSide
	Away MatchupSide
}

// NewGame resolves m into the write shape for the given team ids. Fractional
// or out of range scores are errors.
func (m Matchup) NewGame(date time.Time, homeID, awayID int64) (NewGame, error) {
	homeScore, err := wholeScore("home", m.Home.Score)
	if err != nil {
		return NewGame{}, err
	}
	awayScore, err := wholeScore("away", m.Away.Score)
	if err != nil {
		return NewGame{}, err
	}

	g := NewGame{
		Date:      date,
		HomeID:    homeID,
		AwayID:    awayID,
		HomeScore: homeScore,
		AwayScore: awayScore,
	}
	return g, g.Validate()
}

func wholeScore(side string, v float64) (int, error) {
	if v != math.Trunc(v) {
		return 0, fmt.Errorf("%s score %v is not a whole number", side, v)
	}
	if v < 0 || v > MaxScore {
		return 0, fmt.Errorf("%s score must be between 0 and %d", side, MaxScore)
	}
	return int(v), nil
}

// Gameday groups the games played on one date.
type Gameday struct {
	Date  time.Time
	Games []Matchup
}

// Skipped is a matchup that was not stored during an import.
type Skipped struct {
	Date    time.Time
	Matchup Matchup
	Reason  string
}

type ImportResult struct {
	Inserted int
	Skipped  []Skipped
}

// NormalizeLimit caps limit at MaxListLimit; non-positive means MaxListLimit.
func NormalizeLimit(limit int) int {
	if limit <= 0 || limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
