package importer

import (
	"fmt"
	"math"

	crerr "github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/gameday-api/internal/domain/game"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Rejection is a single entry dropped from an otherwise valid document.
type Rejection struct {
	Index  int
	Side   string
	Reason string
}

func (r Rejection) String() string {
	if r.Side == "" {
		return fmt.Sprintf("game %d: %s", r.Index, r.Reason)
	}
	return fmt.Sprintf("game %d %s: %s", r.Index, r.Side, r.Reason)
}

// NameSet is the set of team names a gameday may reference.
type NameSet map[string]struct{}

func NewNameSet(names []string) NameSet {
	out := make(NameSet, len(names))
	for _, name := range names {
		out[name] = struct{}{}
	}
	return out
}

func (s NameSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// ParseTeamsJSON returns the string elements of a JSON array in order.
// Other element types are dropped.
func ParseTeamsJSON(data string) ([]string, error) {
	var parsed any
	if err := json.UnmarshalFromString(data, &parsed); err != nil {
		return nil, crerr.WithSecondaryError(ErrUnableToParseTeams, err)
	}

	items, ok := parsed.([]any)
	if !ok {
		return nil, ErrTeamsNotArray
	}

	teams := make([]string, 0, len(items))
	for _, item := range items {
		if name, ok := item.(string); ok {
			teams = append(teams, name)
		}
	}
	return teams, nil
}

// ParseTeam reads one side of a game. A side is valid when it is an object
// with a name from allowed and a numeric score >= 0. Whole-number and range
// checks happen when the game is stored.
func ParseTeam(data any, allowed NameSet) (game.MatchupSide, Rejection, bool) {
	obj, ok := data.(map[string]any)
	if !ok || obj == nil {
		return game.MatchupSide{}, Rejection{Reason: "illegal team object"}, false
	}

	name, ok := obj["name"].(string)
	if !ok {
		return game.MatchupSide{}, Rejection{Reason: "team name missing or not a string"}, false
	}
	if !allowed.Has(name) {
		return game.MatchupSide{}, Rejection{Reason: fmt.Sprintf("unknown team %q", name)}, false
	}

	score, ok := obj["score"].(float64)
	if !ok {
		return game.MatchupSide{}, Rejection{Reason: "team score missing or not a number"}, false
	}
	if score < 0 || math.IsNaN(score) {
		return game.MatchupSide{}, Rejection{Reason: fmt.Sprintf("illegal team score %v", score)}, false
	}

	return game.MatchupSide{Name: name, Score: score}, Rejection{}, true
}

// ParseGamedayGames reads a list of games. A non-array yields no games.
// Entries with an invalid side are dropped and reported as rejections; an
// entry that is not an object or lacks a side fails the whole list.
func ParseGamedayGames(data any, allowed NameSet) ([]game.Matchup, []Rejection, error) {
	items, ok := data.([]any)
	if !ok {
		return []game.Matchup{}, nil, nil
	}

	games := make([]game.Matchup, 0, len(items))
	var rejections []Rejection
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok || obj == nil {
			return nil, nil, crerr.WithDetailf(ErrGameNotObject, "index %d", i)
		}
		homeRaw, hasHome := obj["home"]
		awayRaw, hasAway := obj["away"]
		if !hasHome || !hasAway {
			return nil, nil, crerr.WithDetailf(ErrGameMissingSides, "index %d", i)
		}

		home, homeRejection, homeOK := ParseTeam(homeRaw, allowed)
		if !homeOK {
			homeRejection.Index, homeRejection.Side = i, "home"
			rejections = append(rejections, homeRejection)
		}
		away, awayRejection, awayOK := ParseTeam(awayRaw, allowed)
		if !awayOK {
			awayRejection.Index, awayRejection.Side = i, "away"
			rejections = append(rejections, awayRejection)
		}

		if homeOK && awayOK {
			games = append(games, game.Matchup{Home: home, Away: away})
		}
	}
	return games, rejections, nil
}

// ParseGamedayFile reads a gameday document: an object with a date string and
// a games array.
func ParseGamedayFile(data string, allowed NameSet) (game.Gameday, []Rejection, error) {
	var parsed any
	if err := json.UnmarshalFromString(data, &parsed); err != nil {
		return game.Gameday{}, nil, crerr.WithSecondaryError(ErrUnableToParseGameday, err)
	}

	obj, ok := parsed.(map[string]any)
	if !ok || obj == nil {
		return game.Gameday{}, nil, ErrGamedayNotObject
	}

	rawDate, ok := obj["date"].(string)
	if !ok {
		return game.Gameday{}, nil, ErrGamedayMissingDate
	}
	date, err := game.ParseDate(rawDate)
	if err != nil {
		return game.Gameday{}, nil, crerr.WithSecondaryError(ErrGamedayInvalidDate, err)
	}

	rawGames, ok := obj["games"].([]any)
	if !ok {
		return game.Gameday{}, nil, ErrGamedayMissingGames
	}

	games, rejections, err := ParseGamedayGames(rawGames, allowed)
	if err != nil {
		return game.Gameday{}, nil, err
	}
	return game.Gameday{Date: date, Games: games}, rejections, nil
}
