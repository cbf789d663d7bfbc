package importer

import (
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/gameday-api/internal/domain/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTeamsJSON(t *testing.T) {
	t.Run("empty array", func(t *testing.T) {
		teams, err := ParseTeamsJSON("[]")
		require.NoError(t, err)
		assert.Empty(t, teams)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := ParseTeamsJSON("asdf")
		require.ErrorIs(t, err, ErrUnableToParseTeams)
		assert.EqualError(t, err, "unable to parse teams data")
		assert.True(t, IsStructural(err))
	})

	t.Run("not an array", func(t *testing.T) {
		_, err := ParseTeamsJSON("{}")
		require.ErrorIs(t, err, ErrTeamsNotArray)
		assert.True(t, IsStructural(err))
	})

	t.Run("keeps only strings in order", func(t *testing.T) {
		teams, err := ParseTeamsJSON(`[1, "asdf", true, {}, "foo"]`)
		require.NoError(t, err)
		assert.Equal(t, []string{"asdf", "foo"}, teams)
	})
}

func TestParseTeam(t *testing.T) {
	allowed := NewNameSet([]string{"asdf", "x"})

	cases := []struct {
		name string
		data any
	}{
		{name: "not an object", data: ""},
		{name: "nil", data: nil},
		{name: "missing name", data: map[string]any{}},
		{name: "missing score", data: map[string]any{"name": "x"}},
		{name: "name not a string", data: map[string]any{"name": 0.0, "score": 0.0}},
		{name: "score not a number", data: map[string]any{"name": "asdf", "score": "0"}},
		{name: "negative score", data: map[string]any{"name": "asdf", "score": -1.0}},
		{name: "name not allowed", data: map[string]any{"name": "foo", "score": 0.0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, rejection, ok := ParseTeam(tc.data, allowed)
			if ok {
				t.Fatalf("expected %v to be rejected", tc.data)
			}
			if rejection.Reason == "" {
				t.Fatalf("expected a rejection reason")
			}
		})
	}

	t.Run("valid", func(t *testing.T) {
		side, _, ok := ParseTeam(map[string]any{"name": "asdf", "score": 3.0}, allowed)
		require.True(t, ok)
		assert.Equal(t, game.MatchupSide{Name: "asdf", Score: 3}, side)
	})

	t.Run("fractional and large scores are numeric", func(t *testing.T) {
		for _, score := range []float64{1.5, 1e12} {
			side, _, ok := ParseTeam(map[string]any{"name": "x", "score": score}, allowed)
			require.True(t, ok, "score %v", score)
			assert.Equal(t, score, side.Score)
		}
	})

	t.Run("empty allowed set rejects everything", func(t *testing.T) {
		_, _, ok := ParseTeam(map[string]any{"name": "asdf", "score": 0.0}, nil)
		assert.False(t, ok)
	})
}

func TestParseGamedayGames(t *testing.T) {
	allowed := NewNameSet([]string{"foo", "bar"})
	side := func(name string, score float64) map[string]any {
		return map[string]any{"name": name, "score": score}
	}

	t.Run("element not an object", func(t *testing.T) {
		_, _, err := ParseGamedayGames([]any{""}, allowed)
		require.ErrorIs(t, err, ErrGameNotObject)
	})

	t.Run("missing away", func(t *testing.T) {
		_, _, err := ParseGamedayGames([]any{map[string]any{"home": map[string]any{}}}, allowed)
		require.ErrorIs(t, err, ErrGameMissingSides)
	})

	t.Run("not an array yields nothing", func(t *testing.T) {
		games, rejections, err := ParseGamedayGames(map[string]any{}, allowed)
		require.NoError(t, err)
		assert.Empty(t, games)
		assert.Empty(t, rejections)
	})

	t.Run("empty sides are dropped", func(t *testing.T) {
		games, rejections, err := ParseGamedayGames([]any{map[string]any{"home": map[string]any{}, "away": map[string]any{}}}, allowed)
		require.NoError(t, err)
		assert.Empty(t, games)
		assert.Len(t, rejections, 2)
	})

	t.Run("unknown team dropped", func(t *testing.T) {
		games, rejections, err := ParseGamedayGames([]any{
			map[string]any{"home": side("foo", 0), "away": side("baz", 0)},
		}, allowed)
		require.NoError(t, err)
		assert.Empty(t, games)
		require.Len(t, rejections, 1)
		assert.Equal(t, 0, rejections[0].Index)
		assert.Equal(t, "away", rejections[0].Side)
	})

	t.Run("negative score dropped", func(t *testing.T) {
		games, _, err := ParseGamedayGames([]any{
			map[string]any{"home": side("foo", -1), "away": side("bar", 0)},
		}, allowed)
		require.NoError(t, err)
		assert.Empty(t, games)
	})

	t.Run("valid", func(t *testing.T) {
		games, rejections, err := ParseGamedayGames([]any{
			map[string]any{"home": side("foo", 0), "away": side("bar", 2)},
		}, allowed)
		require.NoError(t, err)
		assert.Empty(t, rejections)
		assert.Equal(t, []game.Matchup{{
			Home: game.MatchupSide{Name: "foo", Score: 0},
			Away: game.MatchupSide{Name: "bar", Score: 2},
		}}, games)
	})
}

func TestParseGamedayFile(t *testing.T) {
	allowed := NewNameSet([]string{"foo", "bar"})

	errorCases := []struct {
		name string
		data string
		want error
	}{
		{name: "empty", data: "", want: ErrUnableToParseGameday},
		{name: "not an object", data: "1", want: ErrGamedayNotObject},
		{name: "missing date", data: "{}", want: ErrGamedayMissingDate},
		{name: "date not a string", data: `{"date": 1}`, want: ErrGamedayMissingDate},
		{name: "invalid date", data: `{"date": "foo"}`, want: ErrGamedayInvalidDate},
		{name: "games not an array", data: `{"date": "2020-01-01", "games": {}}`, want: ErrGamedayMissingGames},
		{name: "game not an object", data: `{"date": "2020-01-01", "games": [1]}`, want: ErrGameNotObject},
	}
	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := ParseGamedayFile(tc.data, allowed)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if err.Error() != tc.want.Error() {
				t.Fatalf("expected message %q, got %q", tc.want.Error(), err.Error())
			}
			if !IsStructural(err) {
				t.Fatalf("expected structural error, got %v", err)
			}
		})
	}

	t.Run("valid", func(t *testing.T) {
		data := `{
			"date": "2024-03-02T19:15:00.000Z",
			"games": [
				{"home": {"name": "foo", "score": 0}, "away": {"name": "bar", "score": 1}},
				{"home": {"name": "foo", "score": 0}, "away": {"name": "nope", "score": 1}}
			]
		}`
		gameday, rejections, err := ParseGamedayFile(data, allowed)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 3, 2, 19, 15, 0, 0, time.UTC), gameday.Date)
		require.Len(t, gameday.Games, 1)
		assert.Equal(t, "bar", gameday.Games[0].Away.Name)
		require.Len(t, rejections, 1)
		assert.Equal(t, 1, rejections[0].Index)
	})
}
