package game

import (
	"testing"
	"time"
)

func TestNormalizeLimit(t *testing.T) {
	cases := map[int]int{
		-5:  MaxListLimit,
		0:   MaxListLimit,
		1:   1,
		50:  50,
		100: 100,
		101: MaxListLimit,
		1e6: MaxListLimit,
	}
	for in, want := range cases {
		if got := NormalizeLimit(in); got != want {
			t.Fatalf("NormalizeLimit(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(2023, 3, 18, 14, 30, 0, 0, time.UTC)
	valid := []string{
		"2023-03-18T14:30:00Z",
		"2023-03-18T14:30:00.000Z",
		"2023-03-18T14:30Z",
		"2023-03-18T16:30:00+02:00",
		"2023-03-18T14:30:00",
		"2023-03-18T14:30",
		"2023-03-18 14:30:00",
		"2023-03-18 14:30",
	}
	for _, in := range valid {
		got, err := ParseDate(in)
		if err != nil {
			t.Fatalf("ParseDate(%q) unexpected error: %v", in, err)
		}
		if !got.Equal(want) {
			t.Fatalf("ParseDate(%q) = %s, want %s", in, got, want)
		}
	}

	day, err := ParseDate("2023-03-18")
	if err != nil {
		t.Fatalf("parse date only: %v", err)
	}
	if !day.Equal(time.Date(2023, 3, 18, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date-only value: %s", day)
	}

	for _, in := range []string{"", "   ", "not a date", "2023-13-01", "18/03/2023"} {
		if _, err := ParseDate(in); err == nil {
			t.Fatalf("ParseDate(%q) expected error", in)
		}
	}
}

func TestNewGameValidate(t *testing.T) {
	base := NewGame{Date: time.Now(), HomeID: 1, AwayID: 2, HomeScore: 3, AwayScore: 0}
	if err := base.Validate(); err != nil {
		t.Fatalf("expected valid game, got %v", err)
	}

	same := base
	same.AwayID = 1
	if err := same.Validate(); err == nil {
		t.Fatalf("expected error for identical teams")
	}

	high := base
	high.HomeScore = 100
	if err := high.Validate(); err == nil {
		t.Fatalf("expected error for score above max")
	}

	negative := base
	negative.AwayScore = -1
	if err := negative.Validate(); err == nil {
		t.Fatalf("expected error for negative score")
	}

	noDate := base
	noDate.Date = time.Time{}
	if err := noDate.Validate(); err == nil {
		t.Fatalf("expected error for missing date")
	}
}

func TestMatchupNewGame(t *testing.T) {
	date := time.Date(2024, 5, 1, 19, 15, 0, 0, time.UTC)
	side := func(score float64) MatchupSide { return MatchupSide{Name: "x", Score: score} }

	got, err := Matchup{Home: side(2), Away: side(0)}.NewGame(date, 1, 2)
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	want := NewGame{Date: date, HomeID: 1, AwayID: 2, HomeScore: 2, AwayScore: 0}
	if got != want {
		t.Fatalf("unexpected game: %+v", got)
	}

	tests := []struct {
		name    string
		matchup Matchup
		home    int64
		away    int64
	}{
		{name: "fractional home score", matchup: Matchup{Home: side(1.5), Away: side(0)}, home: 1, away: 2},
		{name: "away score above max", matchup: Matchup{Home: side(0), Away: side(100)}, home: 1, away: 2},
		{name: "huge score", matchup: Matchup{Home: side(1e12), Away: side(0)}, home: 1, away: 2},
		{name: "same team", matchup: Matchup{Home: side(1), Away: side(1)}, home: 1, away: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.matchup.NewGame(date, tt.home, tt.away); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
