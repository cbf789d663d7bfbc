package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/gameday-api/internal/domain/game"
	"github.com/riskibarqy/gameday-api/internal/domain/team"
	"github.com/riskibarqy/gameday-api/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/gameday-api/internal/platform/logging"
	"github.com/riskibarqy/gameday-api/internal/platform/pgtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(v string) *string { return &v }

func TestTeamRepository_Integration(t *testing.T) {
	db := pgtest.Open(t)
	repo := postgres.NewTeamRepository(db, logging.NewNop())
	ctx := context.Background()

	teams, err := repo.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, teams)
	assert.Empty(t, teams)

	valur, err := repo.Insert(ctx, "Valur", "Hlíðarendi")
	require.NoError(t, err)
	assert.Equal(t, "valur", valur.Slug)
	assert.Equal(t, "Hlíðarendi", valur.Description)
	assert.NotZero(t, valur.ID)

	_, err = repo.Insert(ctx, "Valur", "")
	assert.ErrorIs(t, err, team.ErrAlreadyExists)

	bulk, err := repo.InsertMany(ctx, []string{"KR", "Valur", "Þór"})
	require.NoError(t, err)
	require.Len(t, bulk.Inserted, 2)
	assert.Equal(t, "kr", bulk.Inserted[0].Slug)
	assert.Equal(t, "thor", bulk.Inserted[1].Slug)
	require.Len(t, bulk.Skipped, 1)
	assert.Equal(t, "Valur", bulk.Skipped[0].Input)

	got, ok, err := repo.GetBySlug(ctx, "thor")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Þór", got.Name)

	_, ok, err = repo.GetBySlug(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	byID, ok, err := repo.GetByID(ctx, valur.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, valur, byID)

	var before time.Time
	require.NoError(t, db.Get(ctx, &before, "SELECT updated FROM teams WHERE id = $1", valur.ID))

	updated, ok, err := repo.Update(ctx, valur.ID, team.Patch{Description: strPtr("Reykjavík")})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Valur", updated.Name)
	assert.Equal(t, "Reykjavík", updated.Description)

	var after time.Time
	require.NoError(t, db.Get(ctx, &after, "SELECT updated FROM teams WHERE id = $1", valur.ID))
	assert.True(t, after.After(before), "updated should advance: before %s after %s", before, after)

	_, ok, err = repo.Update(ctx, valur.ID, team.Patch{})
	require.NoError(t, err)
	assert.False(t, ok)

	var untouched time.Time
	require.NoError(t, db.Get(ctx, &untouched, "SELECT updated FROM teams WHERE id = $1", valur.ID))
	assert.True(t, untouched.Equal(after))

	_, ok, err = repo.Update(ctx, 999999, team.Patch{Description: strPtr("x")})
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = repo.Update(ctx, valur.ID, team.Patch{Name: strPtr("Valur 2"), Slug: strPtr("kr")})
	assert.ErrorIs(t, err, team.ErrSlugTaken)

	require.NoError(t, repo.DeleteBySlug(ctx, "kr"))
	err = repo.DeleteBySlug(ctx, "kr")
	assert.ErrorIs(t, err, team.ErrNotDeleted)

	teams, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, teams, 2)
}

func TestGameRepository_Integration(t *testing.T) {
	db := pgtest.Open(t)
	teams := postgres.NewTeamRepository(db, logging.NewNop())
	games := postgres.NewGameRepository(db, logging.NewNop())
	ctx := context.Background()

	bulk, err := teams.InsertMany(ctx, []string{"Valur", "KR", "Fram"})
	require.NoError(t, err)
	require.Len(t, bulk.Inserted, 3)
	valur, kr := bulk.Inserted[0], bulk.Inserted[1]

	list, err := games.List(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, list)

	day := time.Date(2024, 5, 1, 19, 15, 0, 0, time.UTC)
	created, err := games.Insert(ctx, game.NewGame{Date: day, HomeID: valur.ID, AwayID: kr.ID, HomeScore: 2, AwayScore: 1})
	require.NoError(t, err)
	assert.Equal(t, "Valur", created.Home.Name)
	assert.Equal(t, 2, created.Home.Score)
	assert.Equal(t, "KR", created.Away.Name)
	assert.True(t, created.Date.Equal(day))

	_, err = games.Insert(ctx, game.NewGame{Date: day, HomeID: valur.ID, AwayID: valur.ID})
	assert.Error(t, err)

	_, err = games.InsertGamedays(ctx, nil, bulk.Inserted)
	assert.ErrorIs(t, err, game.ErrNothingToImport)
	_, err = games.InsertGamedays(ctx, []game.Gameday{{Date: day}}, nil)
	assert.ErrorIs(t, err, game.ErrNothingToImport)

	imported, err := games.InsertGamedays(ctx, []game.Gameday{
		{
			Date: day.AddDate(0, 0, 7),
			Games: []game.Matchup{
				{Home: game.MatchupSide{Name: "KR", Score: 0}, Away: game.MatchupSide{Name: "Fram", Score: 0}},
				{Home: game.MatchupSide{Name: "Nobody", Score: 1}, Away: game.MatchupSide{Name: "Fram", Score: 0}},
			},
		},
	}, bulk.Inserted)
	require.NoError(t, err)
	assert.Equal(t, 1, imported.Inserted)
	require.Len(t, imported.Skipped, 1)
	assert.Equal(t, "Nobody", imported.Skipped[0].Matchup.Home.Name)

	list, err = games.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "KR", list[0].Home.Name, "newest game first")

	list, err = games.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	result, ok, err := postgres.ConditionalUpdate(ctx, db, postgres.TableGames, created.ID,
		[]string{"home_score", ""}, []any{5, nil})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, result.RowCount)

	fetched, ok, err := games.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 5, fetched.Home.Score)

	require.NoError(t, games.DeleteByID(ctx, created.ID))
	err = games.DeleteByID(ctx, created.ID)
	assert.True(t, errors.Is(err, game.ErrNotDeleted))

	_, ok, err = games.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
