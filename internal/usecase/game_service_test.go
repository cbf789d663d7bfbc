package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/riskibarqy/gameday-api/internal/domain/game"
	gamemock "github.com/riskibarqy/gameday-api/internal/mocks/domain/game"
	"github.com/stretchr/testify/mock"
)

func TestGameService_List_NormalizesLimit(t *testing.T) {
	t.Parallel()

	gameRepo := gamemock.NewRepository(t)
	service := NewGameService(gameRepo)

	gameRepo.On("List", mock.Anything, game.MaxListLimit).Return([]game.Game{{ID: 1}}, nil).Twice()
	gameRepo.On("List", mock.Anything, 5).Return([]game.Game{}, nil).Once()

	for _, limit := range []int{0, 500} {
		got, err := service.List(context.Background(), limit)
		if err != nil {
			t.Fatalf("list games: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("unexpected game count: %d", len(got))
		}
	}
	if _, err := service.List(context.Background(), 5); err != nil {
		t.Fatalf("list games: %v", err)
	}
}

func TestGameService_Get(t *testing.T) {
	t.Parallel()

	gameRepo := gamemock.NewRepository(t)
	service := NewGameService(gameRepo)
	expected := game.Game{ID: 4, Home: game.Side{Name: "Fram", Score: 1}, Away: game.Side{Name: "KR", Score: 2}}

	gameRepo.On("GetByID", mock.Anything, int64(4)).Return(expected, true, nil).Once()
	gameRepo.On("GetByID", mock.Anything, int64(5)).Return(game.Game{}, false, nil).Once()

	got, err := service.Get(context.Background(), 4)
	if err != nil {
		t.Fatalf("get game: %v", err)
	}
	if got != expected {
		t.Fatalf("unexpected game: %+v", got)
	}

	if _, err := service.Get(context.Background(), 5); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := service.Get(context.Background(), -1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for negative id, got %v", err)
	}
}

func TestGameService_Create(t *testing.T) {
	t.Parallel()

	gameRepo := gamemock.NewRepository(t)
	service := NewGameService(gameRepo)
	input := game.NewGame{
		Date:      time.Date(2024, 2, 11, 19, 1, 0, 0, time.UTC),
		HomeID:    1,
		AwayID:    2,
		HomeScore: 3,
		AwayScore: 0,
	}

	gameRepo.On("Insert", mock.Anything, input).Return(game.Game{ID: 9}, nil).Once()

	got, err := service.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	if got.ID != 9 {
		t.Fatalf("unexpected game id: %d", got.ID)
	}
}

func TestGameService_Create_Invalid(t *testing.T) {
	t.Parallel()

	service := NewGameService(gamemock.NewRepository(t))
	date := time.Date(2024, 2, 11, 0, 0, 0, 0, time.UTC)
	cases := []game.NewGame{
		{HomeID: 1, AwayID: 2},
		{Date: date, HomeID: 1, AwayID: 1},
		{Date: date, HomeID: 1, AwayID: 2, HomeScore: 100},
		{Date: date, HomeID: 1, AwayID: 2, AwayScore: -1},
	}
	for _, input := range cases {
		if _, err := service.Create(context.Background(), input); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %+v, got %v", input, err)
		}
	}
}

func TestGameService_Delete(t *testing.T) {
	t.Parallel()

	gameRepo := gamemock.NewRepository(t)
	service := NewGameService(gameRepo)
	gameRepo.On("DeleteByID", mock.Anything, int64(1)).Return(nil).Once()
	gameRepo.On("DeleteByID", mock.Anything, int64(2)).Return(fmt.Errorf("%w: 0 rows affected", game.ErrNotDeleted)).Once()
	gameRepo.On("DeleteByID", mock.Anything, int64(3)).Return(errors.New("connection reset")).Once()

	if err := service.Delete(context.Background(), 1); err != nil {
		t.Fatalf("delete game: %v", err)
	}
	if err := service.Delete(context.Background(), 2); !errors.Is(err, ErrOperationFailed) {
		t.Fatalf("expected ErrOperationFailed, got %v", err)
	}
	if err := service.Delete(context.Background(), 3); err == nil || errors.Is(err, ErrOperationFailed) {
		t.Fatalf("expected plain repository error, got %v", err)
	}
}
