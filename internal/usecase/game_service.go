package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/riskibarqy/gameday-api/internal/domain/game"
	"go.opentelemetry.io/otel/attribute"
)

type GameService struct {
	gameRepo game.Repository
}

func NewGameService(gameRepo game.Repository) *GameService {
	return &GameService{gameRepo: gameRepo}
}

// List returns the most recent games first, at most game.MaxListLimit.
func (s *GameService) List(ctx context.Context, limit int) (_ []game.Game, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.List", attribute.Int("game.limit", limit))
	defer func() { endSpan(span, err) }()

	games, err := s.gameRepo.List(ctx, game.NormalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}

	return games, nil
}

func (s *GameService) Get(ctx context.Context, id int64) (_ game.Game, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.Get", attribute.Int64("game.id", id))
	defer func() { endSpan(span, err) }()

	if id <= 0 {
		return game.Game{}, fmt.Errorf("%w: game=%d", ErrNotFound, id)
	}

	item, exists, err := s.gameRepo.GetByID(ctx, id)
	if err != nil {
		return game.Game{}, fmt.Errorf("get game by id: %w", err)
	}
	if !exists {
		return game.Game{}, fmt.Errorf("%w: game=%d", ErrNotFound, id)
	}

	return item, nil
}

func (s *GameService) Create(ctx context.Context, input game.NewGame) (_ game.Game, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.Create")
	defer func() { endSpan(span, err) }()

	if err := input.Validate(); err != nil {
		return game.Game{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	item, err := s.gameRepo.Insert(ctx, input)
	if err != nil {
		return game.Game{}, fmt.Errorf("insert game: %w", err)
	}

	return item, nil
}

func (s *GameService) Delete(ctx context.Context, id int64) (err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameService.Delete", attribute.Int64("game.id", id))
	defer func() { endSpan(span, err) }()

	if err := s.gameRepo.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, game.ErrNotDeleted) {
			return fmt.Errorf("delete game: %w: %w", ErrOperationFailed, err)
		}
		return fmt.Errorf("delete game: %w", err)
	}

	return nil
}
