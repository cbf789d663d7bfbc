package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/riskibarqy/gameday-api/internal/domain/team"
	"go.opentelemetry.io/otel/attribute"
)

type CreateTeamInput struct {
	Name        string
	Description string
}

// UpdateTeamInput holds optional replacements; nil leaves a field unchanged.
type UpdateTeamInput struct {
	Name        *string
	Description *string
}

type TeamService struct {
	teamRepo team.Repository
}

func NewTeamService(teamRepo team.Repository) *TeamService {
	return &TeamService{teamRepo: teamRepo}
}

func (s *TeamService) List(ctx context.Context) (_ []team.Team, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.List")
	defer func() { endSpan(span, err) }()

	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	return teams, nil
}

func (s *TeamService) Get(ctx context.Context, slug string) (_ team.Team, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Get", attribute.String("team.slug", slug))
	defer func() { endSpan(span, err) }()

	slug = strings.TrimSpace(slug)
	if slug == "" {
		return team.Team{}, fmt.Errorf("%w: team slug is required", ErrInvalidInput)
	}

	item, exists, err := s.teamRepo.GetBySlug(ctx, slug)
	if err != nil {
		return team.Team{}, fmt.Errorf("get team by slug: %w", err)
	}
	if !exists {
		return team.Team{}, fmt.Errorf("%w: team=%s", ErrNotFound, slug)
	}

	return item, nil
}

func (s *TeamService) Create(ctx context.Context, input CreateTeamInput) (_ team.Team, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Create")
	defer func() { endSpan(span, err) }()

	if err := validateTeamName(input.Name); err != nil {
		return team.Team{}, err
	}
	if err := validateTeamDescription(input.Description); err != nil {
		return team.Team{}, err
	}
	if team.Slugify(input.Name) == "" {
		return team.Team{}, fmt.Errorf("%w: team name must contain letters or digits", ErrInvalidInput)
	}

	item, err := s.teamRepo.Insert(ctx, input.Name, input.Description)
	if err != nil {
		return team.Team{}, fmt.Errorf("insert team: %w", translateTeamError(err))
	}

	return item, nil
}

// Update applies a partial update to the team at slug. Renaming a team
// re-derives its slug.
func (s *TeamService) Update(ctx context.Context, slug string, input UpdateTeamInput) (_ team.Team, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Update", attribute.String("team.slug", slug))
	defer func() { endSpan(span, err) }()

	if input.Name == nil && input.Description == nil {
		return team.Team{}, fmt.Errorf("%w: require at least one value of: name, description", ErrInvalidInput)
	}

	current, err := s.Get(ctx, slug)
	if err != nil {
		return team.Team{}, err
	}

	var patch team.Patch
	if input.Name != nil {
		if err := validateTeamName(*input.Name); err != nil {
			return team.Team{}, err
		}
		nextSlug := team.Slugify(*input.Name)
		if nextSlug == "" {
			return team.Team{}, fmt.Errorf("%w: team name must contain letters or digits", ErrInvalidInput)
		}
		patch.Name = input.Name
		patch.Slug = &nextSlug
	}
	if input.Description != nil {
		if err := validateTeamDescription(*input.Description); err != nil {
			return team.Team{}, err
		}
		patch.Description = input.Description
	}

	updated, ok, err := s.teamRepo.Update(ctx, current.ID, patch)
	if err != nil {
		return team.Team{}, fmt.Errorf("update team: %w", translateTeamError(err))
	}
	if !ok {
		return team.Team{}, fmt.Errorf("%w: team=%s", ErrNotFound, slug)
	}

	return updated, nil
}

func (s *TeamService) Delete(ctx context.Context, slug string) (err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Delete", attribute.String("team.slug", slug))
	defer func() { endSpan(span, err) }()

	if err := s.teamRepo.DeleteBySlug(ctx, strings.TrimSpace(slug)); err != nil {
		return fmt.Errorf("delete team: %w", translateTeamError(err))
	}

	return nil
}

// ExistsByName reports whether a team already owns the slug name derives to.
func (s *TeamService) ExistsByName(ctx context.Context, name string) (bool, error) {
	slug := team.Slugify(name)
	if slug == "" {
		return false, nil
	}

	_, exists, err := s.teamRepo.GetBySlug(ctx, slug)
	if err != nil {
		return false, fmt.Errorf("get team by slug: %w", err)
	}

	return exists, nil
}

func (s *TeamService) ExistsByID(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, nil
	}

	_, exists, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("get team by id: %w", err)
	}

	return exists, nil
}

func validateTeamName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(name) > team.MaxNameLength {
		return fmt.Errorf("%w: name max %d characters", ErrInvalidInput, team.MaxNameLength)
	}
	return nil
}

func validateTeamDescription(description string) error {
	if utf8.RuneCountInString(description) > team.MaxDescriptionLength {
		return fmt.Errorf("%w: description max %d characters", ErrInvalidInput, team.MaxDescriptionLength)
	}
	return nil
}

func translateTeamError(err error) error {
	switch {
	case errors.Is(err, team.ErrAlreadyExists), errors.Is(err, team.ErrSlugTaken):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	case errors.Is(err, team.ErrNotDeleted):
		return fmt.Errorf("%w: %w", ErrOperationFailed, err)
	default:
		return err
	}
}
