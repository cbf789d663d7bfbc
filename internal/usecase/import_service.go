package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/riskibarqy/gameday-api/internal/domain/game"
	"github.com/riskibarqy/gameday-api/internal/domain/team"
	"github.com/riskibarqy/gameday-api/internal/importer"
	"github.com/riskibarqy/gameday-api/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

// DatasetLoader reads an import directory.
type DatasetLoader interface {
	Load(ctx context.Context, dir string) (importer.Dataset, error)
}

type ImportReport struct {
	TeamsInserted int
	TeamsSkipped  []team.Skipped
	FilesParsed   int
	FilesFailed   int
	Rejections    int
	GamesInserted int
	GamesSkipped  []game.Skipped
}

// ImportService bulk loads teams and gamedays from a directory. Files are
// parsed concurrently by the loader; rows are inserted one at a time.
type ImportService struct {
	loader   DatasetLoader
	teamRepo team.Repository
	gameRepo game.Repository
	logger   *logging.Logger
}

func NewImportService(loader DatasetLoader, teamRepo team.Repository, gameRepo game.Repository, logger *logging.Logger) *ImportService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ImportService{
		loader:   loader,
		teamRepo: teamRepo,
		gameRepo: gameRepo,
		logger:   logger,
	}
}

// Run imports dir. It fails only when the directory cannot be read or holds
// nothing to import; skipped rows are reported, not returned as errors.
func (s *ImportService) Run(ctx context.Context, dir string) (_ ImportReport, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ImportService.Run", attribute.String("import.dir", dir))
	defer func() { endSpan(span, err) }()

	dataset, err := s.loader.Load(ctx, dir)
	if err != nil {
		if importer.IsStructural(err) {
			return ImportReport{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		return ImportReport{}, fmt.Errorf("load import data: %w", err)
	}

	report := ImportReport{}
	for _, file := range dataset.Files {
		if file.Err != nil {
			report.FilesFailed++
			continue
		}
		report.FilesParsed++
		report.Rejections += len(file.Rejections)
	}

	if len(dataset.Teams) == 0 && len(dataset.Gamedays) == 0 {
		return report, fmt.Errorf("%w: %w: no teams or gamedays in %s", ErrInvalidInput, game.ErrNothingToImport, dir)
	}

	bulk, err := s.teamRepo.InsertMany(ctx, dataset.Teams)
	if err != nil {
		return report, fmt.Errorf("insert teams: %w", err)
	}
	report.TeamsInserted = len(bulk.Inserted)
	report.TeamsSkipped = bulk.Skipped
	s.logger.InfoContext(ctx, "teams inserted", "total", report.TeamsInserted, "skipped", len(report.TeamsSkipped))

	if len(dataset.Gamedays) == 0 {
		s.logger.WarnContext(ctx, "no gamedays to insert", "dir", dir)
		return report, nil
	}

	// Resolve against every stored team so a re-run still finds teams that
	// were inserted previously.
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return report, fmt.Errorf("list teams: %w", err)
	}

	result, err := s.gameRepo.InsertGamedays(ctx, dataset.Gamedays, teams)
	if err != nil {
		if errors.Is(err, game.ErrNothingToImport) {
			return report, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		return report, fmt.Errorf("insert gamedays: %w", err)
	}
	report.GamesInserted = result.Inserted
	report.GamesSkipped = result.Skipped
	s.logger.InfoContext(ctx, "gamedays inserted", "games", report.GamesInserted, "skipped", len(report.GamesSkipped))

	return report, nil
}
