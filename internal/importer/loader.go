package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/gameday-api/internal/domain/game"
	"github.com/riskibarqy/gameday-api/internal/platform/logging"
)

const (
	TeamsFile      = "teams.json"
	GamedayPattern = "gameday-*.json"
)

// FileReport is the parse outcome of one gameday file.
type FileReport struct {
	Path       string
	Games      int
	Rejections []Rejection
	Err        error
}

// Dataset is everything read from an import directory.
type Dataset struct {
	Teams    []string
	Gamedays []game.Gameday
	Files    []FileReport
}

// Loader reads an import directory, parsing gameday files concurrently.
type Loader struct {
	workers int
	logger  *logging.Logger
}

func NewLoader(workers int, logger *logging.Logger) *Loader {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Loader{workers: workers, logger: logger.Named("importer")}
}

// Load reads teams.json, which must parse, then every gameday file in name
// order. A gameday file that fails to parse is logged and left out.
func (l *Loader) Load(ctx context.Context, dir string) (Dataset, error) {
	raw, err := os.ReadFile(filepath.Join(dir, TeamsFile))
	if err != nil {
		return Dataset{}, fmt.Errorf("read %s: %w", TeamsFile, err)
	}
	teams, err := ParseTeamsJSON(string(raw))
	if err != nil {
		return Dataset{}, fmt.Errorf("parse %s: %w", TeamsFile, err)
	}
	l.logger.InfoContext(ctx, "team names read", "total", len(teams))

	paths, err := filepath.Glob(filepath.Join(dir, GamedayPattern))
	if err != nil {
		return Dataset{}, fmt.Errorf("list gameday files: %w", err)
	}
	sort.Strings(paths)
	l.logger.InfoContext(ctx, "gameday files found", "total", len(paths))

	reports, parsed, err := l.parseFiles(ctx, paths, NewNameSet(teams))
	if err != nil {
		return Dataset{}, err
	}

	out := Dataset{Teams: teams, Files: reports}
	for i, report := range reports {
		if report.Err != nil {
			l.logger.ErrorContext(ctx, "unable to parse gameday file", "file", report.Path, "error", report.Err)
			continue
		}
		for _, rejection := range report.Rejections {
			l.logger.WarnContext(ctx, "illegal team data", "file", report.Path, "game", rejection.Index, "side", rejection.Side, "reason", rejection.Reason)
		}
		out.Gamedays = append(out.Gamedays, parsed[i])
	}
	l.logger.InfoContext(ctx, "gameday files parsed", "total", len(out.Gamedays))

	return out, nil
}

func (l *Loader) parseFiles(ctx context.Context, paths []string, allowed NameSet) ([]FileReport, []game.Gameday, error) {
	reports := make([]FileReport, len(paths))
	parsed := make([]game.Gameday, len(paths))
	if len(paths) == 0 {
		return reports, parsed, nil
	}

	pool, err := ants.NewPool(min(l.workers, len(paths)))
	if err != nil {
		return nil, nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			reports[i], parsed[i] = parseFile(ctx, path, allowed)
		}); err != nil {
			wg.Done()
			wg.Wait()
			return nil, nil, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	return reports, parsed, nil
}

func parseFile(ctx context.Context, path string, allowed NameSet) (FileReport, game.Gameday) {
	report := FileReport{Path: path}
	if err := ctx.Err(); err != nil {
		report.Err = err
		return report, game.Gameday{}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		report.Err = err
		return report, game.Gameday{}
	}

	gameday, rejections, err := ParseGamedayFile(string(raw), allowed)
	if err != nil {
		report.Err = err
		return report, game.Gameday{}
	}
	report.Games = len(gameday.Games)
	report.Rejections = rejections
	return report, gameday
}
