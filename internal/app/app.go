package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/riskibarqy/gameday-api/internal/config"
	"github.com/riskibarqy/gameday-api/internal/domain/game"
	"github.com/riskibarqy/gameday-api/internal/domain/team"
	"github.com/riskibarqy/gameday-api/internal/importer"
	"github.com/riskibarqy/gameday-api/internal/infrastructure/database"
	cacherepo "github.com/riskibarqy/gameday-api/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/gameday-api/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/gameday-api/internal/interfaces/httpapi"
	"github.com/riskibarqy/gameday-api/internal/platform/cache"
	"github.com/riskibarqy/gameday-api/internal/platform/logging"
	"github.com/riskibarqy/gameday-api/internal/usecase"
)

// App holds the opened database and the repositories built on it.
type App struct {
	cfg    config.Config
	logger *logging.Logger

	DB       *database.Database
	TeamRepo team.Repository
	GameRepo game.Repository
}

// New opens the database pool and wires the repositories.
func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	db := database.New(cfg.DBURL, database.Options{
		MaxOpenConns:     cfg.DBMaxOpenConns,
		MaxIdleConns:     cfg.DBMaxIdleConns,
		ConnMaxLifetime:  cfg.DBConnMaxLifetime,
		BinaryParameters: cfg.DBBinaryParameters,
	}, logger)
	if err := db.Open(ctx); err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	return &App{
		cfg:      cfg,
		logger:   logger,
		DB:       db,
		TeamRepo: teamRepository(cfg, postgres.NewTeamRepository(db, logger)),
		GameRepo: postgres.NewGameRepository(db, logger),
	}, nil
}

// teamRepository puts the read cache in front of base when enabled.
func teamRepository(cfg config.Config, base team.Repository) team.Repository {
	if !cfg.CacheEnabled {
		return base
	}
	return cacherepo.NewTeamRepository(base, cache.NewStore(cfg.CacheTTL))
}

func (a *App) NewHTTPServer() (*http.Server, error) {
	handler := httpapi.NewHandler(
		usecase.NewTeamService(a.TeamRepo),
		usecase.NewGameService(a.GameRepo),
		a.DB,
		a.logger,
	)
	router := httpapi.NewRouter(handler, a.logger, httpapi.RouterOptions{
		CORSAllowedOrigins: a.cfg.CORSAllowedOrigins,
		SwaggerEnabled:     a.cfg.SwaggerEnabled,
	})

	return httpapi.NewServer(router, httpapi.ServerOptions{
		Addr:         a.cfg.HTTPAddr,
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
	})
}

func (a *App) NewImportService(workers int) *usecase.ImportService {
	if workers < 1 {
		workers = a.cfg.ImportWorkers
	}
	return usecase.NewImportService(importer.NewLoader(workers, a.logger), a.TeamRepo, a.GameRepo, a.logger)
}

func (a *App) Close() error {
	if err := a.DB.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
