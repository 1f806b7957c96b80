package app

import (
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/willowlytics/cricketstats/internal/config"
	"github.com/willowlytics/cricketstats/internal/domain/analytics"
	"github.com/willowlytics/cricketstats/internal/domain/match"
	"github.com/willowlytics/cricketstats/internal/domain/performance"
	"github.com/willowlytics/cricketstats/internal/domain/player"
	"github.com/willowlytics/cricketstats/internal/domain/team"
	"github.com/willowlytics/cricketstats/internal/domain/venue"
	"github.com/willowlytics/cricketstats/internal/infrastructure/repository/memory"
	"github.com/willowlytics/cricketstats/internal/infrastructure/repository/postgres"
	"github.com/willowlytics/cricketstats/internal/interfaces/httpapi"
	"github.com/willowlytics/cricketstats/internal/platform/cache"
	idgen "github.com/willowlytics/cricketstats/internal/platform/id"
	"github.com/willowlytics/cricketstats/internal/platform/logging"
	"github.com/willowlytics/cricketstats/internal/usecase"
)

// Repositories bundles every store the use cases depend on, backed by one
// storage driver.
type Repositories struct {
	Teams        team.Repository
	Venues       venue.Repository
	Players      player.Repository
	Matches      match.Repository
	Performances performance.Repository
	Analytics    analytics.Repository
}

// Services bundles the wired use cases.
type Services struct {
	Resolver    *usecase.EntityResolver
	Normalizer  *usecase.MatchNormalizer
	Coordinator *usecase.IngestionCoordinator
	Stats       *usecase.StatsService
	Form        *usecase.FormService
	Collapse    *usecase.CollapseService
	Match       *usecase.MatchService
}

// NewRepositories builds the storage layer for the configured driver. The
// returned closer releases the database pool; it is a no-op for the
// memory driver.
func NewRepositories(cfg config.Config, logger *logging.Logger) (Repositories, func() error, error) {
	switch cfg.StorageDriver {
	case config.StorageMemory:
		return Repositories{
			Teams:        memory.NewTeamRepository(),
			Venues:       memory.NewVenueRepository(),
			Players:      memory.NewPlayerRepository(),
			Matches:      memory.NewMatchRepository(),
			Performances: memory.NewPerformanceRepository(),
			Analytics:    memory.NewAnalyticsRepository(),
		}, func() error { return nil }, nil

	case config.StoragePostgres:
		db, err := sqlx.Connect("postgres", cfg.DBURL)
		if err != nil {
			return Repositories{}, nil, fmt.Errorf("connect postgres: %w", err)
		}
		logger.Info("postgres connected", "database", dbNameFromURL(cfg.DBURL))

		return Repositories{
			Teams:        postgres.NewTeamRepository(db),
			Venues:       postgres.NewVenueRepository(db),
			Players:      postgres.NewPlayerRepository(db),
			Matches:      postgres.NewMatchRepository(db),
			Performances: postgres.NewPerformanceRepository(db),
			Analytics:    postgres.NewAnalyticsRepository(db),
		}, db.Close, nil

	default:
		return Repositories{}, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

func NewServices(cfg config.Config, repos Repositories, logger *logging.Logger) *Services {
	resolver := usecase.NewEntityResolver(repos.Teams, repos.Venues, repos.Players,
		idgen.NewRandomGenerator(), logger)
	normalizer := usecase.NewMatchNormalizer(resolver, idgen.NewRandomGenerator(), logger)

	var statsCache *cache.Store
	if cfg.CacheEnabled {
		statsCache = cache.NewStore(cfg.CacheTTL)
	}

	coordinator := usecase.NewIngestionCoordinator(normalizer, repos.Matches,
		repos.Performances, repos.Analytics, statsCache, cfg.IngestWorkers, logger)

	return &Services{
		Resolver:    resolver,
		Normalizer:  normalizer,
		Coordinator: coordinator,
		Stats:       usecase.NewStatsService(repos.Matches, repos.Performances, repos.Analytics, statsCache, logger),
		Form:        usecase.NewFormService(repos.Performances, cfg.FormWindow, logger),
		Collapse:    usecase.NewCollapseService(repos.Matches, repos.Performances, repos.Analytics, cfg.CollapseWicketThreshold, logger),
		Match:       usecase.NewMatchService(repos.Matches),
	}
}

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	repos, closeRepos, err := NewRepositories(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	services := NewServices(cfg, repos, logger)
	handler := httpapi.NewHandler(services.Stats, services.Form, services.Collapse,
		services.Match, services.Coordinator, logger)
	router := httpapi.NewRouter(handler, logger)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		_ = closeRepos()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, closeRepos, nil
}
