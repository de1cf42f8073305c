package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/RenJieJiang/rugby-fixtures-app/internal/config"
	"github.com/RenJieJiang/rugby-fixtures-app/internal/domain/fixture"
	cacherepo "github.com/RenJieJiang/rugby-fixtures-app/internal/infrastructure/repository/cache"
	"github.com/RenJieJiang/rugby-fixtures-app/internal/infrastructure/repository/memory"
	"github.com/RenJieJiang/rugby-fixtures-app/internal/infrastructure/repository/postgres"
	"github.com/RenJieJiang/rugby-fixtures-app/internal/interfaces/httpapi"
	"github.com/RenJieJiang/rugby-fixtures-app/internal/platform/cache"
	idgen "github.com/RenJieJiang/rugby-fixtures-app/internal/platform/id"
	"github.com/RenJieJiang/rugby-fixtures-app/internal/platform/logging"
	"github.com/RenJieJiang/rugby-fixtures-app/internal/usecase"
)

// Services holds the usecases shared by the API server and the importer.
type Services struct {
	Fixtures  *usecase.FixtureService
	Ingestion *usecase.IngestionService
	closeFn   func() error
}

// Close releases the storage handle.
func (s *Services) Close() error {
	if s == nil || s.closeFn == nil {
		return nil
	}
	return s.closeFn()
}

func NewServices(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Services, error) {
	if logger == nil {
		logger = logging.Default()
	}

	repo, closeFn, err := NewFixtureRepository(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	return &Services{
		Fixtures: usecase.NewFixtureService(repo, usecase.FixtureServiceConfig{
			DefaultPageSize: cfg.SearchDefaultPageSize,
			MaxPageSize:     cfg.SearchMaxPageSize,
		}, logger.Named("fixtures")),
		Ingestion: NewIngestionService(cfg, repo, logger),
		closeFn:   closeFn,
	}, nil
}

func NewIngestionService(cfg config.Config, repo fixture.Repository, logger *logging.Logger) *usecase.IngestionService {
	return usecase.NewIngestionService(repo, idgen.NewUUIDGenerator(), usecase.IngestionConfig{
		MaxUploadBytes:   cfg.UploadMaxBytes,
		SampleLimit:      cfg.IngestSampleLimit,
		TransformWorkers: cfg.IngestTransformWorkers,
	}, logger.Named("ingestion"))
}

// NewFixtureRepository builds the configured store, wrapped in the read cache
// when CACHE_ENABLED is set.
func NewFixtureRepository(ctx context.Context, cfg config.Config, logger *logging.Logger) (fixture.Repository, func() error, error) {
	var (
		repo    fixture.Repository
		closeFn = func() error { return nil }
	)

	switch cfg.StorageDriver {
	case config.StorageMemory:
		var seed []fixture.Fixture
		if cfg.SeedDemoData {
			seed = memory.SeedFixtures()
		}
		repo = memory.NewFixtureRepository(seed)
		logger.Info("fixture storage ready", "driver", cfg.StorageDriver, "seeded", len(seed))
	case config.StoragePostgres:
		db, err := OpenDB(ctx, cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		repo = postgres.NewFixtureRepository(db, cfg.IngestInsertBatchSize)
		closeFn = db.Close
		logger.Info("fixture storage ready", "driver", cfg.StorageDriver)
	default:
		return nil, nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}

	if cfg.CacheEnabled {
		repo = cacherepo.NewFixtureRepository(repo, cache.NewStore(cfg.CacheTTL))
	}

	return repo, closeFn, nil
}

func NewHTTPServer(cfg config.Config, services *Services, logger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if services == nil {
		return nil, fmt.Errorf("services are required")
	}

	handler := httpapi.NewHandler(services.Fixtures, services.Ingestion, logger.Named("http"))
	router := httpapi.NewRouter(handler, logger.Named("http"), httpapi.RouterConfig{
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		AdminToken:         cfg.AdminToken,
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}
