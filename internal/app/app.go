// Package app wires the engine's components and manages their lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/dealerhub/seo-engine/internal/api"
	"github.com/dealerhub/seo-engine/internal/config"
	"github.com/dealerhub/seo-engine/internal/database"
	"github.com/dealerhub/seo-engine/internal/locks"
	"github.com/dealerhub/seo-engine/internal/logger"
	"github.com/dealerhub/seo-engine/internal/metrics"
	"github.com/dealerhub/seo-engine/internal/models"
	"github.com/dealerhub/seo-engine/internal/redis"
	"github.com/dealerhub/seo-engine/internal/registry"
	"github.com/dealerhub/seo-engine/internal/robots"
	"github.com/dealerhub/seo-engine/internal/scheduler"
	"github.com/dealerhub/seo-engine/internal/sitemap"
	"github.com/dealerhub/seo-engine/internal/storage"
	"github.com/dealerhub/seo-engine/internal/tenant"
	"github.com/dealerhub/seo-engine/internal/worker"
	"github.com/jmoiron/sqlx"
)

// DefaultShutdownTimeout is the timeout for graceful HTTP shutdown.
const DefaultShutdownTimeout = 30 * time.Second

// App holds the engine's wired components.
type App struct {
	cfg    *config.Config
	logger logger.Logger

	db          *sqlx.DB
	redisClient *goredis.Client

	entries        *database.EntryRepository
	redirects      *database.RedirectRepository
	sitemapConfigs *database.SitemapConfigRepository
	robotsConfigs  *database.RobotsConfigRepository

	registry  *registry.Service
	robots    *robots.Service
	generator *sitemap.Generator
	scheduler *scheduler.Scheduler
	locks     *locks.Manager
	metrics   *metrics.Metrics
	worker    *worker.GenerationWorker
	router    *api.Router

	version string
}

// Options contains configuration for creating a new App.
type Options struct {
	ConfigPath string
	Version    string

	// WithRedis controls whether Redis-backed components (locks, tenant
	// cache) are wired. One-shot CLI commands can run without Redis.
	WithRedis bool

	// WithMetrics controls Prometheus collector registration. Disabled for
	// one-shot commands so repeated runs don't double-register.
	WithMetrics bool
}

// New creates an App with all dependencies initialized.
func New(opts Options) (*App, error) {
	var cfg *config.Config
	if opts.ConfigPath != "" {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	} else {
		cfg = config.Default()
	}

	appLogger, err := logger.New(cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	appLogger = appLogger.With(
		logger.String("service", "seo-engine"),
		logger.String("version", opts.Version),
	)

	db, err := database.NewPostgresConnection(database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		_ = appLogger.Sync()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	a := &App{
		cfg:     cfg,
		logger:  appLogger,
		db:      db,
		version: opts.Version,
	}

	if opts.WithRedis {
		client, redisErr := redis.NewClient(cfg.Redis)
		if redisErr != nil {
			_ = db.Close()
			_ = appLogger.Sync()
			return nil, redisErr
		}
		a.redisClient = client
		a.locks = locks.NewManager(client, cfg.Generator.LockTTL, appLogger)
	}
	if opts.WithMetrics {
		a.metrics = metrics.New(nil)
	}

	a.wireComponents()
	return a, nil
}

// wireComponents builds the service graph on top of the connections.
func (a *App) wireComponents() {
	a.entries = database.NewEntryRepository(a.db)
	a.redirects = database.NewRedirectRepository(a.db)
	a.sitemapConfigs = database.NewSitemapConfigRepository(a.db)
	a.robotsConfigs = database.NewRobotsConfigRepository(a.db)

	store := storage.NewLocalStore(a.cfg.Generator.OutputDir)

	a.registry = registry.NewService(a.entries, a.redirects, a.logger)
	a.robots = robots.NewService(a.robotsConfigs, store, a.logger, a.cfg.Generator.BaseURL)
	a.generator = sitemap.NewGenerator(a.entries, store, a.logger, sitemap.Options{
		BaseURL:  a.cfg.Generator.BaseURL,
		URLLimit: a.cfg.Generator.URLLimit,
	})
	a.scheduler = scheduler.New(a.sitemapConfigs, a.entries, store, a.logger)
	a.worker = worker.NewGenerationWorker(a.scheduler, a.generator, a.locks, a.metrics,
		worker.GenerationWorkerConfig{
			SweepCron:     a.cfg.Generator.SweepCron,
			SweepInterval: a.cfg.Generator.SweepInterval,
		}, a.logger)

	var resolver *tenant.Resolver
	if a.redisClient != nil {
		strategies := []tenant.Strategy{
			tenant.NewHeaderStrategy(a.cfg.Tenant.Header),
		}
		if a.cfg.Tenant.DirectoryURL != "" {
			directory := tenant.NewHTTPDirectory(a.cfg.Tenant.DirectoryURL, a.cfg.Tenant.DirectoryTimeout, a.logger)
			strategies = []tenant.Strategy{
				tenant.NewSubdomainStrategy(a.cfg.Tenant.BaseDomain, directory),
				tenant.NewCustomDomainStrategy(a.cfg.Tenant.BaseDomain, directory),
				tenant.NewHeaderStrategy(a.cfg.Tenant.Header),
				tenant.NewOriginStrategy(directory),
			}
		}
		resolver = tenant.NewResolver(strategies, a.redisClient, a.cfg.Tenant.CacheTTL, a.logger)
		if a.metrics != nil {
			resolver.SetMetrics(a.metrics)
		}
	}

	a.router = api.NewRouter(api.RouterDeps{
		Entries:        a.entries,
		Redirects:      a.redirects,
		SitemapConfigs: a.sitemapConfigs,
		RobotsConfigs:  a.robotsConfigs,
		Stats:          database.NewStatsRepository(a.db),
		Registry:       a.registry,
		Robots:         a.robots,
		Generator:      a.generator,
		Resolver:       resolver,
		Store:          store,
		Locks:          a.locks,
		RedisClient:    a.redisClient,
		Metrics:        a.metrics,
	}, a.cfg, a.logger)
}

// RunServe starts the API server and the generation worker, blocking until
// shutdown.
func (a *App) RunServe(ctx context.Context) error {
	workerCtx, workerCancel := context.WithCancel(ctx)
	defer workerCancel()

	if err := a.worker.Start(workerCtx); err != nil {
		return fmt.Errorf("start generation worker: %w", err)
	}

	server := &http.Server{
		Addr:         a.cfg.Server.Address,
		Handler:      a.router.SetupRoutes(),
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server listening", logger.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-sigChan:
		a.logger.Info("Shutting down gracefully", logger.String("signal", sig.String()))
	case err := <-serverErr:
		a.logger.Error("Server error", logger.Error(err))
		runErr = err
	case <-ctx.Done():
	}

	workerCancel()
	a.worker.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("Server shutdown error", logger.Error(err))
	} else {
		a.logger.Info("HTTP server stopped")
	}

	a.logger.Info("Service stopped")
	return runErr
}

// GenerateTenant runs one-shot sitemap generation for a single tenant.
func (a *App) GenerateTenant(ctx context.Context, tenantID uuid.UUID, typ models.SitemapType, limit int, dryRun bool) (*sitemap.Result, error) {
	return a.generator.Generate(ctx, tenantID, typ, limit, dryRun)
}

// GenerateAll runs one-shot generation for every tenant with sitemap-eligible
// content. One tenant's failure is logged and skipped, the rest proceed.
func (a *App) GenerateAll(ctx context.Context, typ models.SitemapType, limit int, dryRun bool) ([]sitemap.Result, error) {
	tenants, err := a.entries.TenantsWithSitemapContent(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}

	results := make([]sitemap.Result, 0, len(tenants))
	for _, tenantID := range tenants {
		result, genErr := a.generator.Generate(ctx, tenantID, typ, limit, dryRun)
		if genErr != nil {
			a.logger.Error("generation failed, tenant skipped",
				logger.String("tenant_id", tenantID.String()),
				logger.Error(genErr),
			)
			continue
		}
		results = append(results, *result)
	}
	return results, nil
}

// GenerateRobots compiles and writes the robots.txt for one tenant/locale.
func (a *App) GenerateRobots(ctx context.Context, tenantID uuid.UUID, locale string) (string, error) {
	return a.robots.Generate(ctx, tenantID, locale, "cli")
}

// CompileRobots returns the robots.txt content without writing it.
func (a *App) CompileRobots(ctx context.Context, tenantID uuid.UUID, locale string) (string, error) {
	return a.robots.Compile(ctx, tenantID, locale)
}

// Bootstrap runs the default-config sweep once and returns how many configs
// were created.
func (a *App) Bootstrap(ctx context.Context) (int, error) {
	return a.scheduler.EnsureDefaultConfigs(ctx)
}

// DefaultLocale returns the configured default locale.
func (a *App) DefaultLocale() string {
	return a.cfg.Generator.DefaultLocale
}

// Logger returns the application logger.
func (a *App) Logger() logger.Logger {
	return a.logger
}

// Close cleans up connections.
func (a *App) Close() error {
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("Failed to close Redis client", logger.Error(err))
		}
	}
	if err := database.Close(a.db); err != nil {
		a.logger.Warn("Failed to close database", logger.Error(err))
	}
	return a.logger.Sync()
}
