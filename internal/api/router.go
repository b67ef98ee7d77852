// Package api exposes the HTTP surface: resolution, artifact serving, and
// the admin endpoints for entries, redirects, and configs.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"

	"github.com/dealerhub/seo-engine/internal/config"
	"github.com/dealerhub/seo-engine/internal/database"
	"github.com/dealerhub/seo-engine/internal/locks"
	"github.com/dealerhub/seo-engine/internal/logger"
	"github.com/dealerhub/seo-engine/internal/metrics"
	"github.com/dealerhub/seo-engine/internal/registry"
	"github.com/dealerhub/seo-engine/internal/robots"
	"github.com/dealerhub/seo-engine/internal/sitemap"
	"github.com/dealerhub/seo-engine/internal/storage"
	"github.com/dealerhub/seo-engine/internal/tenant"
)

const (
	healthStatusHealthy  = "healthy"
	healthStatusDegraded = "degraded"
	healthCheckTimeout   = 2 * time.Second
	serviceVersion       = "1.0.0"
)

// Router holds the API dependencies.
type Router struct {
	entries        *database.EntryRepository
	redirects      *database.RedirectRepository
	sitemapConfigs *database.SitemapConfigRepository
	robotsConfigs  *database.RobotsConfigRepository
	stats          *database.StatsRepository

	registry  *registry.Service
	robots    *robots.Service
	generator *sitemap.Generator
	resolver  *tenant.Resolver
	store     storage.FileStore
	locks     *locks.Manager

	redisClient *goredis.Client
	metrics     *metrics.Metrics
	cfg         *config.Config
	logger      logger.Logger
}

// RouterDeps bundles the collaborators the router serves.
type RouterDeps struct {
	Entries        *database.EntryRepository
	Redirects      *database.RedirectRepository
	SitemapConfigs *database.SitemapConfigRepository
	RobotsConfigs  *database.RobotsConfigRepository
	Stats          *database.StatsRepository

	Registry  *registry.Service
	Robots    *robots.Service
	Generator *sitemap.Generator
	Resolver  *tenant.Resolver
	Store     storage.FileStore
	Locks     *locks.Manager

	RedisClient *goredis.Client
	Metrics     *metrics.Metrics
}

// NewRouter creates a new API router.
func NewRouter(deps RouterDeps, cfg *config.Config, log logger.Logger) *Router {
	return &Router{
		entries:        deps.Entries,
		redirects:      deps.Redirects,
		sitemapConfigs: deps.SitemapConfigs,
		robotsConfigs:  deps.RobotsConfigs,
		stats:          deps.Stats,
		registry:       deps.Registry,
		robots:         deps.Robots,
		generator:      deps.Generator,
		resolver:       deps.Resolver,
		store:          deps.Store,
		locks:          deps.Locks,
		redisClient:    deps.RedisClient,
		metrics:        deps.Metrics,
		cfg:            cfg,
		logger:         log,
	}
}

// SetupRoutes builds the gin engine with middleware and all routes.
func (r *Router) SetupRoutes() *gin.Engine {
	if !r.cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(requestLogger(r.logger))
	router.Use(corsMiddleware(r.cfg.Server.CORSOrigins))

	// Public surface
	router.GET("/health", r.healthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/sitemaps/:tenant/:file", r.serveSitemapFile)
	router.GET("/robots/:tenant/:locale/robots.txt", r.serveRobotsFile)

	// API v1
	v1 := router.Group("/api/v1")
	v1.GET("/resolve", r.resolve)

	entries := v1.Group("/entries")
	entries.POST("", r.upsertEntry)
	entries.GET("", r.listEntries)
	entries.GET("/lookup", r.getEntry) // keyed by tenant+locale+path, not ID
	entries.POST("/redirect", r.redirectEntry)

	redirects := v1.Group("/redirects")
	redirects.POST("", r.createRedirect)
	redirects.GET("", r.listRedirects)
	redirects.DELETE("/:id", r.deactivateRedirect)

	sitemaps := v1.Group("/sitemaps")
	sitemaps.POST("/configs", r.upsertSitemapConfig)
	sitemaps.GET("/configs", r.listSitemapConfigs)
	sitemaps.POST("/generate", r.triggerGeneration)

	robotsGroup := v1.Group("/robots")
	robotsGroup.POST("/configs", r.upsertRobotsConfig)
	robotsGroup.GET("/configs", r.getRobotsConfig)
	robotsGroup.GET("/preview", r.previewRobots)
	robotsGroup.POST("/generate", r.generateRobots)

	stats := v1.Group("/stats")
	stats.GET("/overview", r.getStatsOverview)

	return router
}

// healthCheck returns the service health status.
func (r *Router) healthCheck(c *gin.Context) {
	health := gin.H{
		"status":  healthStatusHealthy,
		"service": "seo-engine",
		"version": serviceVersion,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	dbConnected := true
	if err := r.entries.Ping(ctx); err != nil {
		dbConnected = false
		health["status"] = healthStatusDegraded
	}
	health["database"] = gin.H{"connected": dbConnected}

	redisHealth := r.checkRedisHealth(ctx)
	health["redis"] = redisHealth
	if connected, ok := redisHealth["connected"].(bool); ok && !connected {
		if health["status"] == healthStatusHealthy {
			health["status"] = healthStatusDegraded
		}
	}

	c.JSON(http.StatusOK, health)
}

func (r *Router) checkRedisHealth(ctx context.Context) gin.H {
	if r.redisClient == nil {
		return gin.H{
			"connected": false,
			"error":     "Redis client not initialized",
		}
	}

	redisHealth := gin.H{"connected": true}
	if err := r.redisClient.Ping(ctx).Err(); err != nil {
		redisHealth["connected"] = false
		redisHealth["error"] = err.Error()
	}
	return redisHealth
}
