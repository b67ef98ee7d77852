package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dealerhub/seo-engine/internal/models"
	"github.com/dealerhub/seo-engine/internal/robots"
)

// upsertSitemapConfig creates or updates a sitemap generation config.
func (r *Router) upsertSitemapConfig(c *gin.Context) {
	var req models.SitemapConfigUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleValidationError(c, err)
		return
	}
	if !req.Type.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown sitemap type"})
		return
	}
	if req.ChangeFrequency != "" && !req.ChangeFrequency.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown change frequency"})
		return
	}

	cfg, err := r.sitemapConfigs.Upsert(c.Request.Context(), &req)
	if err != nil {
		handleRepositoryError(c, err, "sitemap config", "upsert")
		return
	}

	c.JSON(http.StatusOK, cfg)
}

// listSitemapConfigs lists a tenant's sitemap configs.
func (r *Router) listSitemapConfigs(c *gin.Context) {
	tenantID, ok := r.tenantFromRequest(c)
	if !ok {
		return
	}

	configs, err := r.sitemapConfigs.ListByTenant(c.Request.Context(), tenantID)
	if err != nil {
		handleRepositoryError(c, err, "sitemap configs", "list")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"configs": configs,
		"count":   len(configs),
	})
}

// upsertRobotsConfig creates or updates a robots config after validating it.
func (r *Router) upsertRobotsConfig(c *gin.Context) {
	var req models.RobotsConfigUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleValidationError(c, err)
		return
	}

	// Validate the prospective config before persisting.
	candidate := &models.RobotsConfig{
		TenantID:    req.TenantID,
		AgentRules:  req.AgentRules,
		SitemapURLs: req.SitemapURLs,
	}
	warnings, err := robots.Validate(candidate, r.cfg.Generator.BaseURL)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCrawlDelay) || errors.Is(err, models.ErrInvalidSitemapURL) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		handleRepositoryError(c, err, "robots config", "validate")
		return
	}

	cfg, err := r.robotsConfigs.Upsert(c.Request.Context(), &req)
	if err != nil {
		handleRepositoryError(c, err, "robots config", "upsert")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"config":   cfg,
		"warnings": warnings,
	})
}

// getRobotsConfig fetches a tenant's robots config for a locale.
func (r *Router) getRobotsConfig(c *gin.Context) {
	tenantID, ok := r.tenantFromRequest(c)
	if !ok {
		return
	}
	locale := c.Query("locale")
	if locale == "" {
		locale = r.cfg.Generator.DefaultLocale
	}

	cfg, err := r.robotsConfigs.Get(c.Request.Context(), tenantID, locale)
	if err != nil {
		handleRepositoryError(c, err, "robots config", "get")
		return
	}

	c.JSON(http.StatusOK, cfg)
}

// previewRobots compiles the robots.txt for a tenant/locale without writing
// anything.
func (r *Router) previewRobots(c *gin.Context) {
	tenantID, ok := r.tenantFromRequest(c)
	if !ok {
		return
	}
	locale := c.Query("locale")
	if locale == "" {
		locale = r.cfg.Generator.DefaultLocale
	}

	content, err := r.robots.Compile(c.Request.Context(), tenantID, locale)
	if err != nil {
		handleRepositoryError(c, err, "robots config", "compile")
		return
	}

	c.String(http.StatusOK, content)
}

// generateRobots compiles and writes the robots.txt artifact.
func (r *Router) generateRobots(c *gin.Context) {
	tenantID, ok := r.tenantFromRequest(c)
	if !ok {
		return
	}
	locale := c.Query("locale")
	if locale == "" {
		locale = r.cfg.Generator.DefaultLocale
	}

	path, err := r.robots.Generate(c.Request.Context(), tenantID, locale, "api")
	if err != nil {
		if errors.Is(err, models.ErrInvalidCrawlDelay) || errors.Is(err, models.ErrInvalidSitemapURL) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		handleRepositoryError(c, err, "robots.txt", "generate")
		return
	}

	c.JSON(http.StatusOK, gin.H{"path": path})
}
