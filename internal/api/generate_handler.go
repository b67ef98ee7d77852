package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dealerhub/seo-engine/internal/models"
)

// generateRequest is the payload for a manual generation trigger.
type generateRequest struct {
	TenantID uuid.UUID          `json:"tenant_id" binding:"required"`
	Type     models.SitemapType `json:"type"`
	Limit    int                `json:"limit" binding:"omitempty,min=1"`
	DryRun   bool               `json:"dry_run"`
}

// triggerGeneration runs sitemap generation for one tenant on demand. Dry
// runs bypass the generation lock since they write nothing.
func (r *Router) triggerGeneration(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleValidationError(c, err)
		return
	}

	typ := req.Type
	if typ == "" {
		typ = models.SitemapTypeAll
	}
	if !typ.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown sitemap type"})
		return
	}

	ctx := c.Request.Context()
	if r.locks != nil && !req.DryRun {
		if err := r.locks.Acquire(ctx, req.TenantID, typ); err != nil {
			if errors.Is(err, models.ErrGenerationLocked) {
				c.JSON(http.StatusConflict, gin.H{"error": "Generation already in progress"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to acquire generation lock"})
			return
		}
		defer func() {
			_ = r.locks.Release(ctx, req.TenantID, typ)
		}()
	}

	start := time.Now()
	result, err := r.generator.Generate(ctx, req.TenantID, typ, req.Limit, req.DryRun)
	if err != nil {
		if r.metrics != nil {
			r.metrics.RecordGeneration(string(typ), "failure", time.Since(start).Seconds(), 0, 0)
		}
		handleRepositoryError(c, err, "sitemap", "generate")
		return
	}

	if r.metrics != nil && !req.DryRun {
		r.metrics.RecordGeneration(string(typ), "success", time.Since(start).Seconds(), result.TotalURLs, len(result.Files))
	}

	c.JSON(http.StatusOK, result)
}
