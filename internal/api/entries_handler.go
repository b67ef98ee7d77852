package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dealerhub/seo-engine/internal/models"
)

// upsertEntry creates or updates the entry at (tenant, locale, path).
func (r *Router) upsertEntry(c *gin.Context) {
	var req models.EntryUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleValidationError(c, err)
		return
	}

	entry, err := r.registry.Upsert(c.Request.Context(), &req)
	if err != nil {
		handleRepositoryError(c, err, "entry", "upsert")
		return
	}

	c.JSON(http.StatusOK, entry)
}

// getEntry fetches one entry by its natural key.
func (r *Router) getEntry(c *gin.Context) {
	tenantID, ok := r.tenantFromRequest(c)
	if !ok {
		return
	}

	locale := c.Query("locale")
	if locale == "" {
		locale = r.cfg.Generator.DefaultLocale
	}
	path := c.Query("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return
	}

	entry, err := r.entries.GetByPath(c.Request.Context(), tenantID, locale, path)
	if err != nil {
		handleRepositoryError(c, err, "entry", "get")
		return
	}

	c.JSON(http.StatusOK, entry)
}

// listEntries lists a tenant's entries.
func (r *Router) listEntries(c *gin.Context) {
	tenantID, ok := r.tenantFromRequest(c)
	if !ok {
		return
	}

	limit, offset := paginationParams(c)
	entries, err := r.entries.ListByTenant(c.Request.Context(), tenantID, limit, offset)
	if err != nil {
		handleRepositoryError(c, err, "entries", "list")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"count":   len(entries),
		"limit":   limit,
		"offset":  offset,
	})
}

// redirectEntry transitions an entry into the redirected state and ensures a
// live entry at the target path.
func (r *Router) redirectEntry(c *gin.Context) {
	var req models.EntryRedirectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleValidationError(c, err)
		return
	}

	source, target, err := r.registry.CreateRedirect(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrAlreadyRedirected):
			c.JSON(http.StatusConflict, gin.H{"error": "Entry is already redirected"})
		case errors.Is(err, models.ErrRedirectLoop):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Redirect would create a loop"})
		default:
			handleRepositoryError(c, err, "entry", "redirect")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"source": source,
		"target": target,
	})
}
