package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dealerhub/seo-engine/internal/models"
)

// createRedirect records an explicit operator redirect. Loops across both
// explicit and entry-embedded redirects are refused.
func (r *Router) createRedirect(c *gin.Context) {
	var req models.RedirectCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleValidationError(c, err)
		return
	}

	redirect, err := r.registry.CreateExplicitRedirect(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, models.ErrRedirectLoop) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Redirect would create a loop"})
			return
		}
		handleRepositoryError(c, err, "redirect", "create")
		return
	}

	c.JSON(http.StatusCreated, redirect)
}

// listRedirects lists a tenant's explicit redirects, active and inactive.
func (r *Router) listRedirects(c *gin.Context) {
	tenantID, ok := r.tenantFromRequest(c)
	if !ok {
		return
	}

	redirects, err := r.redirects.ListByTenant(c.Request.Context(), tenantID)
	if err != nil {
		handleRepositoryError(c, err, "redirects", "list")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"redirects": redirects,
		"count":     len(redirects),
	})
}

// deactivateRedirect switches a redirect off while keeping the row for
// audit history.
func (r *Router) deactivateRedirect(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id", "redirect")
	if !ok {
		return
	}

	if err := r.redirects.Deactivate(c.Request.Context(), id); err != nil {
		handleRepositoryError(c, err, "redirect", "deactivate")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deactivated": true})
}
