package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dealerhub/seo-engine/internal/models"
)

const (
	defaultPageLimit = 100
	maxPageLimit     = 1000
)

// paginationParams reads limit/offset query parameters with bounds applied.
func paginationParams(c *gin.Context) (limit, offset int) {
	limit = defaultPageLimit
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if raw := c.Query("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}
	return limit, offset
}

// parseUUIDParam parses a UUID from a gin.Context path parameter.
func parseUUIDParam(c *gin.Context, paramName, entityType string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(paramName))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid " + entityType + " ID format",
		})
		return uuid.Nil, false
	}
	return id, true
}

// tenantFromRequest resolves the tenant a request targets. An explicit
// tenant query parameter wins; otherwise the strategy chain runs against the
// request itself.
func (r *Router) tenantFromRequest(c *gin.Context) (uuid.UUID, bool) {
	if raw := c.Query("tenant"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tenant ID format"})
			return uuid.Nil, false
		}
		return id, true
	}

	if r.resolver != nil {
		id, err := r.resolver.Resolve(c.Request.Context(), c.Request)
		if err == nil {
			return id, true
		}
		if !errors.Is(err, models.ErrTenantNotResolved) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Tenant resolution failed"})
			return uuid.Nil, false
		}
	}

	c.JSON(http.StatusBadRequest, gin.H{"error": "Tenant could not be determined"})
	return uuid.Nil, false
}

// handleRepositoryError maps common repository errors onto HTTP statuses.
func handleRepositoryError(c *gin.Context, err error, entityType, operation string) {
	if errors.Is(err, models.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": entityType + " not found",
		})
		return
	}
	if errors.Is(err, models.ErrAlreadyExists) {
		c.JSON(http.StatusConflict, gin.H{
			"error": entityType + " already exists",
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "Failed to " + operation + " " + entityType,
	})
}

// handleValidationError maps binding and validation errors onto 400s.
func handleValidationError(c *gin.Context, err error) {
	if errors.Is(err, models.ErrNoFieldsToUpdate) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "At least one field must be provided for update",
		})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{
		"error": err.Error(),
	})
}
