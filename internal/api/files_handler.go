package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dealerhub/seo-engine/internal/models"
	"github.com/dealerhub/seo-engine/internal/robots"
	"github.com/dealerhub/seo-engine/internal/sitemap"
)

// serveSitemapFile serves a generated sitemap XML file from the store.
func (r *Router) serveSitemapFile(c *gin.Context) {
	tenantID, ok := parseUUIDParam(c, "tenant", "tenant")
	if !ok {
		return
	}

	file := c.Param("file")
	if !strings.HasPrefix(file, "sitemap-") || !strings.HasSuffix(file, ".xml") || strings.Contains(file, "/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sitemap file name"})
		return
	}

	data, err := r.store.Read(sitemap.FilePath(tenantID, file))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Sitemap not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read sitemap"})
		return
	}

	c.Data(http.StatusOK, "application/xml; charset=utf-8", data)
}

// serveRobotsFile serves a generated robots.txt from the store.
func (r *Router) serveRobotsFile(c *gin.Context) {
	tenantID, ok := parseUUIDParam(c, "tenant", "tenant")
	if !ok {
		return
	}
	locale := c.Param("locale")

	data, err := r.store.Read(robots.FilePath(tenantID, locale))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "robots.txt not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read robots.txt"})
		return
	}

	c.Data(http.StatusOK, "text/plain; charset=utf-8", data)
}
