package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dealerhub/seo-engine/internal/models"
	"github.com/dealerhub/seo-engine/internal/spintax"
	"github.com/dealerhub/seo-engine/internal/structured"
)

// resolve answers what an inbound path should serve: canonical content, a
// redirect, or 404. Canonical responses carry the rendered SEO payload.
func (r *Router) resolve(c *gin.Context) {
	tenantID, ok := r.tenantFromRequest(c)
	if !ok {
		r.recordResolution("error")
		return
	}

	path := c.Query("path")
	if path == "" {
		r.recordResolution("error")
		c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return
	}

	locale := c.Query("locale")
	if locale == "" {
		locale = r.cfg.Generator.DefaultLocale
	}

	resolution, err := r.registry.Resolve(c.Request.Context(), tenantID, locale, path)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			r.recordResolution("not_found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Path not found"})
			return
		}
		r.recordResolution("error")
		handleRepositoryError(c, err, "path", "resolve")
		return
	}

	if resolution.Redirect != nil {
		r.recordResolution("redirect")
		c.JSON(http.StatusOK, gin.H{
			"status":   "redirect",
			"redirect": resolution.Redirect,
		})
		return
	}

	r.recordResolution("canonical")
	c.JSON(http.StatusOK, gin.H{
		"status": "canonical",
		"entry":  resolution.Entry,
		"seo":    renderSEO(resolution.Entry),
	})
}

// renderSEO builds the display payload for a canonical entry: spintax-rendered
// title and meta description plus the JSON-LD documents.
func renderSEO(entry *models.URLEntry) gin.H {
	return gin.H{
		"title":            spintax.Process(entry.Title, entry.ContentTemplates, entry.ContentData),
		"meta_description": spintax.Process(entry.MetaDescription, entry.ContentTemplates, entry.ContentData),
		"canonical_url":    entry.CanonicalURL,
		"og_image":         entry.OGImage,
		"is_indexable":     entry.IsIndexable,
		"structured_data":  structured.GenerateStructuredData(entry),
		"breadcrumbs":      structured.GenerateBreadcrumbs(entry),
	}
}

func (r *Router) recordResolution(outcome string) {
	if r.metrics != nil {
		r.metrics.RecordResolution(outcome)
	}
}
