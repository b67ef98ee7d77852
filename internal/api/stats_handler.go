package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// getStatsOverview returns engine-wide aggregate counts.
func (r *Router) getStatsOverview(c *gin.Context) {
	stats, err := r.stats.Overview(c.Request.Context())
	if err != nil {
		handleRepositoryError(c, err, "stats", "fetch")
		return
	}

	c.JSON(http.StatusOK, stats)
}
