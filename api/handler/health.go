package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Miho1254/peopo-mercari-scrapper/models"
)

// Health returns a handler for GET /api/v1/health.
//
// Reports session-pool utilisation and degrades status when > 80% of
// sessions are active.
func Health(sc ItemScraper, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats := sc.Stats()

		status := "healthy"
		if stats.MaxSessions > 0 && stats.ActiveSessions > int(float64(stats.MaxSessions)*0.8) {
			status = "degraded"
		}

		c.JSON(http.StatusOK, models.HealthResponse{
			Status:    status,
			Uptime:    time.Since(startTime).Round(time.Second).String(),
			PoolStats: stats,
			Version:   "0.1.0",
		})
	}
}
