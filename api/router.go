package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Miho1254/peopo-mercari-scrapper/api/handler"
	"github.com/Miho1254/peopo-mercari-scrapper/api/middleware"
	"github.com/Miho1254/peopo-mercari-scrapper/config"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	Scrape:  RateLimit (per client IP)
//
// Health endpoint is intentionally outside rate limiting so monitoring
// probes always work.
func NewRouter(sc handler.ItemScraper, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")

	v1.GET("/health", handler.Health(sc, startTime))

	limited := v1.Group("")
	limited.Use(middleware.RateLimit(cfg.RateLimit))

	// Single item by query parameter, batch by JSON body.
	limited.GET("/scrape", handler.Scrape(sc))
	limited.POST("/scrape", handler.BatchScrape(sc))

	return r
}
