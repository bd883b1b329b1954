package handler

import (
	"context"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/Miho1254/peopo-mercari-scrapper/extract"
	"github.com/Miho1254/peopo-mercari-scrapper/models"
)

// ItemScraper is the scraping capability the handlers depend on.
type ItemScraper interface {
	DoScrape(ctx context.Context, url string) (*models.ItemResult, error)
	Stats() models.PoolStats
}

// Scrape returns a handler for GET /api/v1/scrape?url=...
//
// The URL shape is checked here, at the boundary, so invalid input is
// rejected before any browser session is created.
func Scrape(sc ItemScraper) gin.HandlerFunc {
	return func(c *gin.Context) {
		url := c.Query("url")
		if !extract.IsItemURL(url) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: "url must be a Mercari item URL (https://jp.mercari.com/item/m...)",
				},
			})
			return
		}

		result, err := sc.DoScrape(c.Request.Context(), url)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// BatchScrape returns a handler for POST /api/v1/scrape.
//
// URLs are scraped with bounded concurrency and the response list preserves
// input order. Each slot is independent: a malformed URL or a failed scrape
// becomes an error-tagged slot, never a failure of the whole call.
func BatchScrape(sc ItemScraper) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.BatchScrapeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: "body must be { \"urls\": [Mercari item URLs...] }",
				},
			})
			return
		}

		maxConcurrent := sc.Stats().MaxSessions
		if maxConcurrent <= 0 {
			maxConcurrent = 1
		}
		sem := make(chan struct{}, maxConcurrent)

		results := make([]any, len(req.URLs))
		var wg sync.WaitGroup
		for i, rawURL := range req.URLs {
			// Malformed URLs never reach the scraper, so no session is
			// created for them.
			if !extract.IsItemURL(rawURL) {
				results[i] = models.ScrapeFailure{
					SourceURL: rawURL,
					Error:     "invalid Mercari item URL",
				}
				continue
			}

			wg.Add(1)
			go func(idx int, targetURL string) {
				defer wg.Done()
				sem <- struct{}{}
				defer func() { <-sem }()

				result, err := sc.DoScrape(c.Request.Context(), targetURL)
				if err != nil {
					results[idx] = models.ScrapeFailure{
						SourceURL: targetURL,
						Error:     err.Error(),
					}
					return
				}
				results[idx] = result
			}(i, rawURL)
		}
		wg.Wait()

		c.JSON(http.StatusOK, results)
	}
}

// respondError maps a ScrapeError to the correct HTTP status code and
// writes a structured JSON error response.
func respondError(c *gin.Context, err error) {
	scrapeErr, ok := err.(*models.ScrapeError)
	if !ok {
		scrapeErr = models.NewScrapeError(models.ErrCodeInternal, err.Error(), err)
	}
	c.JSON(mapErrorToStatus(scrapeErr), gin.H{"error": scrapeErr.ToDetail()})
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.ScrapeError) int {
	switch e.Code {
	case models.ErrCodeTimeout:
		return http.StatusGatewayTimeout // 504
	case models.ErrCodeNavigation:
		return http.StatusBadGateway // 502
	case models.ErrCodeInvalidInput:
		return http.StatusBadRequest // 400
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests // 429
	default:
		return http.StatusInternalServerError // 500
	}
}
