package models

// ItemResult is the terminal output record for one scraped item page.
//
// Every field except SourceURL is nullable: per-field extraction failures
// degrade to null instead of failing the request, so a partial record is a
// valid, non-error outcome.
//
// Invariant: Currency is non-nil if and only if PriceJPY is non-nil, and
// PriceText is always regenerated from PriceJPY with ja-JP digit grouping —
// never the raw scraped substring.
type ItemResult struct {
	SourceURL  string  `json:"source_url"`
	ItemID     *string `json:"item_id"`
	Title      *string `json:"title"`
	PriceText  *string `json:"price_text_jpy"`
	PriceJPY   *int    `json:"price_jpy"`
	Currency   *string `json:"currency"`
	FirstImage *string `json:"first_image"`
	Seller     *string `json:"seller"`
}

// ScrapeFailure is the error-tagged batch slot for a URL whose scrape
// failed as a whole (invalid URL shape, navigation failure, timeout).
type ScrapeFailure struct {
	SourceURL string `json:"source_url"`
	Error     string `json:"error"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status    string    `json:"status"` // "healthy" or "degraded"
	Uptime    string    `json:"uptime"`
	PoolStats PoolStats `json:"pool_stats"`
	Version   string    `json:"version"`
}

// PoolStats reports the state of the browser session pool.
type PoolStats struct {
	MaxSessions    int `json:"max_sessions"`
	ActiveSessions int `json:"active_sessions"`
}
