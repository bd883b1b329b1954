package models

// BatchScrapeRequest is the payload for POST /api/v1/scrape.
// Every URL must be a Mercari item-detail URL; malformed entries are not
// rejected up front — they produce error-tagged slots in the response so
// the remaining URLs still get scraped.
type BatchScrapeRequest struct {
	// URLs is the list of item pages to scrape, in result order. Required.
	URLs []string `json:"urls" binding:"required,min=1,max=50"`
}
