package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Miho1254/peopo-mercari-scrapper/models"
)

// fakeScraper returns canned results keyed by URL without touching a
// browser.
type fakeScraper struct {
	results map[string]*models.ItemResult
	errs    map[string]error
}

func (f *fakeScraper) DoScrape(_ context.Context, url string) (*models.ItemResult, error) {
	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	if res, ok := f.results[url]; ok {
		return res, nil
	}
	return &models.ItemResult{SourceURL: url}, nil
}

func (f *fakeScraper) Stats() models.PoolStats {
	return models.PoolStats{MaxSessions: 4, ActiveSessions: 0}
}

func newTestRouter(sc ItemScraper) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/v1/scrape", Scrape(sc))
	r.POST("/api/v1/scrape", BatchScrape(sc))
	r.GET("/api/v1/health", Health(sc, time.Now()))
	return r
}

const validURL = "https://jp.mercari.com/item/m12345678901"

func TestScrapeSingle(t *testing.T) {
	price := 1199
	currency := "JPY"
	priceText := "¥ 1,199"
	title := "Nikon FE2"
	itemID := "m12345678901"

	sc := &fakeScraper{results: map[string]*models.ItemResult{
		validURL: {
			SourceURL: validURL,
			ItemID:    &itemID,
			Title:     &title,
			PriceJPY:  &price,
			Currency:  &currency,
			PriceText: &priceText,
		},
	}}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/scrape?url="+validURL, nil)
	newTestRouter(sc).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, validURL, got["source_url"])
	assert.Equal(t, "m12345678901", got["item_id"])
	assert.Equal(t, "Nikon FE2", got["title"])
	assert.Equal(t, float64(1199), got["price_jpy"])
	assert.Equal(t, "JPY", got["currency"])
	assert.Equal(t, "¥ 1,199", got["price_text_jpy"])
	// Missing fields must serialize as explicit nulls, not be omitted.
	assert.Contains(t, got, "first_image")
	assert.Nil(t, got["first_image"])
	assert.Contains(t, got, "seller")
	assert.Nil(t, got["seller"])
}

func TestScrapeRejectsNonItemURL(t *testing.T) {
	tests := []string{
		"",
		"https://jp.mercari.com/search?keyword=camera",
		"https://example.com/item/m123",
	}

	for _, url := range tests {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/scrape?url="+url, nil)
		newTestRouter(&fakeScraper{}).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "url=%q", url)
		assert.Contains(t, w.Body.String(), models.ErrCodeInvalidInput)
	}
}

func TestScrapeErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "timeout maps to 504",
			err:        models.NewScrapeError(models.ErrCodeTimeout, "deadline exceeded", nil),
			wantStatus: http.StatusGatewayTimeout,
		},
		{
			name:       "navigation maps to 502",
			err:        models.NewScrapeError(models.ErrCodeNavigation, "net::ERR_NAME_NOT_RESOLVED", nil),
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "browser crash maps to 500",
			err:        models.NewScrapeError(models.ErrCodeBrowserCrash, "target closed", nil),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := &fakeScraper{errs: map[string]error{validURL: tt.err}}

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/scrape?url="+validURL, nil)
			newTestRouter(sc).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestBatchScrapeOrderAndPartialFailure(t *testing.T) {
	okURL := "https://jp.mercari.com/item/m11111111111"
	badURL := "https://jp.mercari.com/search"
	failURL := "https://jp.mercari.com/item/m22222222222"

	title := "item one"
	sc := &fakeScraper{
		results: map[string]*models.ItemResult{
			okURL: {SourceURL: okURL, Title: &title},
		},
		errs: map[string]error{
			failURL: models.NewScrapeError(models.ErrCodeTimeout, "deadline exceeded", nil),
		},
	}

	body := `{"urls": ["` + okURL + `", "` + badURL + `", "` + failURL + `"]}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/scrape", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	newTestRouter(sc).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var got []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 3, "one slot per input URL, in input order")

	assert.Equal(t, okURL, got[0]["source_url"])
	assert.Equal(t, "item one", got[0]["title"])
	assert.NotContains(t, got[0], "error")

	assert.Equal(t, badURL, got[1]["source_url"])
	assert.Contains(t, got[1]["error"], "invalid")

	assert.Equal(t, failURL, got[2]["source_url"])
	assert.Contains(t, got[2]["error"], "deadline exceeded")
}

func TestBatchScrapeRejectsEmptyBody(t *testing.T) {
	tests := []string{
		``,
		`{}`,
		`{"urls": []}`,
		`{"urls": "not-an-array"}`,
	}

	for _, body := range tests {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/scrape", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		newTestRouter(&fakeScraper{}).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "body=%q", body)
	}
}

func TestHealth(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	newTestRouter(&fakeScraper{}).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var got models.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "healthy", got.Status)
	assert.Equal(t, 4, got.PoolStats.MaxSessions)
	assert.NotEmpty(t, got.Version)
}
