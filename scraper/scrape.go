package scraper

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/Miho1254/peopo-mercari-scrapper/dom"
	"github.com/Miho1254/peopo-mercari-scrapper/extract"
	"github.com/Miho1254/peopo-mercari-scrapper/models"
)

// DoScrape loads one item page and extracts its fields.
//
// Lifecycle (numbered steps match the inline comments):
//
//  1. URL gate        – reject non-item URLs before any resource is allocated
//  2. Deadline        – hard timeout on the entire operation
//  3. Session slot    – bound concurrent sessions
//  4. Session         – fresh incognito context, cookies/storage isolated
//  5. DEFER: teardown – close page + dispose context even on timeout/error
//  6. Stealth         – mask navigator.webdriver etc. (before navigation!)
//  7. Identity        – fixed UA / ja-JP / Asia/Tokyo / viewport
//  8. Hijack mount    – abort tracker requests (before navigation!)
//  9. Navigate        – the only step whose failure fails the request
//  10. Readiness      – skeleton-gone + DOM-stable, both best-effort
//  11. Capture        – rendered HTML + styled snapshot
//  12. Extract        – price cascade, title, seller, image; all independent
//
// Per-field extraction failures degrade to nil fields; a partial result is
// a valid, non-error outcome.
func (s *Scraper) DoScrape(ctx context.Context, rawURL string) (*models.ItemResult, error) {
	// ── 1. URL gate ───────────────────────────────────────────────────
	if !extract.IsItemURL(rawURL) {
		return nil, models.NewScrapeError(
			models.ErrCodeInvalidInput,
			"not a Mercari item URL",
			nil,
		)
	}
	itemID := extract.ItemID(rawURL)

	// ── 2. Deadline ───────────────────────────────────────────────────
	ctx, cancel := context.WithTimeout(ctx, s.scraperCfg.RequestTimeout)
	defer cancel()

	// ── 3. Session slot ───────────────────────────────────────────────
	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, categorizeError(ctx.Err(), "waiting for a free session")
	}
	defer func() { <-s.sem }()
	s.active.Add(1)
	defer s.active.Add(-1)

	// ── 4. Isolated session ───────────────────────────────────────────
	incog, err := s.browser.Incognito()
	if err != nil {
		return nil, models.NewScrapeError(
			models.ErrCodeBrowserCrash,
			"failed to create browsing context",
			err,
		)
	}
	page, err := incog.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, models.NewScrapeError(
			models.ErrCodeBrowserCrash,
			"failed to open page",
			err,
		)
	}

	// ── 5. CRITICAL DEFER: teardown uses the ORIGINAL page reference
	// (without request context), so cleanup succeeds even after the
	// request context has expired.
	defer func() {
		if closeErr := page.Close(); closeErr != nil {
			slog.Warn("session cleanup: failed to close page", "error", closeErr)
		}
		_ = proto.TargetDisposeBrowserContext{
			BrowserContextID: incog.BrowserContextID,
		}.Call(s.browser)
	}()

	// ── 6. Stealth injection ──────────────────────────────────────────
	if s.browserCfg.Stealth {
		if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
			slog.Warn("stealth injection failed, proceeding without stealth",
				"error", evalErr,
			)
		}
	}

	// ── 7. Fixed identity ─────────────────────────────────────────────
	if identErr := applyIdentity(page); identErr != nil {
		slog.Warn("failed to apply session identity", "error", identErr)
	}

	// ── 8. Mount hijack router (trackers only) ────────────────────────
	router := setupHijack(page)
	defer func() { _ = router.Stop() }()

	// ── 9. Navigate ───────────────────────────────────────────────────
	p := page.Context(ctx)
	if navErr := p.Navigate(rawURL); navErr != nil {
		return nil, categorizeError(navErr, "navigation to item page failed")
	}

	// ── 10. Readiness ─────────────────────────────────────────────────
	s.waitReady(p)

	// ── 11. Capture ───────────────────────────────────────────────────
	rawHTML, htmlErr := p.HTML()
	if htmlErr != nil {
		slog.Warn("failed to read rendered HTML, text fields will be null",
			"url", rawURL, "error", htmlErr,
		)
	}

	snap, snapErr := CaptureSnapshot(p)
	if snapErr != nil {
		slog.Warn("styled snapshot capture failed, falling back to static parse",
			"url", rawURL, "error", snapErr,
		)
		if rawHTML != "" {
			// Inline styles only: class-based hiding is invisible here.
			snap, _ = dom.ParseHTML(strings.NewReader(rawHTML))
		}
	}

	// ── 12. Extract ───────────────────────────────────────────────────
	return s.extractFields(rawURL, itemID, rawHTML, snap), nil
}

// waitReady waits for the main content to appear, the layout skeleton to
// disappear, then for the DOM to settle. Every wait is best-effort: a
// readiness timeout is not fatal and extraction proceeds on whatever DOM
// state exists.
func (s *Scraper) waitReady(p *rod.Page) {
	t := s.scraperCfg.ReadyTimeout

	if _, err := p.Timeout(t).Element("main"); err != nil {
		slog.Debug("main content did not appear in time", "error", err)
	}
	if err := p.Timeout(t).Wait(rod.Eval(skeletonGoneJS)); err != nil {
		slog.Debug("skeleton still visible, proceeding", "error", err)
	}
	// NOTE: WaitRequestIdle uses the Fetch domain, which conflicts with
	// HijackRequests on Chromium 145+. WaitDOMStable approximates network
	// quiescence without touching Fetch.
	if err := p.WaitDOMStable(300*time.Millisecond, 0.1); err != nil {
		slog.Debug("DOM did not stabilise, proceeding", "error", err)
	}
}

// skeletonGoneJS is truthy once no .merSkeleton placeholder is attached to
// the layout (offsetParent is null for detached or display:none elements).
const skeletonGoneJS = `() => {
	const sk = document.querySelectorAll(".merSkeleton");
	return sk.length === 0 || [...sk].every(el => !el.offsetParent);
}`

// extractFields runs the four field extractions. Each is independent: no
// failure blocks another, and every failure degrades to a nil field.
func (s *Scraper) extractFields(rawURL string, itemID *string, rawHTML string, snap *dom.Document) *models.ItemResult {
	res := &models.ItemResult{SourceURL: rawURL, ItemID: itemID}

	if rawHTML != "" {
		if gq, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML)); err == nil {
			res.Title = extract.FirstMatchingText(gq, extract.TitleSelectors)
			res.Seller = extract.FirstMatchingText(gq, extract.SellerSelectors)
			res.FirstImage = extract.FirstImage(extract.ImageSources(gq), itemID)
		}
	}

	if snap != nil {
		if cand, strategy := s.cascade.Extract(snap); cand != nil {
			if amount := extract.ParseIntLike(cand.NumericText); amount != nil {
				currency := "JPY"
				priceText := extract.FormatPriceText(*amount)
				res.PriceJPY = amount
				res.Currency = &currency
				res.PriceText = &priceText
				slog.Debug("price extracted",
					"url", rawURL, "strategy", strategy, "raw", cand.RawText,
				)
			}
		}
	}

	return res
}

// categorizeError wraps raw errors into typed ScrapeErrors so the API layer
// can map them to appropriate HTTP status codes.
func categorizeError(err error, msg string) *models.ScrapeError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewScrapeError(models.ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewScrapeError(models.ErrCodeTimeout, "request canceled", err)
	default:
		return models.NewScrapeError(models.ErrCodeNavigation, msg, err)
	}
}
