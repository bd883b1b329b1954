package scraper

import (
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"

	"github.com/Miho1254/peopo-mercari-scrapper/config"
	"github.com/Miho1254/peopo-mercari-scrapper/extract"
	"github.com/Miho1254/peopo-mercari-scrapper/models"
)

// Scraper owns the shared browser process and hands out isolated browsing
// sessions to scrape requests. It is safe for concurrent use: the browser
// handle is created once here and only closed at shutdown, and each request
// gets its own incognito context.
type Scraper struct {
	browser    *rod.Browser
	sem        chan struct{}
	active     atomic.Int32
	browserCfg config.BrowserConfig
	scraperCfg config.ScraperConfig
	cascade    extract.Cascade
	startTime  time.Time
}

// New launches a headless browser and prepares the session semaphore.
func New(browserCfg config.BrowserConfig, scraperCfg config.ScraperConfig, extractCfg config.ExtractConfig) (*Scraper, error) {
	l := launcher.New().
		Headless(browserCfg.Headless).
		NoSandbox(browserCfg.NoSandbox)

	if browserCfg.BrowserBin != "" {
		l = l.Bin(browserCfg.BrowserBin)
	}
	if browserCfg.Proxy != "" {
		l = l.Proxy(browserCfg.Proxy)
	}

	// ── Stealth flags ────────────────────────────────────────────────
	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-features"), "AudioServiceOutOfProcess,TranslateUI")
	l.Set(flags.Flag("disable-popup-blocking"))
	l.Set(flags.Flag("disable-renderer-backgrounding"))
	l.Set(flags.Flag("disable-background-timer-throttling"))
	l.Set(flags.Flag("disable-backgrounding-occluded-windows"))
	l.Set(flags.Flag("disable-component-update"))
	l.Set(flags.Flag("disable-default-apps"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-extensions"))
	l.Set(flags.Flag("no-first-run"))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewScrapeError(
			models.ErrCodeBrowserCrash,
			"failed to launch browser",
			err,
		)
	}
	slog.Info("browser launched", "controlURL", controlURL)

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, models.NewScrapeError(
			models.ErrCodeBrowserCrash,
			"failed to connect to browser",
			err,
		)
	}

	maxSessions := browserCfg.MaxSessions
	if maxSessions <= 0 {
		maxSessions = 1
	}
	slog.Info("session pool ready", "maxSessions", maxSessions)

	return &Scraper{
		browser:    browser,
		sem:        make(chan struct{}, maxSessions),
		browserCfg: browserCfg,
		scraperCfg: scraperCfg,
		cascade: extract.NewCascade(extract.CascadeConfig{
			SectionTestID: extractCfg.PriceSectionTestID,
			PriceClasses:  strings.Fields(extractCfg.PriceClassSignature),
		}),
		startTime: time.Now(),
	}, nil
}

// Stats returns a snapshot of the session pool's current state.
func (s *Scraper) Stats() models.PoolStats {
	return models.PoolStats{
		MaxSessions:    cap(s.sem),
		ActiveSessions: int(s.active.Load()),
	}
}

// Close kills the browser process. Call this on graceful shutdown to
// prevent zombie Chrome processes.
func (s *Scraper) Close() {
	slog.Info("scraper shutting down: closing browser")
	s.browser.MustClose()
	slog.Info("scraper shutdown complete")
}
