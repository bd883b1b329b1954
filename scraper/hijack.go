package scraper

import (
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// trackerDomains is the set of analytics and ad-tracking domains blocked at
// the routing layer. Only trackers are blocked — scripts, styles and images
// must pass through, because the extraction strategies depend on a fully
// styled, fully scripted render to compute visibility.
var trackerDomains = map[string]struct{}{
	"googletagmanager.com":  {},
	"google-analytics.com":  {},
	"googletagservices.com": {},
	"doubleclick.net":       {},
	"hotjar.com":            {},
	"optimizely.com":        {},
	"mixpanel.com":          {},
	"segment.io":            {},
	"segment.com":           {},
	"scorecardresearch.com": {},
	"chartbeat.com":         {},
}

// isTrackerHost checks the hostname and its parent domains against the
// blocklist, plus a generic "analytics" host-name match for the long tail
// of first-party collector subdomains.
func isTrackerHost(host string) bool {
	host = strings.ToLower(host)
	if strings.Contains(host, "analytics") {
		return true
	}
	if _, ok := trackerDomains[host]; ok {
		return true
	}
	for {
		idx := strings.IndexByte(host, '.')
		if idx < 0 {
			return false
		}
		host = host[idx+1:]
		if _, ok := trackerDomains[host]; ok {
			return true
		}
	}
}

// setupHijack installs a request interceptor that aborts tracker requests
// and continues everything else unmodified.
//
// Returns the running HijackRouter so the caller can defer router.Stop().
func setupHijack(page *rod.Page) *rod.HijackRouter {
	router := page.HijackRequests()

	_ = router.Add("*", "", func(ctx *rod.Hijack) {
		if isTrackerHost(ctx.Request.URL().Hostname()) {
			ctx.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
			return
		}
		ctx.ContinueRequest(&proto.FetchContinueRequest{})
	})

	// router.Run() blocks, so it must live in its own goroutine.
	// It will exit when router.Stop() is called.
	go router.Run()

	return router
}
