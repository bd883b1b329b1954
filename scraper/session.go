package scraper

import (
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
)

// Every session presents one fixed identity. Mercari serves JPY prices to a
// Japanese browser profile; varying any of these would change which page
// variant the extraction cascade sees, so none of them are configurable.
const (
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36"
	acceptLanguage  = "ja-JP,ja;q=0.9,en;q=0.6"
	sessionLocale   = "ja-JP"
	sessionTimezone = "Asia/Tokyo"
	viewportWidth   = 1200
	viewportHeight  = 800
)

// applyIdentity pins the page to the fixed session identity. Must run
// before navigation.
func applyIdentity(page *rod.Page) error {
	if err := (proto.NetworkSetUserAgentOverride{
		UserAgent:      userAgent,
		AcceptLanguage: acceptLanguage,
	}).Call(page); err != nil {
		return err
	}
	if err := (proto.EmulationSetLocaleOverride{Locale: sessionLocale}).Call(page); err != nil {
		return err
	}
	if err := (proto.EmulationSetTimezoneOverride{TimezoneID: sessionTimezone}).Call(page); err != nil {
		return err
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             viewportWidth,
		Height:            viewportHeight,
		DeviceScaleFactor: 1,
	}); err != nil {
		return err
	}
	if err := (proto.EmulationSetEmulatedMedia{
		Features: []*proto.EmulationMediaFeature{
			{Name: "prefers-reduced-motion", Value: "reduce"},
		},
	}).Call(page); err != nil {
		return err
	}
	return (proto.NetworkSetExtraHTTPHeaders{
		Headers: toHeadersMap(map[string]string{"Accept-Language": acceptLanguage}),
	}).Call(page)
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders type
// (map[string]gson.JSON) required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}
