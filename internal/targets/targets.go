package targets

import (
	"fmt"
	"sort"
	"strings"
)

// ExtractMode selects what the pipeline pulls out of the page after the
// snapshot files are written.
type ExtractMode string

const (
	ExtractHeadings ExtractMode = "headings"
	ExtractBanners  ExtractMode = "banners"
)

// Target describes one site the snapshotter knows how to handle. The
// pipeline is identical for every target; only the URL, selectors and
// output naming differ.
type Target struct {
	Name            string
	URL             string
	FilePrefix      string
	Mode            ExtractMode
	CookieSelectors []string
	BannerSelectors []string
	BannerFilter    string
	BannerLimit     int
	// TitleContains, when set, is matched case-insensitively against the
	// page title after navigation. A mismatch is reported but does not
	// fail the run.
	TitleContains string
}

// DefaultCookieSelectors is the consent button scan list, tried in order.
var DefaultCookieSelectors = []string{
	"button[data-testid='cookie-accept']",
	"button:has-text('Accept')",
	"button:has-text('Accept All')",
	"button:has-text('I Accept')",
	"button:has-text('OK')",
	"button:has-text('Continue')",
	"button:has-text('Got it')",
	"[data-testid='cookie-banner'] button",
	".cookie-accept",
	"#cookie-accept",
	"button[aria-label*='Accept']",
	"button[aria-label*='Cookie']",
	".accept-cookies",
	"#accept-cookies",
	"button[class*='accept']",
	"button[class*='cookie']",
	".gdpr-accept",
	"#gdpr-accept",
}

// defaultBannerSelectors target promotional anchors on retail homepages.
var defaultBannerSelectors = []string{
	"a[href*='/shop']",
	"a[href*='/collection']",
	".hero-banner a",
	".banner a",
	".promotion a",
	"[data-testid*='banner'] a",
	"[class*='banner'] a",
	"[class*='hero'] a",
	"a",
}

var registry = map[string]Target{
	"demo": {
		Name:       "demo",
		URL:        "https://httpbin.org/html",
		FilePrefix: "demo_page",
		Mode:       ExtractHeadings,
	},
	"test": {
		Name:       "test",
		URL:        "https://example.com",
		FilePrefix: "test_page",
		Mode:       ExtractHeadings,
	},
	"zara": {
		Name:            "zara",
		URL:             "https://www.zara.com/",
		FilePrefix:      "zara_homepage",
		Mode:            ExtractBanners,
		CookieSelectors: DefaultCookieSelectors,
		BannerSelectors: defaultBannerSelectors,
		BannerFilter:    "SHOP",
		BannerLimit:     20,
		TitleContains:   "zara",
	},
}

// Get looks up a built-in target by name.
func Get(name string) (Target, error) {
	t, ok := registry[strings.ToLower(name)]
	if !ok {
		return Target{}, fmt.Errorf("unknown target %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return t, nil
}

// FromURL builds an ad-hoc target for a bare URL. It extracts headings and
// still runs the cookie scan, since arbitrary sites may show consent
// banners too.
func FromURL(url string) Target {
	return Target{
		Name:            "custom",
		URL:             url,
		FilePrefix:      "custom_page",
		Mode:            ExtractHeadings,
		CookieSelectors: DefaultCookieSelectors,
	}
}

// Names returns the registered target names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
