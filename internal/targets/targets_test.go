package targets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	tests := []struct {
		name       string
		lookup     string
		wantURL    string
		wantPrefix string
		wantMode   ExtractMode
	}{
		{"demo", "demo", "https://httpbin.org/html", "demo_page", ExtractHeadings},
		{"test", "test", "https://example.com", "test_page", ExtractHeadings},
		{"zara", "zara", "https://www.zara.com/", "zara_homepage", ExtractBanners},
		{"case-insensitive", "ZARA", "https://www.zara.com/", "zara_homepage", ExtractBanners},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, err := Get(tt.lookup)
			require.NoError(t, err)
			assert.Equal(t, tt.wantURL, target.URL)
			assert.Equal(t, tt.wantPrefix, target.FilePrefix)
			assert.Equal(t, tt.wantMode, target.Mode)
		})
	}
}

func TestGetUnknown(t *testing.T) {
	_, err := Get("nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown target")
}

func TestZaraProfile(t *testing.T) {
	target, err := Get("zara")
	require.NoError(t, err)

	assert.Equal(t, "SHOP", target.BannerFilter)
	assert.Equal(t, 20, target.BannerLimit)
	assert.Equal(t, "zara", target.TitleContains)
	assert.NotEmpty(t, target.CookieSelectors)
	assert.NotEmpty(t, target.BannerSelectors)
}

func TestDefaultCookieSelectors(t *testing.T) {
	assert.Len(t, DefaultCookieSelectors, 18)

	// Class-substring fallbacks sit between the id selectors and the gdpr
	// selectors in the scan order.
	assert.Equal(t, "#accept-cookies", DefaultCookieSelectors[13])
	assert.Equal(t, "button[class*='accept']", DefaultCookieSelectors[14])
	assert.Equal(t, "button[class*='cookie']", DefaultCookieSelectors[15])
	assert.Equal(t, ".gdpr-accept", DefaultCookieSelectors[16])
}

func TestFromURL(t *testing.T) {
	target := FromURL("https://news.ycombinator.com/")

	assert.Equal(t, "custom", target.Name)
	assert.Equal(t, "https://news.ycombinator.com/", target.URL)
	assert.Equal(t, ExtractHeadings, target.Mode)
	assert.Equal(t, DefaultCookieSelectors, target.CookieSelectors)
}

func TestNamesSorted(t *testing.T) {
	assert.Equal(t, []string{"demo", "test", "zara"}, Names())
}
