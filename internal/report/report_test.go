package report

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/maltedev/homepage-snapshot/internal/models"
)

func TestRender(t *testing.T) {
	snap := models.NewSnapshot("zara", "https://www.zara.com/", "en-US")
	snap.Success = true
	snap.Title = "ZARA Official Website"
	snap.HTMLFile = "data/scrapes/html/zara_homepage_20250115_093042.html"
	snap.ScreenshotFile = "data/scrapes/screenshots/zara_homepage_20250115_093042.png"
	snap.Items = []models.Item{
		{Kind: "banner", Text: "SHOP NEW IN", Href: "/us/en/shop-new-in", Index: 0},
	}
	snap.AddError("cookie selector click failed")

	var buf bytes.Buffer
	Render(&buf, snap)
	out := buf.String()

	assert.Contains(t, out, "success")
	assert.Contains(t, out, snap.RunID)
	assert.Contains(t, out, "zara_homepage_20250115_093042.html")
	assert.Contains(t, out, "SHOP NEW IN")
	assert.Contains(t, out, "cookie selector click failed")
}

func TestRenderFailedRun(t *testing.T) {
	snap := models.NewSnapshot("zara", "https://www.zara.com/", "en-US")
	snap.AddError("navigation failed: timeout")

	var buf bytes.Buffer
	Render(&buf, snap)
	out := buf.String()

	assert.Contains(t, out, "failed")
	assert.Contains(t, out, "not saved")
	assert.Contains(t, out, "navigation failed: timeout")
}

func TestRenderItemsTruncation(t *testing.T) {
	items := make([]models.Item, 8)
	for i := range items {
		items[i] = models.Item{Kind: "h2", Text: "Heading", Index: i}
	}

	var buf bytes.Buffer
	RenderItems(&buf, items)

	assert.Contains(t, buf.String(), "and 3 more")
}

func TestRenderAllItems(t *testing.T) {
	items := make([]models.Item, 8)
	for i := range items {
		items[i] = models.Item{Kind: "h2", Text: "Heading", Index: i}
	}

	var buf bytes.Buffer
	RenderAllItems(&buf, items)

	assert.NotContains(t, buf.String(), "more")
	assert.Equal(t, 8, strings.Count(buf.String(), "Heading"))
}

func TestRenderItemsEmpty(t *testing.T) {
	var buf bytes.Buffer
	RenderItems(&buf, nil)
	assert.Empty(t, buf.String())
}

func TestRenderStats(t *testing.T) {
	var buf bytes.Buffer
	RenderStats(&buf, map[string]int{"total": 3, "succeeded": 2, "failed": 1})
	out := buf.String()

	assert.Contains(t, out, "succeeded")
	assert.Contains(t, out, "failed")
	assert.Contains(t, out, "total")
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("x", 80)
	got := truncate(long)

	assert.Len(t, got, maxCellWidth)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, "short", truncate("short"))
}

func TestTruncateMultiByteText(t *testing.T) {
	long := strings.Repeat("ü", 80)
	got := truncate(long)

	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, maxCellWidth, utf8.RuneCountInString(got))
	assert.True(t, strings.HasSuffix(got, "..."))

	short := strings.Repeat("日", 20)
	assert.Equal(t, short, truncate(short))
}
