package parser

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/maltedev/homepage-snapshot/internal/models"
)

const headingSelector = "h1, h2, h3, h4, h5, h6"

// PageParser extracts structured items out of raw homepage HTML. All
// methods are pure functions over the input string, so they work equally
// on live page content and on previously saved snapshot files.
type PageParser struct{}

func NewPageParser() *PageParser {
	return &PageParser{}
}

// Title returns the trimmed document title.
func (p *PageParser) Title(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}
	return strings.TrimSpace(doc.Find("title").First().Text()), nil
}

// ExtractHeadings returns h1..h6 elements in document order. Headings with
// no visible text are skipped; the index counts emitted items.
func (p *PageParser) ExtractHeadings(html string) ([]models.Item, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	items := make([]models.Item, 0)
	doc.Find(headingSelector).Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if text == "" {
			return
		}
		items = append(items, models.Item{
			Kind:  goquery.NodeName(sel),
			Text:  text,
			Index: len(items),
		})
	})

	return items, nil
}

// ExtractBanners collects anchors matched by any of the selectors, in
// selector order, deduplicated by href. Anchors are kept only when they
// carry a non-empty href and their text contains the filter
// (case-insensitive; an empty filter matches everything). At most limit
// items are returned; limit <= 0 means no cap.
func (p *PageParser) ExtractBanners(html string, selectors []string, filter string, limit int) ([]models.Item, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	if len(selectors) == 0 {
		selectors = []string{"a"}
	}

	lowerFilter := strings.ToLower(filter)
	seen := make(map[string]bool)
	items := make([]models.Item, 0)

	for _, selector := range selectors {
		if limit > 0 && len(items) >= limit {
			break
		}

		doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			if limit > 0 && len(items) >= limit {
				return false
			}

			href, ok := sel.Attr("href")
			href = strings.TrimSpace(href)
			if !ok || href == "" || seen[href] {
				return true
			}

			text := strings.TrimSpace(sel.Text())
			if text == "" {
				return true
			}
			if lowerFilter != "" && !strings.Contains(strings.ToLower(text), lowerFilter) {
				return true
			}

			seen[href] = true
			items = append(items, models.Item{
				Kind:  "banner",
				Text:  text,
				Href:  href,
				Index: len(items),
			})
			return true
		})
	}

	return items, nil
}
