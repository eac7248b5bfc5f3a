package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/maltedev/homepage-snapshot/internal/models"
	"github.com/maltedev/homepage-snapshot/internal/parser"
	"github.com/maltedev/homepage-snapshot/internal/report"
	"github.com/maltedev/homepage-snapshot/internal/targets"
)

// extract re-runs item extraction on a previously saved HTML snapshot, so
// selectors can be tuned without hitting the live site again.
func main() {
	var (
		file   = flag.String("file", "", "Path to a saved HTML snapshot")
		mode   = flag.String("mode", "headings", "Extraction mode: headings or banners")
		filter = flag.String("filter", "", "Banner text filter (banners mode only)")
		limit  = flag.Int("limit", 20, "Maximum banners to extract (banners mode only, 0 = unlimited)")
	)
	flag.Parse()

	if *file == "" {
		flag.Usage()
		os.Exit(1)
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("Failed to read file: %v", err)
	}
	html := string(data)

	p := parser.NewPageParser()

	var items []models.Item
	switch targets.ExtractMode(*mode) {
	case targets.ExtractHeadings:
		items, err = p.ExtractHeadings(html)
	case targets.ExtractBanners:
		items, err = p.ExtractBanners(html, nil, *filter, *limit)
	default:
		log.Fatalf("Unknown mode %q: want headings or banners", *mode)
	}
	if err != nil {
		log.Fatalf("Extraction failed: %v", err)
	}

	title, err := p.Title(html)
	if err == nil && title != "" {
		fmt.Printf("Title: %s\n", title)
	}

	if len(items) == 0 {
		fmt.Println("No items found.")
		return
	}

	report.RenderAllItems(os.Stdout, items)
	fmt.Printf("%d item(s) extracted from %s\n", len(items), *file)
}
