package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/maltedev/homepage-snapshot/internal/models"
)

// maxItemRows caps how many extracted items the summary prints in full.
const maxItemRows = 5

// maxCellWidth truncates long texts and URLs in table cells.
const maxCellWidth = 50

// Render writes a human-readable summary of one run: a results table,
// the first extracted items and any errors encountered.
func Render(w io.Writer, snap *models.Snapshot) {
	t := newTable(w)
	t.SetTitle(fmt.Sprintf("Snapshot: %s", snap.Target))
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRows([]table.Row{
		{"Status", statusText(snap.Success)},
		{"Run ID", snap.RunID},
		{"Timestamp", snap.Timestamp},
		{"URL", snap.URL},
		{"Title", orNA(snap.Title)},
		{"HTML File", orNotSaved(snap.HTMLFile)},
		{"Screenshot", orNotSaved(snap.ScreenshotFile)},
		{"Items Found", snap.ItemCount()},
		{"Errors", snap.ErrorCount()},
	})
	t.Render()

	RenderItems(w, snap.Items)

	if snap.ErrorCount() > 0 {
		fmt.Fprintln(w, "Errors encountered:")
		for _, msg := range snap.Errors {
			fmt.Fprintf(w, "  - %s\n", msg)
		}
	}
}

// RenderItems prints extracted items, truncated to the first few rows.
func RenderItems(w io.Writer, items []models.Item) {
	renderItems(w, items, maxItemRows)
}

// RenderAllItems prints every extracted item without truncation.
func RenderAllItems(w io.Writer, items []models.Item) {
	renderItems(w, items, 0)
}

func renderItems(w io.Writer, items []models.Item, max int) {
	if len(items) == 0 {
		return
	}

	t := newTable(w)
	t.SetTitle("Extracted Items")
	t.AppendHeader(table.Row{"#", "Kind", "Text", "Link"})

	shown := items
	if max > 0 && len(shown) > max {
		shown = shown[:max]
	}
	for _, item := range shown {
		t.AppendRow(table.Row{item.Index, item.Kind, truncate(item.Text), truncate(item.Href)})
	}
	if rest := len(items) - len(shown); rest > 0 {
		t.AppendFooter(table.Row{"", "", fmt.Sprintf("... and %d more", rest), ""})
	}
	t.Render()
}

// RenderStats prints manifest counters (total / succeeded / failed).
func RenderStats(w io.Writer, stats map[string]int) {
	t := newTable(w)
	t.SetTitle("Run Statistics")
	t.AppendHeader(table.Row{"Outcome", "Count"})
	for _, key := range []string{"succeeded", "failed", "total"} {
		t.AppendRow(table.Row{key, stats[key]})
	}
	t.Render()
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

func statusText(success bool) string {
	if success {
		return "success"
	}
	return "failed"
}

func orNA(s string) string {
	if s == "" {
		return "n/a"
	}
	return s
}

func orNotSaved(s string) string {
	if s == "" {
		return "not saved"
	}
	return s
}

func truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= maxCellWidth {
		return s
	}
	return string(runes[:maxCellWidth-3]) + "..."
}
