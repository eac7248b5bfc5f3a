package models

import (
	"time"

	"github.com/google/uuid"
)

// TimestampLayout is used for snapshot file names, e.g. zara_homepage_20250115_093042.html
const TimestampLayout = "20060102_150405"

// Item is a single element extracted from the page: a heading or a
// promotional banner link.
type Item struct {
	Kind  string `json:"kind"`
	Text  string `json:"text"`
	Href  string `json:"href,omitempty"`
	Index int    `json:"index"`
}

// Snapshot is the record of one scrape run. It is populated step by step
// while the pipeline executes and written to the run manifest at the end.
type Snapshot struct {
	RunID          string    `json:"run_id"`
	Target         string    `json:"target"`
	URL            string    `json:"url"`
	Locale         string    `json:"locale"`
	Timestamp      string    `json:"timestamp"`
	StartedAt      time.Time `json:"started_at"`
	Success        bool      `json:"success"`
	Title          string    `json:"title,omitempty"`
	HTMLFile       string    `json:"html_file,omitempty"`
	ScreenshotFile string    `json:"screenshot_file,omitempty"`
	Items          []Item    `json:"items,omitempty"`
	Errors         []string  `json:"errors,omitempty"`
}

func NewSnapshot(target, url, locale string) *Snapshot {
	now := time.Now()
	return &Snapshot{
		RunID:     uuid.New().String(),
		Target:    target,
		URL:       url,
		Locale:    locale,
		Timestamp: now.Format(TimestampLayout),
		StartedAt: now,
		Items:     make([]Item, 0),
		Errors:    make([]string, 0),
	}
}

// AddError records a non-fatal failure encountered during the run.
func (s *Snapshot) AddError(msg string) {
	s.Errors = append(s.Errors, msg)
}

func (s *Snapshot) ItemCount() int {
	return len(s.Items)
}

func (s *Snapshot) ErrorCount() int {
	return len(s.Errors)
}
