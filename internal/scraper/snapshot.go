package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/playwright-community/playwright-go"

	"github.com/maltedev/homepage-snapshot/internal/browser"
	"github.com/maltedev/homepage-snapshot/internal/models"
	"github.com/maltedev/homepage-snapshot/internal/parser"
	"github.com/maltedev/homepage-snapshot/internal/storage"
	"github.com/maltedev/homepage-snapshot/internal/targets"
)

// Snapshotter runs the capture pipeline for one target at a time:
// navigate, dismiss the cookie banner, save HTML, save a screenshot,
// extract items, record the run in the manifest. Navigation failure aborts
// the run; every later failure is recorded on the snapshot and the run
// carries on, so a blocked screenshot never loses the saved HTML.
type Snapshotter struct {
	browser    *browser.Browser
	store      *storage.SnapshotStore
	parser     *parser.PageParser
	logger     *slog.Logger
	maxRetries int
}

func NewSnapshotter(b *browser.Browser, store *storage.SnapshotStore, maxRetries int) *Snapshotter {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &Snapshotter{
		browser:    b,
		store:      store,
		parser:     parser.NewPageParser(),
		logger:     slog.Default().With("component", "snapshotter"),
		maxRetries: maxRetries,
	}
}

// SnapshotByName resolves a built-in target and runs it.
func (s *Snapshotter) SnapshotByName(ctx context.Context, name string) (*models.Snapshot, error) {
	target, err := targets.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownTarget, err)
	}
	return s.Snapshot(ctx, target)
}

// Snapshot executes the full pipeline and always returns the snapshot
// record, even when the run failed.
func (s *Snapshotter) Snapshot(ctx context.Context, target targets.Target) (*models.Snapshot, error) {
	snap := models.NewSnapshot(target.Name, target.URL, s.browser.Locale())
	s.logger.Info("starting snapshot", "run_id", snap.RunID, "target", target.Name, "url", target.URL)

	if err := ctx.Err(); err != nil {
		snap.AddError(fmt.Sprintf("run cancelled: %v", err))
		s.record(snap)
		return snap, err
	}

	page, err := s.browser.NewPage()
	if err != nil {
		snap.AddError(fmt.Sprintf("failed to create page: %v", err))
		s.record(snap)
		return snap, fmt.Errorf("failed to create page: %w", err)
	}
	defer page.Close()

	if err := s.browser.Navigate(page, target.URL, s.maxRetries); err != nil {
		snap.AddError(fmt.Sprintf("navigation failed: %v", err))
		s.record(snap)
		return snap, fmt.Errorf("%w: %v", ErrNavigationFailed, err)
	}

	if dismissed, selector := s.browser.DismissCookieBanner(page, target.CookieSelectors); dismissed {
		s.logger.Info("dismissed cookie banner", "target", target.Name, "selector", selector)
	}

	s.verifyTitle(page, target, snap)
	content := s.saveHTML(page, target, snap)
	s.saveScreenshot(page, target, snap)
	s.extract(content, target, snap)

	snap.Success = true
	s.record(snap)
	s.logger.Info("snapshot complete", "run_id", snap.RunID, "target", target.Name,
		"items", snap.ItemCount(), "errors", snap.ErrorCount())
	return snap, nil
}

func (s *Snapshotter) verifyTitle(page playwright.Page, target targets.Target, snap *models.Snapshot) {
	title, err := page.Title()
	if err != nil {
		snap.AddError(fmt.Sprintf("failed to read page title: %v", err))
		return
	}

	snap.Title = title
	if target.TitleContains == "" {
		return
	}

	if !strings.Contains(strings.ToLower(title), strings.ToLower(target.TitleContains)) {
		s.logger.Warn("unexpected page title", "target", target.Name, "title", title)
		snap.AddError(fmt.Sprintf("%v: got %q, want substring %q", ErrTitleMismatch, title, target.TitleContains))
	}
}

// saveHTML writes the page content to the store and returns it for the
// extraction step, so the page is serialized exactly once.
func (s *Snapshotter) saveHTML(page playwright.Page, target targets.Target, snap *models.Snapshot) string {
	content, err := page.Content()
	if err != nil {
		snap.AddError(fmt.Sprintf("failed to get page content: %v", err))
		return ""
	}

	path, err := s.store.WriteHTML(target.FilePrefix, snap.Timestamp, content)
	if err != nil {
		snap.AddError(fmt.Sprintf("failed to save HTML: %v", err))
		return content
	}

	snap.HTMLFile = path
	s.logger.Info("saved HTML", "target", target.Name, "path", path)
	return content
}

func (s *Snapshotter) saveScreenshot(page playwright.Page, target targets.Target, snap *models.Snapshot) {
	path := s.store.ScreenshotPath(target.FilePrefix, snap.Timestamp)

	if _, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	}); err != nil {
		snap.AddError(fmt.Sprintf("failed to save screenshot: %v", err))
		return
	}

	snap.ScreenshotFile = path
	s.logger.Info("saved screenshot", "target", target.Name, "path", path)
}

func (s *Snapshotter) extract(content string, target targets.Target, snap *models.Snapshot) {
	if content == "" {
		return
	}

	var (
		items []models.Item
		err   error
	)
	switch target.Mode {
	case targets.ExtractBanners:
		items, err = s.parser.ExtractBanners(content, target.BannerSelectors, target.BannerFilter, target.BannerLimit)
	default:
		items, err = s.parser.ExtractHeadings(content)
	}

	if err != nil {
		snap.AddError(fmt.Sprintf("failed to extract items: %v", err))
		return
	}

	snap.Items = items
	s.logger.Info("extracted items", "target", target.Name, "mode", string(target.Mode), "count", len(items))
}

func (s *Snapshotter) record(snap *models.Snapshot) {
	if s.store == nil {
		return
	}
	if err := s.store.Add(snap); err != nil {
		s.logger.Error("failed to record snapshot in manifest", "run_id", snap.RunID, "error", err)
	}
}
