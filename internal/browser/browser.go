package browser

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Browser wraps a playwright Chromium instance with a single context. One
// Browser serves all pages of a run; Close tears the whole stack down.
type Browser struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	logger  *slog.Logger
	opts    *Options
}

type Options struct {
	Headless       bool
	Timeout        time.Duration
	UserAgent      string
	ViewportWidth  int
	ViewportHeight int
	Locale         string
	// SettleDelay is how long DismissCookieBanner waits before scanning,
	// giving late consent dialogs a chance to render.
	SettleDelay time.Duration
}

func DefaultOptions() *Options {
	return &Options{
		Headless:       true,
		Timeout:        30 * time.Second,
		UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		ViewportWidth:  1920,
		ViewportHeight: 1080,
		Locale:         "en-US",
		SettleDelay:    2 * time.Second,
	}
}

func New(opts *Options) (*Browser, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: &opts.Headless,
		Args: []string{
			"--no-sandbox",
			"--disable-dev-shm-usage",
			"--disable-gpu",
			"--disable-blink-features=AutomationControlled",
			"--disable-extensions",
			"--disable-popup-blocking",
			"--disable-notifications",
			"--no-first-run",
			"--no-default-browser-check",
			"--mute-audio",
			"--hide-scrollbars",
		},
	}

	b, err := pw.Chromium.Launch(launchOpts)
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	context, err := b.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: &opts.UserAgent,
		Locale:    &opts.Locale,
		Viewport: &playwright.Size{
			Width:  opts.ViewportWidth,
			Height: opts.ViewportHeight,
		},
	})
	if err != nil {
		b.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}

	return &Browser{
		pw:      pw,
		browser: b,
		context: context,
		logger:  slog.Default().With("component", "browser"),
		opts:    opts,
	}, nil
}

// Locale reports the locale the browser context was created with.
func (b *Browser) Locale() string {
	return b.opts.Locale
}

func (b *Browser) NewPage() (playwright.Page, error) {
	page, err := b.context.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create new page: %w", err)
	}

	page.SetDefaultTimeout(float64(b.opts.Timeout.Milliseconds()))

	return page, nil
}

// Navigate loads the URL, waiting for DOM content, retrying with linearly
// increasing sleeps on failure.
func (b *Browser) Navigate(page playwright.Page, url string, maxRetries int) error {
	var lastErr error

	for i := 0; i < maxRetries; i++ {
		if i > 0 {
			b.logger.Info("retrying navigation", "attempt", i+1, "url", url)
			time.Sleep(time.Duration(i+1) * time.Second)
		}

		_, err := page.Goto(url, playwright.PageGotoOptions{
			WaitUntil: playwright.WaitUntilStateDomcontentloaded,
			Timeout:   playwright.Float(float64(b.opts.Timeout.Milliseconds())),
		})
		if err == nil {
			return nil
		}

		lastErr = err
		b.logger.Error("navigation failed", "error", err, "attempt", i+1)
	}

	return fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
}

// DismissCookieBanner scans the selector list in order and clicks the
// first one present on the page. Selector errors are skipped; a page with
// no consent banner is not an error. Returns whether anything was clicked
// and the selector that matched.
func (b *Browser) DismissCookieBanner(page playwright.Page, selectors []string) (bool, string) {
	if len(selectors) == 0 {
		return false, ""
	}

	time.Sleep(b.opts.SettleDelay)

	for _, selector := range selectors {
		button := page.Locator(selector).First()

		count, err := button.Count()
		if err != nil || count == 0 {
			continue
		}

		if err := button.Click(playwright.LocatorClickOptions{
			Timeout: playwright.Float(5000),
		}); err != nil {
			b.logger.Debug("cookie selector click failed", "selector", selector, "error", err)
			continue
		}

		b.logger.Info("cookie banner dismissed", "selector", selector)
		return true, selector
	}

	b.logger.Info("no cookie banner found")
	return false, ""
}

func (b *Browser) Close() error {
	var errs []error

	if b.context != nil {
		if err := b.context.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close context: %w", err))
		}
	}

	if b.browser != nil {
		if err := b.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close browser: %w", err))
		}
	}

	if b.pw != nil {
		if err := b.pw.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop playwright: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during close: %v", errs)
	}

	return nil
}
