package scraper

import (
	"fmt"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/rs/zerolog/log"
)

// RodScraper implements the Scraper interface using rod (headless browser)
type RodScraper struct {
	browser *rod.Browser
	settle  time.Duration
}

// NewRodScraper launches a headless browser. settle is an extra wait after
// the load event, giving late content time to render.
func NewRodScraper(settle time.Duration) (*RodScraper, error) {
	// Browser profile directory, mounted as a volume in containers so the
	// profile lands on disk instead of memory
	userDataDir := os.Getenv("SCRAPER_DATA_DIR")
	if userDataDir == "" {
		userDataDir = "/tmp/outbreak-scraper-data"
	}
	if err := os.MkdirAll(userDataDir, 0755); err != nil {
		log.Warn().Err(err).Str("dir", userDataDir).Msg("Failed to create browser data directory")
		userDataDir = ""
	}

	l := launcher.New().
		Headless(true).
		NoSandbox(true).
		Leakless(false). // Disable leakless to avoid antivirus issues
		UserDataDir(userDataDir).
		Set("disable-blink-features", "AutomationControlled").
		// Linux compatibility flags
		Set("disable-dev-shm-usage").
		Set("disable-gpu").
		Set("no-first-run").
		Set("no-default-browser-check").
		Set("disable-extensions").
		Set("disable-background-networking").
		Set("disable-sync").
		Set("mute-audio").
		Set("metrics-recording-only")

	// Prefer a system Chrome/Chromium over downloading one
	browserPaths := []string{
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/snap/bin/chromium",
	}
	for _, path := range browserPaths {
		if _, err := os.Stat(path); err == nil {
			l = l.Bin(path)
			break
		}
	}

	browserURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(browserURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	return &RodScraper{browser: browser, settle: settle}, nil
}

// Close closes the browser
func (rs *RodScraper) Close() error {
	if rs.browser != nil {
		return rs.browser.Close()
	}
	return nil
}

// Scrape implements the Scraper interface
func (rs *RodScraper) Scrape(url string) (string, error) {
	// Guard page creation: rod panics instead of returning an error here
	var page *rod.Page
	var pageErr error
	func() {
		defer func() {
			if r := recover(); r != nil {
				pageErr = fmt.Errorf("panic while creating page: %v", r)
			}
		}()
		page = rs.browser.MustPage()
	}()
	if pageErr != nil {
		return "", pageErr
	}
	defer page.Close()

	if err := page.Navigate(url); err != nil {
		return "", fmt.Errorf("failed to navigate: %w", err)
	}

	// Wait for the base HTML to parse; asynchronous content need not settle
	if err := page.WaitLoad(); err != nil {
		log.Warn().Err(err).Msg("Load event not observed, continuing anyway")
	}
	if rs.settle > 0 {
		time.Sleep(rs.settle)
	}
	if err := page.Timeout(10 * time.Second).WaitStable(500 * time.Millisecond); err != nil {
		log.Warn().Err(err).Msg("Page did not stabilize within timeout, continuing anyway")
	}

	html, err := page.HTML()
	if err != nil {
		return "", fmt.Errorf("failed to get HTML: %w", err)
	}

	log.Info().Str("url", url).Int("bytes", len(html)).Msg("Page scraped")
	return html, nil
}
