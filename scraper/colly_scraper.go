package scraper

import (
	"fmt"

	"github.com/gocolly/colly/v2"
	"github.com/rs/zerolog/log"
)

// CollyScraper implements the Scraper interface with a plain HTTP fetch.
// The investigation tables are server-rendered, so this works without a
// browser; use RodScraper when the page needs JavaScript.
type CollyScraper struct {
	collector *colly.Collector
}

// NewCollyScraper creates a new CollyScraper instance
func NewCollyScraper() *CollyScraper {
	c := colly.NewCollector(
		colly.UserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)

	c.OnError(func(r *colly.Response, err error) {
		log.Error().Err(err).Stringer("url", r.Request.URL).Msg("Fetch failed")
	})

	return &CollyScraper{collector: c}
}

// Scrape implements the Scraper interface
func (cs *CollyScraper) Scrape(url string) (string, error) {
	var htmlContent string

	cs.collector.OnResponse(func(r *colly.Response) {
		htmlContent = string(r.Body)
	})

	if err := cs.collector.Visit(url); err != nil {
		return "", fmt.Errorf("failed to visit URL: %w", err)
	}
	cs.collector.Wait()

	if htmlContent == "" {
		return "", fmt.Errorf("no HTML received from %s", url)
	}

	log.Info().Str("url", url).Int("bytes", len(htmlContent)).Msg("Page fetched")
	return htmlContent, nil
}
