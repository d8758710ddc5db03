package scraper

// Scraper is the contract for obtaining one rendered HTML snapshot.
// A single navigation attempt is made; a failure here is fatal to the
// whole run.
type Scraper interface {
	// Scrape loads the given URL and returns the page HTML
	Scrape(url string) (string, error)
}
