package orchestrator

import (
	"outbreak-scraper/dom"
	"outbreak-scraper/extractor"
	"outbreak-scraper/models"

	"github.com/rs/zerolog/log"
)

// Run visits every target strictly in the given order, extracts its table,
// and returns the aggregate with empty results filtered out. Targets are
// independent: one table's failure or absence never affects the next.
func Run(doc dom.Document, targets []models.TableTarget) models.ScrapeReport {
	results := make([]models.TableResult, 0, len(targets))

	for _, target := range targets {
		result := extractor.Extract(doc, target)
		if result.IsEmpty() {
			log.Info().Str("table", target.Name).Msg("No records found")
		} else {
			log.Info().
				Str("table", target.Name).
				Int("records", len(result.Records)).
				Msg("Extracted table")
		}
		results = append(results, result)
	}

	report := make(models.ScrapeReport, 0, len(results))
	for _, result := range results {
		if !result.IsEmpty() {
			report = append(report, result)
		}
	}

	log.Info().
		Int("visited", len(targets)).
		Int("retained", len(report)).
		Msg("Scrape completed")

	return report
}
