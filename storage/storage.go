package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"outbreak-scraper/models"

	"github.com/rs/zerolog/log"
)

// WriteReport persists the report as indented UTF-8 JSON at path,
// creating the containing directory if needed and overwriting any
// prior content.
func WriteReport(report models.ScrapeReport, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	log.Info().Str("path", path).Int("tables", len(report)).Msg("Report written")
	return nil
}

// LoadReport reads a previously written report back. Entries missing the
// tableName or data fields are rejected rather than silently zeroed, and
// entries with no records are dropped so a loaded report upholds the same
// non-empty guarantee as a freshly scraped one.
func LoadReport(path string) (models.ScrapeReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report file: %w", err)
	}

	var raw []map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse report file: %w", err)
	}
	for i, entry := range raw {
		for _, field := range []string{"tableName", "data"} {
			if _, ok := entry[field]; !ok {
				return nil, fmt.Errorf("report entry %d is missing the required field %q", i, field)
			}
		}
	}

	var parsed models.ScrapeReport
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse report file: %w", err)
	}

	report := make(models.ScrapeReport, 0, len(parsed))
	for _, table := range parsed {
		if table.IsEmpty() {
			log.Warn().Str("table", table.Name).Msg("Dropping table with no records")
			continue
		}
		report = append(report, table)
	}

	return report, nil
}
