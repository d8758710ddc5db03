package sheets

import (
	"testing"

	"outbreak-scraper/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReportSkipsTablesWithNoRecords(t *testing.T) {
	// Tables without records are dropped before any API call, so a report
	// holding only empty tables succeeds without a live service
	report := models.ScrapeReport{
		{Name: "Closed Investigations 2020", Records: []models.Record{}},
	}

	w := &Writer{}
	require.NotPanics(t, func() {
		assert.NoError(t, w.WriteReport(report))
	})
}

func TestExtractSpreadsheetID(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{
			"edit url",
			"https://docs.google.com/spreadsheets/d/1FoGJ6ZzDIfFv3ZZ6/edit",
			"1FoGJ6ZzDIfFv3ZZ6",
		},
		{
			"sharing url",
			"https://docs.google.com/spreadsheets/d/1FoGJ6ZzDIfFv3ZZ6/edit?usp=sharing",
			"1FoGJ6ZzDIfFv3ZZ6",
		},
		{
			"bare id url",
			"https://docs.google.com/spreadsheets/d/1FoGJ6ZzDIfFv3ZZ6",
			"1FoGJ6ZzDIfFv3ZZ6",
		},
		{
			"query without path",
			"https://docs.google.com/spreadsheets/d/1FoGJ6ZzDIfFv3ZZ6?gid=0",
			"1FoGJ6ZzDIfFv3ZZ6",
		},
		{"not a sheets url", "https://example.com/spreadsheets", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractSpreadsheetID(tt.url))
		})
	}
}

func TestSanitizeSheetName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"clean name", "Active Investigations", "Active Investigations"},
		{"invalid characters", "Closed/2024?[*]", "Closed_2024____"},
		{"surrounding whitespace", "  Closed Investigations 2020  ", "Closed Investigations 2020"},
		{"empty", "", "Sheet1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeSheetName(tt.input))
		})
	}
}
