package storage

import (
	"os"
	"path/filepath"
	"testing"

	"outbreak-scraper/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() models.ScrapeReport {
	var active models.Record
	active.Set("Agent", "Salmonella")
	active.Set("State", "Ohio")

	var closed models.Record
	closed.Set("Agent", "Listeria")

	return models.ScrapeReport{
		{Name: "Active Investigations", Records: []models.Record{active}},
		{Name: "Closed Investigations 2024", Records: []models.Record{closed}},
	}
}

func TestWriteAndLoadReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "fda_investigations_data.json")

	require.NoError(t, WriteReport(sampleReport(), path))

	loaded, err := LoadReport(path)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "Active Investigations", loaded[0].Name)
	assert.Equal(t, []string{"Agent", "State"}, loaded[0].Records[0].Keys())
	agent, _ := loaded[1].Records[0].Get("Agent")
	assert.Equal(t, "Listeria", agent)
}

func TestWriteReportCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "c", "report.json")

	require.NoError(t, WriteReport(sampleReport(), path))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestWriteReportOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, os.WriteFile(path, []byte("stale content"), 0644))

	require.NoError(t, WriteReport(sampleReport(), path))

	loaded, err := LoadReport(path)
	require.NoError(t, err)
	assert.Len(t, loaded, 2)
}

func TestLoadReportDropsTablesWithNoRecords(t *testing.T) {
	content := `[
		{"tableName":"Active Investigations","data":[{"Agent":"Salmonella"}]},
		{"tableName":"Closed Investigations 2020","data":[]},
		{"tableName":"Closed Investigations 2021","data":[{"Agent":"Listeria"}]}
	]`
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	loaded, err := LoadReport(path)
	require.NoError(t, err)

	// The empty 2020 entry must not surface: a loaded report carries the
	// same non-empty guarantee as a scraped one
	require.Len(t, loaded, 2)
	assert.Equal(t, "Active Investigations", loaded[0].Name)
	assert.Equal(t, "Closed Investigations 2021", loaded[1].Name)
	for _, table := range loaded {
		assert.False(t, table.IsEmpty())
	}
}

func TestLoadReportMissingFile(t *testing.T) {
	_, err := LoadReport(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadReportRejectsMissingRequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing tableName", `[{"data":[{"Agent":"Salmonella"}]}]`},
		{"missing data", `[{"tableName":"Active Investigations"}]`},
		{"not an array", `{"tableName":"x","data":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "report.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			_, err := LoadReport(path)
			assert.Error(t, err)
		})
	}
}
