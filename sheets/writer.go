package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"outbreak-scraper/models"

	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Writer exports scrape reports to a Google Sheets spreadsheet
type Writer struct {
	service       *sheets.Service
	spreadsheetID string
}

// NewWriter creates a Google Sheets writer. Credentials come from the given
// file path, or from the GOOGLE_SHEETS_CREDENTIALS environment variable when
// the path is empty.
func NewWriter(spreadsheetID string, credentialsPath string) (*Writer, error) {
	ctx := context.Background()

	var credsJSON []byte
	var err error
	if credentialsPath != "" {
		credsJSON, err = os.ReadFile(credentialsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read credentials file: %w", err)
		}
	} else {
		credsEnv := strings.TrimSpace(os.Getenv("GOOGLE_SHEETS_CREDENTIALS"))
		if credsEnv == "" {
			return nil, fmt.Errorf("credentials not found: GOOGLE_SHEETS_CREDENTIALS environment variable is empty or not set")
		}
		credsJSON = []byte(credsEnv)
	}

	var creds map[string]interface{}
	if err := json.Unmarshal(credsJSON, &creds); err != nil {
		return nil, fmt.Errorf("invalid credentials JSON: %w", err)
	}
	if creds["type"] != "service_account" {
		return nil, fmt.Errorf("credentials must be a service account JSON file (type: service_account), got type: %v", creds["type"])
	}

	service, err := sheets.NewService(ctx, option.WithCredentialsJSON(credsJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Writer{
		service:       service,
		spreadsheetID: spreadsheetID,
	}, nil
}

// WriteReport writes each table of the report to its own sheet, named after
// the table. Existing sheets with the same name are reused and overwritten.
func (w *Writer) WriteReport(report models.ScrapeReport) error {
	// A well-formed report never carries an empty table, but a caller
	// handing one in must not crash the export
	tables := make([]models.TableResult, 0, len(report))
	for _, table := range report {
		if table.IsEmpty() {
			log.Warn().Str("table", table.Name).Msg("Skipping table with no records")
			continue
		}
		tables = append(tables, table)
	}
	if len(tables) == 0 {
		log.Info().Msg("No tables to export")
		return nil
	}

	existing, err := w.existingSheetNames()
	if err != nil {
		return err
	}

	for _, table := range tables {
		sheetName := sanitizeSheetName(table.Name)
		if len(sheetName) > 100 {
			sheetName = sheetName[:100]
		}

		if !existing[sheetName] {
			if err := w.createSheet(sheetName); err != nil {
				return err
			}
			existing[sheetName] = true
		}

		if err := w.writeTable(sheetName, table); err != nil {
			return err
		}
	}

	log.Info().Int("tables", len(tables)).Msg("Report exported to Google Sheets")
	return nil
}

// existingSheetNames lists the sheet titles already in the spreadsheet
func (w *Writer) existingSheetNames() (map[string]bool, error) {
	spreadsheet, err := w.service.Spreadsheets.Get(w.spreadsheetID).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet: %w", err)
	}

	names := make(map[string]bool)
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil {
			names[sheet.Properties.Title] = true
		}
	}
	return names, nil
}

// createSheet adds a new sheet with the given title
func (w *Writer) createSheet(sheetName string) error {
	batchUpdateRequest := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{Title: sheetName},
				},
			},
		},
	}

	if _, err := w.service.Spreadsheets.BatchUpdate(w.spreadsheetID, batchUpdateRequest).Do(); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheetName, err)
	}

	log.Info().Str("sheet", sheetName).Msg("Created sheet")
	return nil
}

// writeTable clears a sheet and writes one table's header and rows.
// The header row follows the first record's column order; rows missing a
// column get an empty cell.
func (w *Writer) writeTable(sheetName string, table models.TableResult) error {
	headers := table.Records[0].Keys()

	var values [][]interface{}
	headerRow := make([]interface{}, len(headers))
	for i, h := range headers {
		headerRow[i] = h
	}
	values = append(values, headerRow)

	for _, record := range table.Records {
		row := make([]interface{}, len(headers))
		for i, h := range headers {
			value, _ := record.Get(h)
			row[i] = value
		}
		values = append(values, row)
	}

	range_ := fmt.Sprintf("%s!A1", sheetName)
	clearReq := &sheets.ClearValuesRequest{}
	if _, err := w.service.Spreadsheets.Values.Clear(w.spreadsheetID, range_, clearReq).Do(); err != nil {
		log.Warn().Err(err).Str("sheet", sheetName).Msg("Failed to clear existing data")
	}

	valueRange := &sheets.ValueRange{Values: values}
	_, err := w.service.Spreadsheets.Values.Update(w.spreadsheetID, range_, valueRange).
		ValueInputOption("RAW").
		Do()
	if err != nil {
		return fmt.Errorf("failed to write to sheet %s: %w", sheetName, err)
	}

	log.Info().Str("sheet", sheetName).Int("rows", len(table.Records)).Msg("Wrote table")
	return nil
}

// sanitizeSheetName removes invalid characters from a sheet name
func sanitizeSheetName(name string) string {
	// Google Sheets sheet names cannot contain: / \ ? * [ ]
	invalidChars := []string{"/", "\\", "?", "*", "[", "]"}
	result := name
	for _, char := range invalidChars {
		result = strings.ReplaceAll(result, char, "_")
	}
	result = strings.TrimSpace(result)
	if result == "" {
		result = "Sheet1"
	}
	return result
}

// ExtractSpreadsheetID extracts the spreadsheet ID from a Google Sheets URL
func ExtractSpreadsheetID(url string) string {
	parts := strings.Split(url, "/d/")
	if len(parts) < 2 {
		return ""
	}

	idPart := parts[1]
	if idx := strings.Index(idPart, "/"); idx != -1 {
		idPart = idPart[:idx]
	}
	if idx := strings.Index(idPart, "?"); idx != -1 {
		idPart = idPart[:idx]
	}

	return strings.TrimSpace(idPart)
}
