package extractor

import (
	"fmt"
	"regexp"
	"strings"

	"outbreak-scraper/dom"
	"outbreak-scraper/models"

	"github.com/rs/zerolog/log"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// normalizeText trims a cell's text and collapses any run of whitespace
// (including newlines) to a single space
func normalizeText(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// Extract resolves the target's table and turns it into ordered records.
// Every failure mode local to this table (absent element, empty table,
// malformed row, evaluation error) degrades to an empty result so the
// remaining targets are unaffected.
func Extract(doc dom.Document, target models.TableTarget) models.TableResult {
	records, err := extractRecords(doc, target.Selector)
	if err != nil {
		log.Warn().
			Err(err).
			Str("table", target.Name).
			Msg("Table extraction failed, keeping empty result")
		return models.TableResult{Name: target.Name, Records: []models.Record{}}
	}

	return models.TableResult{Name: target.Name, Records: records}
}

func extractRecords(doc dom.Document, selector string) (records []models.Record, err error) {
	// A detached node or a mid-walk evaluation failure can surface as a
	// panic from the document adapter; contain it to this table
	defer func() {
		if r := recover(); r != nil {
			records = nil
			err = fmt.Errorf("panic while reading table: %v", r)
		}
	}()

	records = []models.Record{}

	table, err := doc.Resolve(selector)
	if err != nil {
		return nil, err
	}
	if table == nil {
		// Table absent this year / not yet published
		return records, nil
	}

	rows, err := table.Rows()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return records, nil
	}

	headers, err := headerList(rows[0])
	if err != nil {
		return nil, err
	}

	for _, row := range rows[1:] {
		record, err := rowRecord(row, headers)
		if err != nil {
			return nil, err
		}
		// A row that contributed no addressable data is discarded entirely
		if record.Len() > 0 {
			records = append(records, record)
		}
	}

	return records, nil
}

// headerList derives the positional header list from the table's first row
func headerList(row dom.Element) ([]string, error) {
	cells, err := row.Cells(dom.HeaderOrDataCells)
	if err != nil {
		return nil, err
	}

	headers := make([]string, len(cells))
	for i, cell := range cells {
		text, err := cell.Text()
		if err != nil {
			return nil, err
		}
		headers[i] = normalizeText(text)
	}

	return headers, nil
}

// rowRecord maps one data row's cells onto the header list by position
func rowRecord(row dom.Element, headers []string) (models.Record, error) {
	var record models.Record

	cells, err := row.Cells(dom.DataCells)
	if err != nil {
		return record, err
	}

	for i, cell := range cells {
		if i >= len(headers) {
			// No header at this position, drop the cell without shifting
			break
		}

		text, err := cell.Text()
		if err != nil {
			return record, err
		}
		value := normalizeText(text)

		href, ok, err := cell.LinkHref()
		if err != nil {
			return record, err
		}
		if ok {
			value = fmt.Sprintf("%s (Link: %s)", value, href)
		}

		if headers[i] == "" {
			continue
		}
		record.Set(headers[i], value)
	}

	return record, nil
}
