package db

import (
	"database/sql"
	"fmt"

	"outbreak-scraper/models"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// DB wraps the local sqlite database used to cache scraped records
type DB struct {
	conn *sql.DB
}

// NewDB opens (or creates) the cache database at the given path
func NewDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// initSchema creates the necessary tables if they don't exist
func (db *DB) initSchema() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS scrape_runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source_url TEXT NOT NULL,
			table_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create scrape_runs table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id INTEGER NOT NULL REFERENCES scrape_runs(id) ON DELETE CASCADE,
			table_name TEXT NOT NULL,
			row_number INTEGER NOT NULL,
			header TEXT NOT NULL,
			value TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create records table: %w", err)
	}

	_, err = db.conn.Exec(`CREATE INDEX IF NOT EXISTS idx_records_run_id ON records(run_id)`)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to create index on records.run_id")
	}
	_, err = db.conn.Exec(`CREATE INDEX IF NOT EXISTS idx_records_table_name ON records(table_name)`)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to create index on records.table_name")
	}

	return nil
}

// SaveReport caches every record of the report under a new run row.
// Rows are flattened to (table_name, row_number, header, value) so tables
// with differing header sets cache losslessly.
func (db *DB) SaveReport(report models.ScrapeReport, sourceURL string) (int64, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO scrape_runs (source_url, table_count) VALUES (?, ?)`,
		sourceURL, len(report),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO records (run_id, table_name, row_number, header, value) VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	count := 0
	for _, table := range report {
		for rowNum, record := range table.Records {
			for _, header := range record.Keys() {
				value, _ := record.Get(header)
				if _, err := stmt.Exec(runID, table.Name, rowNum, header, value); err != nil {
					return 0, fmt.Errorf("failed to insert record for table %s: %w", table.Name, err)
				}
				count++
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Info().Int64("run_id", runID).Int("values", count).Msg("Report cached")
	return runID, nil
}

// Run describes one cached scrape run
type Run struct {
	ID         int64
	SourceURL  string
	TableCount int
	CreatedAt  string // as stored by sqlite's CURRENT_TIMESTAMP
}

// LatestRun returns the most recently cached run, or nil if none exist
func (db *DB) LatestRun() (*Run, error) {
	row := db.conn.QueryRow(
		`SELECT id, source_url, table_count, created_at FROM scrape_runs ORDER BY id DESC LIMIT 1`,
	)

	var run Run
	err := row.Scan(&run.ID, &run.SourceURL, &run.TableCount, &run.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest run: %w", err)
	}

	return &run, nil
}

// GetConn returns the underlying database connection
func (db *DB) GetConn() *sql.DB {
	return db.conn
}
