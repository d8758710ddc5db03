package main

import (
	"flag"
	"os"
	"time"

	"outbreak-scraper/config"
	"outbreak-scraper/db"
	"outbreak-scraper/dom"
	"outbreak-scraper/models"
	"outbreak-scraper/orchestrator"
	"outbreak-scraper/scraper"
	"outbreak-scraper/sheets"
	"outbreak-scraper/storage"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	fromFile := flag.String("from-file", "", "Skip scraping and reprocess an existing report JSON through cache/sheets")
	verbose := flag.Bool("v", false, "Verbose logging")
	flag.Parse()

	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	cfg := loadConfig(*configPath)

	var report models.ScrapeReport
	if *fromFile != "" {
		var err error
		report, err = storage.LoadReport(*fromFile)
		if err != nil {
			log.Fatal().Err(err).Str("path", *fromFile).Msg("Failed to load report")
		}
		log.Info().Str("path", *fromFile).Int("tables", len(report)).Msg("Report loaded")
	} else {
		var err error
		report, err = scrapeTables(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Scraping failed")
		}

		if err := storage.WriteReport(report, cfg.OutputPath()); err != nil {
			log.Fatal().Err(err).Msg("Failed to persist report")
		}
	}

	if cfg.Cache.Enabled {
		cacheReport(cfg, report)
	}

	if cfg.Sheets.SpreadsheetURL != "" {
		exportReport(cfg, report)
	}
}

// loadConfig loads configuration from file or returns defaults
func loadConfig(configPath string) *config.Config {
	if _, err := os.Stat(configPath); err == nil {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to load config file, using defaults")
			return config.GetDefaultConfig()
		}
		return cfg
	}

	log.Info().Msg("Config file not found, using default configuration")
	return config.GetDefaultConfig()
}

// scrapeTables performs one full scrape cycle: load the page once, then
// visit every configured table in order
func scrapeTables(cfg *config.Config) (models.ScrapeReport, error) {
	var s scraper.Scraper
	if cfg.Scrape.Browser {
		rodScraper, err := scraper.NewRodScraper(time.Duration(cfg.Scrape.SettleSeconds) * time.Second)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := rodScraper.Close(); err != nil {
				log.Warn().Err(err).Msg("Failed to close browser")
			}
		}()
		s = rodScraper
	} else {
		s = scraper.NewCollyScraper()
	}

	htmlContent, err := s.Scrape(cfg.Scrape.URL)
	if err != nil {
		return nil, err
	}

	doc, err := dom.NewDocument(htmlContent, cfg.Scrape.URL)
	if err != nil {
		return nil, err
	}

	return orchestrator.Run(doc, cfg.TargetList()), nil
}

// cacheReport saves the report into the local sqlite cache
func cacheReport(cfg *config.Config, report models.ScrapeReport) {
	database, err := db.NewDB(cfg.Cache.Path)
	if err != nil {
		log.Error().Err(err).Str("path", cfg.Cache.Path).Msg("Failed to open cache database")
		return
	}
	defer database.Close()

	if _, err := database.SaveReport(report, cfg.Scrape.URL); err != nil {
		log.Error().Err(err).Msg("Failed to cache report")
	}
}

// exportReport writes the report to the configured Google Sheets spreadsheet
func exportReport(cfg *config.Config, report models.ScrapeReport) {
	spreadsheetID := sheets.ExtractSpreadsheetID(cfg.Sheets.SpreadsheetURL)
	if spreadsheetID == "" {
		log.Error().Str("url", cfg.Sheets.SpreadsheetURL).Msg("Could not extract spreadsheet ID from URL")
		return
	}

	writer, err := sheets.NewWriter(spreadsheetID, cfg.Sheets.CredentialsPath)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize Google Sheets writer")
		return
	}

	if err := writer.WriteReport(report); err != nil {
		log.Error().Err(err).Msg("Failed to export report to Google Sheets")
	}
}
