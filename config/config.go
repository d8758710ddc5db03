package config

import (
	"fmt"
	"os"
	"path/filepath"

	"outbreak-scraper/models"

	"gopkg.in/yaml.v3"
)

// Config is the fixed configuration for one scrape-and-persist cycle:
// the page URL, the ordered target list, and the output locations.
// It is constructed once at process start and not modified afterward.
type Config struct {
	Scrape struct {
		URL           string `yaml:"url"`
		Browser       bool   `yaml:"browser"`
		SettleSeconds int    `yaml:"settle_seconds"`
	} `yaml:"scrape"`

	Targets []TargetConfig `yaml:"targets"`

	Output struct {
		Dir  string `yaml:"dir"`
		File string `yaml:"file"`
	} `yaml:"output"`

	Cache struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"cache"`

	Sheets struct {
		SpreadsheetURL  string `yaml:"spreadsheet_url"`
		CredentialsPath string `yaml:"credentials_path"`
	} `yaml:"sheets"`
}

// TargetConfig is one named table location on the page
type TargetConfig struct {
	Name     string `yaml:"name"`
	Selector string `yaml:"selector"`
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// GetDefaultConfig returns the production configuration: the FDA
// foodborne-outbreak investigations page with its active table and the
// closed-by-year tables from most to least recent.
func GetDefaultConfig() *Config {
	cfg := &Config{}
	cfg.Scrape.URL = "https://www.fda.gov/food/outbreaks-foodborne-illness/investigations-foodborne-illness-outbreaks"
	cfg.Scrape.Browser = true
	cfg.Scrape.SettleSeconds = 3
	cfg.Targets = []TargetConfig{
		{Name: "Active Investigations", Selector: "article table:nth-of-type(1)"},
		{Name: "Closed Investigations 2025", Selector: "article table:nth-of-type(2)"},
		{Name: "Closed Investigations 2024", Selector: "article table:nth-of-type(3)"},
		{Name: "Closed Investigations 2023", Selector: "article table:nth-of-type(4)"},
		{Name: "Closed Investigations 2022", Selector: "article table:nth-of-type(5)"},
		{Name: "Closed Investigations 2021", Selector: "article table:nth-of-type(6)"},
		{Name: "Closed Investigations 2020", Selector: "article table:nth-of-type(7)"},
	}
	cfg.Output.Dir = "data"
	cfg.Output.File = "fda_investigations_data.json"
	cfg.Cache.Enabled = true
	cfg.Cache.Path = "Food_Recalls.db"
	return cfg
}

// TargetList converts the configured targets into scrape units
func (c *Config) TargetList() []models.TableTarget {
	targets := make([]models.TableTarget, len(c.Targets))
	for i, t := range c.Targets {
		targets[i] = models.TableTarget{Name: t.Name, Selector: t.Selector}
	}
	return targets
}

// OutputPath returns the full path the report is written to
func (c *Config) OutputPath() string {
	return filepath.Join(c.Output.Dir, c.Output.File)
}
