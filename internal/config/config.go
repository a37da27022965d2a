// Package config loads the application configuration file. Environment
// variables stay the source of truth for secrets and tuning knobs; the
// yaml file carries the lists that are awkward in env vars, like the
// scrape domain allow-list.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	pkgconfig "relic-search/pkg/config"
)

// ScrapeConfig controls the scrape extraction endpoint.
type ScrapeConfig struct {
	// AllowedDomains lists the museum domains the scraper may fetch
	// from. Subdomains of a listed domain are allowed.
	AllowedDomains []string `yaml:"allowed_domains"`
}

// SearchConfig holds search tuning defaults.
type SearchConfig struct {
	// DefaultPageSize is the page size used when a request does not
	// specify one.
	DefaultPageSize int `yaml:"default_page_size"`

	// DefaultSources are the museum sources searched when a request
	// does not select any.
	DefaultSources []string `yaml:"default_sources"`
}

// AppConfig is the root of the yaml configuration file.
type AppConfig struct {
	Scrape ScrapeConfig `yaml:"scrape"`
	Search SearchConfig `yaml:"search"`
}

// Default returns the built-in configuration used when no config file
// is present.
func Default() AppConfig {
	return AppConfig{
		Scrape: ScrapeConfig{
			AllowedDomains: []string{
				"metmuseum.org",
				"clevelandart.org",
				"vam.ac.uk",
				"si.edu",
			},
		},
		Search: SearchConfig{
			DefaultPageSize: 20,
			DefaultSources:  []string{"met", "va", "cleveland"},
		},
	}
}

// Load reads the configuration file named by the CONFIG_FILE environment
// variable (default "config.yaml"). A missing file is not an error; the
// built-in defaults are returned. A present but unparseable file is an
// error so a typo does not silently disable the scrape allow-list.
func Load() (*AppConfig, error) {
	path := pkgconfig.GetEnvString("CONFIG_FILE", "config.yaml")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := Default()
			return &cfg, nil
		}
		return nil, fmt.Errorf("Load: read %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("Load: parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("Load: %w", err)
	}

	return &cfg, nil
}

// Validate checks the loaded configuration for values that would break
// request handling.
func (c AppConfig) Validate() error {
	if len(c.Scrape.AllowedDomains) == 0 {
		return fmt.Errorf("scrape.allowed_domains must not be empty")
	}
	if c.Search.DefaultPageSize < 1 || c.Search.DefaultPageSize > 100 {
		return fmt.Errorf("search.default_page_size must be in [1, 100], got %d", c.Search.DefaultPageSize)
	}
	if len(c.Search.DefaultSources) == 0 {
		return fmt.Errorf("search.default_sources must not be empty")
	}
	return nil
}
