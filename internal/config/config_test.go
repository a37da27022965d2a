package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relic-search/internal/config"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))

	cfg, err := config.Load()

	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, config.Default(), *cfg)
	assert.Contains(t, cfg.Scrape.AllowedDomains, "metmuseum.org")
	assert.Equal(t, 20, cfg.Search.DefaultPageSize)
}

func TestLoadReadsYAMLFile(t *testing.T) {
	path := writeConfigFile(t, `
scrape:
  allowed_domains:
    - metmuseum.org
    - britishmuseum.org
search:
  default_page_size: 10
  default_sources:
    - met
`)
	t.Setenv("CONFIG_FILE", path)

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, []string{"metmuseum.org", "britishmuseum.org"}, cfg.Scrape.AllowedDomains)
	assert.Equal(t, 10, cfg.Search.DefaultPageSize)
	assert.Equal(t, []string{"met"}, cfg.Search.DefaultSources)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := writeConfigFile(t, `
search:
  default_page_size: 50
`)
	t.Setenv("CONFIG_FILE", path)

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Search.DefaultPageSize)
	assert.Equal(t, config.Default().Scrape.AllowedDomains, cfg.Scrape.AllowedDomains)
	assert.Equal(t, config.Default().Search.DefaultSources, cfg.Search.DefaultSources)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := writeConfigFile(t, "scrape: [unclosed")
	t.Setenv("CONFIG_FILE", path)

	_, err := config.Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "empty allow list",
			content: `
scrape:
  allowed_domains: []
`,
		},
		{
			name: "page size out of range",
			content: `
search:
  default_page_size: 0
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CONFIG_FILE", writeConfigFile(t, tt.content))

			_, err := config.Load()

			assert.Error(t, err)
		})
	}
}
