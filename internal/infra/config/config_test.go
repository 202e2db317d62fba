package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg, err := Default()

	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Analysis.TopN)
	assert.Equal(t, 365, cfg.Analysis.HistoryDays)
	assert.Equal(t, 5*time.Minute, cfg.SessionGap())
	assert.Equal(t, 30*time.Minute, cfg.StreakGap())
	assert.Equal(t, "session", cfg.Analysis.CoListenBy)
	assert.False(t, cfg.Enrichment.Enabled)
	assert.Equal(t, 60*time.Second, cfg.EnrichmentTimeout())
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
analysis:
  top_n: 5
  history_days: 90
  last_date: "2024-12-31"
  co_listen_by: day
enrichment:
  enabled: true
  provider:
    type: spotify
    settings:
      client_id: abc
      client_secret: def
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Analysis.TopN)
	assert.Equal(t, 90, cfg.Analysis.HistoryDays)
	assert.Equal(t, "day", cfg.Analysis.CoListenBy)
	assert.True(t, cfg.Enrichment.Enabled)
	assert.Equal(t, "abc", cfg.Enrichment.Provider.Settings["client_id"])
	// unset fields still get defaults
	assert.Equal(t, 5, cfg.Analysis.SessionGapMinutes)

	last, err := cfg.ParseLastDate()
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), *last)
}

func TestLoad_ValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "negative top n",
			content: `
analysis:
  top_n: -1
`,
		},
		{
			name: "bad co-listen granularity",
			content: `
analysis:
  co_listen_by: week
`,
		},
		{
			name: "bad last date",
			content: `
analysis:
  last_date: "31.12.2024"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_EnvOverridesCredentials(t *testing.T) {
	t.Setenv("SPOTIFY_CLIENT_ID", "env-id")
	t.Setenv("SPOTIFY_CLIENT_SECRET", "env-secret")

	path := writeConfig(t, `
enrichment:
  provider:
    type: spotify
    settings:
      client_id: file-id
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "env-id", cfg.Enrichment.Provider.Settings["client_id"])
	assert.Equal(t, "env-secret", cfg.Enrichment.Provider.Settings["client_secret"])
}

func TestParseLastDate_Empty(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	last, err := cfg.ParseLastDate()

	require.NoError(t, err)
	assert.Nil(t, last)
}
