package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  name: "ingestion-test"
ingestion:
  max_news_items: 7
  cron_expression: "@daily"
gemini:
  model: "gemini-test"
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "ingestion-test", cfg.App.Name)
	assert.Equal(t, 7, cfg.Ingestion.MaxNewsItems)
	assert.Equal(t, "@daily", cfg.Ingestion.CronExpression)
	assert.Equal(t, "gemini-test", cfg.Gemini.Model)

	// unset keys fall back to defaults
	assert.Equal(t, 20, cfg.Ingestion.MaxEvents)
	assert.Equal(t, 2*time.Second, cfg.Ingestion.Delay)
	assert.Equal(t, time.Hour, cfg.Ingestion.LockTTL)
	assert.Equal(t, 10, cfg.Gemini.MaxRequestPerMinute)
}
