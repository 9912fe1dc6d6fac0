package config

import (
	"time"

	"golang-stock-newsdigest/pkg/common"
	"golang-stock-newsdigest/pkg/config"
)

// Ingestion holds batch-ingestion settings.
type Ingestion struct {
	MaxNewsItems    int           `mapstructure:"max_news_items"`
	MaxEvents       int           `mapstructure:"max_events"`
	Delay           time.Duration `mapstructure:"delay"`
	MaxSecurities   int           `mapstructure:"max_securities"`
	SkipCleanup     bool          `mapstructure:"skip_cleanup"`
	CronExpression  string        `mapstructure:"cron_expression"`
	LockTTL         time.Duration `mapstructure:"lock_ttl"`
	ResolveFavicons bool          `mapstructure:"resolve_favicons"`
	FaviconCacheTTL time.Duration `mapstructure:"favicon_cache_ttl"`
	NotifyTelegram  bool          `mapstructure:"notify_telegram"`
}

// Gemini holds the configuration for the Gemini API.
type Gemini struct {
	APIKey              string        `mapstructure:"api_key"`
	Model               string        `mapstructure:"model"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	Timeout             time.Duration `mapstructure:"timeout"`
}

// Config holds the full configuration for the ingestion service.
type Config struct {
	App       config.App      `mapstructure:"app"`
	Logger    config.Logger   `mapstructure:"logger"`
	Database  config.Database `mapstructure:"database"`
	Redis     config.Redis    `mapstructure:"redis"`
	Ingestion Ingestion       `mapstructure:"ingestion"`
	Gemini    Gemini          `mapstructure:"gemini"`
	Telegram  config.Telegram `mapstructure:"telegram"`
}

// Load loads the ingestion configuration from the given path.
func Load(path string) (*Config, error) {
	config.SetDefaults(map[string]interface{}{
		"logger.level":                  "info",
		"logger.encoding":               "json",
		"redis.stream_max_len":          1000,
		"ingestion.max_news_items":      common.DefaultMaxNewsItemsPerSecurity,
		"ingestion.max_events":          common.DefaultMaxUpcomingEventsPerSecurity,
		"ingestion.delay":               "2s",
		"ingestion.cron_expression":     "0 6 * * *",
		"ingestion.lock_ttl":            "1h",
		"ingestion.resolve_favicons":    true,
		"ingestion.favicon_cache_ttl":   "24h",
		"gemini.model":                  "gemini-2.5-flash",
		"gemini.max_request_per_minute": 10,
		"gemini.timeout":                "3m",
	})

	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
