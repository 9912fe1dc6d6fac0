package config

import (
	"time"

	"golang-stock-newsdigest/pkg/config"
)

// Cache holds the read-through cache settings.
type Cache struct {
	TTL              time.Duration `mapstructure:"ttl"`
	CleanupInterval  time.Duration `mapstructure:"cleanup_interval"`
	DefaultNewsLimit int           `mapstructure:"default_news_limit"`
	MaxNewsLimit     int           `mapstructure:"max_news_limit"`
}

// Consumer holds the digest-update stream consumer settings.
type Consumer struct {
	Block time.Duration `mapstructure:"block"`
	Count int64         `mapstructure:"count"`
}

// Config holds the full configuration for the API service.
type Config struct {
	App      config.App      `mapstructure:"app"`
	Logger   config.Logger   `mapstructure:"logger"`
	Database config.Database `mapstructure:"database"`
	Redis    config.Redis    `mapstructure:"redis"`
	API      config.API      `mapstructure:"api"`
	Cache    Cache           `mapstructure:"cache"`
	Consumer Consumer        `mapstructure:"consumer"`
}

// Load loads the API configuration from the given path.
func Load(path string) (*Config, error) {
	config.SetDefaults(map[string]interface{}{
		"logger.level":             "info",
		"logger.encoding":          "json",
		"api.port":                 8080,
		"cache.ttl":                "5m",
		"cache.cleanup_interval":   "10m",
		"cache.default_news_limit": 20,
		"cache.max_news_limit":     100,
		"consumer.block":           "2s",
		"consumer.count":           10,
	})

	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
