package config

import (
	"time"

	"golang-market-etl/pkg/config"
	"golang-market-etl/pkg/database"
)

// Cache holds response cache settings.
type Cache struct {
	TTL             string `mapstructure:"ttl"`
	CleanupInterval string `mapstructure:"cleanup_interval"`
}

// Durations parses the cache settings, falling back to 5m and 10m.
func (c Cache) Durations() (ttl, cleanup time.Duration) {
	ttl, cleanup = 5*time.Minute, 10*time.Minute
	if d, err := time.ParseDuration(c.TTL); err == nil && d > 0 {
		ttl = d
	}
	if d, err := time.ParseDuration(c.CleanupInterval); err == nil && d > 0 {
		cleanup = d
	}
	return ttl, cleanup
}

// Config holds the full configuration for the API service.
type Config struct {
	App      config.App      `mapstructure:"app"`
	Logger   config.Logger   `mapstructure:"logger"`
	Database config.Database `mapstructure:"database"`
	API      config.API      `mapstructure:"api"`
	Cache    Cache           `mapstructure:"cache"`
}

// Load loads the API configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	if cfg.API.Port == 0 {
		cfg.API.Port = 8080
	}
	return &cfg, nil
}

// DatabaseConfig converts the database section for pkg/database.
func (c *Config) DatabaseConfig() database.Config {
	return database.Config{
		Driver:          c.Database.Driver,
		Host:            c.Database.Host,
		Port:            c.Database.Port,
		User:            c.Database.User,
		Password:        c.Database.Password,
		DBName:          c.Database.DBName,
		SSLMode:         c.Database.SSLMode,
		TimeZone:        c.Database.TimeZone,
		MaxIdleConns:    c.Database.MaxIdleConns,
		MaxOpenConns:    c.Database.MaxOpenConns,
		ConnMaxLifetime: c.Database.ConnMaxLifetime,
		LogLevel:        c.Database.LogLevel,
	}
}
