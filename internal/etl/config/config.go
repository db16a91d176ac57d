package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang-market-etl/pkg/common"
	"golang-market-etl/pkg/config"
	"golang-market-etl/pkg/database"

	"github.com/robfig/cron/v3"
)

// ETL holds pipeline settings.
type ETL struct {
	RawDir     string `mapstructure:"raw_dir"`
	ChunkSize  int    `mapstructure:"chunk_size"`
	Schedule   string `mapstructure:"schedule"`
	RunOnStart bool   `mapstructure:"run_on_start"`
}

// Redis extends the shared Redis settings with the run lock TTL.
type Redis struct {
	config.Redis `mapstructure:",squash"`
	LockTTL      string `mapstructure:"lock_ttl"`
}

// Enabled reports whether a Redis host is configured.
func (r Redis) Enabled() bool {
	return r.Host != ""
}

// LockTTLDuration parses LockTTL, defaulting to one hour.
func (r Redis) LockTTLDuration() time.Duration {
	d, err := time.ParseDuration(r.LockTTL)
	if err != nil || d <= 0 {
		return time.Hour
	}
	return d
}

// Config holds the full configuration for the ETL service.
type Config struct {
	App      config.App      `mapstructure:"app"`
	Logger   config.Logger   `mapstructure:"logger"`
	Database config.Database `mapstructure:"database"`
	ETL      ETL             `mapstructure:"etl"`
	Redis    Redis           `mapstructure:"redis"`
	Telegram config.Telegram `mapstructure:"telegram"`
}

// Load loads the ETL configuration from the given path and validates it.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.ETL.ChunkSize == 0 {
		c.ETL.ChunkSize = common.DefaultChunkSize
	}
	if c.ETL.Schedule == "" {
		c.ETL.Schedule = common.DefaultSchedule
	}
	if c.Database.Driver == "" {
		c.Database.Driver = database.DriverMySQL
	}
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	var errs []error

	switch strings.ToLower(c.Database.Driver) {
	case database.DriverMySQL, database.DriverPostgres:
		if c.Database.Host == "" {
			errs = append(errs, errors.New("database.host is required"))
		}
		if c.Database.User == "" {
			errs = append(errs, errors.New("database.user is required"))
		}
		if c.Database.DBName == "" {
			errs = append(errs, errors.New("database.name is required"))
		}
	case database.DriverSQLite:
		if c.Database.DBName == "" {
			errs = append(errs, errors.New("database.name is required"))
		}
	default:
		errs = append(errs, fmt.Errorf("database.driver %q is not supported", c.Database.Driver))
	}

	if c.ETL.RawDir == "" {
		errs = append(errs, errors.New("etl.raw_dir is required"))
	}
	if c.ETL.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("etl.chunk_size must be positive, got %d", c.ETL.ChunkSize))
	}
	if _, err := cron.ParseStandard(c.ETL.Schedule); err != nil {
		errs = append(errs, fmt.Errorf("etl.schedule %q: %w", c.ETL.Schedule, err))
	}
	if c.Redis.LockTTL != "" {
		if _, err := time.ParseDuration(c.Redis.LockTTL); err != nil {
			errs = append(errs, fmt.Errorf("redis.lock_ttl %q: %w", c.Redis.LockTTL, err))
		}
	}

	return errors.Join(errs...)
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
