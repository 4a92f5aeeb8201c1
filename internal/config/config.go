package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	// Refresh trigger
	RefreshSecret string `envconfig:"REFRESH_SECRET" required:"true"`

	// NBA Stats API
	NBAStatsBaseURL string        `envconfig:"NBA_STATS_BASE_URL" default:"https://stats.nba.com/stats"`
	NBAStatsTimeout time.Duration `envconfig:"NBA_STATS_TIMEOUT" default:"30s"`
	Season          string        `envconfig:"SEASON" default:"2024-25"`
	SeasonType      string        `envconfig:"SEASON_TYPE" default:"Regular Season"`
	LeaderLimit     int           `envconfig:"LEADER_LIMIT" default:"100"`
	PacingDelay     time.Duration `envconfig:"PACING_DELAY" default:"200ms"`

	// Redis
	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// Snapshot
	SnapshotKey string `envconfig:"SNAPSHOT_KEY" default:"nba:player_stats"`

	// Application
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// HTTP
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Scheduler
	EnableScheduler       bool   `envconfig:"ENABLE_SCHEDULER" default:"true"`
	RefreshCron           string `envconfig:"REFRESH_CRON" default:"0 6 * * *"`
	InitialRefreshEnabled bool   `envconfig:"INITIAL_REFRESH_ENABLED" default:"false"`

	// Monitoring
	EnableMetrics bool `envconfig:"ENABLE_METRICS" default:"true"`
	MetricsPort   int  `envconfig:"METRICS_PORT" default:"9090"`
}

// Load loads configuration from environment variables
// It first attempts to load from .env file if in development mode
func Load() (*Config, error) {
	// Try to load .env file (ignore error if doesn't exist)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.RefreshSecret == "" {
		return fmt.Errorf("REFRESH_SECRET is required")
	}

	if c.RefreshSecret == "change_me" && c.AppEnv == "production" {
		return fmt.Errorf("REFRESH_SECRET must be changed in production")
	}

	if c.LeaderLimit <= 0 {
		return fmt.Errorf("LEADER_LIMIT must be positive")
	}

	return nil
}

// RedisAddr returns the Redis address
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// MustLoad loads configuration or panics on error
// Use this in main() where we want to fail fast
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
