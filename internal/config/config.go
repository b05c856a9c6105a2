package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all configuration for our application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Scheduler SchedulerConfig
	Logging   LoggingConfig
	Business  BusinessConfig
	Health    HealthConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Env          string
	ReadTimeout  string
	WriteTimeout string
}

type DatabaseConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
	ConnLifetime string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type SchedulerConfig struct {
	DueSoonSpec string
	MetricsSpec string
	Timezone    string
}

type LoggingConfig struct {
	Level  string
	Format string
}

type BusinessConfig struct {
	DefaultInterestRate string
	DefaultDailyPenalty string
	DefaultCycleDays    int
	LateThresholdDays   int
	DueSoonDays         int
	ReportCacheTTL      string
}

type HealthConfig struct {
	Timeout string
}

// Load reads configuration from environment variables and files
func Load() (*Config, error) {
	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("SERVER_READ_TIMEOUT", "15s")
	viper.SetDefault("SERVER_WRITE_TIMEOUT", "15s")
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DATABASE_CONN_LIFETIME", "30m")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("DEFAULT_INTEREST_RATE", "30")
	viper.SetDefault("DEFAULT_DAILY_PENALTY", "50")
	viper.SetDefault("DEFAULT_CYCLE_DAYS", 30)
	viper.SetDefault("LATE_THRESHOLD_DAYS", 7)
	viper.SetDefault("DUE_SOON_DAYS", 3)
	viper.SetDefault("REPORT_CACHE_TTL", "10m")
	viper.SetDefault("SCHEDULER_DUE_SOON_SPEC", "0 0 8 * * *")
	viper.SetDefault("SCHEDULER_METRICS_SPEC", "0 0 0 * * *")
	viper.SetDefault("SCHEDULER_TIMEZONE", "America/Sao_Paulo")
	viper.SetDefault("HEALTH_CHECK_TIMEOUT", "5s")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read from .env file (optional)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./deployments")

	// Don't fail if .env file doesn't exist
	_ = viper.ReadInConfig()

	// The keys are flat env-style names, so the struct is populated
	// explicitly instead of unmarshalled into nested fields.
	config := &Config{
		Server: ServerConfig{
			Port:         viper.GetString("SERVER_PORT"),
			Host:         viper.GetString("SERVER_HOST"),
			Env:          viper.GetString("ENV"),
			ReadTimeout:  viper.GetString("SERVER_READ_TIMEOUT"),
			WriteTimeout: viper.GetString("SERVER_WRITE_TIMEOUT"),
		},
		Database: DatabaseConfig{
			URL:          viper.GetString("DATABASE_URL"),
			MaxOpenConns: viper.GetInt("DATABASE_MAX_OPEN_CONNS"),
			MaxIdleConns: viper.GetInt("DATABASE_MAX_IDLE_CONNS"),
			ConnLifetime: viper.GetString("DATABASE_CONN_LIFETIME"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Scheduler: SchedulerConfig{
			DueSoonSpec: viper.GetString("SCHEDULER_DUE_SOON_SPEC"),
			MetricsSpec: viper.GetString("SCHEDULER_METRICS_SPEC"),
			Timezone:    viper.GetString("SCHEDULER_TIMEZONE"),
		},
		Logging: LoggingConfig{
			Level:  viper.GetString("LOG_LEVEL"),
			Format: viper.GetString("LOG_FORMAT"),
		},
		Business: BusinessConfig{
			DefaultInterestRate: viper.GetString("DEFAULT_INTEREST_RATE"),
			DefaultDailyPenalty: viper.GetString("DEFAULT_DAILY_PENALTY"),
			DefaultCycleDays:    viper.GetInt("DEFAULT_CYCLE_DAYS"),
			LateThresholdDays:   viper.GetInt("LATE_THRESHOLD_DAYS"),
			DueSoonDays:         viper.GetInt("DUE_SOON_DAYS"),
			ReportCacheTTL:      viper.GetString("REPORT_CACHE_TTL"),
		},
		Health: HealthConfig{
			Timeout: viper.GetString("HEALTH_CHECK_TIMEOUT"),
		},
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Business.DefaultCycleDays <= 0 || c.Business.DefaultCycleDays > 365 {
		return fmt.Errorf("DEFAULT_CYCLE_DAYS must be between 1 and 365")
	}

	if c.Business.LateThresholdDays < 0 {
		return fmt.Errorf("LATE_THRESHOLD_DAYS must not be negative")
	}

	if c.Business.DueSoonDays <= 0 {
		return fmt.Errorf("DUE_SOON_DAYS must be greater than 0")
	}

	rate, err := decimal.NewFromString(c.Business.DefaultInterestRate)
	if err != nil {
		return fmt.Errorf("DEFAULT_INTEREST_RATE must be a valid decimal: %w", err)
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("DEFAULT_INTEREST_RATE must be between 0 and 100")
	}

	penalty, err := decimal.NewFromString(c.Business.DefaultDailyPenalty)
	if err != nil {
		return fmt.Errorf("DEFAULT_DAILY_PENALTY must be a valid decimal: %w", err)
	}
	if penalty.IsNegative() {
		return fmt.Errorf("DEFAULT_DAILY_PENALTY must not be negative")
	}

	if _, err := time.ParseDuration(c.Business.ReportCacheTTL); err != nil {
		return fmt.Errorf("REPORT_CACHE_TTL must be a valid duration: %w", err)
	}

	if _, err := time.ParseDuration(c.Health.Timeout); err != nil {
		return fmt.Errorf("HEALTH_CHECK_TIMEOUT must be a valid duration: %w", err)
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// GetDefaultInterestRate returns the default interest rate as decimal
func (c *Config) GetDefaultInterestRate() decimal.Decimal {
	rate, _ := decimal.NewFromString(c.Business.DefaultInterestRate)
	return rate
}

// GetDefaultDailyPenalty returns the default daily penalty as decimal
func (c *Config) GetDefaultDailyPenalty() decimal.Decimal {
	penalty, _ := decimal.NewFromString(c.Business.DefaultDailyPenalty)
	return penalty
}

// GetReportCacheTTL returns the report cache TTL as duration
func (c *Config) GetReportCacheTTL() time.Duration {
	ttl, _ := time.ParseDuration(c.Business.ReportCacheTTL)
	return ttl
}

// GetReadTimeout returns the server read timeout as duration
func (c *Config) GetReadTimeout() time.Duration {
	timeout, _ := time.ParseDuration(c.Server.ReadTimeout)
	return timeout
}

// GetWriteTimeout returns the server write timeout as duration
func (c *Config) GetWriteTimeout() time.Duration {
	timeout, _ := time.ParseDuration(c.Server.WriteTimeout)
	return timeout
}

// GetConnLifetime returns the database connection lifetime as duration
func (c *Config) GetConnLifetime() time.Duration {
	lifetime, _ := time.ParseDuration(c.Database.ConnLifetime)
	return lifetime
}

// GetHealthTimeout returns the health check timeout as duration
func (c *Config) GetHealthTimeout() time.Duration {
	timeout, _ := time.ParseDuration(c.Health.Timeout)
	return timeout
}
