package config

import (
	"fmt"
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// CORS configuration
	CORS CORSConfig

	// Security configuration (payroll / expenses unlock tokens)
	Security SecurityConfig

	// Background jobs
	Jobs JobsConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string        `env:"PORT" env-default:"3000"`
	Environment     string        `env:"ENVIRONMENT" env-default:"development"` // development, production
	LogLevel        string        `env:"LOG_LEVEL" env-default:"info"`          // debug, info, warn, error
	StaticDir       string        `env:"STATIC_DIR"`                            // optional web UI directory
	MetricsEnabled  bool          `env:"METRICS_ENABLED" env-default:"true"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Path          string `env:"DATABASE_PATH" env-default:"data/staff.db"`
	BusyTimeoutMS int    `env:"DATABASE_BUSY_TIMEOUT_MS" env-default:"5000"`
}

// CORSConfig holds CORS-related configuration
type CORSConfig struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"*"`
	AllowedMethods []string `env:"CORS_ALLOWED_METHODS" env-separator:"," env-default:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders []string `env:"CORS_ALLOWED_HEADERS" env-separator:"," env-default:"Content-Type,Authorization"`
}

// SecurityConfig holds unlock token configuration
type SecurityConfig struct {
	UnlockRequired    bool          `env:"UNLOCK_REQUIRED" env-default:"true"`
	UnlockTokenSecret string        `env:"UNLOCK_TOKEN_SECRET"`
	UnlockTokenTTL    time.Duration `env:"UNLOCK_TOKEN_TTL" env-default:"30m"`

	// Failed password/PIN checks allowed per client within the window, 0 disables throttling
	MaxUnlockAttempts   int           `env:"MAX_UNLOCK_ATTEMPTS" env-default:"5"`
	UnlockAttemptWindow time.Duration `env:"UNLOCK_ATTEMPT_WINDOW" env-default:"15m"`
}

// JobsConfig holds cron schedules. An empty schedule disables the job.
type JobsConfig struct {
	DailyReportSchedule   string `env:"DAILY_REPORT_SCHEDULE" env-default:"0 55 23 * * *"`
	UnlockCleanupSchedule string `env:"UNLOCK_CLEANUP_SCHEDULE" env-default:"0 0 * * * *"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{}
	if err := cleanenv.ReadEnv(config); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}

	if c.Database.BusyTimeoutMS < 0 {
		return fmt.Errorf("DATABASE_BUSY_TIMEOUT_MS must not be negative")
	}

	if c.Security.UnlockRequired && c.Security.UnlockTokenSecret == "" {
		return fmt.Errorf("UNLOCK_TOKEN_SECRET is required when UNLOCK_REQUIRED is true")
	}

	if c.Security.UnlockTokenTTL <= 0 {
		return fmt.Errorf("UNLOCK_TOKEN_TTL must be positive")
	}

	if c.Security.MaxUnlockAttempts < 0 {
		return fmt.Errorf("MAX_UNLOCK_ATTEMPTS must not be negative")
	}

	if c.Security.MaxUnlockAttempts > 0 && c.Security.UnlockAttemptWindow <= 0 {
		return fmt.Errorf("UNLOCK_ATTEMPT_WINDOW must be positive when MAX_UNLOCK_ATTEMPTS is set")
	}

	return nil
}
