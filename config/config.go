package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	DatabaseURL        string        `env:"DATABASE_URL"`
	DBDriver           string        `env:"DB_DRIVER" envDefault:"postgres"`
	Port               string        `env:"PORT" envDefault:"8080"`
	GoEnv              string        `env:"GO_ENV" envDefault:"development"`
	Auth0Domain        string        `env:"AUTH0_DOMAIN"`
	Auth0Audience      string        `env:"AUTH0_AUDIENCE"`
	Auth0AdminScope    string        `env:"AUTH0_ADMIN_SCOPE"`
	AWSRegion          string        `env:"AWS_REGION" envDefault:"me-central-1"`
	AWSS3Bucket        string        `env:"AWS_S3_BUCKET"`
	AWSS3Endpoint      string        `env:"AWS_S3_ENDPOINT"`
	AWSAccessKeyID     string        `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string        `env:"AWS_SECRET_ACCESS_KEY"`
	LogLevel           string        `env:"LOG_LEVEL" envDefault:"info"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
	SignedURLTTL       time.Duration `env:"SIGNED_URL_TTL" envDefault:"1h"`
	SessionCookie      string        `env:"SESSION_COOKIE" envDefault:"ws_session"`
}

var appConfig *Config

// Load loads the configuration from environment variables
// It automatically determines which .env file to load based on GO_ENV
func Load() (*Config, error) {
	// Determine which environment file to load
	goEnv := os.Getenv("GO_ENV")
	if goEnv == "" {
		goEnv = "development"
	}

	// Try to load environment-specific file first
	envFile := fmt.Sprintf(".env.%s", goEnv)
	if err := godotenv.Load(envFile); err != nil {
		// In production, environment variables are set directly
		// so it's okay if .env files don't exist
		_ = godotenv.Load()
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	cfg.DBDriver = strings.ToLower(cfg.DBDriver)

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	appConfig = cfg
	return cfg, nil
}

// Validate checks that all required configuration values are set
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required")
		}
	case DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	if c.SignedURLTTL <= 0 {
		return fmt.Errorf("SIGNED_URL_TTL must be positive")
	}
	return nil
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// IsTest returns true if the application is running in test mode
func (c *Config) IsTest() bool {
	return c.GoEnv == "test"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// StorageEnabled reports whether an object storage bucket is configured.
func (c *Config) StorageEnabled() bool {
	return c.AWSS3Bucket != ""
}

// GetConfig returns the loaded configuration
func GetConfig() *Config {
	return appConfig
}

// SetConfig sets the configuration instance (primarily for testing)
func SetConfig(cfg *Config) {
	appConfig = cfg
}
