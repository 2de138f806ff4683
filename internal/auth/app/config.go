package app

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	StoreDriverSQLite = "sqlite"
	StoreDriverS3     = "s3"
)

type Config struct {
	Env                  string        `env:"ENV" envDefault:"dev"`                    // Environment (dev, staging, prod)
	LogLevel             string        `env:"LOG_LEVEL" envDefault:"info"`             // Log level (debug, info, warn, error)
	LogFormat            string        `env:"LOG_FORMAT" envDefault:"json"`            // Log format (json, text)
	Port                 int           `env:"PORT" envDefault:"8080"`                  // HTTP server port
	ShutdownGracePeriod  time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`  // Graceful shutdown timeout
	HousekeepingInterval time.Duration `env:"HOUSEKEEPING_INTERVAL" envDefault:"1h"`   // Expired token sweep interval
	TokenLifetime        time.Duration `env:"AUTH_TOKEN_LIFETIME" envDefault:"5h"`     // Lifetime of issued tokens
	StoreDriver          string        `env:"AUTH_STORE_DRIVER" envDefault:"sqlite"`   // Store backend (sqlite, s3)
	DatabaseFile         string        `env:"AUTH_DATABASE_FILE" envDefault:"auth.db"` // Path to SQLite database file

	S3 S3Config `envPrefix:"AUTH_S3_"`
}

// S3Config is only read when StoreDriver is "s3".
type S3Config struct {
	Endpoint         string `env:"ENDPOINT"`
	Region           string `env:"REGION" envDefault:"us-east-1"`
	Bucket           string `env:"BUCKET"`
	Prefix           string `env:"PREFIX"`
	AccessKeyID      string `env:"ACCESS_KEY_ID"`
	SecretAccessKey  string `env:"SECRET_ACCESS_KEY"`
	UsePathStyle     bool   `env:"USE_PATH_STYLE"`
	MaxRetryAttempts int    `env:"MAX_RETRY_ATTEMPTS" envDefault:"3"`
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.StoreDriver {
	case StoreDriverSQLite:
		if c.DatabaseFile == "" {
			return fmt.Errorf("AUTH_DATABASE_FILE is required for the sqlite store")
		}
	case StoreDriverS3:
		if c.S3.Bucket == "" {
			return fmt.Errorf("AUTH_S3_BUCKET is required for the s3 store")
		}
	default:
		return fmt.Errorf("unknown AUTH_STORE_DRIVER %q", c.StoreDriver)
	}
	if c.TokenLifetime <= 0 {
		return fmt.Errorf("AUTH_TOKEN_LIFETIME must be positive, got %s", c.TokenLifetime)
	}
	return nil
}
