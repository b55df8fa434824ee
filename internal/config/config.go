package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	RedisURL    string `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`

	JWTSecret string        `envconfig:"JWT_SECRET" required:"true"`
	TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"24h"`

	S3URL       string        `envconfig:"S3_URL"`
	S3AccessKey string        `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey string        `envconfig:"S3_SECRET_KEY"`
	S3Region    string        `envconfig:"S3_REGION" default:"us-east-1"`
	S3Bucket    string        `envconfig:"S3_BUCKET" default:"relyexchange"`
	PresignTTL  time.Duration `envconfig:"PRESIGN_TTL" default:"1h"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	GinMode  string `envconfig:"GIN_MODE" default:"release"`
}

// Load reads .env.local or .env when present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(".env.local"); err != nil {
		if err := godotenv.Load(); err != nil {
			slog.Debug(".env not found, using environment variables")
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("config: DATABASE_URL is required")
	}
	if len(c.JWTSecret) < 16 {
		return errors.New("config: JWT_SECRET must be at least 16 characters")
	}
	if c.TokenTTL <= 0 {
		return errors.New("config: TOKEN_TTL must be positive")
	}
	if c.PresignTTL <= 0 || c.PresignTTL > 7*24*time.Hour {
		return errors.New("config: PRESIGN_TTL must be between 1s and 7 days")
	}
	return nil
}

// BlobStoreEnabled reports whether S3 credentials were supplied.
func (c *Config) BlobStoreEnabled() bool {
	return c.S3URL != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}
