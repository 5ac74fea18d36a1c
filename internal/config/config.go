package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

var knownWeakSecrets = []string{
	"change-me", "dev-secret-change-me", "secret", "jwt-secret", "password",
}

type Config struct {
	Port                         int    `env:"PORT" envDefault:"3001"`
	DatabaseURL                  string `env:"DATABASE_URL,required,notEmpty"`
	RedisURL                     string `env:"REDIS_URL,required,notEmpty"`
	JWTSecret                    string `env:"JWT_SECRET,required,notEmpty"`
	JWTIssuer                    string `env:"JWT_ISSUER"`
	FrontendURL                  string `env:"FRONTEND_URL" envDefault:"http://localhost:5173"`
	LogLevel                     string `env:"LOG_LEVEL" envDefault:"info"`
	RateLimitPerWindow           int    `env:"RATE_LIMIT_PER_WINDOW" envDefault:"100"`
	RateLimitWindowMinutes       int    `env:"RATE_LIMIT_WINDOW_MINUTES" envDefault:"15"`
	UserRateLimitPerMin          int    `env:"USER_RATE_LIMIT_PER_MIN" envDefault:"60"`
	MeetingLinkBase              string `env:"MEETING_LINK_BASE" envDefault:"https://meet.google.com"`
	DeclinedRequestRetentionDays int    `env:"DECLINED_REQUEST_RETENTION_DAYS" envDefault:"30"`
	RunMigrations                bool   `env:"RUN_MIGRATIONS" envDefault:"true"`
	AppEnv                       string `env:"APP_ENV" envDefault:"development"`
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowMinutes) * time.Minute
}

func (c *Config) DeclinedRequestRetention() time.Duration {
	return time.Duration(c.DeclinedRequestRetentionDays) * 24 * time.Hour
}

func (c *Config) Validate(isProduction bool) error {
	if c.RateLimitPerWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_WINDOW must be positive")
	}
	if c.DeclinedRequestRetentionDays <= 0 {
		return fmt.Errorf("DECLINED_REQUEST_RETENTION_DAYS must be positive")
	}

	if isProduction {
		if err := validateSecret("JWT_SECRET", c.JWTSecret); err != nil {
			return err
		}
		if strings.HasPrefix(c.RedisURL, "redis://") {
			log.Warn().Msg("REDIS_URL uses redis:// (not TLS) in production: consider using rediss://")
		}
		if strings.HasPrefix(c.FrontendURL, "http://localhost") {
			log.Warn().Msg("FRONTEND_URL points at localhost in production: browser clients will be rejected by CORS")
		}
	}

	return nil
}

func validateSecret(name, value string) error {
	if len(value) < 32 {
		return fmt.Errorf("%s must be at least 32 characters in production (generate with: openssl rand -base64 32)", name)
	}
	for _, weak := range knownWeakSecrets {
		if value == weak {
			return fmt.Errorf("%s is a known weak default; set a strong secret in production", name)
		}
	}
	return nil
}

// Load reads an optional .env file and then parses the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
