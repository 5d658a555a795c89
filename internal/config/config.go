// Package config reads the service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config is populated by env.Parse; see Load.
type Config struct {
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8080"`

	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`
	// RedisURL is optional. Without it the API runs unthrottled.
	RedisURL   string `env:"REDIS_URL"`
	LedgerPath string `env:"LEDGER_PATH" envDefault:"cars.json"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	RateLimitEnabled bool `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RateLimitRPS     int  `env:"RATE_LIMIT_RPS" envDefault:"50"`
	RateLimitBurst   int  `env:"RATE_LIMIT_BURST" envDefault:"100"`

	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	CORSMaxAge         time.Duration `env:"CORS_MAX_AGE" envDefault:"24h"`

	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`
}

var (
	knownEnvs       = []string{"development", "staging", "production"}
	knownLogLevels  = []string{"debug", "info", "warn", "error"}
	knownLogFormats = []string{"json", "text"}
)

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// RateLimitActive reports whether the per-IP limiter is installed. It needs
// both the flag and a Redis URL.
func (c *Config) RateLimitActive() bool {
	return c.RateLimitEnabled && c.RedisURL != ""
}

// AllowedOrigins returns the CORS origins with blanks dropped, or nil.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range c.CORSAllowedOrigins {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Validate reports every setting that parsed but cannot be used.
func (c *Config) Validate() error {
	var errs []error
	oneOf := func(name, got string, allowed []string) {
		if !slices.Contains(allowed, got) {
			errs = append(errs, fmt.Errorf("%s must be one of %s, got %q", name, strings.Join(allowed, "|"), got))
		}
	}

	oneOf("APP_ENV", c.AppEnv, knownEnvs)
	oneOf("LOG_LEVEL", c.LogLevel, knownLogLevels)
	oneOf("LOG_FORMAT", c.LogFormat, knownLogFormats)

	if c.AppPort < 1 || c.AppPort > 65535 {
		errs = append(errs, fmt.Errorf("APP_PORT must be in 1..65535, got %d", c.AppPort))
	}
	if strings.TrimSpace(c.LedgerPath) == "" {
		errs = append(errs, errors.New("LEDGER_PATH is blank"))
	}
	if c.RateLimitActive() && (c.RateLimitRPS < 1 || c.RateLimitBurst < 1) {
		errs = append(errs, errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive when rate limiting is active"))
	}
	if c.MaxRequestBodySize < 1 {
		errs = append(errs, errors.New("MAX_REQUEST_BODY_SIZE must be positive"))
	}
	if c.CORSMaxAge < 0 {
		errs = append(errs, errors.New("CORS_MAX_AGE must not be negative"))
	}
	return errors.Join(errs...)
}

// Load parses the environment and validates the result.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
