package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/rasulshaikhdev/techgear-hub/pkg/config"
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds all configuration for the storefront.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	// LogFile is where the terminal front end writes its log lines.
	LogFile string `env:"LOG_FILE" envDefault:"storefront.log"`

	// HTTP server
	HTTPPort    int      `env:"HTTP_PORT" envDefault:"8080"`
	CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"*" envSeparator:","`
	PprofEnable bool     `env:"PPROF_ENABLED" envDefault:"false"`

	// Persistent store
	StoreDriver string `env:"STORE_DRIVER" envDefault:"sqlite"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"data/storefront.db"`

	// Redis
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Key TTL in hours for the redis driver; 0 keeps keys forever.
	StoreTTL int `env:"STORE_TTL_HOURS" envDefault:"0"`

	// Postgres
	PostgresDSN string `env:"POSTGRES_DSN" envDefault:""`

	// Kafka; empty disables event publishing.
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"" envSeparator:","`

	// OpenTelemetry
	OTelEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTelEndpoint   string  `env:"OTEL_ENDPOINT" envDefault:"localhost:4318"`
	OTelSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	// Rate limiting per session or client IP; RPS 0 disables it.
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"20"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"40"`

	// UI timings
	DebounceMS   int `env:"DEBOUNCE_MS" envDefault:"250"`
	ToastMS      int `env:"TOAST_MS" envDefault:"3000"`
	FocusDelayMS int `env:"FOCUS_DELAY_MS" envDefault:"50"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFrom reads configuration from vars instead of the process environment.
func LoadFrom(vars map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.LoadFrom(cfg, vars); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration invariants. It is exported so command-line
// overrides can be re-checked after they are applied.
func (c *Config) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}

	switch c.StoreDriver {
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite driver")
		}
	case DriverRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis driver")
		}
	case DriverPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required for the postgres driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}

	if c.StoreTTL < 0 {
		return fmt.Errorf("invalid STORE_TTL_HOURS: %d", c.StoreTTL)
	}
	if c.OTelSampleRate < 0 || c.OTelSampleRate > 1 {
		return fmt.Errorf("invalid OTEL_SAMPLE_RATE: %v", c.OTelSampleRate)
	}
	if c.RateLimitRPS < 0 || c.RateLimitBurst < 0 {
		return fmt.Errorf("rate limit values must not be negative")
	}
	if c.DebounceMS < 0 || c.ToastMS <= 0 || c.FocusDelayMS < 0 {
		return fmt.Errorf("invalid UI timings: debounce=%d toast=%d focus=%d", c.DebounceMS, c.ToastMS, c.FocusDelayMS)
	}
	return nil
}

// IsProduction reports whether the storefront runs in production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// TTL returns the store key TTL.
func (c *Config) TTL() time.Duration {
	return time.Duration(c.StoreTTL) * time.Hour
}

// Debounce returns the catalog search quiet window.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// ToastDuration returns how long a notification stays visible.
func (c *Config) ToastDuration() time.Duration {
	return time.Duration(c.ToastMS) * time.Millisecond
}

// FocusDelay returns the delay before a dialog's first control is focused.
func (c *Config) FocusDelay() time.Duration {
	return time.Duration(c.FocusDelayMS) * time.Millisecond
}
