// Package config loads server and CLI settings from defaults, an optional TOML file
// and the environment, in that order.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Auth     AuthConfig     `toml:"auth"`
	Log      LogConfig      `toml:"log"`
	Redis    RedisConfig    `toml:"redis"`
	AMQP     AMQPConfig     `toml:"amqp"`
	Ledger   LedgerConfig   `toml:"ledger"`
}

type ServerConfig struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type AuthConfig struct {
	JWTSecret string   `toml:"jwt_secret"`
	TokenTTL  Duration `toml:"token_ttl"`
}

type LogConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // text or json
}

// RedisConfig enables the shared per-group lock when URL is set.
type RedisConfig struct {
	URL     string   `toml:"url"`
	LockTTL Duration `toml:"lock_ttl"`
}

// AMQPConfig enables ledger event publishing when URL is set.
type AMQPConfig struct {
	URL      string `toml:"url"`
	Exchange string `toml:"exchange"`
}

type LedgerConfig struct {
	DashboardConcurrency int      `toml:"dashboard_concurrency"`
	RecentExpenseLimit   int      `toml:"recent_expense_limit"`
	LockTimeout          Duration `toml:"lock_timeout"`
}

// Duration decodes TOML strings such as "30s" or "24h".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// DefaultConfig returns settings suitable for local development.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  Duration{15 * time.Second},
			WriteTimeout: Duration{15 * time.Second},
		},
		Database: DatabaseConfig{Path: "./data/chopbill.db"},
		Auth:     AuthConfig{TokenTTL: Duration{24 * time.Hour}},
		Log:      LogConfig{Level: "info", Format: "json"},
		Redis:    RedisConfig{LockTTL: Duration{10 * time.Second}},
		AMQP:     AMQPConfig{Exchange: "chopbill.ledger"},
		Ledger: LedgerConfig{
			DashboardConcurrency: 4,
			RecentExpenseLimit:   10,
			LockTimeout:          Duration{5 * time.Second},
		},
	}
}

// Load builds the configuration. path may be empty, in which case only defaults and
// the environment apply. The result is validated.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Addr = getEnv("CHOPBILL_ADDR", c.Server.Addr)
	c.Database.Path = getEnv("DB_PATH", c.Database.Path)
	c.Auth.JWTSecret = getEnv("JWT_SECRET", c.Auth.JWTSecret)
	c.Auth.TokenTTL.Duration = getEnvDuration("TOKEN_TTL", c.Auth.TokenTTL.Duration)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)
	c.Redis.URL = getEnv("REDIS_URL", c.Redis.URL)
	c.Redis.LockTTL.Duration = getEnvDuration("LOCK_TTL", c.Redis.LockTTL.Duration)
	c.AMQP.URL = getEnv("AMQP_URL", c.AMQP.URL)
	c.AMQP.Exchange = getEnv("AMQP_EXCHANGE", c.AMQP.Exchange)
	c.Ledger.DashboardConcurrency = getEnvInt("DASHBOARD_CONCURRENCY", c.Ledger.DashboardConcurrency)
	c.Ledger.RecentExpenseLimit = getEnvInt("RECENT_EXPENSE_LIMIT", c.Ledger.RecentExpenseLimit)
	c.Ledger.LockTimeout.Duration = getEnvDuration("LOCK_TIMEOUT", c.Ledger.LockTimeout.Duration)
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var problems []string

	if c.Server.Addr == "" {
		problems = append(problems, "server address cannot be empty")
	}
	if c.Database.Path == "" {
		problems = append(problems, "database path cannot be empty")
	}
	if c.Auth.TokenTTL.Duration <= 0 {
		problems = append(problems, fmt.Sprintf("invalid token ttl %v: must be positive", c.Auth.TokenTTL.Duration))
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("invalid log level '%s': must be one of [debug info warn error]", c.Log.Level))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("invalid log format '%s': must be text or json", c.Log.Format))
	}

	if c.Redis.URL != "" {
		if u, err := url.Parse(c.Redis.URL); err != nil || (u.Scheme != "redis" && u.Scheme != "rediss") {
			problems = append(problems, fmt.Sprintf("invalid redis URL '%s': scheme must be 'redis' or 'rediss'", c.Redis.URL))
		}
		if c.Redis.LockTTL.Duration <= 0 {
			problems = append(problems, fmt.Sprintf("invalid lock ttl %v: must be positive", c.Redis.LockTTL.Duration))
		} else if c.Redis.LockTTL.Duration <= c.Ledger.LockTimeout.Duration {
			problems = append(problems, fmt.Sprintf("invalid lock ttl %v: must exceed ledger lock timeout %v",
				c.Redis.LockTTL.Duration, c.Ledger.LockTimeout.Duration))
		}
	}

	if c.AMQP.URL != "" {
		if u, err := url.Parse(c.AMQP.URL); err != nil || (u.Scheme != "amqp" && u.Scheme != "amqps") {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL '%s': scheme must be 'amqp' or 'amqps'", c.AMQP.URL))
		}
		if c.AMQP.Exchange == "" {
			problems = append(problems, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
	}

	if c.Ledger.DashboardConcurrency < 1 {
		problems = append(problems, fmt.Sprintf("invalid dashboard concurrency %d: must be at least 1", c.Ledger.DashboardConcurrency))
	}
	if c.Ledger.RecentExpenseLimit < 1 {
		problems = append(problems, fmt.Sprintf("invalid recent expense limit %d: must be at least 1", c.Ledger.RecentExpenseLimit))
	}
	if c.Ledger.LockTimeout.Duration <= 0 {
		problems = append(problems, fmt.Sprintf("invalid lock timeout %v: must be positive", c.Ledger.LockTimeout.Duration))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// ErrNoJWTSecret is returned by RequireJWTSecret when no signing secret is set.
var ErrNoJWTSecret = errors.New("auth.jwt_secret (JWT_SECRET) is required")

// RequireJWTSecret fails unless a JWT secret is configured. Only binaries that verify
// or mint tokens need one.
func (c *Config) RequireJWTSecret() error {
	if c.Auth.JWTSecret == "" {
		return ErrNoJWTSecret
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
