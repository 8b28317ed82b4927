package config

import (
	"fmt"
	"strings"
	"time"

	"ecogrow/internal/logger"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Settlement modes for the marketplace buy flow.
const (
	SettlementSequential = "sequential"
	SettlementAtomic     = "atomic"
)

type Config struct {
	AppPort    string `envconfig:"APP_PORT" default:"8080"`
	AppVersion string `envconfig:"APP_VERSION" default:"dev"`
	DevMode    bool   `envconfig:"DEV_MODE" default:"false"`

	DatabaseURL string `envconfig:"DATABASE_URL"`

	JWTSecret string        `envconfig:"JWT_SECRET"`
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"24h"`

	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	APIRateLimit   int           `envconfig:"API_RATE_LIMIT" default:"60"`
	APIRateWindow  time.Duration `envconfig:"API_RATE_WINDOW" default:"1m"`
	ScanRateLimit  int           `envconfig:"SCAN_RATE_LIMIT" default:"10"`
	ScanRateWindow time.Duration `envconfig:"SCAN_RATE_WINDOW" default:"1m"`

	ScanMaxImageBytes   int64  `envconfig:"SCAN_MAX_IMAGE_BYTES" default:"10485760"`
	OrderSettlementMode string `envconfig:"ORDER_SETTLEMENT_MODE" default:"sequential"`

	AllowedOrigin string `envconfig:"ALLOWED_ORIGIN"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
}

// Parse reads the environment into a Config and validates it. It does not
// load .env files and never exits, so it is safe to call from tests.
func Parse() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is not set")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is not set")
	}
	c.OrderSettlementMode = strings.ToLower(strings.TrimSpace(c.OrderSettlementMode))
	switch c.OrderSettlementMode {
	case SettlementSequential, SettlementAtomic:
	default:
		return fmt.Errorf("ORDER_SETTLEMENT_MODE must be %q or %q, got %q",
			SettlementSequential, SettlementAtomic, c.OrderSettlementMode)
	}
	if c.ScanMaxImageBytes <= 0 {
		return fmt.Errorf("SCAN_MAX_IMAGE_BYTES must be positive")
	}
	return nil
}

// Load reads .env (if present) and the environment, exiting on invalid config.
func Load() *Config {
	_ = godotenv.Load()

	cfg, err := Parse()
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}
	return cfg
}

// RedisEnabled reports whether a Redis address was configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}
