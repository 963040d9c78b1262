package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type Config struct {
	MCPE    MCPEConfig
	Payment PaymentConfig
	Server  ServerConfig
	Redis   RedisConfig
	Auth    AuthConfig
	Log     LogConfig
}

type MCPEConfig struct {
	InstID         string
	AccountID      string
	URL            string
	Environment    string
	TestMode       int
	Timeout        time.Duration
	BreakerEnabled bool
}

type PaymentConfig struct {
	DefaultCurrency string
	PayoutSecret    string
}

type ServerConfig struct {
	Port        string
	MetricsPort string
}

// RedisConfig with an empty URL disables rate limiting.
type RedisConfig struct {
	URL string
}

type AuthConfig struct {
	JWTSecret      string
	JWTIssuer      string
	InternalSecret string
}

type LogConfig struct {
	Level zerolog.Level
}

const (
	EnvironmentProduction = "production"
	EnvironmentSandbox    = "sandbox"
)

var ErrMissingRequired = errors.New("missing required configuration")

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// a missing .env file is normal outside development
	_ = godotenv.Load()

	var missing []string
	required := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}

	cfg := &Config{
		MCPE: MCPEConfig{
			InstID:      required("MCPE_INST_ID"),
			AccountID:   os.Getenv("MCPE_ACCOUNT_ID"),
			URL:         getEnv("MCPE_URL", "https://secure.metacharge.com/mcpe/corporate"),
			Environment: strings.ToLower(getEnv("MCPE_ENVIRONMENT", EnvironmentSandbox)),
		},
		Payment: PaymentConfig{
			DefaultCurrency: strings.ToUpper(getEnv("MCPE_DEFAULT_CURRENCY", "GBP")),
			PayoutSecret:    os.Getenv("MCPE_PAYOUT_SECRET"),
		},
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			MetricsPort: os.Getenv("METRICS_PORT"),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		Auth: AuthConfig{
			JWTSecret:      required("JWT_SECRET"),
			JWTIssuer:      getEnv("JWT_ISSUER", "mcpe-gateway-api"),
			InternalSecret: required("INTERNAL_API_SECRET"),
		},
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequired, strings.Join(missing, ", "))
	}

	switch cfg.MCPE.Environment {
	case EnvironmentProduction:
		cfg.MCPE.TestMode = 0
	case EnvironmentSandbox:
		cfg.MCPE.TestMode = 1
	default:
		return nil, fmt.Errorf("MCPE_ENVIRONMENT must be %q or %q, got %q", EnvironmentProduction, EnvironmentSandbox, cfg.MCPE.Environment)
	}

	if v := os.Getenv("MCPE_TEST_MODE"); v != "" {
		mode, err := strconv.Atoi(v)
		if err != nil || mode < 0 || mode > 2 {
			return nil, fmt.Errorf("MCPE_TEST_MODE must be 0, 1 or 2, got %q", v)
		}
		cfg.MCPE.TestMode = mode
	}

	timeout, err := time.ParseDuration(getEnv("MCPE_TIMEOUT", "30s"))
	if err != nil || timeout <= 0 {
		return nil, fmt.Errorf("invalid MCPE_TIMEOUT: %q", os.Getenv("MCPE_TIMEOUT"))
	}
	cfg.MCPE.Timeout = timeout

	breaker, err := strconv.ParseBool(getEnv("MCPE_BREAKER_ENABLED", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid MCPE_BREAKER_ENABLED: %w", err)
	}
	cfg.MCPE.BreakerEnabled = breaker

	level, err := zerolog.ParseLevel(strings.ToLower(getEnv("LOG_LEVEL", "info")))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	cfg.Log.Level = level

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
