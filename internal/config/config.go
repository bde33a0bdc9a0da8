package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	BaseURL            string
	DatabaseURL        string
	RedisURL           string
	JWTSecret          string
	CORSAllowedOrigins []string

	AccessTokenTTL time.Duration
	CartTTL        time.Duration
	CacheTTL       time.Duration
	IdempotencyTTL time.Duration

	DefaultCountry  string
	DefaultCurrency string
	MinimumOrder    int64

	DiscountApplyWindow time.Duration
	DiscountApplyMax    int
	NewsletterRateMax   int64
	NewsletterRatePer   time.Duration

	DBMaxOpenConns int
	DBMaxIdleConns int

	MetricsNamespace string
	LogFormat        string
	LogLevel         string

	TracingEnabled  bool
	TracingEndpoint string
	TracingSampling float64
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:             valueOrDefault(k.String("APP_ENV"), "development"),
		Port:               valueOrDefault(k.String("PORT"), "8080"),
		BaseURL:            valueOrDefault(k.String("BASE_URL"), "https://brewgear.co.nz"),
		DatabaseURL:        k.String("DATABASE_URL"),
		RedisURL:           k.String("REDIS_URL"),
		JWTSecret:          k.String("JWT_SECRET"),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),

		AccessTokenTTL: parseDuration(k.String("ACCESS_TOKEN_TTL"), "12h"),
		CartTTL:        parseDuration(k.String("CART_TTL"), "168h"),
		CacheTTL:       parseDuration(k.String("CACHE_TTL"), "5m"),
		IdempotencyTTL: parseDuration(k.String("IDEMPOTENCY_TTL"), "24h"),

		DefaultCountry:  valueOrDefault(k.String("DEFAULT_COUNTRY"), "NZ"),
		DefaultCurrency: valueOrDefault(k.String("DEFAULT_CURRENCY"), "NZD"),
		MinimumOrder:    k.Int64("MIN_ORDER"),

		DiscountApplyWindow: parseDuration(k.String("DISCOUNT_APPLY_WINDOW"), "1m"),
		DiscountApplyMax:    intOrDefault(k.Int("DISCOUNT_APPLY_MAX"), 10),
		NewsletterRateMax:   int64(intOrDefault(k.Int("NEWSLETTER_RATE_MAX"), 5)),
		NewsletterRatePer:   parseDuration(k.String("NEWSLETTER_RATE_PER"), "1h"),

		DBMaxOpenConns: k.Int("DB_MAX_OPEN_CONNS"),
		DBMaxIdleConns: k.Int("DB_MAX_IDLE_CONNS"),

		MetricsNamespace: valueOrDefault(k.String("OBS_METRICS_NAMESPACE"), "brewgear"),
		LogFormat:        valueOrDefault(k.String("OBS_LOG_FORMAT"), "json"),
		LogLevel:         valueOrDefault(k.String("OBS_LOG_LEVEL"), "info"),

		TracingEnabled:  parseBool(k.String("OBS_TRACING_ENABLED")),
		TracingEndpoint: strings.TrimSpace(k.String("OBS_TRACING_ENDPOINT")),
		TracingSampling: floatOrDefault(k.Float64("OBS_TRACING_SAMPLING"), 1),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func intOrDefault(value, fallback int) int {
	if value > 0 {
		return value
	}
	return fallback
}

func floatOrDefault(value, fallback float64) float64 {
	if value > 0 {
		return value
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// MustLoad behaves like Load but panics on error. Useful for tests and command entrypoints.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
