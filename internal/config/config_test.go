package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"DATABASE_URL": "postgres://localhost:5432/brewgear",
		"REDIS_URL":    "redis://localhost:6379/0",
		"JWT_SECRET":   "secret",
	})
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.HTTPAddr())
	require.Equal(t, "NZ", cfg.DefaultCountry)
	require.Equal(t, "NZD", cfg.DefaultCurrency)
	require.Equal(t, 7*24*time.Hour, cfg.CartTTL)
	require.Equal(t, "brewgear", cfg.MetricsNamespace)
}

func TestLoadMissingDatabaseURL(t *testing.T) {
	_, err := LoadForTests(map[string]string{
		"DATABASE_URL": "",
		"REDIS_URL":    "redis://localhost:6379/0",
		"JWT_SECRET":   "secret",
	})
	require.Error(t, err)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"DATABASE_URL":    "postgres://localhost:5432/brewgear",
		"REDIS_URL":       "redis://localhost:6379/0",
		"JWT_SECRET":      "secret",
		"PORT":            "9090",
		"CART_TTL":        "48h",
		"DEFAULT_COUNTRY": "AU",
		"MIN_ORDER":       "5000",
	})
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddr())
	require.Equal(t, 48*time.Hour, cfg.CartTTL)
	require.Equal(t, "AU", cfg.DefaultCountry)
	require.EqualValues(t, 5000, cfg.MinimumOrder)
}
