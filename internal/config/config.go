package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Config holds runtime configuration parsed from environment variables.
type Config struct {
	HTTPAddr              string
	ShutdownTimeout       time.Duration
	PreviewBaseURL        string
	FreeShippingThreshold decimal.Decimal
	Currency              string
	CORSAllowedOrigins    []string
	CatalogDir            string
	CartIdleTTL           time.Duration
	LogLevel              string
}

// FromEnv builds Config with defaults, overridden by environment variables.
func FromEnv() Config {
	return Config{
		HTTPAddr:              envOrDefault("HTTP_ADDR", ":8080"),
		ShutdownTimeout:       envDuration("SHUTDOWN_TIMEOUT_SECONDS", 10*time.Second),
		PreviewBaseURL:        envOrDefault("PREVIEW_BASE_URL", "https://cdn.bottlecraft.example/composites/"),
		FreeShippingThreshold: envDecimal("FREE_SHIPPING_THRESHOLD", decimal.NewFromInt(75)),
		Currency:              envOrDefault("CURRENCY", "USD"),
		CORSAllowedOrigins:    envList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		CatalogDir:            envOrDefault("CATALOG_DIR", ""),
		CartIdleTTL:           envDuration("CART_IDLE_TTL_SECONDS", 24*time.Hour),
		LogLevel:              envOrDefault("LOG_LEVEL", "info"),
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		seconds, err := strconv.Atoi(v)
		if err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return def
}

func envDecimal(key string, def decimal.Decimal) decimal.Decimal {
	if v := os.Getenv(key); v != "" {
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err == nil && !d.IsNegative() {
			return d
		}
	}
	return def
}

func envList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
