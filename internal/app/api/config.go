package api

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"go.temporal.io/sdk/client"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port               string
	LogLevel           string
	Environment        string
	PostgresDSN        string
	SeedSampleRecipes  bool
	TemporalAddress    string
	TemporalNamespace  string
	TemporalDisabled   bool
	RateLimitRPS       float64
	RateLimitBurst     int
	RateLimitKeyHeader string
	RedisAddr          string
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:               envDefault("PORT", "8080"),
		LogLevel:           envDefault("LOG_LEVEL", "info"),
		Environment:        envDefault("ENVIRONMENT", "local"),
		PostgresDSN:        strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		SeedSampleRecipes:  isTruthy(os.Getenv("SEED_SAMPLE_RECIPES")),
		TemporalAddress:    envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace:  envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:   isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		RateLimitBurst:     20,
		RateLimitKeyHeader: strings.TrimSpace(os.Getenv("RATE_LIMIT_KEY_HEADER")),
		RedisAddr:          strings.TrimSpace(os.Getenv("REDIS_ADDR")),
	}
	if port, err := strconv.Atoi(cfg.Port); err != nil || port <= 0 || port > 65535 {
		return Config{}, fmt.Errorf("PORT must be a valid TCP port, got %q", cfg.Port)
	}
	if raw := strings.TrimSpace(os.Getenv("RATE_LIMIT_RPS")); raw != "" {
		rps, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(rps) || math.IsInf(rps, 0) || rps < 0 {
			return Config{}, fmt.Errorf("RATE_LIMIT_RPS must be a finite non-negative number")
		}
		cfg.RateLimitRPS = rps
	}
	if raw := strings.TrimSpace(os.Getenv("RATE_LIMIT_BURST")); raw != "" {
		burst, err := strconv.Atoi(raw)
		if err != nil || burst <= 0 {
			return Config{}, fmt.Errorf("RATE_LIMIT_BURST must be a positive integer")
		}
		cfg.RateLimitBurst = burst
	}
	return cfg, nil
}

// Addr is the listen address derived from Port.
func (c Config) Addr() string {
	return ":" + c.Port
}

// RateLimitEnabled reports whether the per-client limiter should be installed.
func (c Config) RateLimitEnabled() bool {
	return c.RateLimitRPS > 0
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
