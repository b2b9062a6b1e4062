// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultJWTSecret is the development placeholder used when JWT_SECRET is unset.
const DefaultJWTSecret = "dev-secret-change-in-production"

// Config holds the server settings.
type Config struct {
	Port   int
	DBPath string

	JWTSecret string
	TokenTTL  time.Duration

	LogLevel string

	// AllowedOrigins feeds the CORS handler. "*" allows any origin.
	AllowedOrigins []string

	// SupportedCurrencies always get a balance bucket, in addition to the
	// trip's base currency.
	SupportedCurrencies []string

	// StaticPath is the directory of the web client. Empty disables static serving.
	StaticPath string
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	port, err := getEnvInt("PORT", 8080)
	if err != nil {
		return nil, err
	}
	ttl, err := getEnvDuration("TOKEN_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:                port,
		DBPath:              getEnv("DB_PATH", "./data/tripwiser.db"),
		JWTSecret:           getEnv("JWT_SECRET", DefaultJWTSecret),
		TokenTTL:            ttl,
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		AllowedOrigins:      getEnvList("ALLOWED_ORIGINS", "*"),
		SupportedCurrencies: getEnvList("SUPPORTED_CURRENCIES", "JPY,USD,EUR,TWD"),
		StaticPath:          os.Getenv("STATIC_PATH"),
	}
	for i, c := range cfg.SupportedCurrencies {
		cfg.SupportedCurrencies[i] = strings.ToUpper(c)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH is required")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	if c.JWTSecret == DefaultJWTSecret {
		slog.Warn("Using default JWT secret, set JWT_SECRET in production")
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}

// getEnvList splits a comma-separated variable, dropping blanks.
func getEnvList(key, fallback string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, fallback), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
