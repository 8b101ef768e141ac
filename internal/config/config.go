package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

var (
	ErrMissingBaseURL = errors.New("TRAVEL_API_BASE_URL is required")
	ErrInvalidRetries = errors.New("SEARCH_MAX_RETRIES must be non-negative")
)

type Config struct {
	API    APIConfig
	Log    LogConfig
	Search SearchConfig
}

type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type LogConfig struct {
	Level string
}

// SearchConfig - параметры ретраев оркестратора.
// RetryDelay - фиксированная задержка между повторами после transient-ошибки.
type SearchConfig struct {
	MaxRetries int
	RetryDelay time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		API: APIConfig{
			BaseURL: os.Getenv("TRAVEL_API_BASE_URL"),
			Timeout: time.Duration(getEnvIntOrDefault("TRAVEL_API_TIMEOUT_SEC", 30)) * time.Second,
		},
		Log: LogConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "info"),
		},
		Search: SearchConfig{
			MaxRetries: getEnvIntOrDefault("SEARCH_MAX_RETRIES", 2),
			RetryDelay: time.Duration(getEnvIntOrDefault("SEARCH_RETRY_DELAY_MS", 2000)) * time.Millisecond,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return ErrMissingBaseURL
	}
	if c.Search.MaxRetries < 0 {
		return ErrInvalidRetries
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
