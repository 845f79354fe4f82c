// Package config loads pagao settings from the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all configuration for the pagao CLI
type Config struct {
	API          APIConfig
	Cache        CacheConfig
	AssumeOnline bool
}

// APIConfig holds the remote API settings
type APIConfig struct {
	URL            string
	Token          string
	Timeout        time.Duration
	ConnectTimeout time.Duration
	RateLimit      float64 // requests per second, 0 disables limiting
	RateBurst      int
}

// CacheConfig holds the offline snapshot cache settings
type CacheConfig struct {
	Dir      string
	TTL      time.Duration
	Disabled bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cacheDir := os.Getenv("PAGAO_CACHE_DIR")
	if cacheDir == "" {
		dir, err := defaultCacheDir()
		if err != nil {
			return nil, err
		}
		cacheDir = dir
	}

	return &Config{
		API: APIConfig{
			URL:            getEnv("PAGAO_API_URL", "http://localhost:8080"),
			Token:          getEnv("PAGAO_TOKEN", ""),
			Timeout:        getDurationEnv("PAGAO_TIMEOUT", 30*time.Second),
			ConnectTimeout: getDurationEnv("PAGAO_CONNECT_TIMEOUT", 2*time.Second),
			RateLimit:      getFloatEnv("PAGAO_RATE_LIMIT", 10),
			RateBurst:      getIntEnv("PAGAO_RATE_BURST", 5),
		},
		Cache: CacheConfig{
			Dir:      cacheDir,
			TTL:      getDurationEnv("PAGAO_CACHE_TTL", 24*time.Hour),
			Disabled: getBoolEnv("PAGAO_NO_CACHE", false),
		},
		AssumeOnline: getBoolEnv("PAGAO_ASSUME_ONLINE", false),
	}, nil
}

// Validate checks that all required configuration is present and valid
func (c *Config) Validate() error {
	var errs []error

	// API
	if u, err := url.Parse(c.API.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("PAGAO_API_URL must be an http(s) URL, got %q", c.API.URL))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, errors.New("PAGAO_TIMEOUT must be positive"))
	}
	if c.API.ConnectTimeout <= 0 {
		errs = append(errs, errors.New("PAGAO_CONNECT_TIMEOUT must be positive"))
	}
	if c.API.RateLimit < 0 {
		errs = append(errs, errors.New("PAGAO_RATE_LIMIT must not be negative"))
	}
	if c.API.RateLimit > 0 && c.API.RateBurst < 1 {
		errs = append(errs, errors.New("PAGAO_RATE_BURST must be at least 1 when PAGAO_RATE_LIMIT is set"))
	}

	// Cache
	if !c.Cache.Disabled {
		if c.Cache.Dir == "" {
			errs = append(errs, errors.New("PAGAO_CACHE_DIR is required"))
		}
		if c.Cache.TTL <= 0 {
			errs = append(errs, errors.New("PAGAO_CACHE_TTL must be positive"))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func defaultCacheDir() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return "", fmt.Errorf("failed to locate a cache directory: %w", err)
		}
		dir = filepath.Join(home, ".cache")
	}
	return filepath.Join(dir, "pagao"), nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
