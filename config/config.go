// ABOUTME: This file handles configuration management for the compliance archiver
// ABOUTME: Loads environment variables and validates settings for API and storage access

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backend selectors.
const (
	BackendLocal = "local"
	BackendMinio = "minio"
)

// Config holds all configuration for the compliance archiver.
type Config struct {
	// Service configuration
	ServiceName string
	LogLevel    string

	// Compliance API configuration
	API APIConfig

	// Storage configuration
	Storage StorageConfig

	// Fetch behavior configuration
	Fetch FetchConfig
}

// APIConfig holds compliance export API settings.
type APIConfig struct {
	BaseURL     string
	APIKey      string
	WorkspaceID string
	Timeout     time.Duration
}

// StorageConfig holds storage backend settings.
type StorageConfig struct {
	Backend   string
	OutputDir string

	// S3-compatible backend settings, used when Backend is "minio".
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
}

// FetchConfig holds pacing and retry settings for the listing loop.
type FetchConfig struct {
	PageSize         int
	RateLimitDelay   time.Duration
	MaxRetries       int
	Users            []string
	SmartIncremental bool
}

// LoadConfig loads configuration from the environment. When envFile is
// non-empty it is loaded first without overriding variables already set in
// the process environment.
func LoadConfig(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", envFile, err)
		}
	}

	cfg := &Config{
		ServiceName: getEnvOrDefault("SERVICE_NAME", "compliance-archiver"),
		LogLevel:    getEnvOrDefault("LOG_LEVEL", "info"),

		API: APIConfig{
			BaseURL:     getEnvOrDefault("COMPLIANCE_API_BASE_URL", "https://api.chatgpt.com/v1"),
			APIKey:      os.Getenv("OPENAI_API_KEY"), // Required from secret
			WorkspaceID: os.Getenv("WORKSPACE_ID"),   // Required
			Timeout:     30 * time.Second,
		},

		Storage: StorageConfig{
			Backend:        getEnvOrDefault("STORAGE_BACKEND", BackendLocal),
			OutputDir:      getEnvOrDefault("OUTPUT_DIR", "./downloads"),
			MinioEndpoint:  getEnvOrDefault("MINIO_ENDPOINT", "minio:9000"),
			MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
			MinioBucket:    getEnvOrDefault("MINIO_BUCKET", "compliance-backups"),
			MinioUseSSL:    strings.EqualFold(getEnvOrDefault("MINIO_SSL", "false"), "true"),
		},

		Fetch: FetchConfig{
			PageSize:         500,
			RateLimitDelay:   1200 * time.Millisecond,
			MaxRetries:       3,
			SmartIncremental: !strings.EqualFold(getEnvOrDefault("ENABLE_SMART_INCREMENTAL", "true"), "false"),
		},
	}

	if timeout := os.Getenv("API_TIMEOUT"); timeout != "" {
		if duration, err := time.ParseDuration(timeout); err == nil {
			cfg.API.Timeout = duration
		}
	}

	if delay := os.Getenv("RATE_LIMIT_DELAY"); delay != "" {
		if duration, err := time.ParseDuration(delay); err == nil {
			cfg.Fetch.RateLimitDelay = duration
		}
	}

	if retries := os.Getenv("MAX_RETRIES"); retries != "" {
		if val, err := strconv.Atoi(retries); err == nil && val >= 0 {
			cfg.Fetch.MaxRetries = val
		}
	}

	if users := os.Getenv("SPECIFIC_USERS"); users != "" {
		for _, user := range strings.Split(users, ",") {
			if user = strings.TrimSpace(user); user != "" {
				cfg.Fetch.Users = append(cfg.Fetch.Users, user)
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.API.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}

	if c.API.WorkspaceID == "" {
		return fmt.Errorf("WORKSPACE_ID is required")
	}

	switch c.Storage.Backend {
	case BackendLocal:
		if c.Storage.OutputDir == "" {
			return fmt.Errorf("OUTPUT_DIR is required for the local backend")
		}
	case BackendMinio:
		if c.Storage.MinioAccessKey == "" || c.Storage.MinioSecretKey == "" {
			return fmt.Errorf("MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required for the minio backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q (expected %q or %q)", c.Storage.Backend, BackendLocal, BackendMinio)
	}

	return nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
