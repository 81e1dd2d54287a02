package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("OPENAI_API_KEY", "sk-test-key")
	t.Setenv("WORKSPACE_ID", "ws-test")
}

func TestLoadConfig_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "compliance-archiver", cfg.ServiceName)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "https://api.chatgpt.com/v1", cfg.API.BaseURL)
	assert.Equal(t, "sk-test-key", cfg.API.APIKey)
	assert.Equal(t, "ws-test", cfg.API.WorkspaceID)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, BackendLocal, cfg.Storage.Backend)
	assert.Equal(t, "./downloads", cfg.Storage.OutputDir)
	assert.Equal(t, 500, cfg.Fetch.PageSize)
	assert.Equal(t, 1200*time.Millisecond, cfg.Fetch.RateLimitDelay)
	assert.Equal(t, 3, cfg.Fetch.MaxRetries)
	assert.True(t, cfg.Fetch.SmartIncremental)
	assert.Empty(t, cfg.Fetch.Users)
}

func TestLoadConfig_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("COMPLIANCE_API_BASE_URL", "https://api.example.com/v2")
	t.Setenv("API_TIMEOUT", "90s")
	t.Setenv("RATE_LIMIT_DELAY", "2s")
	t.Setenv("MAX_RETRIES", "5")
	t.Setenv("SPECIFIC_USERS", "user-a, user-b,,user-c ")
	t.Setenv("ENABLE_SMART_INCREMENTAL", "false")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com/v2", cfg.API.BaseURL)
	assert.Equal(t, 90*time.Second, cfg.API.Timeout)
	assert.Equal(t, 2*time.Second, cfg.Fetch.RateLimitDelay)
	assert.Equal(t, 5, cfg.Fetch.MaxRetries)
	assert.Equal(t, []string{"user-a", "user-b", "user-c"}, cfg.Fetch.Users)
	assert.False(t, cfg.Fetch.SmartIncremental)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfig_MinioBackend(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("STORAGE_BACKEND", "minio")
	t.Setenv("MINIO_ENDPOINT", "storage.internal:9000")
	t.Setenv("MINIO_ACCESS_KEY", "access")
	t.Setenv("MINIO_SECRET_KEY", "secret")
	t.Setenv("MINIO_SSL", "true")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, BackendMinio, cfg.Storage.Backend)
	assert.Equal(t, "storage.internal:9000", cfg.Storage.MinioEndpoint)
	assert.Equal(t, "compliance-backups", cfg.Storage.MinioBucket)
	assert.True(t, cfg.Storage.MinioUseSSL)
}

func TestLoadConfig_MissingEnvFile(t *testing.T) {
	setRequiredEnv(t)

	_, err := LoadConfig("/nonexistent/archiver.env")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config file")
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			API: APIConfig{APIKey: "sk-test", WorkspaceID: "ws-test"},
			Storage: StorageConfig{
				Backend:   BackendLocal,
				OutputDir: "./downloads",
			},
		}
	}

	tests := map[string]struct {
		mutate  func(*Config)
		wantErr string
	}{
		"valid local config": {
			mutate: func(*Config) {},
		},
		"missing API key": {
			mutate:  func(c *Config) { c.API.APIKey = "" },
			wantErr: "OPENAI_API_KEY is required",
		},
		"missing workspace ID": {
			mutate:  func(c *Config) { c.API.WorkspaceID = "" },
			wantErr: "WORKSPACE_ID is required",
		},
		"missing output dir for local backend": {
			mutate:  func(c *Config) { c.Storage.OutputDir = "" },
			wantErr: "OUTPUT_DIR is required",
		},
		"minio backend without credentials": {
			mutate: func(c *Config) {
				c.Storage.Backend = BackendMinio
			},
			wantErr: "MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required",
		},
		"minio backend with credentials": {
			mutate: func(c *Config) {
				c.Storage.Backend = BackendMinio
				c.Storage.MinioAccessKey = "access"
				c.Storage.MinioSecretKey = "secret"
			},
		},
		"unknown backend": {
			mutate:  func(c *Config) { c.Storage.Backend = "s3" },
			wantErr: "unknown storage backend",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
