package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Port:             "5000",
		ShutdownTimeout:  time.Second,
		ProfileDir:       "./data/profile",
		ChatTopK:         5,
		Storage:          StorageConfig{Backend: BackendSQLite, DataDir: "./data"},
		RateLimit:        RateLimitConfig{ChatBurst: 10, ChatRefill: 1, ContactBurst: 2, ContactRefill: 0.1},
		SentrySampleRate: 1,
	}
}

func TestLoad_Defaults(t *testing.T) {
	// t.Setenv forbids t.Parallel.
	t.Setenv(EnvPort, "")
	t.Setenv(EnvStorageBackend, "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, GracefulShutdown, cfg.ShutdownTimeout)
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, 5, cfg.ChatTopK)
	assert.Equal(t, 20, cfg.RateLimit.ContactDaily)
	assert.False(t, cfg.R2.Enabled)
	assert.Equal(t, "prometheus", cfg.MetricsUsername)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv(EnvPort, "8080")
	t.Setenv(EnvStorageBackend, "CSV")
	t.Setenv(EnvDataDir, "/tmp/portfolio")
	t.Setenv(EnvChatTopK, "3")
	t.Setenv(EnvShutdownTimeout, "5s")
	t.Setenv(EnvContactRateRefill, "0.5")
	t.Setenv(EnvRateLimiterDisabled, "true")
	t.Setenv(EnvAdminPassword, "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, BackendCSV, cfg.Storage.Backend)
	assert.Equal(t, "/tmp/portfolio/messages.csv", cfg.Storage.CSVPath())
	assert.Equal(t, "/tmp/portfolio/messages.db", cfg.Storage.SQLitePath())
	assert.Equal(t, 3, cfg.ChatTopK)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.InDelta(t, 0.5, cfg.RateLimit.ContactRefill, 1e-9)
	assert.True(t, cfg.RateLimit.Disabled)
	assert.True(t, cfg.AdminEnabled())
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	t.Setenv(EnvChatTopK, "many")
	t.Setenv(EnvShutdownTimeout, "soon")
	t.Setenv(EnvR2Enabled, "perhaps")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.ChatTopK)
	assert.Equal(t, GracefulShutdown, cfg.ShutdownTimeout)
	assert.False(t, cfg.R2.Enabled)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv(EnvStorageBackend, "postgres")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvStorageBackend)
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing port", func(c *Config) { c.Port = "" }, EnvPort},
		{"zero top k", func(c *Config) { c.ChatTopK = 0 }, EnvChatTopK},
		{"mongo without uri", func(c *Config) { c.Storage.Backend = BackendMongo }, EnvMongoURI},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "redis" }, "redis"},
		{"bad chat limit", func(c *Config) { c.RateLimit.ChatRefill = 0 }, "chat rate limit"},
		{"disabled limits skip checks", func(c *Config) {
			c.RateLimit = RateLimitConfig{Disabled: true}
		}, ""},
		{"r2 missing bucket", func(c *Config) {
			c.R2 = R2Config{Enabled: true, AccountID: "a", AccessKeyID: "k", SecretAccessKey: "s"}
		}, EnvR2BucketName},
		{"sample rate out of range", func(c *Config) { c.SentrySampleRate = 2 }, EnvSentrySampleRate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_JoinsErrors(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Port = ""
	cfg.ChatTopK = -1
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvPort)
	assert.Contains(t, err.Error(), EnvChatTopK)
}

func TestR2Endpoint(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://abc123.r2.cloudflarestorage.com", R2Config{AccountID: "abc123"}.R2Endpoint())
	assert.True(t, IsSupportedBackend(BackendMongo))
	assert.False(t, IsSupportedBackend("redis"))
}
