// Package config loads application settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends accepted by EnvStorageBackend.
const (
	BackendSQLite = "sqlite"
	BackendCSV    = "csv"
	BackendMongo  = "mongo"
)

// Config holds all application configuration.
type Config struct {
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration
	ServerName      string
	AllowedOrigin   string

	ProfileDir string
	ChatTopK   int

	Storage StorageConfig

	// AdminPassword guards the /api/admin routes. Empty disables them.
	AdminPassword string

	RateLimit RateLimitConfig
	R2        R2Config

	SentryDSN         string
	SentryEnvironment string
	SentryRelease     string
	SentrySampleRate  float64

	BetterStackToken    string
	BetterStackEndpoint string

	MetricsUsername string
	MetricsPassword string // empty = /metrics is public
}

// StorageConfig selects and configures the contact message store.
type StorageConfig struct {
	Backend         string
	DataDir         string
	MongoURI        string
	MongoDatabase   string
	MongoCollection string
}

// RateLimitConfig holds the per-client token bucket settings.
type RateLimitConfig struct {
	Disabled bool

	ChatBurst     float64
	ChatRefill    float64 // tokens per second
	ContactBurst  float64
	ContactRefill float64 // tokens per second
	ContactDaily  int     // 0 = unlimited
}

// R2Config configures the Cloudflare R2 archive bucket.
type R2Config struct {
	Enabled         bool
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	ArchivePrefix   string

	// ArchiveInterval schedules periodic exports; 0 disables the job.
	ArchiveInterval time.Duration
}

// Load reads .env (if present) and the environment, then validates.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv(EnvPort, "5000"),
		LogLevel:        getEnv(EnvLogLevel, "info"),
		ShutdownTimeout: getDurationEnv(EnvShutdownTimeout, GracefulShutdown),
		ServerName:      getEnv(EnvServerName, hostname()),
		AllowedOrigin:   getEnv(EnvAllowedOrigin, "http://localhost:5173"),

		ProfileDir: getEnv(EnvProfileDir, "./data/profile"),
		ChatTopK:   getIntEnv(EnvChatTopK, 5),

		Storage: StorageConfig{
			Backend:         strings.ToLower(getEnv(EnvStorageBackend, BackendSQLite)),
			DataDir:         getEnv(EnvDataDir, "./data"),
			MongoURI:        getEnv(EnvMongoURI, ""),
			MongoDatabase:   getEnv(EnvMongoDatabase, "portfolio"),
			MongoCollection: getEnv(EnvMongoCollection, "messages"),
		},

		AdminPassword: getEnv(EnvAdminPassword, ""),

		RateLimit: RateLimitConfig{
			Disabled:      getBoolEnv(EnvRateLimiterDisabled, false),
			ChatBurst:     getFloatEnv(EnvChatRateBurst, 20),
			ChatRefill:    getFloatEnv(EnvChatRateRefill, 1),
			ContactBurst:  getFloatEnv(EnvContactRateBurst, 3),
			ContactRefill: getFloatEnv(EnvContactRateRefill, 1.0/60),
			ContactDaily:  getIntEnv(EnvContactDailyLimit, 20),
		},

		R2: R2Config{
			Enabled:         getBoolEnv(EnvR2Enabled, false),
			AccountID:       getEnv(EnvR2AccountID, ""),
			AccessKeyID:     getEnv(EnvR2AccessKeyID, ""),
			SecretAccessKey: getEnv(EnvR2SecretAccessKey, ""),
			BucketName:      getEnv(EnvR2BucketName, ""),
			ArchivePrefix:   getEnv(EnvR2ArchivePrefix, "archives/messages"),
			ArchiveInterval: getDurationEnv(EnvArchiveInterval, 0),
		},

		SentryDSN:         getEnv(EnvSentryDSN, ""),
		SentryEnvironment: getEnv(EnvSentryEnvironment, "production"),
		SentryRelease:     getEnv(EnvSentryRelease, ""),
		SentrySampleRate:  getFloatEnv(EnvSentrySampleRate, 1.0),

		BetterStackToken:    getEnv(EnvBetterStackToken, ""),
		BetterStackEndpoint: getEnv(EnvBetterStackEndpoint, ""),

		MetricsUsername: getEnv(EnvMetricsUsername, "prometheus"),
		MetricsPassword: getEnv(EnvMetricsPassword, ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Port == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvPort))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvShutdownTimeout, c.ShutdownTimeout))
	}
	if c.ProfileDir == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvProfileDir))
	}
	if c.ChatTopK <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", EnvChatTopK, c.ChatTopK))
	}
	if err := c.Storage.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.RateLimit.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.R2.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.SentrySampleRate < 0 || c.SentrySampleRate > 1 {
		errs = append(errs, fmt.Errorf("%s must be within [0,1], got %v", EnvSentrySampleRate, c.SentrySampleRate))
	}

	return errors.Join(errs...)
}

// Validate checks the backend-specific settings.
func (s StorageConfig) Validate() error {
	switch s.Backend {
	case BackendSQLite, BackendCSV:
		if s.DataDir == "" {
			return fmt.Errorf("%s is required for the %s backend", EnvDataDir, s.Backend)
		}
	case BackendMongo:
		if s.MongoURI == "" {
			return fmt.Errorf("%s is required for the mongo backend", EnvMongoURI)
		}
		if s.MongoDatabase == "" || s.MongoCollection == "" {
			return fmt.Errorf("%s and %s are required for the mongo backend", EnvMongoDatabase, EnvMongoCollection)
		}
	default:
		return fmt.Errorf("%s must be one of %s, got %q", EnvStorageBackend,
			strings.Join(Backends(), ", "), s.Backend)
	}
	return nil
}

// Backends lists the supported storage backend names.
func Backends() []string {
	return []string{BackendSQLite, BackendCSV, BackendMongo}
}

// IsSupportedBackend reports whether name is a known backend.
func IsSupportedBackend(name string) bool {
	return slices.Contains(Backends(), name)
}

// Validate checks that limits are usable unless limiting is disabled.
func (r RateLimitConfig) Validate() error {
	if r.Disabled {
		return nil
	}
	var errs []error
	if r.ChatBurst < 1 || r.ChatRefill <= 0 {
		errs = append(errs, fmt.Errorf("chat rate limit needs burst >= 1 and refill > 0, got %v/%v", r.ChatBurst, r.ChatRefill))
	}
	if r.ContactBurst < 1 || r.ContactRefill <= 0 {
		errs = append(errs, fmt.Errorf("contact rate limit needs burst >= 1 and refill > 0, got %v/%v", r.ContactBurst, r.ContactRefill))
	}
	if r.ContactDaily < 0 {
		errs = append(errs, fmt.Errorf("%s cannot be negative, got %d", EnvContactDailyLimit, r.ContactDaily))
	}
	return errors.Join(errs...)
}

// Validate requires credentials only when R2 is enabled.
func (r R2Config) Validate() error {
	if !r.Enabled {
		return nil
	}
	var errs []error
	required := []struct{ key, val string }{
		{EnvR2AccountID, r.AccountID},
		{EnvR2AccessKeyID, r.AccessKeyID},
		{EnvR2SecretAccessKey, r.SecretAccessKey},
		{EnvR2BucketName, r.BucketName},
	}
	for _, f := range required {
		if f.val == "" {
			errs = append(errs, fmt.Errorf("%s is required when R2 is enabled", f.key))
		}
	}
	if r.ArchiveInterval < 0 {
		errs = append(errs, fmt.Errorf("%s cannot be negative", EnvArchiveInterval))
	}
	return errors.Join(errs...)
}

// R2Endpoint is the S3-compatible endpoint for the account.
func (r R2Config) R2Endpoint() string {
	return fmt.Sprintf("https://%s.r2.cloudflarestorage.com", r.AccountID)
}

// SQLitePath returns the SQLite database file location.
func (s StorageConfig) SQLitePath() string {
	return filepath.Join(s.DataDir, "messages.db")
}

// CSVPath returns the CSV message file location.
func (s StorageConfig) CSVPath() string {
	return filepath.Join(s.DataDir, "messages.csv")
}

// AdminEnabled reports whether the admin API is mounted.
func (c *Config) AdminEnabled() bool {
	return c.AdminPassword != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.Atoi(value); err == nil {
			return v
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			return v
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.ParseBool(value); err == nil {
			return v
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if v, err := time.ParseDuration(value); err == nil {
			return v
		}
	}
	return defaultValue
}

func hostname() string {
	if h, err := os.Hostname(); err == nil {
		return h
	}
	return "portfolio"
}
