package config

import "time"

// HTTP server timeouts.
const (
	HTTPRead       = 10 * time.Second
	HTTPReadHeader = 5 * time.Second
	HTTPWrite      = 30 * time.Second
	HTTPIdle       = 120 * time.Second

	// RequestProcessing bounds a single API request, store calls included.
	RequestProcessing = 15 * time.Second
)

// Storage timeouts.
const (
	// DatabaseBusyTimeout is the SQLite busy_timeout pragma.
	DatabaseBusyTimeout = 5 * time.Second

	DatabaseConnMaxLifetime = time.Hour

	// MongoConnect bounds the initial connection and ping.
	MongoConnect = 10 * time.Second

	// StorePing bounds the readiness probe.
	StorePing = 2 * time.Second
)

// Background jobs.
const (
	// MessageCountInterval is how often the stored-message gauge is refreshed.
	MessageCountInterval = 5 * time.Minute

	// RateLimiterCleanupInterval is how often idle per-client limiters are evicted.
	RateLimiterCleanupInterval = 5 * time.Minute

	// ArchiveUpload bounds one archive export including the R2 upload.
	ArchiveUpload = 2 * time.Minute
)

// GracefulShutdown is the default time allowed for in-flight requests.
const GracefulShutdown = 30 * time.Second
