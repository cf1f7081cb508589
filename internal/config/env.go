package config

// Environment variable keys. A .env file in the working directory is read
// first; real environment variables win.
//
//nolint:gosec // keys, not credentials
const (
	// Server
	EnvPort            = "PORTFOLIO_PORT"
	EnvLogLevel        = "PORTFOLIO_LOG_LEVEL"
	EnvShutdownTimeout = "PORTFOLIO_SHUTDOWN_TIMEOUT"
	EnvServerName      = "PORTFOLIO_SERVER_NAME"
	EnvAllowedOrigin   = "PORTFOLIO_ALLOWED_ORIGIN"

	// Content
	EnvProfileDir = "PORTFOLIO_PROFILE_DIR"
	EnvChatTopK   = "PORTFOLIO_CHAT_TOP_K"

	// Storage
	EnvStorageBackend  = "PORTFOLIO_STORAGE_BACKEND"
	EnvDataDir         = "PORTFOLIO_DATA_DIR"
	EnvMongoURI        = "PORTFOLIO_MONGO_URI"
	EnvMongoDatabase   = "PORTFOLIO_MONGO_DATABASE"
	EnvMongoCollection = "PORTFOLIO_MONGO_COLLECTION"

	// Admin
	EnvAdminPassword = "PORTFOLIO_ADMIN_PASSWORD"

	// Rate limits
	EnvChatRateBurst       = "PORTFOLIO_CHAT_RATE_BURST"
	EnvChatRateRefill      = "PORTFOLIO_CHAT_RATE_REFILL"
	EnvContactRateBurst    = "PORTFOLIO_CONTACT_RATE_BURST"
	EnvContactRateRefill   = "PORTFOLIO_CONTACT_RATE_REFILL"
	EnvContactDailyLimit   = "PORTFOLIO_CONTACT_DAILY_LIMIT"
	EnvRateLimiterDisabled = "PORTFOLIO_RATE_LIMIT_DISABLED"

	// R2 archive
	EnvR2Enabled         = "PORTFOLIO_R2_ENABLED"
	EnvR2AccountID       = "PORTFOLIO_R2_ACCOUNT_ID"
	EnvR2AccessKeyID     = "PORTFOLIO_R2_ACCESS_KEY_ID"
	EnvR2SecretAccessKey = "PORTFOLIO_R2_SECRET_ACCESS_KEY"
	EnvR2BucketName      = "PORTFOLIO_R2_BUCKET_NAME"
	EnvR2ArchivePrefix   = "PORTFOLIO_R2_ARCHIVE_PREFIX"
	EnvArchiveInterval   = "PORTFOLIO_ARCHIVE_INTERVAL"

	// Sentry
	EnvSentryDSN         = "PORTFOLIO_SENTRY_DSN"
	EnvSentryEnvironment = "PORTFOLIO_SENTRY_ENVIRONMENT"
	EnvSentryRelease     = "PORTFOLIO_SENTRY_RELEASE"
	EnvSentrySampleRate  = "PORTFOLIO_SENTRY_SAMPLE_RATE"

	// Better Stack
	EnvBetterStackToken    = "PORTFOLIO_BETTERSTACK_TOKEN"
	EnvBetterStackEndpoint = "PORTFOLIO_BETTERSTACK_ENDPOINT"

	// Metrics auth
	EnvMetricsUsername = "PORTFOLIO_METRICS_USERNAME"
	EnvMetricsPassword = "PORTFOLIO_METRICS_PASSWORD"
)
