package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvRedisAddr     = "REDIS_ADDR"
	EnvRedisPassword = "REDIS_PASSWORD"
	EnvRedisDB       = "REDIS_DB"

	EnvCatalogBaseURL     = "CATALOG_BASE_URL"
	EnvCatalogTimeout     = "CATALOG_TIMEOUT"
	EnvCatalogMaxRetries  = "CATALOG_MAX_RETRIES"
	EnvCatalogRetryDelay  = "CATALOG_RETRY_DELAY"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvCORSAllowedOrigins = "CORS_ALLOWED_ORIGINS"

	EnvEventsEnabled = "EVENTS_ENABLED"
	EnvEventsTopic   = "EVENTS_TOPIC"
	EnvEventsDLQ     = "EVENTS_DLQ_TOPIC"

	EnvTimelineCacheTTL = "TIMELINE_CACHE_TTL"
	EnvQuoteLockTTL     = "QUOTE_LOCK_TTL"

	EnvRateLimitRPS   = "RATE_LIMIT_RPS"
	EnvRateLimitBurst = "RATE_LIMIT_BURST"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)
