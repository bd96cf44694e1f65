package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "vendora"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultRedisAddr = "localhost:6379"
	DefaultRedisDB   = 0

	DefaultCatalogBaseURL    = "http://localhost:8090"
	DefaultCatalogTimeout    = 10 * time.Second
	DefaultCatalogMaxRetries = 2
	DefaultCatalogRetryDelay = 200 * time.Millisecond

	DefaultPort = "8080"

	DefaultCORSAllowedOrigins = "*"

	DefaultEventsEnabled = false
	DefaultEventsTopic   = "marketplace.events"
	DefaultEventsDLQ     = "marketplace.events.dlq"

	DefaultTimelineCacheTTL = 30 * time.Second
	DefaultQuoteLockTTL     = 10 * time.Second

	DefaultRateLimitRPS   = 10
	DefaultRateLimitBurst = 20

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultPaginationLimit = 100

	DefaultLogLevel = "info"
)
