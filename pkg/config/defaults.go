package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "innkeep"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 10
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Advisory room locks auto-expire so a crashed request cannot wedge a
	// room; 10s comfortably covers the overlap check plus insert.
	DefaultRoomLockTTL = 10 * time.Second

	DefaultMaxBookingNights = 90

	DefaultCompletionInterval  = 15 * time.Minute
	DefaultCompletionBatchSize = 100

	DefaultEventsEnabled = false

	DefaultPaginationLimit = 10
	MaxPaginationLimit     = 100
)
