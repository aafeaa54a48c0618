package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "clinicbook"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort      = "8080"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultClinicTimeZone         = "UTC"
	DefaultDefaultSlotDurationMin = 30
	DefaultMinSlotDurationMin     = 5
	DefaultMaxSlotDurationMin     = 480
	DefaultSlotLockTTL            = 5 * time.Second

	DefaultNotificationsEnabled = false
	DefaultNotificationTimeout  = 5 * time.Second

	DefaultPaginationLimit = 10
	MaxPaginationLimit     = 100
)
