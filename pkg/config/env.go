package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort      = "PORT"
	EnvLogLevel  = "LOG_LEVEL"
	EnvLogFormat = "LOG_FORMAT"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvClinicTimeZone         = "CLINIC_TIME_ZONE"
	EnvDefaultSlotDurationMin = "DEFAULT_SLOT_DURATION_MIN"
	EnvMinSlotDurationMin     = "MIN_SLOT_DURATION_MIN"
	EnvMaxSlotDurationMin     = "MAX_SLOT_DURATION_MIN"
	EnvSlotLockTTL            = "SLOT_LOCK_TTL"
	EnvPhoneRegions           = "PHONE_REGIONS"

	EnvNotificationsEnabled = "NOTIFICATIONS_ENABLED"
	EnvNotificationTimeout  = "NOTIFICATION_TIMEOUT"
)
