package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"clinicbook/pkg/client"
	"clinicbook/pkg/locale"
	"clinicbook/pkg/logger"
	"clinicbook/pkg/timeutil"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port      string
	LogLevel  string
	LogFormat string

	RequestTimeout time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	ClinicTimeZone         string
	Location               *time.Location
	DefaultSlotDurationMin int
	MinSlotDurationMin     int
	MaxSlotDurationMin     int
	SlotLockTTL            time.Duration
	PhoneRegions           []string

	NotificationsEnabled bool
	NotificationTimeout  time.Duration

	Log    *logger.Logger
	Client *client.Client
}

// Load reads the configuration from the environment (and an optional .env file),
// validates it and exits the process on invalid values.
func Load(serviceName string) *Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := FromEnv(serviceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

// FromEnv builds a Config from the environment without validating it.
func FromEnv(serviceName string) *Config {
	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port:      getEnvStr(EnvPort, DefaultPort),
		LogLevel:  getEnvStr(EnvLogLevel, DefaultLogLevel),
		LogFormat: getEnvStr(EnvLogFormat, DefaultLogFormat),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		ClinicTimeZone:         getEnvStr(EnvClinicTimeZone, DefaultClinicTimeZone),
		DefaultSlotDurationMin: getEnvNum(EnvDefaultSlotDurationMin, DefaultDefaultSlotDurationMin),
		MinSlotDurationMin:     getEnvNum(EnvMinSlotDurationMin, DefaultMinSlotDurationMin),
		MaxSlotDurationMin:     getEnvNum(EnvMaxSlotDurationMin, DefaultMaxSlotDurationMin),
		SlotLockTTL:            getEnvDuration(EnvSlotLockTTL, DefaultSlotLockTTL),

		NotificationsEnabled: getEnvBool(EnvNotificationsEnabled, DefaultNotificationsEnabled),
		NotificationTimeout:  getEnvDuration(EnvNotificationTimeout, DefaultNotificationTimeout),

		Client: client.NewClient(),
	}

	cfg.Log = logger.New(logger.Config{
		Level:     cfg.LogLevel,
		Format:    cfg.LogFormat,
		AddSource: true,
		Service:   serviceName,
	})

	if loc, err := timeutil.LoadLocation(cfg.ClinicTimeZone); err == nil {
		cfg.Location = loc
	}
	cfg.PhoneRegions = locale.PhoneRegions(getEnvList(EnvPhoneRegions), cfg.ClinicTimeZone)

	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if len(cfg.MongoURI) < 10 || !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
	}
	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}

	if cfg.MongoConnTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}
	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if cfg.Location == nil {
		errors = append(errors, fmt.Sprintf("ClinicTimeZone must be a valid IANA time zone, got: %s", cfg.ClinicTimeZone))
	}
	if cfg.MinSlotDurationMin <= 0 {
		errors = append(errors, fmt.Sprintf("MinSlotDurationMin must be positive, got: %d", cfg.MinSlotDurationMin))
	}
	if cfg.MaxSlotDurationMin < cfg.MinSlotDurationMin || cfg.MaxSlotDurationMin > timeutil.MinutesPerDay {
		errors = append(errors, fmt.Sprintf("MaxSlotDurationMin (%d) must be between MinSlotDurationMin (%d) and %d", cfg.MaxSlotDurationMin, cfg.MinSlotDurationMin, timeutil.MinutesPerDay))
	}
	if cfg.DefaultSlotDurationMin < cfg.MinSlotDurationMin || cfg.DefaultSlotDurationMin > cfg.MaxSlotDurationMin {
		errors = append(errors, fmt.Sprintf("DefaultSlotDurationMin (%d) must be between MinSlotDurationMin (%d) and MaxSlotDurationMin (%d)", cfg.DefaultSlotDurationMin, cfg.MinSlotDurationMin, cfg.MaxSlotDurationMin))
	}
	if cfg.SlotLockTTL <= 0 {
		errors = append(errors, fmt.Sprintf("SlotLockTTL must be positive, got: %s", cfg.SlotLockTTL))
	}
	if cfg.NotificationTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("NotificationTimeout must be positive, got: %s", cfg.NotificationTimeout))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"log_level", cfg.LogLevel,
		"request_timeout", cfg.RequestTimeout,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"clinic_time_zone", cfg.ClinicTimeZone,
		"default_slot_duration_min", cfg.DefaultSlotDurationMin,
		"min_slot_duration_min", cfg.MinSlotDurationMin,
		"max_slot_duration_min", cfg.MaxSlotDurationMin,
		"slot_lock_ttl", cfg.SlotLockTTL,
		"phone_regions", cfg.PhoneRegions,
		"notifications_enabled", cfg.NotificationsEnabled,
		"notification_timeout", cfg.NotificationTimeout,
	)
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log, cfg.ShutdownTimeout)
}

var credentialRegex = regexp.MustCompile(`([a-zA-Z][a-zA-Z0-9+.-]*://)[^:/@]+:[^@]+@`)

// redactMongoURI masks user:password for any URI scheme.
func redactMongoURI(uri string) string {
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	return strings.Split(value, ",")
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		return DefaultPaginationLimit
	}
	return min(limit, MaxPaginationLimit)
}

func NormalizeOffset(offset int64) int64 {
	return max(0, offset)
}
