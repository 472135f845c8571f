package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/tair/food-waste/pkg/database"
	"github.com/tair/food-waste/pkg/logger"
)

// Config holds the inventory service settings read from the environment
type Config struct {
	ServiceName    string
	Environment    string
	LogLevel       string
	HTTPPort       string
	GRPCPort       string
	RequestTimeout time.Duration
	JaegerEndpoint string

	Database database.Config

	SweepSchedule   string
	SweepRunOnStart bool
	NearExpiryDays  int

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	KafkaBrokers []string
	KafkaGroupID string
}

// Load reads the configuration, falling back to defaults for unset variables.
// A .env file in the working directory fills in variables the process
// environment does not already set.
func Load() *Config {
	loadDotEnv(".env")

	return &Config{
		ServiceName:    getEnv("OTEL_SERVICE_NAME", "inventory-service"),
		Environment:    getEnv("ENVIRONMENT", "production"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		HTTPPort:       getEnv("HTTP_PORT", "5000"),
		GRPCPort:       getEnv("GRPC_PORT", "9092"),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		JaegerEndpoint: getEnv("JAEGER_ENDPOINT", ""),

		Database: database.Config{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "foodwaste"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},

		SweepSchedule:   getEnv("SWEEP_SCHEDULE", "0 * * * *"),
		SweepRunOnStart: getEnvBool("SWEEP_RUN_ON_START", true),
		NearExpiryDays:  getEnvInt("NEAR_EXPIRY_DAYS", 3),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		CacheTTL:      getEnvDuration("CACHE_TTL", time.Minute),

		KafkaBrokers: getEnvList("KAFKA_BROKERS"),
		KafkaGroupID: getEnv("KAFKA_GROUP_ID", "inventory-service"),
	}
}

// IsDevelopment reports whether error details may be exposed to clients
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func loadDotEnv(path string) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Logger.Warn().Err(err).Str("path", path).Msg("Failed to read env file")
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		logger.Logger.Warn().Str("key", key).Str("value", value).Msg("Invalid integer, using default")
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		logger.Logger.Warn().Str("key", key).Str("value", value).Msg("Invalid boolean, using default")
		return defaultValue
	}
	return b
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		logger.Logger.Warn().Str("key", key).Str("value", value).Msg("Invalid duration, using default")
		return defaultValue
	}
	return d
}

// getEnvList splits a comma separated variable, dropping empty entries
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
