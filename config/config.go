package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Environment string

	// Redis (optional; rate limiting and the open-events mirror degrade
	// gracefully without it)
	RedisURL      string
	RedisPassword string
	RedisDB       int

	// Monitoring
	EnableMetrics bool
	MetricsPort   string

	// Outbound mail queue
	MailSendInterval time.Duration
	MailQueueSize    int

	// Response submission
	ResponseRateLimit  int
	ResponseRateWindow time.Duration
	MaxMergeRetries    int
}

func LoadConfig() *Config {
	// Optional .env for local development; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	return &Config{
		Environment: getEnv("ENVIRONMENT", "development"),

		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		EnableMetrics: getEnvAsBool("ENABLE_METRICS", true),
		MetricsPort:   getEnv("METRICS_PORT", "9090"),

		MailSendInterval: getEnvAsDuration("MAIL_SEND_INTERVAL", "2s"),
		MailQueueSize:    getEnvAsInt("MAIL_QUEUE_SIZE", 256),

		ResponseRateLimit:  getEnvAsInt("RESPONSE_RATE_LIMIT", 30),
		ResponseRateWindow: getEnvAsDuration("RESPONSE_RATE_WINDOW", "1m"),
		MaxMergeRetries:    getEnvAsInt("MAX_MERGE_RETRIES", 3),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
