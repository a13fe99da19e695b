// Package config reads service settings from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort string
	LogLevel string

	// Postgres
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string

	// Redis. An empty address keeps push fan-out in process.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Kafka. No brokers means outbox messages are only logged.
	KafkaBrokers      []string
	KafkaBookingTopic string
	KafkaAuditTopic   string

	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	OutboxMaxAttempts  int

	PushTimeout time.Duration

	// How long a cached listing is served before it is read again.
	ListingCacheTTL time.Duration

	AuditWorkers      int
	AuditBatchSize    int
	AuditFlushTimeout time.Duration

	AdminUsername string
	AdminPassword string
}

// DSN returns the Postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
}

// LoadEnv loads envFile when given, otherwise the first .env or .example.env found in the
// working directory or up to two parents. Variables already set in the environment win.
func LoadEnv(envFile string) error {
	if envFile != "" {
		return godotenv.Load(envFile)
	}

	pwd, err := os.Getwd()
	if err != nil {
		return err
	}
	for _, dir := range []string{pwd, filepath.Dir(pwd), filepath.Dir(filepath.Dir(pwd))} {
		for _, name := range []string{".env", ".example.env"} {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return godotenv.Load(path)
			}
		}
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getRequiredEnv(key string) (string, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return "", fmt.Errorf("missing required environment variable: %s", key)
	}
	return value, nil
}

func getInt(key string, defaultValue int) (int, error) {
	v, err := strconv.Atoi(getEnv(key, strconv.Itoa(defaultValue)))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	v, err := time.ParseDuration(getEnv(key, defaultValue.String()))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

// Load reads the configuration from the process environment.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPPort:          getEnv("HTTP_PORT", "9000"),
		LogLevel:          getEnv("LOG_LEVEL", "debug"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPassword:        getEnv("POSTGRES_PASSWORD", ""),
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		KafkaBookingTopic: getEnv("KAFKA_BOOKING_TOPIC", "booking_events"),
		KafkaAuditTopic:   getEnv("KAFKA_AUDIT_TOPIC", "audit_logs"),
		AdminUsername:     getEnv("ADMIN_USERNAME", ""),
		AdminPassword:     getEnv("ADMIN_PASSWORD", ""),
	}

	var err error

	cfg.DBUser, err = getRequiredEnv("POSTGRES_USER")
	if err != nil {
		return nil, err
	}
	cfg.DBName, err = getRequiredEnv("POSTGRES_DB")
	if err != nil {
		return nil, err
	}

	if brokers := strings.TrimSpace(getEnv("KAFKA_BROKERS", "")); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	ints := []struct {
		key  string
		def  int
		dest *int
	}{
		{"DB_PORT", 5432, &cfg.DBPort},
		{"REDIS_DB", 0, &cfg.RedisDB},
		{"OUTBOX_BATCH_SIZE", 10, &cfg.OutboxBatchSize},
		{"OUTBOX_MAX_ATTEMPTS", 3, &cfg.OutboxMaxAttempts},
		{"AUDIT_WORKERS", 2, &cfg.AuditWorkers},
		{"AUDIT_BATCH_SIZE", 5, &cfg.AuditBatchSize},
	}
	for _, it := range ints {
		if *it.dest, err = getInt(it.key, it.def); err != nil {
			return nil, err
		}
	}

	durations := []struct {
		key  string
		def  time.Duration
		dest *time.Duration
	}{
		{"OUTBOX_POLL_INTERVAL", 2 * time.Second, &cfg.OutboxPollInterval},
		{"PUSH_TIMEOUT", 3 * time.Second, &cfg.PushTimeout},
		{"LISTING_CACHE_TTL", time.Minute, &cfg.ListingCacheTTL},
		{"AUDIT_FLUSH_TIMEOUT", 500 * time.Millisecond, &cfg.AuditFlushTimeout},
	}
	for _, d := range durations {
		if *d.dest, err = getDuration(d.key, d.def); err != nil {
			return nil, err
		}
	}

	if cfg.OutboxBatchSize <= 0 || cfg.AuditWorkers <= 0 || cfg.AuditBatchSize <= 0 {
		return nil, fmt.Errorf("batch sizes and worker counts must be positive")
	}

	return cfg, nil
}
