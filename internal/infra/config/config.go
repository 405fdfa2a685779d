package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageMemory = "memory"
	StorageMongo  = "mongo"
	StorageS3     = "s3"
)

// Config aggregates application configuration values loaded from environment variables.
type Config struct {
	Env                string
	HTTPAddr           string
	StorageMode        string
	ListingsFixtures   string
	MongoURI           string
	MongoDB            string
	KafkaBrokers       []string
	KafkaTopicPrefix   string
	KafkaClientID      string
	IdempotencyTTL     time.Duration
	OutboxPollInterval time.Duration
	RetryBackoff       []time.Duration
	RatesURL           string
	RatesAppID         string
	RatesTimeout       time.Duration
	RatesCacheTTL      time.Duration
	RedisAddr          string
	RedisDB            int
	S3Endpoint         string
	S3AccessKey        string
	S3SecretKey        string
	S3Bucket           string
	S3Object           string
	S3UseSSL           bool
	CORSOrigins        []string
}

// Load parses configuration from the environment. A .env file in the working
// directory is read first when present; real environment variables win.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:              getEnv("APP_ENV", "dev"),
		HTTPAddr:         getEnv("HTTP_ADDR", ":8080"),
		StorageMode:      strings.ToLower(getEnv("STORAGE_MODE", StorageMemory)),
		ListingsFixtures: os.Getenv("LISTINGS_FIXTURES"),
		MongoURI:         os.Getenv("MONGO_URI"),
		MongoDB:          getEnv("MONGO_DB", "rentprice"),
		KafkaTopicPrefix: getEnv("KAFKA_TOPIC_PREFIX", ""),
		KafkaClientID:    getEnv("KAFKA_CLIENT_ID", "rentprice"),
		RatesURL:         getEnv("RATES_URL", "https://openexchangerates.org/api/latest.json"),
		RatesAppID:       os.Getenv("RATES_APP_ID"),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		S3Endpoint:       getEnv("S3_ENDPOINT", "localhost:9000"),
		S3AccessKey:      getEnv("S3_ACCESS_KEY", "minioadmin"),
		S3SecretKey:      getEnv("S3_SECRET_KEY", "minioadmin"),
		S3Bucket:         getEnv("S3_BUCKET", "rentprice"),
		S3Object:         getEnv("S3_OBJECT", "listings.json"),
		KafkaBrokers:     splitList(os.Getenv("KAFKA_BROKERS")),
		CORSOrigins:      splitList(getEnv("CORS_ORIGINS", "*")),
	}

	var errs []error
	var err error
	if cfg.IdempotencyTTL, err = parseDurationEnv("IDEMP_TTL", 24*time.Hour); err != nil {
		errs = append(errs, err)
	}
	if cfg.OutboxPollInterval, err = parseDurationEnv("OUTBOX_POLL_INTERVAL", 500*time.Millisecond); err != nil {
		errs = append(errs, err)
	}
	if cfg.RatesTimeout, err = parseDurationEnv("RATES_TIMEOUT", 5*time.Second); err != nil {
		errs = append(errs, err)
	}
	if cfg.RatesCacheTTL, err = parseDurationEnv("RATES_CACHE_TTL", time.Hour); err != nil {
		errs = append(errs, err)
	}
	if cfg.RetryBackoff, err = parseDurationList("RETRY_BACKOFF", "1s,5s,30s"); err != nil {
		errs = append(errs, err)
	}
	if cfg.RedisDB, err = parseIntEnv("REDIS_DB", 0); err != nil {
		errs = append(errs, err)
	}
	if cfg.S3UseSSL, err = parseBoolEnv("S3_USE_SSL", false); err != nil {
		errs = append(errs, err)
	}

	switch cfg.StorageMode {
	case StorageMemory, StorageS3:
	case StorageMongo:
		if cfg.MongoURI == "" {
			errs = append(errs, errors.New("MONGO_URI is required when STORAGE_MODE=mongo"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid STORAGE_MODE %q: want memory, mongo or s3", cfg.StorageMode))
	}
	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}
	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", key, err)
	}
	return d, nil
}

func parseDurationList(key, def string) ([]time.Duration, error) {
	var out []time.Duration
	for _, raw := range splitList(getEnv(key, def)) {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s component %q: %w", key, raw, err)
		}
		out = append(out, d)
	}
	return out, nil
}

func parseIntEnv(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid %s integer: %w", key, err)
	}
	return n, nil
}

func parseBoolEnv(key string, def bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "t", "true", "yes", "y", "on":
		return true, nil
	case "0", "f", "false", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid %s boolean: %q", key, raw)
	}
}
