package app

import (
	"os"
	"strconv"
	"time"

	"github.com/taxc/storefront/internal/shop/storage"
)

type Config struct {
	Issuer        string        // Optional: issuer claim for session credentials (default: storefront)
	SessionSecret string        // Required: HS256 signing secret for session credentials
	SessionTTL    time.Duration // Optional: session credential lifetime (default: 168h)

	PaystackSecretKey string // Required: payment processor API secret
	PaystackBaseURL   string // Optional: processor base URL (default: https://api.paystack.co)

	S3Region    string        // Optional: file store region (default: us-east-1)
	S3Endpoint  string        // Optional: custom endpoint for MinIO-style stores
	S3AccessKey string        // Required: file store access key
	S3SecretKey string        // Required: file store secret key
	S3Bucket    string        // Required: bucket holding the ebook files
	LinkTTL     time.Duration // Optional: signed download link lifetime (default: 1h)

	DatabaseFile string // Optional: path to SQLite database file (default: ./store.db)
	PepperFile   string // Optional: path to file containing pepper for password hashing (default: ./pepper)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:        getEnvOrDefault("STORE_ISSUER", "storefront"),
		SessionSecret: os.Getenv("STORE_SESSION_SECRET"),
		SessionTTL:    getEnvDurationOrDefault("STORE_SESSION_TTL", 7*24*time.Hour),

		PaystackSecretKey: os.Getenv("PAYSTACK_SECRET_KEY"),
		PaystackBaseURL:   os.Getenv("PAYSTACK_BASE_URL"), // empty means the processor default

		S3Region:    getEnvOrDefault("S3_REGION", "us-east-1"),
		S3Endpoint:  os.Getenv("S3_ENDPOINT"), // Optional: only for MinIO-style stores
		S3AccessKey: os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey: os.Getenv("S3_SECRET_KEY"),
		S3Bucket:    os.Getenv("S3_BUCKET"),
		LinkTTL:     getEnvDurationOrDefault("STORE_LINK_TTL", time.Hour),

		DatabaseFile: getEnvOrDefault("STORE_DATABASE_FILE", "store.db"),
		PepperFile:   getEnvOrDefault("STORE_PEPPER_FILE", "pepper"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	return cfg
}

// StorageConfig maps the file store settings into the storage package shape.
func (c Config) StorageConfig() storage.Config {
	return storage.Config{
		Region:    c.S3Region,
		Endpoint:  c.S3Endpoint,
		AccessKey: c.S3AccessKey,
		SecretKey: c.S3SecretKey,
		Bucket:    c.S3Bucket,
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
