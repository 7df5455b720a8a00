package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the handlers need from the environment. All values
// have defaults matching the deployed stack so a bare Lambda works unchanged.
type Config struct {
	TableName    string
	OwnerIndex   string
	Bucket       string
	UploadPrefix string
	SessionTTL   time.Duration
	SignedURLTTL time.Duration
	Port         string
	RunLocal     bool
}

func Load() *Config {
	godotenv.Load()

	return &Config{
		TableName:    getEnv("STORAGE_TABLE", "general-storage"),
		OwnerIndex:   getEnv("OWNER_INDEX", "user_id-tipo-index"),
		Bucket:       getEnv("RECEIPTS_BUCKET", "store-comprobantes"),
		UploadPrefix: getEnv("UPLOAD_PREFIX", "tienda-pedidos/"),
		SessionTTL:   getEnvDuration("SESSION_TTL", 7*24*time.Hour),
		SignedURLTTL: getEnvDuration("SIGNED_URL_TTL", 5*time.Minute),
		Port:         getEnv("PORT", "8080"),
		RunLocal:     getEnvBool("RUN_LOCAL", false),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
