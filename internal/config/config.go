package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Store backends for the source image tier.
const (
	StoreBackendDisk = "disk"
	StoreBackendS3   = "s3"
)

type Config struct {
	ListenAddr string

	// Origin settings.
	OriginBaseURL string
	OriginTimeout time.Duration
	OriginRate    float64
	OriginBurst   int

	// Source image tier.
	StoreBackend string
	AvatarDir    string

	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Bucket          string
	S3UseSSL          bool

	// Memory tier.
	CacheMaxItems int
	StaleAfter    time.Duration
}

func Load() *Config {
	return &Config{
		ListenAddr: getEnv("LISTEN_ADDR", ":8080"),

		OriginBaseURL: getEnv("AVATAR_ORIGIN_URL", "https://thumbnails.example.com"),
		OriginTimeout: getEnvDuration("AVATAR_ORIGIN_TIMEOUT", 12*time.Second),
		OriginRate:    getEnvFloat("AVATAR_ORIGIN_RATE", 5),
		OriginBurst:   getEnvInt("AVATAR_ORIGIN_BURST", 10),

		StoreBackend: getEnv("STORE_BACKEND", StoreBackendDisk),
		AvatarDir:    getEnv("AVATAR_DIR", "./data/avatars"),

		S3Endpoint:        getEnv("S3_ENDPOINT", "localhost:9000"),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY", "minioadmin"),
		S3SecretAccessKey: getEnv("S3_SECRET_KEY", "minioadmin"),
		S3Bucket:          getEnv("S3_BUCKET", "avatars"),
		S3UseSSL:          getEnv("S3_USE_SSL", "false") == "true",

		CacheMaxItems: getEnvInt("CACHE_MAX_ITEMS", 512),
		StaleAfter:    getEnvDuration("CACHE_STALE_AFTER", time.Hour),
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
		log.Fatalf("invalid %s: %v", key, err)
	}
	return n
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Fatalf("invalid %s: %v", key, err)
	}
	return f
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Fatalf("invalid %s: %v", key, err)
	}
	return d
}
