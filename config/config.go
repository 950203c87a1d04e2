package config

import (
	"os"
	"strconv"
	"time"
)

// Config carries every runtime setting the server needs. All values come
// from the environment; main loads a .env file first when one is present.
type Config struct {
	Port string

	DatabaseURL      string
	DBMaxConns       int
	DBAcquireTimeout time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SessionSecret string

	MediaBackend string // "fs" or "s3"
	MediaDir     string
	S3Bucket     string
	AWSRegion    string
}

// Load reads the configuration from the environment, applying defaults
// for everything except the database URL and session secret.
func Load() Config {
	return Config{
		Port: getenv("PORT", "8080"),

		DatabaseURL:      os.Getenv("DATABASE_URL"),
		DBMaxConns:       getenvInt("DB_MAX_CONNS", 200),
		DBAcquireTimeout: getenvDuration("DB_ACQUIRE_TIMEOUT", 500*time.Millisecond),

		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getenvInt("REDIS_DB", 0),

		SessionSecret: os.Getenv("SESSION_SECRET"),

		MediaBackend: getenv("MEDIA_BACKEND", "fs"),
		MediaDir:     getenv("MEDIA_DIR", "media"),
		S3Bucket:     os.Getenv("S3_BUCKET_NAME"),
		AWSRegion:    os.Getenv("AWS_REGION"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
