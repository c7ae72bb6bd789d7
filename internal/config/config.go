// Package config loads the notes server settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	DatabaseURL  string        // NOTES_DATABASE_URL (required)
	HTTPAddr     string        // NOTES_HTTP_ADDR (default ":8080")
	NATSURL      string        // NOTES_NATS_URL (optional, empty = no events)
	CookieSecure bool          // NOTES_COOKIE_SECURE (default false)
	SessionTTL   time.Duration // NOTES_SESSION_TTL (default 24h)

	// Sync settings
	SyncInterval   time.Duration // NOTES_SYNC_INTERVAL (default 0 = disabled)
	SyncS3Bucket   string        // NOTES_SYNC_S3_BUCKET (enables S3 when set)
	SyncS3Endpoint string        // NOTES_SYNC_S3_ENDPOINT (custom endpoint for MinIO)
	SyncS3Region   string        // NOTES_SYNC_S3_REGION (default "us-east-1")
	SyncS3Key      string        // NOTES_SYNC_S3_KEY (default "notes/backup.jsonl")
	SyncFile       string        // NOTES_SYNC_FILE (enables a local backup file when set)
}

func Load() (*Config, error) {
	c := &Config{
		DatabaseURL:    os.Getenv("NOTES_DATABASE_URL"),
		HTTPAddr:       envOrDefault("NOTES_HTTP_ADDR", ":8080"),
		NATSURL:        os.Getenv("NOTES_NATS_URL"),
		SyncS3Bucket:   os.Getenv("NOTES_SYNC_S3_BUCKET"),
		SyncS3Endpoint: os.Getenv("NOTES_SYNC_S3_ENDPOINT"),
		SyncS3Region:   envOrDefault("NOTES_SYNC_S3_REGION", "us-east-1"),
		SyncS3Key:      envOrDefault("NOTES_SYNC_S3_KEY", "notes/backup.jsonl"),
		SyncFile:       os.Getenv("NOTES_SYNC_FILE"),
	}
	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("NOTES_DATABASE_URL is required")
	}

	secure, err := strconv.ParseBool(envOrDefault("NOTES_COOKIE_SECURE", "false"))
	if err != nil {
		return nil, fmt.Errorf("NOTES_COOKIE_SECURE: %w", err)
	}
	c.CookieSecure = secure

	ttl, err := time.ParseDuration(envOrDefault("NOTES_SESSION_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("NOTES_SESSION_TTL: %w", err)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("NOTES_SESSION_TTL must be positive, got %s", ttl)
	}
	c.SessionTTL = ttl

	interval, err := time.ParseDuration(envOrDefault("NOTES_SYNC_INTERVAL", "0"))
	if err != nil {
		return nil, fmt.Errorf("NOTES_SYNC_INTERVAL: %w", err)
	}
	c.SyncInterval = interval

	return c, nil
}

// SyncEnabled reports whether a backup interval and at least one
// destination are configured.
func (c *Config) SyncEnabled() bool {
	return c.SyncInterval > 0 && (c.SyncS3Bucket != "" || c.SyncFile != "")
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
