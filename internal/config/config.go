package config

import (
	"os"
	"strconv"
)

// Config holds the application configuration.
type Config struct {
	ServerPort    int
	DatabasePath  string
	JWTSecret     string
	AppEnv        string // "production" enables the Secure cookie flag
	PublicBaseURL string // base URL used when building locally served image URLs

	// Local upload storage, used when no S3 endpoint is configured.
	UploadDir string

	// S3-compatible asset store (optional).
	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string

	// Cron expression for the likes/likedBy reconciliation sweep.
	ReconcileSchedule string
}

// Load loads configuration from environment variables or sets defaults.
func Load() (*Config, error) {
	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, err
	}

	return &Config{
		ServerPort:        port,
		DatabasePath:      getEnv("DATABASE_PATH", "./promptlover.db"),
		JWTSecret:         getEnv("JWT_SECRET", "dev-only-secret"),
		AppEnv:            getEnv("APP_ENV", "development"),
		PublicBaseURL:     getEnv("PUBLIC_BASE_URL", "http://localhost:"+portStr),
		UploadDir:         getEnv("UPLOAD_DIR", "./uploads"),
		S3Endpoint:        getEnv("S3_ENDPOINT", ""),
		S3Region:          getEnv("S3_REGION", "us-east-1"),
		S3Bucket:          getEnv("S3_BUCKET", "promptlover"),
		S3AccessKey:       getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey:       getEnv("S3_SECRET_KEY", ""),
		ReconcileSchedule: getEnv("RECONCILE_SCHEDULE", "@every 10m"),
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
