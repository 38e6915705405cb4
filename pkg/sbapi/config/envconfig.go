package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type EnvConfig struct {
	Port        string `envconfig:"PORT" default:"3000"`
	BaseURL     string `envconfig:"BASE_URL" required:"true"`
	AuthSecret  string `envconfig:"AUTH_SECRET" required:"true"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	// CronSecret authorizes the external scheduler that triggers
	// reclamation. Empty disables the cron endpoint.
	CronSecret string `envconfig:"CRON_SECRET"`

	MaxUploadMB     int64 `envconfig:"MAX_UPLOAD_MB" default:"50"`
	ProjectTTLHours int   `envconfig:"PROJECT_TTL_HOURS" default:"24"`

	DBHost         string `envconfig:"DB_HOST" default:"localhost"`
	DBPort         int    `envconfig:"DB_PORT" default:"5432"`
	DBUser         string `envconfig:"DB_USER" default:"sitebox"`
	DBPassword     string `envconfig:"DB_PASSWORD" default:"password"`
	DBName         string `envconfig:"DB_NAME" default:"sitebox"`
	DBSSLMode      string `envconfig:"DB_SSLMODE" default:"disable"`
	DBResolverAddr string `envconfig:"DB_RESOLVER_ADDR"` // optional DNS override, e.g. "8.8.8.8:53"

	RedisAddr     string `envconfig:"REDIS_ADDR"` // empty falls back to the in-memory store
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	StorageDir string `envconfig:"STORAGE_DIR" default:"./storage"`

	// Primary object storage (MinIO/S3-compatible). Empty endpoint
	// leaves it unconfigured and writes land on local disk.
	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey string `envconfig:"S3_SECRET_KEY"`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"sitebox"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`
	S3UseSSL    bool   `envconfig:"S3_USE_SSL" default:"false"`

	// Secondary object storage (AWS S3). Kept configured after a
	// migration so old projects remain servable. Empty bucket disables.
	AWSRegion    string `envconfig:"AWS_REGION"`
	AWSBucket    string `envconfig:"AWS_BUCKET"`
	AWSAccessKey string `envconfig:"AWS_ACCESS_KEY"`
	AWSSecretKey string `envconfig:"AWS_SECRET_KEY"`
	AWSEndpoint  string `envconfig:"AWS_ENDPOINT"`

	MetricsEnabled bool `envconfig:"METRICS_ENABLED" default:"true"`
}

func IsDev() bool {
	return os.Getenv("ENVIRONMENT") != "production"
}

func ValidateEnv() (*EnvConfig, error) {
	if IsDev() {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found")
		} else {
			log.Println("Loaded .env file")
		}
	}

	var cfg EnvConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var errors []string

	if len(cfg.AuthSecret) < 32 {
		errors = append(errors, "  AUTH_SECRET must be at least 32 characters")
	}

	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		errors = append(errors, "  BASE_URL must be a valid URL")
	}

	if cfg.MaxUploadMB <= 0 {
		errors = append(errors, "  MAX_UPLOAD_MB must be positive")
	}

	if cfg.ProjectTTLHours <= 0 {
		errors = append(errors, "  PROJECT_TTL_HOURS must be positive")
	}

	if cfg.S3Endpoint != "" && (cfg.S3AccessKey == "" || cfg.S3SecretKey == "") {
		errors = append(errors, "  S3_ACCESS_KEY and S3_SECRET_KEY are required when S3_ENDPOINT is set")
	}

	if cfg.AWSBucket != "" && cfg.AWSRegion == "" {
		errors = append(errors, "  AWS_REGION is required when AWS_BUCKET is set")
	}

	if len(errors) > 0 {
		return nil, fmt.Errorf("environment validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return &cfg, nil
}

func MaskSecret(secret string) string {
	if secret == "" {
		return "<not set>"
	}
	if len(secret) <= 8 {
		return "***"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}

func (c *EnvConfig) Print(fmtr func(string, ...interface{})) {
	fmtr("Configuration:\n")
	fmtr("  Environment: %s\n", c.Environment)
	fmtr("  Port: %s\n", c.Port)
	fmtr("  Base URL: %s\n", c.BaseURL)
	fmtr("  Auth Secret: %s\n", MaskSecret(c.AuthSecret))
	fmtr("  Database: %s@%s:%d/%s (sslmode=%s)\n", c.DBUser, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
	fmtr("  Upload limit: %d MB, project TTL: %dh\n", c.MaxUploadMB, c.ProjectTTLHours)
	fmtr("  Local storage: %s\n", c.StorageDir)

	if c.S3Endpoint != "" {
		fmtr("  S3: enabled (%s, bucket %s)\n", c.S3Endpoint, c.S3Bucket)
	} else {
		fmtr("  S3: disabled\n")
	}

	if c.AWSBucket != "" {
		fmtr("  AWS S3: enabled (bucket %s, region %s)\n", c.AWSBucket, c.AWSRegion)
	} else {
		fmtr("  AWS S3: disabled\n")
	}

	if c.RedisAddr != "" {
		fmtr("  Redis: %s\n", c.RedisAddr)
	} else {
		fmtr("  Redis: in-memory fallback\n")
	}

	if c.CronSecret != "" {
		fmtr("  Cron endpoint: enabled\n")
	} else {
		fmtr("  Cron endpoint: disabled\n")
	}
}
