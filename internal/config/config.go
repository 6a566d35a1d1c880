// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// DefaultRegion is used for every public URL when AWS_REGION is unset.
const DefaultRegion = "us-east-1"

// DefaultMaxUploadBytes is the 10 MiB ceiling applied to uploaded files.
const DefaultMaxUploadBytes int64 = 10 << 20

// Config holds all runtime configuration for the service.
type Config struct {
	Port        string
	AppEnv      string
	LogLevel    string
	LogFormat   string
	CORSOrigins []string

	// AWS credentials are read by the store client libraries themselves;
	// they are kept here only so the minio driver can be given static keys.
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSRegion          string
	Bucket             string

	// StorageDriver selects the blob store implementation: "minio" or "gocloud".
	StorageDriver       string
	StorageEndpoint     string
	StorageUseSSL       bool
	StorageCreateBucket bool
	StoragePublicPolicy bool
	StoragePublicBase   string // overrides the derived https://{bucket}.s3.{region}.amazonaws.com base
	BlobURL             string // gocloud bucket URL, e.g. "s3://bucket?region=us-east-1" or "file:///tmp/blobs"

	TraceExporter string

	AuthJWTSecret string // empty disables bearer auth on mutating routes

	CompensateOrphans bool
	MaxUploadBytes    int64
}

// Load reads configuration from a .env file (if present) and environment variables.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, reading from environment")
	}

	region := getEnv("AWS_REGION", DefaultRegion)
	bucket := getEnv("S3_BUCKET_NAME", "my-demo-bucket-123")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		AppEnv:      getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "console"),
		CORSOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),

		AWSAccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		AWSRegion:          region,
		Bucket:             bucket,

		StorageDriver:       getEnv("STORAGE_DRIVER", "minio"),
		StorageEndpoint:     getEnv("STORAGE_ENDPOINT", "s3.amazonaws.com"),
		StorageUseSSL:       getBool("STORAGE_USE_SSL", true),
		StorageCreateBucket: getBool("STORAGE_CREATE_BUCKET", false),
		StoragePublicPolicy: getBool("STORAGE_PUBLIC_POLICY", false),
		StoragePublicBase:   os.Getenv("STORAGE_PUBLIC_BASE"),
		BlobURL:             getEnv("BLOB_URL", fmt.Sprintf("s3://%s?region=%s", bucket, region)),

		TraceExporter: getEnv("TRACE_EXPORTER", "noop"),

		AuthJWTSecret: os.Getenv("AUTH_JWT_SECRET"),

		CompensateOrphans: getBool("POSTS_COMPENSATE_ORPHANS", false),
		MaxUploadBytes:    getInt64("MAX_UPLOAD_BYTES", DefaultMaxUploadBytes),
	}
}

// IsProduction returns true when the app is running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// PublicBase returns the browser-accessible base URL for stored objects.
// Every call site derives object URLs from this one rule.
func (c *Config) PublicBase() string {
	if c.StoragePublicBase != "" {
		return strings.TrimRight(c.StoragePublicBase, "/")
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", c.Bucket, c.AWSRegion)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("invalid boolean, using default")
		return fallback
	}
	return b
}

func getInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		log.Warn().Str("key", key).Str("value", v).Msg("invalid size, using default")
		return fallback
	}
	return n
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
