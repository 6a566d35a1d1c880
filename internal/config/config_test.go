package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "AWS_REGION", "S3_BUCKET_NAME", "STORAGE_DRIVER", "BLOB_URL",
		"STORAGE_PUBLIC_BASE", "CORS_ALLOWED_ORIGINS", "MAX_UPLOAD_BYTES", "STORAGE_USE_SSL",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DefaultRegion, cfg.AWSRegion)
	assert.Equal(t, "minio", cfg.StorageDriver)
	assert.True(t, cfg.StorageUseSSL)
	assert.Equal(t, DefaultMaxUploadBytes, cfg.MaxUploadBytes)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, "s3://my-demo-bucket-123?region=us-east-1", cfg.BlobURL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("AWS_REGION", "ap-south-1")
	t.Setenv("S3_BUCKET_NAME", "photos")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, https://example.app ,")
	t.Setenv("STORAGE_USE_SSL", "false")
	t.Setenv("MAX_UPLOAD_BYTES", "not-a-number")
	t.Setenv("POSTS_COMPENSATE_ORPHANS", "true")

	cfg := Load()

	assert.Equal(t, []string{"http://localhost:3000", "https://example.app"}, cfg.CORSOrigins)
	assert.False(t, cfg.StorageUseSSL)
	assert.True(t, cfg.CompensateOrphans)
	assert.Equal(t, DefaultMaxUploadBytes, cfg.MaxUploadBytes)
	assert.Equal(t, "https://photos.s3.ap-south-1.amazonaws.com", cfg.PublicBase())
}

func TestPublicBase_Override(t *testing.T) {
	cfg := &Config{Bucket: "b", AWSRegion: "eu-west-1", StoragePublicBase: "http://localhost:9000/b/"}
	require.Equal(t, "http://localhost:9000/b", cfg.PublicBase())

	cfg.StoragePublicBase = ""
	require.Equal(t, "https://b.s3.eu-west-1.amazonaws.com", cfg.PublicBase())
}
