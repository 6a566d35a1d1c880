package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/bucketdrop/service/internal/trace"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
)

// MinioOptions configures NewMinioStorage.
type MinioOptions struct {
	Endpoint   string // "s3.amazonaws.com" for AWS, "localhost:9000" for MinIO
	AccessKey  string
	SecretKey  string
	Region     string
	Bucket     string
	PublicBase string
	UseSSL     bool

	// CreateBucket makes the bucket when it does not exist yet.
	CreateBucket bool
	// PublicRead applies an anonymous GetObject bucket policy.
	PublicRead bool
}

// MinioStorage implements Storage using minio-go against any S3-compatible backend.
type MinioStorage struct {
	client     *minio.Client
	bucket     string
	publicBase string
}

var _ Storage = (*MinioStorage)(nil)

// NewMinioStorage creates a minio client and, when asked to, ensures the bucket
// exists with a public-read policy.
func NewMinioStorage(ctx context.Context, opts MinioOptions) (*MinioStorage, error) {
	creds := credentials.NewEnvAWS()
	if opts.AccessKey != "" {
		creds = credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, "")
	}

	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  creds,
		Secure: opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	if opts.CreateBucket {
		exists, err := client.BucketExists(ctx, opts.Bucket)
		if err != nil {
			return nil, fmt.Errorf("check bucket existence: %w", err)
		}
		if !exists {
			if err := client.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{Region: opts.Region}); err != nil {
				return nil, fmt.Errorf("create bucket %q: %w", opts.Bucket, err)
			}
			log.Info().Str("bucket", opts.Bucket).Msg("storage: created bucket")
		}
	}

	if opts.PublicRead {
		if err := client.SetBucketPolicy(ctx, opts.Bucket, publicReadPolicy(opts.Bucket)); err != nil {
			return nil, fmt.Errorf("set bucket policy: %w", err)
		}
	}

	return &MinioStorage{
		client:     client,
		bucket:     opts.Bucket,
		publicBase: opts.PublicBase,
	}, nil
}

// Put uploads data under key with the given content type.
func (s *MinioStorage) Put(ctx context.Context, key string, data []byte, contentType string) (*PutResult, error) {
	ctx, span := trace.Start(ctx, "MinioStorage.Put")
	defer span.End()
	span.SetAttributes(attribute.String("blob_key", key), attribute.Int("bytes", len(data)))

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, trace.Fail(span, unavailable("put object", key, err))
	}
	return &PutResult{Location: s.PublicURL(key), Key: key}, nil
}

// List walks the bucket recursively under prefix, stopping after limit objects.
func (s *MinioStorage) List(ctx context.Context, prefix string, limit int) ([]ObjectInfo, error) {
	ctx, span := trace.Start(ctx, "MinioStorage.List")
	defer span.End()
	span.SetAttributes(attribute.String("prefix", prefix))

	// Cancelling stops the listing goroutine once the cap is reached.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	out := make([]ObjectInfo, 0)
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, trace.Fail(span, unavailable("list objects", prefix, obj.Err))
		}
		if IsDirMarker(obj.Key) {
			continue
		}
		out = append(out, ObjectInfo{
			Key:          obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
			StorageClass: obj.StorageClass,
		})
		if limit > 0 && len(out) >= limit {
			break
		}
	}

	span.SetAttributes(attribute.Int("objects", len(out)))
	return out, nil
}

// Get downloads the object at key.
func (s *MinioStorage) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, span := trace.Start(ctx, "MinioStorage.Get")
	defer span.End()
	span.SetAttributes(attribute.String("blob_key", key))

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, trace.Fail(span, minioError("get object", key, err))
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, trace.Fail(span, minioError("get object", key, err))
	}
	return data, nil
}

// Delete removes the object at key. S3 reports success for missing keys.
func (s *MinioStorage) Delete(ctx context.Context, key string) error {
	ctx, span := trace.Start(ctx, "MinioStorage.Delete")
	defer span.End()
	span.SetAttributes(attribute.String("blob_key", key))

	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		if isMinioNotFound(err) {
			return nil
		}
		return trace.Fail(span, unavailable("remove object", key, err))
	}
	return nil
}

// PublicURL returns the browser-accessible URL for the given key.
func (s *MinioStorage) PublicURL(key string) string {
	return joinURL(s.publicBase, key)
}

func minioError(op, key string, err error) error {
	if isMinioNotFound(err) {
		return fmt.Errorf("%s %q: %w", op, key, ErrNotFound)
	}
	return unavailable(op, key, err)
}

func isMinioNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || (resp.StatusCode == http.StatusNotFound && resp.Code != "NoSuchBucket")
}

// publicReadPolicy returns an S3 bucket policy JSON that allows anonymous GET on all objects.
func publicReadPolicy(bucket string) string {
	policy := map[string]interface{}{
		"Version": "2012-10-17",
		"Statement": []map[string]interface{}{
			{
				"Effect":    "Allow",
				"Principal": "*",
				"Action":    "s3:GetObject",
				"Resource":  fmt.Sprintf("arn:aws:s3:::%s/*", bucket),
			},
		},
	}
	b, _ := json.Marshal(policy)
	return string(b)
}
