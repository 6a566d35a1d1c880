package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/bucketdrop/service/internal/trace"
	"go.opentelemetry.io/otel/attribute"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // Local file driver for development
	_ "gocloud.dev/blob/memblob"  // In-memory driver for tests
	_ "gocloud.dev/blob/s3blob"   // AWS S3 driver
	"gocloud.dev/gcerrors"
)

// GocloudStorage implements Storage on top of a gocloud.dev bucket.
type GocloudStorage struct {
	bucket     *blob.Bucket
	publicBase string
}

var _ Storage = (*GocloudStorage)(nil)

// NewGocloudStorage opens a bucket from a URL.
// For S3: "s3://bucket-name?region=us-east-1"
// For local development: "file:///path/to/directory"
// For tests: "mem://"
func NewGocloudStorage(ctx context.Context, bucketURL, publicBase string) (*GocloudStorage, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open blob bucket: %w", err)
	}
	return &GocloudStorage{bucket: bucket, publicBase: publicBase}, nil
}

// Close closes the underlying bucket connection.
func (s *GocloudStorage) Close() error {
	return s.bucket.Close()
}

func (s *GocloudStorage) Put(ctx context.Context, key string, data []byte, contentType string) (*PutResult, error) {
	ctx, span := trace.Start(ctx, "GocloudStorage.Put")
	defer span.End()
	span.SetAttributes(attribute.String("blob_key", key), attribute.Int("bytes", len(data)))

	if err := s.bucket.WriteAll(ctx, key, data, &blob.WriterOptions{ContentType: contentType}); err != nil {
		return nil, trace.Fail(span, unavailable("write blob", key, err))
	}
	return &PutResult{Location: s.PublicURL(key), Key: key}, nil
}

func (s *GocloudStorage) List(ctx context.Context, prefix string, limit int) ([]ObjectInfo, error) {
	ctx, span := trace.Start(ctx, "GocloudStorage.List")
	defer span.End()
	span.SetAttributes(attribute.String("prefix", prefix))

	out := make([]ObjectInfo, 0)
	iter := s.bucket.List(&blob.ListOptions{Prefix: prefix})
	for limit <= 0 || len(out) < limit {
		obj, err := iter.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, trace.Fail(span, unavailable("list blobs", prefix, err))
		}
		if obj.IsDir || IsDirMarker(obj.Key) {
			continue
		}

		info := ObjectInfo{
			Key:          obj.Key,
			Size:         obj.Size,
			LastModified: obj.ModTime,
		}
		var s3obj types.Object
		if obj.As(&s3obj) {
			info.StorageClass = string(s3obj.StorageClass)
		}
		out = append(out, info)
	}

	span.SetAttributes(attribute.Int("objects", len(out)))
	return out, nil
}

func (s *GocloudStorage) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, span := trace.Start(ctx, "GocloudStorage.Get")
	defer span.End()
	span.SetAttributes(attribute.String("blob_key", key))

	data, err := s.bucket.ReadAll(ctx, key)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, fmt.Errorf("read blob %q: %w", key, ErrNotFound)
		}
		return nil, trace.Fail(span, unavailable("read blob", key, err))
	}
	return data, nil
}

// Delete removes the blob at key; a missing key counts as deleted.
func (s *GocloudStorage) Delete(ctx context.Context, key string) error {
	ctx, span := trace.Start(ctx, "GocloudStorage.Delete")
	defer span.End()
	span.SetAttributes(attribute.String("blob_key", key))

	if err := s.bucket.Delete(ctx, key); err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil
		}
		return trace.Fail(span, unavailable("delete blob", key, err))
	}
	return nil
}

func (s *GocloudStorage) PublicURL(key string) string {
	return joinURL(s.publicBase, key)
}
