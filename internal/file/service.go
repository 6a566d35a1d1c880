// Package file implements upload, listing and deletion of user files in the object store.
package file

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/bucketdrop/service/internal/apperr"
	"github.com/bucketdrop/service/internal/form"
	"github.com/bucketdrop/service/internal/storage"
	"github.com/rs/zerolog/log"
)

// listCap is the maximum number of keys returned by List.
const listCap = 1000

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9.\-]`)

// File is one stored object as returned by List.
type File struct {
	Key          string    `json:"key"`
	URL          string    `json:"url"`
	LastModified time.Time `json:"lastModified"`
	Size         int64     `json:"size"`
	StorageClass string    `json:"storageClass"`
}

// UploadInput is a file received from a client.
type UploadInput struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Uploaded describes a stored upload.
type Uploaded struct {
	URL          string
	Key          string
	Size         int64
	LastModified time.Time
}

// Service contains the business logic for user files.
type Service struct {
	store    storage.Storage
	maxBytes int64
	now      func() time.Time
}

// NewService creates a new file Service. maxBytes caps the size of a single upload.
func NewService(store storage.Storage, maxBytes int64) *Service {
	return &Service{store: store, maxBytes: maxBytes, now: time.Now}
}

// Upload stores in under a date-partitioned key built from the server's local clock.
func (s *Service) Upload(ctx context.Context, in UploadInput) (*Uploaded, error) {
	if len(in.Data) == 0 {
		return nil, apperr.Validation("No file uploaded")
	}
	if int64(len(in.Data)) > s.maxBytes {
		return nil, apperr.Validation(fmt.Sprintf("File size should be less than %d bytes", s.maxBytes))
	}

	now := s.now()
	key := ObjectKey(now, in.Filename)
	contentType := form.DetectContentType(in.ContentType, in.Data)

	res, err := s.store.Put(ctx, key, in.Data, contentType)
	if err != nil {
		return nil, apperr.Unavailable("Error uploading file to S3", err)
	}

	log.Info().Str("key", res.Key).Int("size", len(in.Data)).Str("content_type", contentType).Msg("file uploaded")

	return &Uploaded{
		URL:          res.Location,
		Key:          res.Key,
		Size:         int64(len(in.Data)),
		LastModified: now.UTC().Truncate(time.Millisecond),
	}, nil
}

// List returns up to 1000 stored files across the whole bucket.
func (s *Service) List(ctx context.Context) ([]File, error) {
	objs, err := s.store.List(ctx, "", listCap)
	if err != nil {
		return nil, apperr.Unavailable("Error listing files from S3", err)
	}

	files := make([]File, 0, len(objs))
	for _, obj := range objs {
		if storage.IsDirMarker(obj.Key) {
			continue
		}
		files = append(files, File{
			Key:          obj.Key,
			URL:          s.store.PublicURL(obj.Key),
			LastModified: obj.LastModified,
			Size:         obj.Size,
			StorageClass: obj.StorageClass,
		})
	}

	log.Debug().Int("count", len(files)).Msg("listed files")
	return files, nil
}

// Delete removes the object at key. Missing objects are reported as deleted.
func (s *Service) Delete(ctx context.Context, key string) error {
	if key == "" {
		return apperr.Validation("File key is required")
	}
	if err := s.store.Delete(ctx, key); err != nil {
		return apperr.Unavailable("Error deleting file from S3", err)
	}
	log.Info().Str("key", key).Msg("file deleted")
	return nil
}

// SanitizeFilename replaces every character outside [A-Za-z0-9.-] with an underscore.
func SanitizeFilename(name string) string {
	return unsafeNameChars.ReplaceAllString(name, "_")
}

// ObjectKey builds uploads/{YYYY}/{MM}/{DD}/{epochMillis}_{sanitizedName} for now.
func ObjectKey(now time.Time, filename string) string {
	return fmt.Sprintf("uploads/%04d/%02d/%02d/%d_%s",
		now.Year(), int(now.Month()), now.Day(), now.UnixMilli(), SanitizeFilename(filename))
}
