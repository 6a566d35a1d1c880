// Package storage defines the blob store contract used by the file and post services.
// Two drivers implement it: MinioStorage for any S3-compatible endpoint and
// GocloudStorage for gocloud.dev bucket URLs (s3://, file://, mem://).
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ErrNotFound is returned when a keyed operation targets a missing object.
var ErrNotFound = errors.New("object not found")

// ErrUnavailable matches transport and authentication failures of the backend.
var ErrUnavailable = errors.New("object store unavailable")

// Storage is the interface for storing, enumerating and removing blobs.
type Storage interface {
	// Put writes data under key. Existing objects are overwritten.
	Put(ctx context.Context, key string, data []byte, contentType string) (*PutResult, error)
	// List returns objects whose key starts with prefix, excluding directory
	// markers. limit <= 0 lists everything.
	List(ctx context.Context, prefix string, limit int) ([]ObjectInfo, error)
	// Get returns the full contents of the object at key.
	Get(ctx context.Context, key string) ([]byte, error)
	// Delete removes the object at key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// PublicURL constructs the browser-accessible URL for a given key.
	PublicURL(key string) string
}

// PutResult describes a completed write.
type PutResult struct {
	Location string
	Key      string
}

// ObjectInfo is one entry of a listing.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
	StorageClass string
}

// Error carries the failing operation and key of a backend failure.
// It matches ErrUnavailable with errors.Is.
type Error struct {
	Op  string
	Key string
	Err error
}

func (e *Error) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Op, e.Key, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == ErrUnavailable }

func unavailable(op, key string, err error) error {
	return &Error{Op: op, Key: key, Err: err}
}

// IsDirMarker reports whether key is a zero-byte "folder" placeholder.
func IsDirMarker(key string) bool {
	return strings.HasSuffix(key, "/")
}

// joinURL appends key to base, percent-encoding each path segment.
func joinURL(base, key string) string {
	escaped := (&url.URL{Path: strings.TrimLeft(key, "/")}).EscapedPath()
	return strings.TrimRight(base, "/") + "/" + escaped
}
