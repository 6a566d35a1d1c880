package file

import (
	"context"
	"errors"
	"path"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/bucketdrop/service/internal/apperr"
	"github.com/bucketdrop/service/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBase = "https://demo.s3.us-east-1.amazonaws.com"

func newTestService(t *testing.T) (*Service, *storage.GocloudStorage) {
	t.Helper()
	store, err := storage.NewGocloudStorage(context.Background(), "mem://", testBase)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return NewService(store, 10<<20), store
}

// brokenStore fails every operation as an unreachable backend would.
type brokenStore struct{ storage.Storage }

var errBackend = errors.New("dial tcp 52.219.0.1:443: i/o timeout")

func (brokenStore) Put(context.Context, string, []byte, string) (*storage.PutResult, error) {
	return nil, errBackend
}
func (brokenStore) List(context.Context, string, int) ([]storage.ObjectInfo, error) {
	return nil, errBackend
}
func (brokenStore) Delete(context.Context, string) error { return errBackend }

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"my file!@#.pdf":    "my_file___.pdf",
		"report-2026.v2.md": "report-2026.v2.md",
		"ümlaut.txt":        "_mlaut.txt",
		"a/b\\c.png":        "a_b_c.png",
		"":                  "",
	}
	for in, want := range tests {
		assert.Equal(t, want, SanitizeFilename(in), in)
	}
}

func TestObjectKey(t *testing.T) {
	now := time.Date(2026, time.March, 7, 23, 59, 0, 0, time.Local)
	key := ObjectKey(now, "my file!@#.pdf")
	assert.Equal(t, "uploads/2026/03/07/"+strconv.FormatInt(now.UnixMilli(), 10)+"_my_file___.pdf", key)
}

func TestUpload_KeyAndResult(t *testing.T) {
	svc, store := newTestService(t)
	now := time.Date(2026, time.October, 16, 9, 13, 20, 123456789, time.Local)
	svc.now = func() time.Time { return now }

	up, err := svc.Upload(context.Background(), UploadInput{
		Filename:    "my file!@#.pdf",
		ContentType: "application/pdf",
		Data:        []byte("%PDF-1.7"),
	})
	require.NoError(t, err)

	name := strings.SplitN(path.Base(up.Key), "_", 2)[1]
	assert.Equal(t, "my_file___.pdf", name)
	assert.Regexp(t, regexp.MustCompile(`^uploads/2026/10/16/\d+_my_file___\.pdf$`), up.Key)
	assert.Regexp(t, regexp.MustCompile(`^[A-Za-z0-9.\-_]+$`), name)
	assert.Equal(t, testBase+"/"+up.Key, up.URL)
	assert.Equal(t, int64(8), up.Size)
	assert.Equal(t, now.UTC().Truncate(time.Millisecond), up.LastModified)

	data, err := store.Get(context.Background(), up.Key)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7", string(data))
}

func TestUpload_Validation(t *testing.T) {
	svc, store := newTestService(t)
	svc.maxBytes = 4

	_, err := svc.Upload(context.Background(), UploadInput{Filename: "empty.txt"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.Upload(context.Background(), UploadInput{Filename: "big.txt", Data: []byte("12345")})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	objs, err := store.List(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Empty(t, objs)
}

func TestUploadThenList(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	up, err := svc.Upload(ctx, UploadInput{Filename: "photo.png", ContentType: "image/png", Data: []byte("0123456789")})
	require.NoError(t, err)

	files, err := svc.List(ctx)
	require.NoError(t, err)

	var matches []File
	for _, f := range files {
		if f.Key == up.Key {
			matches = append(matches, f)
		}
	}
	require.Len(t, matches, 1)
	assert.Equal(t, int64(10), matches[0].Size)
	assert.Equal(t, testBase+"/"+up.Key, matches[0].URL)
	assert.False(t, matches[0].LastModified.IsZero())
}

func TestList_EmptyBucket(t *testing.T) {
	svc, _ := newTestService(t)

	files, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, files)
	assert.Empty(t, files)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	up, err := svc.Upload(ctx, UploadInput{Filename: "a.txt", Data: []byte("a")})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, up.Key))
	files, err := svc.List(ctx)
	require.NoError(t, err)
	for _, f := range files {
		assert.NotEqual(t, up.Key, f.Key)
	}

	assert.NoError(t, svc.Delete(ctx, "uploads/never/existed.txt"))
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(svc.Delete(ctx, "")))
}

func TestService_StoreFailures(t *testing.T) {
	ctx := context.Background()
	svc := NewService(brokenStore{}, 10<<20)

	_, err := svc.Upload(ctx, UploadInput{Filename: "a.txt", Data: []byte("a")})
	assert.Equal(t, apperr.KindUnavailable, apperr.KindOf(err))
	assert.ErrorIs(t, err, errBackend)

	_, err = svc.List(ctx)
	assert.Equal(t, apperr.KindUnavailable, apperr.KindOf(err))

	err = svc.Delete(ctx, "k")
	assert.Equal(t, apperr.KindUnavailable, apperr.KindOf(err))
}
