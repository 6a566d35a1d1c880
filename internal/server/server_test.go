package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bucketdrop/service/internal/auth"
	"github.com/bucketdrop/service/internal/file"
	"github.com/bucketdrop/service/internal/post"
	"github.com/bucketdrop/service/internal/storage"
)

const (
	testBase = "https://demo.s3.us-east-1.amazonaws.com"
	maxBytes = 1 << 20
)

type fixture struct {
	srv   *httptest.Server
	store *storage.GocloudStorage
}

func newFixture(t *testing.T, jwtSecret string) *fixture {
	t.Helper()
	store, err := storage.NewGocloudStorage(context.Background(), "mem://", testBase)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	files := file.NewHandler(file.NewService(store, maxBytes), maxBytes)
	posts := post.NewHandler(post.NewService(post.NewRepository(store), store, false), maxBytes)

	srv := httptest.NewServer(NewRouter(Deps{
		Files:       files,
		Posts:       posts,
		CORSOrigins: []string{"http://localhost:3000"},
		JWTSecret:   jwtSecret,
	}))
	t.Cleanup(srv.Close)
	return &fixture{srv: srv, store: store}
}

type part struct {
	field, filename string
	data            []byte
}

func multipartBody(t *testing.T, fields map[string]string, files ...part) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		fw, err := mw.CreateFormFile(f.field, f.filename)
		require.NoError(t, err)
		_, err = fw.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func (f *fixture) do(t *testing.T, method, p string, body io.Reader, contentType string, out any) int {
	t.Helper()
	req, err := http.NewRequest(method, f.srv.URL+p, body)
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := f.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

type uploadBody struct {
	Message      string    `json:"message"`
	FileURL      string    `json:"fileUrl"`
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
}

type errorBody struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details"`
}

func (f *fixture) upload(t *testing.T, name string, data []byte) uploadBody {
	t.Helper()
	body, ct := multipartBody(t, nil, part{"file", name, data})
	var up uploadBody
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/api/upload", body, ct, &up))
	return up
}

func TestBannerHealthAndSelfTest(t *testing.T) {
	f := newFixture(t, "")

	resp, err := f.srv.Client().Get(f.srv.URL + "/")
	require.NoError(t, err)
	b, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(b), "S3 File Upload API is running")

	var health map[string]string
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/health", nil, "", &health))
	assert.Equal(t, "ok", health["status"])

	var st testResponse
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/test", nil, "", &st))
	assert.Equal(t, "success", st.Status)
	assert.Equal(t, "Backend API is working!", st.Message)
	assert.False(t, st.Timestamp.IsZero())
}

func TestUploadListDelete(t *testing.T) {
	f := newFixture(t, "")

	up := f.upload(t, "my file!@#.pdf", []byte("hello world"))
	assert.Equal(t, "File uploaded successfully", up.Message)
	assert.True(t, strings.HasPrefix(up.Key, "uploads/"))
	assert.True(t, strings.HasSuffix(path.Base(up.Key), "_my_file___.pdf"))
	assert.Equal(t, testBase+"/"+up.Key, up.FileURL)
	assert.Equal(t, int64(11), up.Size)

	var files []file.File
	require.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/files", nil, "", &files))
	var seen int
	for _, fi := range files {
		if fi.Key == up.Key {
			seen++
			assert.Equal(t, int64(11), fi.Size)
		}
	}
	assert.Equal(t, 1, seen)

	var del struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Key     string `json:"key"`
	}
	require.Equal(t, http.StatusOK, f.do(t, http.MethodDelete, "/api/file/"+url.PathEscape(up.Key), nil, "", &del))
	assert.True(t, del.Success)
	assert.Equal(t, "File deleted successfully", del.Message)
	assert.Equal(t, up.Key, del.Key)

	files = nil
	require.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/files", nil, "", &files))
	for _, fi := range files {
		assert.NotEqual(t, up.Key, fi.Key)
	}

	// Unescaped slashes and missing keys are accepted.
	require.Equal(t, http.StatusOK, f.do(t, http.MethodDelete, "/api/file/uploads/2020/01/01/1_gone.txt", nil, "", &del))
	assert.Equal(t, "uploads/2020/01/01/1_gone.txt", del.Key)
}

func TestListFiles_Empty(t *testing.T) {
	f := newFixture(t, "")

	resp, err := f.srv.Client().Get(f.srv.URL + "/api/files")
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(string(b)))
}

func TestUpload_Rejections(t *testing.T) {
	f := newFixture(t, "")

	var eb errorBody
	body, ct := multipartBody(t, map[string]string{"note": "no file"})
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, "/api/upload", body, ct, &eb))
	assert.Equal(t, "No file uploaded", eb.Error)

	body, ct = multipartBody(t, nil, part{"file", "big.bin", bytes.Repeat([]byte("x"), maxBytes+1)})
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, "/api/upload", body, ct, &eb))
	assert.Equal(t, "File too large", eb.Error)

	objs, err := f.store.List(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Empty(t, objs)
}

func (f *fixture) createPost(t *testing.T, title string) post.Post {
	t.Helper()
	body, ct := multipartBody(t,
		map[string]string{"title": title, "content": "body of " + title},
		part{"image", "cover.png", []byte("\x89PNG\r\n\x1a\n")},
	)
	var p post.Post
	require.Equal(t, http.StatusCreated, f.do(t, http.MethodPost, "/api/posts", body, ct, &p))
	return p
}

func TestPosts_CreateGetListDelete(t *testing.T) {
	f := newFixture(t, "")

	first := f.createPost(t, "first")
	time.Sleep(2 * time.Millisecond)
	second := f.createPost(t, "second")
	time.Sleep(2 * time.Millisecond)
	third := f.createPost(t, "third")

	assert.True(t, strings.HasPrefix(first.ImageURL, testBase+"/blog-images/"))

	var got post.Post
	require.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/posts/"+second.ID, nil, "", &got))
	assert.Equal(t, second, got)

	var list []post.Post
	require.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/posts", nil, "", &list))
	require.Len(t, list, 3)
	assert.Equal(t, []string{third.ID, second.ID, first.ID}, []string{list[0].ID, list[1].ID, list[2].ID})

	var msg map[string]string
	require.Equal(t, http.StatusOK, f.do(t, http.MethodDelete, "/api/posts/"+second.ID, nil, "", &msg))
	assert.Equal(t, "Post deleted", msg["message"])

	var eb errorBody
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/api/posts/"+second.ID, nil, "", &eb))
	assert.Equal(t, "Post not found", eb.Error)
}

func TestPosts_NotFound(t *testing.T) {
	f := newFixture(t, "")

	var eb errorBody
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/api/posts/"+uuid.NewString(), nil, "", &eb))
	assert.Equal(t, "Post not found", eb.Error)
}

func TestPosts_EscapedID(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()

	seeded := &post.Post{ID: "draft 1:a", Title: "t", Content: "c", ImageURL: testBase + "/blog-images/1_x.png", CreatedAt: time.Now().UTC()}
	require.NoError(t, post.NewRepository(f.store).Save(ctx, seeded))

	// %3A is not the default encoding of ':', so the request keeps a RawPath.
	escaped := "/api/posts/draft%201%3Aa"

	var got post.Post
	require.Equal(t, http.StatusOK, f.do(t, http.MethodGet, escaped, nil, "", &got))
	assert.Equal(t, seeded.ID, got.ID)

	var msg map[string]string
	require.Equal(t, http.StatusOK, f.do(t, http.MethodDelete, escaped, nil, "", &msg))

	_, err := f.store.Get(ctx, post.Key(seeded.ID))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestPosts_MissingFieldsWriteNothing(t *testing.T) {
	f := newFixture(t, "")

	var eb errorBody
	body, ct := multipartBody(t,
		map[string]string{"title": "no content"},
		part{"image", "cover.png", []byte("png")},
	)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, "/api/posts", body, ct, &eb))
	assert.Equal(t, "Title, content, and image are required", eb.Error)

	body, ct = multipartBody(t, map[string]string{"title": "t", "content": "c"})
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, "/api/posts", body, ct, &eb))
	assert.Equal(t, "Image is required", eb.Error)

	objs, err := f.store.List(context.Background(), "", 0)
	require.NoError(t, err)
	assert.Empty(t, objs)
}

func TestAuth_GuardsMutatingRoutes(t *testing.T) {
	const secret = "s3cret"
	f := newFixture(t, secret)

	var eb errorBody
	body, ct := multipartBody(t, nil, part{"file", "a.txt", []byte("a")})
	assert.Equal(t, http.StatusUnauthorized, f.do(t, http.MethodPost, "/api/upload", body, ct, &eb))

	var files []file.File
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/api/files", nil, "", &files))

	tok, err := auth.Issue(secret, "test", time.Minute)
	require.NoError(t, err)
	body, ct = multipartBody(t, nil, part{"file", "a.txt", []byte("a")})
	req, err := http.NewRequest(http.MethodPost, f.srv.URL+"/api/upload", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", ct)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := f.srv.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUnknownRoute(t *testing.T) {
	f := newFixture(t, "")

	resp, err := f.srv.Client().Get(f.srv.URL + "/api/nope")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUI(t *testing.T) {
	f := newFixture(t, "")

	resp, err := f.srv.Client().Get(f.srv.URL + "/ui/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
}

func TestSwaggerDoc(t *testing.T) {
	f := newFixture(t, "")

	var doc struct {
		Swagger string                    `json:"swagger"`
		Paths   map[string]map[string]any `json:"paths"`
	}
	require.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/swagger/doc.json", nil, "", &doc))
	assert.Equal(t, "2.0", doc.Swagger)
	assert.Contains(t, doc.Paths, "/posts/{id}")
	assert.Contains(t, doc.Paths["/posts/{id}"], "delete")
}
