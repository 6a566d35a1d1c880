// Package client is a typed HTTP client for the bucketdrop API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bucketdrop/service/internal/trace"
	"github.com/klauspost/compress/gzhttp"
	"github.com/rs/zerolog/log"
)

// MaxUploadBytes mirrors the server's default upload ceiling so oversized
// files are rejected before they are sent.
const MaxUploadBytes int64 = 10 << 20

// ErrPostNotFound is returned by Post when the server answers 404.
var ErrPostNotFound = errors.New("post not found")

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"error"`
	Details    string `json:"details"`
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
	if e.Details != "" {
		msg += " (" + e.Details + ")"
	}
	return msg
}

type File struct {
	Key          string    `json:"key"`
	URL          string    `json:"url"`
	LastModified time.Time `json:"lastModified"`
	Size         int64     `json:"size"`
	StorageClass string    `json:"storageClass"`
}

type UploadResp struct {
	Message      string    `json:"message"`
	FileURL      string    `json:"fileUrl"`
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
}

type DeleteFileResp struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Key     string `json:"key"`
}

type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"imageUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

type CreatePostReq struct {
	Title     string
	Content   string
	ImageName string
	Image     io.Reader
}

type MessageResp struct {
	Message string `json:"message"`
}

type TestResp struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type Client struct {
	client   *http.Client
	endpoint string
}

// NewClient returns a client for the API rooted at endpoint, e.g.
// "http://localhost:8080/api". token, when set, is sent as a bearer token.
func NewClient(version, endpoint, token string) Client {
	client := &http.Client{Timeout: 60 * time.Second}

	client.Transport = gzhttp.Transport(roundTripperFunc(
		func(req *http.Request) (*http.Response, error) {
			req = req.Clone(req.Context())
			if token != "" {
				req.Header.Set("Authorization", "Bearer "+token)
			}
			req.Header.Set("User-Agent", fmt.Sprint("dropctl/", version))
			req.Header.Set("Accept", "application/json")
			return http.DefaultTransport.RoundTrip(req)
		}),
	)

	return Client{client: client, endpoint: strings.TrimRight(endpoint, "/")}
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (fn roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return fn(r)
}

func (c Client) Test(ctx context.Context) (TestResp, error) {
	ctx, span := trace.Start(ctx, "Client.Test")
	defer span.End()

	_, resp, err := doRequest[TestResp](ctx, c.client, http.MethodGet, c.endpoint+"/test", nil, "")
	return resp, trace.Fail(span, err)
}

// Upload sends r as the multipart file field under name.
func (c Client) Upload(ctx context.Context, name string, r io.Reader) (UploadResp, error) {
	ctx, span := trace.Start(ctx, "Client.Upload")
	defer span.End()

	var resp UploadResp
	body, contentType, err := multipartBody(nil, "file", name, r)
	if err != nil {
		return resp, trace.Fail(span, err)
	}

	_, resp, err = doRequest[UploadResp](ctx, c.client, http.MethodPost, c.endpoint+"/upload", body, contentType)
	return resp, trace.Fail(span, err)
}

func (c Client) Files(ctx context.Context) ([]File, error) {
	ctx, span := trace.Start(ctx, "Client.Files")
	defer span.End()

	_, resp, err := doRequest[[]File](ctx, c.client, http.MethodGet, c.endpoint+"/files", nil, "")
	return resp, trace.Fail(span, err)
}

// DeleteFile deletes key. Slashes in the key are escaped.
func (c Client) DeleteFile(ctx context.Context, key string) (DeleteFileResp, error) {
	ctx, span := trace.Start(ctx, "Client.DeleteFile")
	defer span.End()

	u := c.endpoint + "/file/" + url.PathEscape(key)
	_, resp, err := doRequest[DeleteFileResp](ctx, c.client, http.MethodDelete, u, nil, "")
	return resp, trace.Fail(span, err)
}

func (c Client) Posts(ctx context.Context) ([]Post, error) {
	ctx, span := trace.Start(ctx, "Client.Posts")
	defer span.End()

	_, resp, err := doRequest[[]Post](ctx, c.client, http.MethodGet, c.endpoint+"/posts", nil, "")
	return resp, trace.Fail(span, err)
}

func (c Client) Post(ctx context.Context, id string) (Post, error) {
	ctx, span := trace.Start(ctx, "Client.Post")
	defer span.End()

	res, resp, err := doRequest[Post](ctx, c.client, http.MethodGet, c.endpoint+"/posts/"+url.PathEscape(id), nil, "")
	if res != nil && res.StatusCode == http.StatusNotFound {
		return resp, ErrPostNotFound
	}
	return resp, trace.Fail(span, err)
}

func (c Client) CreatePost(ctx context.Context, req CreatePostReq) (Post, error) {
	ctx, span := trace.Start(ctx, "Client.CreatePost")
	defer span.End()

	var resp Post
	fields := map[string]string{"title": req.Title, "content": req.Content}
	body, contentType, err := multipartBody(fields, "image", req.ImageName, req.Image)
	if err != nil {
		return resp, trace.Fail(span, err)
	}

	_, resp, err = doRequest[Post](ctx, c.client, http.MethodPost, c.endpoint+"/posts", body, contentType)
	return resp, trace.Fail(span, err)
}

func (c Client) DeletePost(ctx context.Context, id string) (MessageResp, error) {
	ctx, span := trace.Start(ctx, "Client.DeletePost")
	defer span.End()

	_, resp, err := doRequest[MessageResp](ctx, c.client, http.MethodDelete, c.endpoint+"/posts/"+url.PathEscape(id), nil, "")
	return resp, trace.Fail(span, err)
}

func multipartBody(fields map[string]string, fileField, filename string, r io.Reader) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", k, err)
		}
	}
	if r != nil {
		fw, err := mw.CreateFormFile(fileField, filename)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create form file: %w", err)
		}
		if _, err := io.Copy(fw, r); err != nil {
			return nil, "", fmt.Errorf("failed to copy file: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}
	return &buf, mw.FormDataContentType(), nil
}

// isJSONContentType accepts "application/json" with optional parameters.
func isJSONContentType(contentType string) bool {
	contentType = strings.TrimSpace(strings.ToLower(contentType))
	return strings.HasPrefix(contentType, "application/json")
}

func doRequest[V any](ctx context.Context, client *http.Client, method, url string, body io.Reader, contentType string) (res *http.Response, resp V, err error) {
	ctx, span := trace.Start(ctx, "DoRequest")
	defer span.End()

	if body == nil {
		body = http.NoBody
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, resp, trace.Fail(span, fmt.Errorf("failed to create request: %w", err))
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	res, err = client.Do(req)
	if err != nil {
		return nil, resp, trace.Fail(span, fmt.Errorf("failed to do request: %w", err))
	}
	defer func() {
		_ = res.Body.Close()
	}()

	log.Debug().Str("method", method).Str("url", url).Int("status", res.StatusCode).Msg("api response")

	if !isJSONContentType(res.Header.Get("Content-Type")) {
		return res, resp, trace.Fail(span, fmt.Errorf("unexpected content type %q (status %s)", res.Header.Get("Content-Type"), res.Status))
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: res.StatusCode}
		if err := json.NewDecoder(res.Body).Decode(apiErr); err != nil {
			apiErr.Message = res.Status
		}
		return res, resp, trace.Fail(span, apiErr)
	}

	if err = json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return res, resp, trace.Fail(span, fmt.Errorf("failed to decode response body: %w", err))
	}

	return res, resp, nil
}
