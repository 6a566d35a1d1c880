package file

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/bucketdrop/service/internal/form"
	"github.com/bucketdrop/service/internal/response"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// Handler holds HTTP handlers for file endpoints.
type Handler struct {
	svc      *Service
	maxBytes int64
}

// NewHandler creates a new file Handler. maxBytes is enforced while parsing the
// multipart body, independently of the service-level check.
func NewHandler(svc *Service, maxBytes int64) *Handler {
	return &Handler{svc: svc, maxBytes: maxBytes}
}

type uploadResponse struct {
	Message      string    `json:"message"      example:"File uploaded successfully"`
	FileURL      string    `json:"fileUrl"      example:"https://my-bucket.s3.us-east-1.amazonaws.com/uploads/2026/10/16/1760600000000_report.pdf"`
	Key          string    `json:"key"          example:"uploads/2026/10/16/1760600000000_report.pdf"`
	Size         int64     `json:"size"         example:"52341"`
	LastModified time.Time `json:"lastModified" example:"2026-10-16T09:13:20.000Z"`
}

type deleteResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"File deleted successfully"`
	Key     string `json:"key"     example:"uploads/2026/10/16/1760600000000_report.pdf"`
}

// Upload godoc
//
//	@Summary		Upload a file
//	@Description	Store a file (max 10 MiB) under uploads/{YYYY}/{MM}/{DD}/{epochMillis}_{name}.
//	@Tags			files
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file	true	"File to upload"
//	@Success		200		{object}	uploadResponse
//	@Failure		400		{object}	response.ErrorBody
//	@Failure		500		{object}	response.ErrorBody
//	@Router			/upload [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	f, ok := h.readFile(w, r)
	if !ok {
		return
	}

	up, err := h.svc.Upload(r.Context(), UploadInput{
		Filename:    f.Filename,
		ContentType: f.ContentType,
		Data:        f.Data,
	})
	if err != nil {
		log.Error().Err(err).Str("filename", f.Filename).Msg("error uploading file")
		response.FromError(w, err, "Error uploading file to S3")
		return
	}

	response.OK(w, uploadResponse{
		Message:      "File uploaded successfully",
		FileURL:      up.URL,
		Key:          up.Key,
		Size:         up.Size,
		LastModified: up.LastModified,
	})
}

// List godoc
//
//	@Summary		List files
//	@Description	List up to 1000 stored files. Directory markers are excluded.
//	@Tags			files
//	@Produce		json
//	@Success		200	{array}		File
//	@Failure		500	{object}	response.ErrorBody
//	@Router			/files [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	files, err := h.svc.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("error listing files")
		response.FromError(w, err, "Error listing files from S3")
		return
	}
	response.OK(w, files)
}

// Delete godoc
//
//	@Summary		Delete a file
//	@Description	Delete the object at key. The key is URL-encoded and may contain slashes. Deleting a missing key succeeds.
//	@Tags			files
//	@Produce		json
//	@Param			key	path		string	true	"Object key"
//	@Success		200	{object}	deleteResponse
//	@Failure		400	{object}	response.ErrorBody
//	@Failure		500	{object}	response.ErrorBody
//	@Router			/file/{key} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	key := keyParam(r)

	if err := h.svc.Delete(r.Context(), key); err != nil {
		log.Error().Err(err).Str("key", key).Msg("error deleting file")
		response.Failed(w, err, "Error deleting file from S3")
		return
	}

	response.OK(w, deleteResponse{
		Success: true,
		Message: "File deleted successfully",
		Key:     key,
	})
}

func (h *Handler) readFile(w http.ResponseWriter, r *http.Request) (*form.File, bool) {
	err := form.Parse(w, r, h.maxBytes)
	var f *form.File
	if err == nil {
		f, err = form.ReadFile(r, "file", h.maxBytes)
	}

	switch {
	case err == nil:
		return f, true
	case errors.Is(err, form.ErrMissingFile):
		response.BadRequest(w, "No file uploaded")
	case errors.Is(err, form.ErrTooLarge):
		response.BadRequest(w, "File too large")
	default:
		response.Error(w, http.StatusBadRequest, "Invalid upload", err.Error())
	}
	return nil, false
}

// keyParam returns the unescaped wildcard key. Clients encode slashes as %2F,
// but plain slashes are accepted as well.
func keyParam(r *http.Request) string {
	raw := chi.URLParam(r, "*")
	if key, err := url.PathUnescape(raw); err == nil {
		return key
	}
	return raw
}
