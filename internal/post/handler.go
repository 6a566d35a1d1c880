package post

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/bucketdrop/service/internal/form"
	"github.com/bucketdrop/service/internal/response"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// Handler holds HTTP handlers for post endpoints.
type Handler struct {
	svc      *Service
	maxBytes int64
}

// NewHandler creates a new post Handler.
func NewHandler(svc *Service, maxBytes int64) *Handler {
	return &Handler{svc: svc, maxBytes: maxBytes}
}

type deletedResponse struct {
	Message string `json:"message" example:"Post deleted"`
}

// Create godoc
//
//	@Summary		Create a post
//	@Description	Upload the image, then write the post record. The two writes are not atomic.
//	@Tags			posts
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			image	formData	file	true	"Post image"
//	@Param			title	formData	string	true	"Title"
//	@Param			content	formData	string	true	"Content"
//	@Success		201		{object}	Post
//	@Failure		400		{object}	response.ErrorBody
//	@Failure		500		{object}	response.ErrorBody
//	@Router			/posts [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if err := form.Parse(w, r, h.maxBytes); err != nil {
		if errors.Is(err, form.ErrTooLarge) {
			response.BadRequest(w, "Image too large")
			return
		}
		response.Error(w, http.StatusBadRequest, "Invalid upload", err.Error())
		return
	}

	in := PublishInput{
		Title:   r.FormValue("title"),
		Content: r.FormValue("content"),
	}

	img, err := form.ReadFile(r, "image", h.maxBytes)
	switch {
	case err == nil:
		in.Image = &Image{Filename: img.Filename, ContentType: img.ContentType, Data: img.Data}
	case errors.Is(err, form.ErrMissingFile):
		// Publish reports the missing image.
	case errors.Is(err, form.ErrTooLarge):
		response.BadRequest(w, "Image too large")
		return
	default:
		response.Error(w, http.StatusBadRequest, "Invalid upload", err.Error())
		return
	}

	p, err := h.svc.Publish(r.Context(), in)
	if err != nil {
		log.Error().Err(err).Str("title", in.Title).Msg("error creating post")
		response.FromError(w, err, "Failed to create post")
		return
	}

	response.Created(w, p)
}

// List godoc
//
//	@Summary		List posts
//	@Description	Read every post document, newest first. Not paginated.
//	@Tags			posts
//	@Produce		json
//	@Success		200	{array}		Post
//	@Failure		500	{object}	response.ErrorBody
//	@Router			/posts [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.svc.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("error fetching posts")
		response.FromError(w, err, "Failed to fetch posts")
		return
	}
	response.OK(w, posts)
}

// Get godoc
//
//	@Summary		Get a post
//	@Tags			posts
//	@Produce		json
//	@Param			id	path		string	true	"Post id"
//	@Success		200	{object}	Post
//	@Failure		404	{object}	response.ErrorBody
//	@Router			/posts/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)

	p, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		log.Debug().Err(err).Str("post_id", id).Msg("post lookup failed")
		response.FromError(w, err, "Failed to fetch post")
		return
	}
	response.OK(w, p)
}

// Delete godoc
//
//	@Summary		Delete a post
//	@Description	Delete the post document. Deleting a missing post succeeds.
//	@Tags			posts
//	@Produce		json
//	@Param			id	path		string	true	"Post id"
//	@Success		200	{object}	deletedResponse
//	@Failure		500	{object}	response.ErrorBody
//	@Router			/posts/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)

	if err := h.svc.Delete(r.Context(), id); err != nil {
		log.Error().Err(err).Str("post_id", id).Msg("error deleting post")
		response.FromError(w, err, "Failed to delete post")
		return
	}
	response.OK(w, deletedResponse{Message: "Post deleted"})
}

// idParam returns the unescaped {id} path segment.
func idParam(r *http.Request) string {
	raw := chi.URLParam(r, "id")
	if id, err := url.PathUnescape(raw); err == nil {
		return id
	}
	return raw
}
