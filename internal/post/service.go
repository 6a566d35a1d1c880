package post

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/bucketdrop/service/internal/apperr"
	"github.com/bucketdrop/service/internal/storage"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Service contains the business logic for blog posts.
type Service struct {
	repo       *Repository
	images     storage.Storage
	compensate bool
	now        func() time.Time
	newID      func() string
}

// NewService creates a new post Service. images receives post images; when
// compensateOrphans is set, Publish deletes the image of a post whose record
// could not be written.
func NewService(repo *Repository, images storage.Storage, compensateOrphans bool) *Service {
	return &Service{
		repo:       repo,
		images:     images,
		compensate: compensateOrphans,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// Create writes a new post record referencing an already uploaded image.
func (s *Service) Create(ctx context.Context, title, content, imageURL string) (*Post, error) {
	if isBlank(title) || isBlank(content) || isBlank(imageURL) {
		return nil, apperr.Validation("Title, content, and image are required")
	}

	p := &Post{
		ID:        s.newID(),
		Title:     title,
		Content:   content,
		ImageURL:  imageURL,
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, apperr.Unavailable("Failed to create post", err)
	}

	log.Info().Str("post_id", p.ID).Str("title", p.Title).Msg("post created")
	return p, nil
}

// List returns every post, newest first.
func (s *Service) List(ctx context.Context) ([]*Post, error) {
	posts, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch posts", err)
	}
	SortNewestFirst(posts)
	return posts, nil
}

// GetByID returns the post with the given id.
func (s *Service) GetByID(ctx context.Context, id string) (*Post, error) {
	p, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, apperr.NotFound("Post not found", err)
	}
	if err != nil {
		return nil, apperr.Unavailable("Failed to fetch post", err)
	}
	return p, nil
}

// Delete removes the post with the given id. Deleting a missing post succeeds.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperr.Unavailable("Failed to delete post", err)
	}
	log.Info().Str("post_id", id).Msg("post deleted")
	return nil
}

// SortNewestFirst orders posts by CreatedAt descending, ties broken by id.
func SortNewestFirst(posts []*Post) {
	slices.SortStableFunc(posts, func(a, b *Post) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
