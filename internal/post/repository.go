// Package post manages blog posts stored as JSON documents in the object store.
package post

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bucketdrop/service/internal/storage"
	"golang.org/x/sync/errgroup"
)

// Prefix is the key prefix under which every post document lives.
const Prefix = "blog-posts/"

// readConcurrency bounds the parallel object reads of ListAll.
const readConcurrency = 8

// Post represents one blog entry.
type Post struct {
	ID        string    `json:"id"        example:"3f1c2a9e-7b1d-4c55-9d0e-2f8a4b6c1d2e"`
	Title     string    `json:"title"     example:"Hello"`
	Content   string    `json:"content"   example:"First post"`
	ImageURL  string    `json:"imageUrl"  example:"https://my-bucket.s3.us-east-1.amazonaws.com/blog-images/1760600000000_cover.png"`
	CreatedAt time.Time `json:"createdAt" example:"2026-10-16T09:13:20.123Z"`
}

// ErrNotFound is returned when a post does not exist or its document is unreadable.
var ErrNotFound = errors.New("post not found")

// Repository persists posts as one JSON blob per post. There is no secondary
// index: listing reads every document under Prefix.
type Repository struct {
	store storage.Storage
}

// NewRepository creates a new Repository over store.
func NewRepository(store storage.Storage) *Repository {
	return &Repository{store: store}
}

// Key returns the object key of the post with the given id.
func Key(id string) string {
	return Prefix + id + ".json"
}

// Save writes p as application/json.
func (r *Repository) Save(ctx context.Context, p *Post) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode post: %w", err)
	}
	if _, err := r.store.Put(ctx, Key(p.ID), data, "application/json"); err != nil {
		return fmt.Errorf("save post %s: %w", p.ID, err)
	}
	return nil
}

// GetByID fetches and decodes one post.
func (r *Repository) GetByID(ctx context.Context, id string) (*Post, error) {
	data, err := r.store.Get(ctx, Key(id))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post %s: %w", id, err)
	}

	p, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotFound, id, err)
	}
	return p, nil
}

// ListAll reads every post document concurrently. Any read or decode failure
// fails the whole call. The result is unordered.
func (r *Repository) ListAll(ctx context.Context) ([]*Post, error) {
	objs, err := r.store.List(ctx, Prefix, 0)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	posts := make([]*Post, len(objs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(readConcurrency)
	for i, obj := range objs {
		g.Go(func() error {
			data, err := r.store.Get(gctx, obj.Key)
			if err != nil {
				return fmt.Errorf("read %s: %w", obj.Key, err)
			}
			p, err := decode(data)
			if err != nil {
				return fmt.Errorf("decode %s: %w", obj.Key, err)
			}
			posts[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return posts, nil
}

// Delete removes the post document. Missing posts are treated as deleted.
func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, Key(id)); err != nil {
		return fmt.Errorf("delete post %s: %w", id, err)
	}
	return nil
}

func decode(data []byte) (*Post, error) {
	var p Post
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
