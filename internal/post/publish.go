package post

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/bucketdrop/service/internal/apperr"
	"github.com/bucketdrop/service/internal/form"
	"github.com/rs/zerolog/log"
)

// ImagePrefix is the key prefix of post images.
const ImagePrefix = "blog-images/"

// Image is a post image received from a client.
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}

// PublishInput carries everything needed to create a post with its image.
type PublishInput struct {
	Title   string
	Content string
	Image   *Image
}

// Publish creates a post in two steps:
//
//  1. upload the image under blog-images/, yielding its public URL;
//  2. write the post record with that URL.
//
// The steps are not atomic. If step 2 fails the image is left in the bucket,
// unless the service was built with compensation, in which case the image is
// deleted best-effort. The step 2 error is returned either way.
// Input is validated before step 1, so invalid requests write nothing.
func (s *Service) Publish(ctx context.Context, in PublishInput) (*Post, error) {
	if in.Image == nil || len(in.Image.Data) == 0 {
		return nil, apperr.Validation("Image is required")
	}
	if isBlank(in.Title) || isBlank(in.Content) {
		return nil, apperr.Validation("Title, content, and image are required")
	}

	imageKey := ImageKey(s.now().UnixMilli(), in.Image.Filename)
	res, err := s.images.Put(ctx, imageKey, in.Image.Data, form.DetectContentType(in.Image.ContentType, in.Image.Data))
	if err != nil {
		return nil, apperr.Unavailable("Failed to upload image to S3", err)
	}
	log.Debug().Str("key", res.Key).Int("size", len(in.Image.Data)).Msg("post image uploaded")

	p, err := s.Create(ctx, in.Title, in.Content, res.Location)
	if err != nil {
		s.compensateImage(ctx, res.Key, err)
		return nil, err
	}
	return p, nil
}

func (s *Service) compensateImage(ctx context.Context, imageKey string, cause error) {
	logger := log.With().Str("image_key", imageKey).AnErr("cause", cause).Logger()
	if !s.compensate {
		logger.Warn().Msg("post record not written, image left orphaned")
		return
	}
	if err := s.images.Delete(context.WithoutCancel(ctx), imageKey); err != nil {
		logger.Error().Err(err).Msg("failed to delete orphaned post image")
		return
	}
	logger.Info().Msg("deleted orphaned post image")
}

// ImageKey returns blog-images/{epochMillis}_{baseName}.
func ImageKey(epochMillis int64, filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" {
		base = "image"
	}
	return fmt.Sprintf("%s%d_%s", ImagePrefix, epochMillis, base)
}
