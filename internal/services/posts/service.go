package posts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/okazarov/sitecms/internal/domain/content"
	"github.com/okazarov/sitecms/internal/pkg/saga"
	"github.com/okazarov/sitecms/internal/pkg/validate"
	"github.com/okazarov/sitecms/internal/services/media"
)

var ErrValidation = errors.New("invalid post payload")

const cacheKey = "posts"

type Store interface {
	Insert(ctx context.Context, post content.Post) (content.Post, error)
	List(ctx context.Context) ([]content.Post, error)
	Get(ctx context.Context, id uuid.UUID) (content.Post, error)
	Update(ctx context.Context, post content.Post) (content.Post, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type MediaService interface {
	UploadDataURI(ctx context.Context, kind, dataURI string) (media.Asset, error)
	Link(ctx context.Context, key string, entityID uuid.UUID) error
	Delete(ctx context.Context, key string) error
}

type ListCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte) error
	Invalidate(ctx context.Context, key string) error
}

type Service struct {
	store Store
	media MediaService
	cache ListCache
	log   *zap.Logger
}

func NewService(store Store, mediaSvc MediaService, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, media: mediaSvc, log: log}
}

// AttachCache enables the shared list cache. Without it every list call
// goes straight to the database.
func (s *Service) AttachCache(cache ListCache) {
	s.cache = cache
}

type CreateInput struct {
	Image string
}

// Create stores the image first and only then the document; if the insert
// fails, the already uploaded object is removed again.
func (s *Service) Create(ctx context.Context, input CreateInput) (content.Post, error) {
	if !validate.Required(input.Image) {
		return content.Post{}, ErrValidation
	}

	post := content.Post{ID: uuid.New()}

	var asset media.Asset
	steps := saga.New(
		saga.Step{
			Name: "upload image",
			Do: func(ctx context.Context) error {
				var err error
				asset, err = s.resolveImage(ctx, input.Image)
				return err
			},
			Compensate: func(ctx context.Context) error {
				return s.media.Delete(ctx, asset.Key)
			},
		},
		saga.Step{
			Name: "insert post",
			Do: func(ctx context.Context) error {
				post.ImageURL = asset.URL
				post.AssetKey = asset.Key
				var err error
				post, err = s.store.Insert(ctx, post)
				return err
			},
		},
	)
	if err := steps.Run(ctx); err != nil {
		return content.Post{}, err
	}

	if asset.Key != "" {
		if err := s.media.Link(ctx, asset.Key, post.ID); err != nil {
			s.log.Warn("link post asset", zap.Error(err))
		}
	}
	s.invalidate(ctx)

	return post, nil
}

func (s *Service) List(ctx context.Context) ([]content.Post, error) {
	if s.cache != nil {
		if data, ok, err := s.cache.Get(ctx, cacheKey); err == nil && ok {
			var posts []content.Post
			if json.Unmarshal(data, &posts) == nil {
				return posts, nil
			}
		}
	}

	posts, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	if s.cache != nil {
		if data, err := json.Marshal(posts); err == nil {
			if err := s.cache.Set(ctx, cacheKey, data); err != nil {
				s.log.Warn("cache posts list", zap.Error(err))
			}
		}
	}

	return posts, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (content.Post, error) {
	return s.store.Get(ctx, id)
}

type UpdateInput struct {
	Image string
}

// Update replaces the image when a new one is supplied; the previous object
// is removed only after the document row has been updated.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (content.Post, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return content.Post{}, err
	}

	oldKey := current.AssetKey
	replaced := false

	if strings.TrimSpace(input.Image) != "" && input.Image != current.ImageURL {
		asset, err := s.resolveImage(ctx, input.Image)
		if err != nil {
			return content.Post{}, err
		}
		current.ImageURL = asset.URL
		current.AssetKey = asset.Key
		replaced = asset.Key != ""
	}

	updated, err := s.store.Update(ctx, current)
	if err != nil {
		if replaced {
			if delErr := s.media.Delete(ctx, current.AssetKey); delErr != nil {
				s.log.Warn("remove replacement image after failed update", zap.Error(delErr))
			}
		}
		return content.Post{}, err
	}

	if replaced {
		if current.AssetKey != "" {
			if err := s.media.Link(ctx, current.AssetKey, updated.ID); err != nil {
				s.log.Warn("link post asset", zap.Error(err))
			}
		}
		if oldKey != "" && oldKey != current.AssetKey {
			if err := s.media.Delete(ctx, oldKey); err != nil {
				s.log.Warn("remove replaced image", zap.Error(err))
			}
		}
	}
	s.invalidate(ctx)

	return updated, nil
}

// Delete removes the stored image first and the document second, so a
// half-finished delete never leaves a document pointing at a missing
// object.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	post, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}

	steps := saga.New(
		saga.Step{
			Name: "delete image",
			Do: func(ctx context.Context) error {
				return s.media.Delete(ctx, post.AssetKey)
			},
		},
		saga.Step{
			Name: "delete post",
			Do: func(ctx context.Context) error {
				return s.store.Delete(ctx, id)
			},
		},
	)
	if err := steps.Run(ctx); err != nil {
		return err
	}
	s.invalidate(ctx)

	return nil
}

// resolveImage uploads inline data URIs and passes plain URLs through
// untouched.
func (s *Service) resolveImage(ctx context.Context, image string) (media.Asset, error) {
	if media.IsDataURI(image) {
		asset, err := s.media.UploadDataURI(ctx, "posts", image)
		if err != nil {
			return media.Asset{}, err
		}
		return asset, nil
	}
	return media.Asset{URL: image}, nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, cacheKey); err != nil {
		s.log.Warn("invalidate posts cache", zap.Error(err))
	}
}
