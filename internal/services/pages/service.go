package pages

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

var ErrValidation = errors.New("invalid payload")

type BlogStore interface {
	Insert(ctx context.Context, blog content.Blog) (content.Blog, error)
	List(ctx context.Context) ([]content.Blog, error)
	Get(ctx context.Context, id uuid.UUID) (content.Blog, error)
	Update(ctx context.Context, blog content.Blog) (content.Blog, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type TestimonialStore interface {
	Insert(ctx context.Context, testimonial content.Testimonial) (content.Testimonial, error)
	List(ctx context.Context) ([]content.Testimonial, error)
	Get(ctx context.Context, id uuid.UUID) (content.Testimonial, error)
	Update(ctx context.Context, testimonial content.Testimonial) (content.Testimonial, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ServicePageStore interface {
	Insert(ctx context.Context, page content.ServicePage) (content.ServicePage, error)
	List(ctx context.Context) ([]content.ServicePage, error)
	Get(ctx context.Context, id uuid.UUID) (content.ServicePage, error)
	Update(ctx context.Context, page content.ServicePage) (content.ServicePage, error)
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

// Service covers the text-first entities: blogs, testimonials and service
// pages.
type Service struct {
	blogs        BlogStore
	testimonials TestimonialStore
	servicePages ServicePageStore
	media        MediaService
	cache        ListCache
	log          *zap.Logger
}

func NewService(blogs BlogStore, testimonials TestimonialStore, servicePages ServicePageStore, mediaSvc MediaService, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		blogs:        blogs,
		testimonials: testimonials,
		servicePages: servicePages,
		media:        mediaSvc,
		log:          log,
	}
}

func (s *Service) AttachCache(cache ListCache) {
	s.cache = cache
}

type BlogInput struct {
	Title   string
	Content string
	Cover   string
}

// CreateBlog uploads an inline cover first and removes it again when the
// insert fails.
func (s *Service) CreateBlog(ctx context.Context, input BlogInput) (content.Blog, error) {
	if !validate.Required(input.Title) {
		return content.Blog{}, ErrValidation
	}
	if !validate.Required(input.Content) {
		return content.Blog{}, ErrValidation
	}

	blog := content.Blog{
		ID:      uuid.New(),
		Title:   strings.TrimSpace(input.Title),
		Content: input.Content,
	}

	var asset media.Asset
	steps := saga.New(
		saga.Step{
			Name: "upload cover",
			Do: func(ctx context.Context) error {
				if strings.TrimSpace(input.Cover) == "" {
					return nil
				}
				var err error
				asset, err = s.resolveAsset(ctx, "blogs", input.Cover)
				return err
			},
			Compensate: func(ctx context.Context) error {
				return s.media.Delete(ctx, asset.Key)
			},
		},
		saga.Step{
			Name: "insert blog",
			Do: func(ctx context.Context) error {
				blog.CoverURL = asset.URL
				blog.AssetKey = asset.Key
				var err error
				blog, err = s.blogs.Insert(ctx, blog)
				return err
			},
		},
	)
	if err := steps.Run(ctx); err != nil {
		return content.Blog{}, err
	}

	if asset.Key != "" {
		if err := s.media.Link(ctx, asset.Key, blog.ID); err != nil {
			s.log.Warn("link blog cover", zap.Error(err))
		}
	}
	s.invalidate(ctx, "blogs")

	return blog, nil
}

func (s *Service) ListBlogs(ctx context.Context) ([]content.Blog, error) {
	if s.cache != nil {
		if data, ok, err := s.cache.Get(ctx, "blogs"); err == nil && ok {
			var blogs []content.Blog
			if json.Unmarshal(data, &blogs) == nil {
				return blogs, nil
			}
		}
	}

	blogs, err := s.blogs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list blogs: %w", err)
	}
	s.fill(ctx, "blogs", blogs)

	return blogs, nil
}

func (s *Service) GetBlog(ctx context.Context, id uuid.UUID) (content.Blog, error) {
	return s.blogs.Get(ctx, id)
}

func (s *Service) UpdateBlog(ctx context.Context, id uuid.UUID, input BlogInput) (content.Blog, error) {
	current, err := s.blogs.Get(ctx, id)
	if err != nil {
		return content.Blog{}, err
	}

	oldKey := current.AssetKey
	replaced := false

	current.Title = validate.Merge(current.Title, input.Title)
	current.Content = validate.Merge(current.Content, input.Content)

	if !validate.Required(current.Title) {
		return content.Blog{}, ErrValidation
	}
	if !validate.Required(current.Content) {
		return content.Blog{}, ErrValidation
	}

	if strings.TrimSpace(input.Cover) != "" && input.Cover != current.CoverURL {
		asset, err := s.resolveAsset(ctx, "blogs", input.Cover)
		if err != nil {
			return content.Blog{}, err
		}
		current.CoverURL = asset.URL
		current.AssetKey = asset.Key
		replaced = asset.Key != ""
	}

	updated, err := s.blogs.Update(ctx, current)
	if err != nil {
		if replaced {
			if delErr := s.media.Delete(ctx, current.AssetKey); delErr != nil {
				s.log.Warn("remove replacement cover after failed update", zap.Error(delErr))
			}
		}
		return content.Blog{}, err
	}

	if replaced {
		if current.AssetKey != "" {
			if err := s.media.Link(ctx, current.AssetKey, updated.ID); err != nil {
				s.log.Warn("link blog cover", zap.Error(err))
			}
		}
		if oldKey != "" && oldKey != current.AssetKey {
			if err := s.media.Delete(ctx, oldKey); err != nil {
				s.log.Warn("remove replaced cover", zap.Error(err))
			}
		}
	}
	s.invalidate(ctx, "blogs")

	return updated, nil
}

func (s *Service) DeleteBlog(ctx context.Context, id uuid.UUID) error {
	blog, err := s.blogs.Get(ctx, id)
	if err != nil {
		return err
	}

	steps := saga.New(
		saga.Step{
			Name: "delete cover",
			Do: func(ctx context.Context) error {
				return s.media.Delete(ctx, blog.AssetKey)
			},
		},
		saga.Step{
			Name: "delete blog",
			Do: func(ctx context.Context) error {
				return s.blogs.Delete(ctx, id)
			},
		},
	)
	if err := steps.Run(ctx); err != nil {
		return err
	}
	s.invalidate(ctx, "blogs")

	return nil
}

type TestimonialInput struct {
	Author   string
	Role     string
	Company  string
	Quote    string
	VideoURL string
	Avatar   string
}

// CreateTestimonial requires only the author name; everything else is
// optional.
func (s *Service) CreateTestimonial(ctx context.Context, input TestimonialInput) (content.Testimonial, error) {
	if !validate.Required(input.Author) {
		return content.Testimonial{}, ErrValidation
	}

	testimonial := content.Testimonial{
		ID:       uuid.New(),
		Author:   strings.TrimSpace(input.Author),
		Role:     strings.TrimSpace(input.Role),
		Company:  strings.TrimSpace(input.Company),
		Quote:    strings.TrimSpace(input.Quote),
		VideoURL: strings.TrimSpace(input.VideoURL),
	}

	if strings.TrimSpace(input.Avatar) != "" {
		asset, err := s.resolveAsset(ctx, "testimonials", input.Avatar)
		if err != nil {
			return content.Testimonial{}, err
		}
		testimonial.AvatarURL = asset.URL
		testimonial.AssetKey = asset.Key
	}

	created, err := s.testimonials.Insert(ctx, testimonial)
	if err != nil {
		if testimonial.AssetKey != "" {
			if delErr := s.media.Delete(ctx, testimonial.AssetKey); delErr != nil {
				s.log.Warn("remove avatar after failed insert", zap.Error(delErr))
			}
		}
		return content.Testimonial{}, fmt.Errorf("insert testimonial: %w", err)
	}

	if testimonial.AssetKey != "" {
		if err := s.media.Link(ctx, testimonial.AssetKey, created.ID); err != nil {
			s.log.Warn("link testimonial avatar", zap.Error(err))
		}
	}
	s.invalidate(ctx, "testimonials")

	return created, nil
}

func (s *Service) ListTestimonials(ctx context.Context) ([]content.Testimonial, error) {
	if s.cache != nil {
		if data, ok, err := s.cache.Get(ctx, "testimonials"); err == nil && ok {
			var testimonials []content.Testimonial
			if json.Unmarshal(data, &testimonials) == nil {
				return testimonials, nil
			}
		}
	}

	testimonials, err := s.testimonials.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list testimonials: %w", err)
	}
	s.fill(ctx, "testimonials", testimonials)

	return testimonials, nil
}

func (s *Service) GetTestimonial(ctx context.Context, id uuid.UUID) (content.Testimonial, error) {
	return s.testimonials.Get(ctx, id)
}

func (s *Service) UpdateTestimonial(ctx context.Context, id uuid.UUID, input TestimonialInput) (content.Testimonial, error) {
	current, err := s.testimonials.Get(ctx, id)
	if err != nil {
		return content.Testimonial{}, err
	}

	current.Author = validate.Merge(current.Author, input.Author)
	current.Role = validate.Merge(current.Role, input.Role)
	current.Company = validate.Merge(current.Company, input.Company)
	current.Quote = validate.Merge(current.Quote, input.Quote)
	current.VideoURL = validate.Merge(current.VideoURL, input.VideoURL)

	if !validate.Required(current.Author) {
		return content.Testimonial{}, ErrValidation
	}

	oldKey := current.AssetKey
	replaced := false

	if strings.TrimSpace(input.Avatar) != "" && input.Avatar != current.AvatarURL {
		asset, err := s.resolveAsset(ctx, "testimonials", input.Avatar)
		if err != nil {
			return content.Testimonial{}, err
		}
		current.AvatarURL = asset.URL
		current.AssetKey = asset.Key
		replaced = asset.Key != ""
	}

	updated, err := s.testimonials.Update(ctx, current)
	if err != nil {
		if replaced {
			if delErr := s.media.Delete(ctx, current.AssetKey); delErr != nil {
				s.log.Warn("remove replacement avatar after failed update", zap.Error(delErr))
			}
		}
		return content.Testimonial{}, err
	}

	if replaced {
		if err := s.media.Link(ctx, current.AssetKey, updated.ID); err != nil {
			s.log.Warn("link avatar", zap.Error(err))
		}
		if oldKey != "" && oldKey != current.AssetKey {
			if err := s.media.Delete(ctx, oldKey); err != nil {
				s.log.Warn("remove replaced avatar", zap.Error(err))
			}
		}
	}
	s.invalidate(ctx, "testimonials")

	return updated, nil
}

func (s *Service) DeleteTestimonial(ctx context.Context, id uuid.UUID) error {
	testimonial, err := s.testimonials.Get(ctx, id)
	if err != nil {
		return err
	}

	steps := saga.New(
		saga.Step{
			Name: "delete avatar",
			Do: func(ctx context.Context) error {
				return s.media.Delete(ctx, testimonial.AssetKey)
			},
		},
		saga.Step{
			Name: "delete testimonial",
			Do: func(ctx context.Context) error {
				return s.testimonials.Delete(ctx, id)
			},
		},
	)
	if err := steps.Run(ctx); err != nil {
		return err
	}
	s.invalidate(ctx, "testimonials")

	return nil
}

type ServicePageInput struct {
	Title       string
	Description string
	Icon        string
}

func (s *Service) CreateServicePage(ctx context.Context, input ServicePageInput) (content.ServicePage, error) {
	if !validate.Required(input.Title) {
		return content.ServicePage{}, ErrValidation
	}

	page := content.ServicePage{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
	}

	if strings.TrimSpace(input.Icon) != "" {
		asset, err := s.resolveAsset(ctx, "services", input.Icon)
		if err != nil {
			return content.ServicePage{}, err
		}
		page.IconURL = asset.URL
		page.AssetKey = asset.Key
	}

	created, err := s.servicePages.Insert(ctx, page)
	if err != nil {
		if page.AssetKey != "" {
			if delErr := s.media.Delete(ctx, page.AssetKey); delErr != nil {
				s.log.Warn("remove icon after failed insert", zap.Error(delErr))
			}
		}
		return content.ServicePage{}, fmt.Errorf("insert service page: %w", err)
	}

	if page.AssetKey != "" {
		if err := s.media.Link(ctx, page.AssetKey, created.ID); err != nil {
			s.log.Warn("link service icon", zap.Error(err))
		}
	}
	s.invalidate(ctx, "services")

	return created, nil
}

func (s *Service) ListServicePages(ctx context.Context) ([]content.ServicePage, error) {
	if s.cache != nil {
		if data, ok, err := s.cache.Get(ctx, "services"); err == nil && ok {
			var pages []content.ServicePage
			if json.Unmarshal(data, &pages) == nil {
				return pages, nil
			}
		}
	}

	pages, err := s.servicePages.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list service pages: %w", err)
	}
	s.fill(ctx, "services", pages)

	return pages, nil
}

func (s *Service) GetServicePage(ctx context.Context, id uuid.UUID) (content.ServicePage, error) {
	return s.servicePages.Get(ctx, id)
}

func (s *Service) UpdateServicePage(ctx context.Context, id uuid.UUID, input ServicePageInput) (content.ServicePage, error) {
	current, err := s.servicePages.Get(ctx, id)
	if err != nil {
		return content.ServicePage{}, err
	}

	current.Title = validate.Merge(current.Title, input.Title)
	current.Description = validate.Merge(current.Description, input.Description)

	if !validate.Required(current.Title) {
		return content.ServicePage{}, ErrValidation
	}

	oldKey := current.AssetKey
	replaced := false

	if strings.TrimSpace(input.Icon) != "" && input.Icon != current.IconURL {
		asset, err := s.resolveAsset(ctx, "services", input.Icon)
		if err != nil {
			return content.ServicePage{}, err
		}
		current.IconURL = asset.URL
		current.AssetKey = asset.Key
		replaced = asset.Key != ""
	}

	updated, err := s.servicePages.Update(ctx, current)
	if err != nil {
		if replaced {
			if delErr := s.media.Delete(ctx, current.AssetKey); delErr != nil {
				s.log.Warn("remove replacement icon after failed update", zap.Error(delErr))
			}
		}
		return content.ServicePage{}, err
	}

	if replaced {
		if err := s.media.Link(ctx, current.AssetKey, updated.ID); err != nil {
			s.log.Warn("link icon", zap.Error(err))
		}
		if oldKey != "" && oldKey != current.AssetKey {
			if err := s.media.Delete(ctx, oldKey); err != nil {
				s.log.Warn("remove replaced icon", zap.Error(err))
			}
		}
	}
	s.invalidate(ctx, "services")

	return updated, nil
}

func (s *Service) DeleteServicePage(ctx context.Context, id uuid.UUID) error {
	page, err := s.servicePages.Get(ctx, id)
	if err != nil {
		return err
	}

	steps := saga.New(
		saga.Step{
			Name: "delete icon",
			Do: func(ctx context.Context) error {
				return s.media.Delete(ctx, page.AssetKey)
			},
		},
		saga.Step{
			Name: "delete service page",
			Do: func(ctx context.Context) error {
				return s.servicePages.Delete(ctx, id)
			},
		},
	)
	if err := steps.Run(ctx); err != nil {
		return err
	}
	s.invalidate(ctx, "services")

	return nil
}

func (s *Service) resolveAsset(ctx context.Context, kind, value string) (media.Asset, error) {
	if media.IsDataURI(value) {
		return s.media.UploadDataURI(ctx, kind, value)
	}
	return media.Asset{URL: strings.TrimSpace(value)}, nil
}

func (s *Service) fill(ctx context.Context, key string, v any) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data); err != nil {
		s.log.Warn("cache list", zap.String("key", key), zap.Error(err))
	}
}

func (s *Service) invalidate(ctx context.Context, key string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, key); err != nil {
		s.log.Warn("invalidate list cache", zap.String("key", key), zap.Error(err))
	}
}
