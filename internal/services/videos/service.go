package videos

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

var ErrValidation = errors.New("invalid video payload")

type CorporateStore interface {
	Insert(ctx context.Context, video content.CorporateVideo) (content.CorporateVideo, error)
	List(ctx context.Context) ([]content.CorporateVideo, error)
	Get(ctx context.Context, id uuid.UUID) (content.CorporateVideo, error)
	Update(ctx context.Context, video content.CorporateVideo) (content.CorporateVideo, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ReelStore interface {
	Insert(ctx context.Context, reel content.Reel) (content.Reel, error)
	List(ctx context.Context) ([]content.Reel, error)
	Get(ctx context.Context, id uuid.UUID) (content.Reel, error)
	Update(ctx context.Context, reel content.Reel) (content.Reel, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type TeamStore interface {
	Insert(ctx context.Context, video content.TeamVideo) (content.TeamVideo, error)
	List(ctx context.Context) ([]content.TeamVideo, error)
	Get(ctx context.Context, id uuid.UUID) (content.TeamVideo, error)
	Update(ctx context.Context, video content.TeamVideo) (content.TeamVideo, error)
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
	corporate CorporateStore
	reels     ReelStore
	team      TeamStore
	media     MediaService
	cache     ListCache
	log       *zap.Logger
}

func NewService(corporate CorporateStore, reels ReelStore, team TeamStore, mediaSvc MediaService, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		corporate: corporate,
		reels:     reels,
		team:      team,
		media:     mediaSvc,
		log:       log,
	}
}

func (s *Service) AttachCache(cache ListCache) {
	s.cache = cache
}

type CorporateInput struct {
	Label       string
	VideoURL    string
	PosterURL   string
	Title       string
	Description string
	Privacy     string
	Status      string
}

func (s *Service) CreateCorporate(ctx context.Context, input CorporateInput) (content.CorporateVideo, error) {
	video, poster, err := s.buildCorporate(ctx, content.CorporateVideo{ID: uuid.New()}, input)
	if err != nil {
		return content.CorporateVideo{}, err
	}

	created, err := s.corporate.Insert(ctx, video)
	if err != nil {
		if poster.Key != "" {
			if delErr := s.media.Delete(ctx, poster.Key); delErr != nil {
				s.log.Warn("delete poster after failed insert", zap.Error(delErr))
			}
		}
		return content.CorporateVideo{}, fmt.Errorf("insert corporate video: %w", err)
	}
	if poster.Key != "" {
		if err := s.media.Link(ctx, poster.Key, created.ID); err != nil {
			s.log.Warn("link poster", zap.Error(err))
		}
	}
	s.invalidate(ctx, "corporate_videos")

	return created, nil
}

func (s *Service) ListCorporate(ctx context.Context) ([]content.CorporateVideo, error) {
	if s.cache != nil {
		if data, ok, err := s.cache.Get(ctx, "corporate_videos"); err == nil && ok {
			var videos []content.CorporateVideo
			if json.Unmarshal(data, &videos) == nil {
				return videos, nil
			}
		}
	}

	videos, err := s.corporate.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list corporate videos: %w", err)
	}
	s.fill(ctx, "corporate_videos", videos)

	return videos, nil
}

func (s *Service) GetCorporate(ctx context.Context, id uuid.UUID) (content.CorporateVideo, error) {
	return s.corporate.Get(ctx, id)
}

func (s *Service) UpdateCorporate(ctx context.Context, id uuid.UUID, input CorporateInput) (content.CorporateVideo, error) {
	current, err := s.corporate.Get(ctx, id)
	if err != nil {
		return content.CorporateVideo{}, err
	}

	merged, poster, err := s.buildCorporate(ctx, current, input)
	if err != nil {
		return content.CorporateVideo{}, err
	}

	updated, err := s.corporate.Update(ctx, merged)
	if err != nil {
		if poster.Key != "" {
			if delErr := s.media.Delete(ctx, poster.Key); delErr != nil {
				s.log.Warn("delete poster after failed update", zap.Error(delErr))
			}
		}
		return content.CorporateVideo{}, err
	}
	if poster.Key != "" {
		if err := s.media.Link(ctx, poster.Key, updated.ID); err != nil {
			s.log.Warn("link poster", zap.Error(err))
		}
	}
	s.invalidate(ctx, "corporate_videos")

	return updated, nil
}

func (s *Service) DeleteCorporate(ctx context.Context, id uuid.UUID) error {
	if err := s.corporate.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, "corporate_videos")
	return nil
}

// buildCorporate merges the input over the current document, uploading an
// inline poster and validating the enum fields.
func (s *Service) buildCorporate(ctx context.Context, current content.CorporateVideo, input CorporateInput) (content.CorporateVideo, media.Asset, error) {
	current.Label = validate.Merge(current.Label, input.Label)
	current.VideoURL = validate.Merge(current.VideoURL, input.VideoURL)
	current.Title = validate.Merge(current.Title, input.Title)
	current.Description = validate.Merge(current.Description, input.Description)

	if !validate.Required(current.Title) {
		return content.CorporateVideo{}, media.Asset{}, ErrValidation
	}
	if !validate.Required(current.VideoURL) {
		return content.CorporateVideo{}, media.Asset{}, ErrValidation
	}

	privacy, ok := content.ParsePrivacy(input.Privacy)
	if !ok {
		return content.CorporateVideo{}, media.Asset{}, ErrValidation
	}
	if input.Privacy != "" || current.Privacy == "" {
		current.Privacy = privacy
	}

	status, ok := content.ParseStatus(input.Status)
	if !ok {
		return content.CorporateVideo{}, media.Asset{}, ErrValidation
	}
	if input.Status != "" || current.Status == "" {
		current.Status = status
	}

	var poster media.Asset
	if strings.TrimSpace(input.PosterURL) != "" {
		asset, err := s.resolveAsset(ctx, "corporate-videos", input.PosterURL)
		if err != nil {
			return content.CorporateVideo{}, media.Asset{}, err
		}
		current.PosterURL = asset.URL
		poster = asset
	}

	return current, poster, nil
}

type ReelInput struct {
	VideoURL  string
	PosterURL string
}

// CreateReel uploads an inline clip through the two-step coordinator, the
// same way post images are handled.
func (s *Service) CreateReel(ctx context.Context, input ReelInput) (content.Reel, error) {
	if !validate.Required(input.VideoURL) {
		return content.Reel{}, ErrValidation
	}

	reel := content.Reel{ID: uuid.New(), PosterURL: strings.TrimSpace(input.PosterURL)}

	var asset media.Asset
	steps := saga.New(
		saga.Step{
			Name: "upload reel",
			Do: func(ctx context.Context) error {
				var err error
				asset, err = s.resolveAsset(ctx, "reels", input.VideoURL)
				return err
			},
			Compensate: func(ctx context.Context) error {
				return s.media.Delete(ctx, asset.Key)
			},
		},
		saga.Step{
			Name: "insert reel",
			Do: func(ctx context.Context) error {
				reel.VideoURL = asset.URL
				reel.AssetKey = asset.Key
				var err error
				reel, err = s.reels.Insert(ctx, reel)
				return err
			},
		},
	)
	if err := steps.Run(ctx); err != nil {
		return content.Reel{}, err
	}

	if asset.Key != "" {
		if err := s.media.Link(ctx, asset.Key, reel.ID); err != nil {
			s.log.Warn("link reel asset", zap.Error(err))
		}
	}
	s.invalidate(ctx, "reels")

	return reel, nil
}

func (s *Service) ListReels(ctx context.Context) ([]content.Reel, error) {
	if s.cache != nil {
		if data, ok, err := s.cache.Get(ctx, "reels"); err == nil && ok {
			var reels []content.Reel
			if json.Unmarshal(data, &reels) == nil {
				return reels, nil
			}
		}
	}

	reels, err := s.reels.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reels: %w", err)
	}
	s.fill(ctx, "reels", reels)

	return reels, nil
}

func (s *Service) GetReel(ctx context.Context, id uuid.UUID) (content.Reel, error) {
	return s.reels.Get(ctx, id)
}

func (s *Service) UpdateReel(ctx context.Context, id uuid.UUID, input ReelInput) (content.Reel, error) {
	current, err := s.reels.Get(ctx, id)
	if err != nil {
		return content.Reel{}, err
	}

	oldKey := current.AssetKey
	replaced := false

	if strings.TrimSpace(input.VideoURL) != "" && input.VideoURL != current.VideoURL {
		asset, err := s.resolveAsset(ctx, "reels", input.VideoURL)
		if err != nil {
			return content.Reel{}, err
		}
		current.VideoURL = asset.URL
		current.AssetKey = asset.Key
		replaced = asset.Key != ""
	}
	current.PosterURL = validate.Merge(current.PosterURL, input.PosterURL)

	updated, err := s.reels.Update(ctx, current)
	if err != nil {
		if replaced {
			if delErr := s.media.Delete(ctx, current.AssetKey); delErr != nil {
				s.log.Warn("remove replacement clip after failed update", zap.Error(delErr))
			}
		}
		return content.Reel{}, err
	}

	if replaced {
		if current.AssetKey != "" {
			if err := s.media.Link(ctx, current.AssetKey, updated.ID); err != nil {
				s.log.Warn("link reel asset", zap.Error(err))
			}
		}
		if oldKey != "" && oldKey != current.AssetKey {
			if err := s.media.Delete(ctx, oldKey); err != nil {
				s.log.Warn("remove replaced clip", zap.Error(err))
			}
		}
	}
	s.invalidate(ctx, "reels")

	return updated, nil
}

func (s *Service) DeleteReel(ctx context.Context, id uuid.UUID) error {
	reel, err := s.reels.Get(ctx, id)
	if err != nil {
		return err
	}

	steps := saga.New(
		saga.Step{
			Name: "delete clip",
			Do: func(ctx context.Context) error {
				return s.media.Delete(ctx, reel.AssetKey)
			},
		},
		saga.Step{
			Name: "delete reel",
			Do: func(ctx context.Context) error {
				return s.reels.Delete(ctx, id)
			},
		},
	)
	if err := steps.Run(ctx); err != nil {
		return err
	}
	s.invalidate(ctx, "reels")

	return nil
}

type TeamInput struct {
	Title     string
	VideoURL  string
	PosterURL string
}

func (s *Service) CreateTeam(ctx context.Context, input TeamInput) (content.TeamVideo, error) {
	if !validate.Required(input.Title) {
		return content.TeamVideo{}, ErrValidation
	}
	if !validate.Required(input.VideoURL) {
		return content.TeamVideo{}, ErrValidation
	}

	video := content.TeamVideo{
		ID:        uuid.New(),
		Title:     strings.TrimSpace(input.Title),
		VideoURL:  strings.TrimSpace(input.VideoURL),
		PosterURL: strings.TrimSpace(input.PosterURL),
	}

	created, err := s.team.Insert(ctx, video)
	if err != nil {
		return content.TeamVideo{}, fmt.Errorf("insert team video: %w", err)
	}
	s.invalidate(ctx, "team_videos")

	return created, nil
}

func (s *Service) ListTeam(ctx context.Context) ([]content.TeamVideo, error) {
	if s.cache != nil {
		if data, ok, err := s.cache.Get(ctx, "team_videos"); err == nil && ok {
			var videos []content.TeamVideo
			if json.Unmarshal(data, &videos) == nil {
				return videos, nil
			}
		}
	}

	videos, err := s.team.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list team videos: %w", err)
	}
	s.fill(ctx, "team_videos", videos)

	return videos, nil
}

func (s *Service) GetTeam(ctx context.Context, id uuid.UUID) (content.TeamVideo, error) {
	return s.team.Get(ctx, id)
}

func (s *Service) UpdateTeam(ctx context.Context, id uuid.UUID, input TeamInput) (content.TeamVideo, error) {
	current, err := s.team.Get(ctx, id)
	if err != nil {
		return content.TeamVideo{}, err
	}

	current.Title = validate.Merge(current.Title, input.Title)
	current.VideoURL = validate.Merge(current.VideoURL, input.VideoURL)
	current.PosterURL = validate.Merge(current.PosterURL, input.PosterURL)

	if !validate.Required(current.Title) {
		return content.TeamVideo{}, ErrValidation
	}
	if !validate.Required(current.VideoURL) {
		return content.TeamVideo{}, ErrValidation
	}

	updated, err := s.team.Update(ctx, current)
	if err != nil {
		return content.TeamVideo{}, err
	}
	s.invalidate(ctx, "team_videos")

	return updated, nil
}

func (s *Service) DeleteTeam(ctx context.Context, id uuid.UUID) error {
	if err := s.team.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, "team_videos")
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
