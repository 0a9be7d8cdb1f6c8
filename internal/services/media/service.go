package media

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrValidation      = errors.New("validation error")
	ErrUnsupportedType = errors.New("unsupported media type")
	ErrTooLarge        = errors.New("file too large")
)

// Ledger tracks every uploaded object so the cleanup job can sweep assets
// whose document write never happened.
type Ledger interface {
	Record(ctx context.Context, key, kind string) error
	Link(ctx context.Context, key string, entityID uuid.UUID) error
	DeleteByKey(ctx context.Context, key string) error
}

type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	PublicURL(key string) string
	Delete(ctx context.Context, key string) error
}

type Config struct {
	AllowedTypes []string
	MaxBytes     int64
}

// Asset is the media host's answer to an upload: a durable URL plus the
// deletion handle (the object key).
type Asset struct {
	URL string
	Key string
}

type Service struct {
	storage  ObjectStorage
	ledger   Ledger
	allowed  map[string]struct{}
	maxBytes int64
	now      func() time.Time
}

func NewService(storage ObjectStorage, ledger Ledger, cfg Config) *Service {
	allowed := make(map[string]struct{}, len(cfg.AllowedTypes))
	for _, t := range cfg.AllowedTypes {
		allowed[normalizeType(t)] = struct{}{}
	}

	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = 5 << 20
	}

	return &Service{
		storage:  storage,
		ledger:   ledger,
		allowed:  allowed,
		maxBytes: maxBytes,
		now:      time.Now,
	}
}

func (s *Service) MaxBytes() int64 {
	return s.maxBytes
}

// UploadDataURI decodes an inline data: payload, validates it and stores it.
// Validation failures happen before any storage or ledger write.
func (s *Service) UploadDataURI(ctx context.Context, kind, uri string) (Asset, error) {
	if s.storage == nil {
		return Asset{}, fmt.Errorf("media storage is not configured")
	}

	contentType, data, err := DecodeDataURI(uri, s.maxBytes)
	if err != nil {
		return Asset{}, err
	}
	if err := s.checkType(contentType); err != nil {
		return Asset{}, err
	}
	if int64(len(data)) > s.maxBytes {
		return Asset{}, ErrTooLarge
	}

	return s.store(ctx, kind, extensionFor(contentType), contentType, strings.NewReader(string(data)), int64(len(data)))
}

// Upload stores a streamed file, typically a multipart form part.
func (s *Service) Upload(ctx context.Context, kind, fileName, contentType string, body io.Reader, size int64) (Asset, error) {
	if s.storage == nil {
		return Asset{}, fmt.Errorf("media storage is not configured")
	}
	if body == nil || size <= 0 {
		return Asset{}, ErrValidation
	}
	if err := s.checkType(contentType); err != nil {
		return Asset{}, err
	}
	if size > s.maxBytes {
		return Asset{}, ErrTooLarge
	}

	ext := strings.ToLower(extOf(fileName))
	if ext == "" {
		ext = extensionFor(normalizeType(contentType))
	}

	return s.store(ctx, kind, ext, contentType, body, size)
}

// Link marks an uploaded asset as owned by a persisted document.
func (s *Service) Link(ctx context.Context, key string, entityID uuid.UUID) error {
	if s.ledger == nil || key == "" {
		return nil
	}
	return s.ledger.Link(ctx, key, entityID)
}

// Delete removes the object and its ledger row. Missing keys are a no-op so
// the delete path stays idempotent.
func (s *Service) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	if s.storage == nil {
		return fmt.Errorf("media storage is not configured")
	}
	if err := s.storage.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete media object: %w", err)
	}
	if s.ledger != nil {
		if err := s.ledger.DeleteByKey(ctx, key); err != nil {
			return fmt.Errorf("delete media ledger row: %w", err)
		}
	}
	return nil
}

func (s *Service) store(ctx context.Context, kind, ext, contentType string, body io.Reader, size int64) (Asset, error) {
	if err := s.storage.EnsureBucket(ctx); err != nil {
		return Asset{}, fmt.Errorf("ensure bucket: %w", err)
	}

	key, err := buildObjectKey(kind, ext, s.now())
	if err != nil {
		return Asset{}, fmt.Errorf("build object key: %w", err)
	}

	if err := s.storage.Put(ctx, key, body, size, contentType); err != nil {
		return Asset{}, fmt.Errorf("put object: %w", err)
	}

	if s.ledger != nil {
		if err := s.ledger.Record(ctx, key, kind); err != nil {
			_ = s.storage.Delete(ctx, key)
			return Asset{}, fmt.Errorf("record asset: %w", err)
		}
	}

	return Asset{URL: s.storage.PublicURL(key), Key: key}, nil
}

func (s *Service) checkType(contentType string) error {
	normalized := normalizeType(contentType)
	if normalized == "" {
		return ErrValidation
	}
	if _, ok := s.allowed[normalized]; !ok {
		return ErrUnsupportedType
	}
	return nil
}

func buildObjectKey(kind, ext string, at time.Time) (string, error) {
	rnd := make([]byte, 8)
	if _, err := rand.Read(rnd); err != nil {
		return "", err
	}

	if kind == "" {
		kind = "misc"
	}
	if ext == "" {
		ext = ".bin"
	}

	stamp := at.UTC().Format("20060102T150405")
	return fmt.Sprintf("%s/%s_%s%s", kind, stamp, hex.EncodeToString(rnd), ext), nil
}

func normalizeType(contentType string) string {
	v := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(v, ";"); i >= 0 {
		v = strings.TrimSpace(v[:i])
	}
	return v
}

func extOf(fileName string) string {
	name := strings.TrimSpace(fileName)
	if i := strings.LastIndex(name, "."); i >= 0 && i < len(name)-1 {
		return name[i:]
	}
	return ""
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "application/pdf":
		return ".pdf"
	default:
		return ".bin"
	}
}
