package cleanup

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	pgrepo "github.com/okazarov/sitecms/internal/repo/postgres"
)

// ObjectDeleter removes one object from the media host by key.
type ObjectDeleter interface {
	Delete(ctx context.Context, key string) error
}

// AssetLedger is the asset table surface the sweep needs.
type AssetLedger interface {
	ListOrphanedOlderThan(ctx context.Context, cutoff time.Time) ([]pgrepo.AssetRecord, error)
	DeleteByKey(ctx context.Context, key string) error
}

// Job removes assets that were uploaded but never linked to a document,
// once they are older than the retention window. A crash between upload
// and insert leaves such rows behind; the sweep bounds how long they live.
type Job struct {
	assets    AssetLedger
	storage   ObjectDeleter
	retention time.Duration
	now       func() time.Time
	logger    *zap.Logger
}

func New(assets AssetLedger, storage ObjectDeleter, retention time.Duration, logger *zap.Logger) *Job {
	if retention <= 0 {
		retention = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Job{
		assets:    assets,
		storage:   storage,
		retention: retention,
		now:       time.Now,
		logger:    logger,
	}
}

func (j *Job) Run(ctx context.Context) error {
	if j.assets == nil || j.storage == nil {
		return nil
	}

	cutoff := j.now().Add(-j.retention)
	orphans, err := j.assets.ListOrphanedOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("list orphaned assets: %w", err)
	}
	if len(orphans) == 0 {
		return nil
	}

	deleted := 0
	for _, asset := range orphans {
		if err := j.storage.Delete(ctx, asset.ObjectKey); err != nil {
			j.logger.Warn("failed to delete orphaned object", zap.Error(err), zap.String("object_key", asset.ObjectKey))
			continue
		}
		if err := j.assets.DeleteByKey(ctx, asset.ObjectKey); err != nil {
			return fmt.Errorf("delete asset record: %w", err)
		}
		deleted++
	}

	j.logger.Info("orphaned asset sweep completed", zap.Int("deleted", deleted))
	return nil
}

// RunPeriodic blocks until the context is cancelled, running the sweep at
// the given interval.
func (j *Job) RunPeriodic(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 6 * time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				j.logger.Warn("orphaned asset sweep failed", zap.Error(err))
			}
		}
	}
}
