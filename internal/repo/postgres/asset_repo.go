package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AssetRepo is the upload ledger: one row per object stored on the media
// host. Rows without an entity_id belong to uploads whose document write
// never happened and are swept by the cleanup job.
type AssetRepo struct {
	pool *pgxpool.Pool
}

type AssetRecord struct {
	ID        int64
	ObjectKey string
	Kind      string
	CreatedAt time.Time
}

func NewAssetRepo(pool *pgxpool.Pool) *AssetRepo {
	return &AssetRepo{pool: pool}
}

func (r *AssetRepo) Record(ctx context.Context, key, kind string) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	if _, err := r.pool.Exec(ctx, `
INSERT INTO assets (object_key, kind, created_at)
VALUES ($1, $2, NOW())
ON CONFLICT (object_key) DO NOTHING
`, key, kind); err != nil {
		return fmt.Errorf("record asset: %w", err)
	}

	return nil
}

func (r *AssetRepo) Link(ctx context.Context, key string, entityID uuid.UUID) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	if _, err := r.pool.Exec(ctx, `
UPDATE assets
SET entity_id = $2
WHERE object_key = $1
`, key, entityID); err != nil {
		return fmt.Errorf("link asset: %w", err)
	}

	return nil
}

func (r *AssetRepo) DeleteByKey(ctx context.Context, key string) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	if _, err := r.pool.Exec(ctx, `DELETE FROM assets WHERE object_key = $1`, key); err != nil {
		return fmt.Errorf("delete asset row: %w", err)
	}

	return nil
}

func (r *AssetRepo) ListOrphanedOlderThan(ctx context.Context, cutoff time.Time) ([]AssetRecord, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, object_key, kind, created_at
FROM assets
WHERE entity_id IS NULL AND created_at < $1
ORDER BY created_at ASC
`, cutoff.UTC())
	if err != nil {
		return nil, fmt.Errorf("list orphaned assets: %w", err)
	}
	defer rows.Close()

	records := make([]AssetRecord, 0)
	for rows.Next() {
		var rec AssetRecord
		if err := rows.Scan(&rec.ID, &rec.ObjectKey, &rec.Kind, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan asset record: %w", err)
		}
		records = append(records, rec)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate asset records: %w", rows.Err())
	}

	return records, nil
}
