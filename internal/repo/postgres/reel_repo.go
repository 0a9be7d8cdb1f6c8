package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okazarov/sitecms/internal/domain/content"
)

type ReelRepo struct {
	pool *pgxpool.Pool
}

func NewReelRepo(pool *pgxpool.Pool) *ReelRepo {
	return &ReelRepo{pool: pool}
}

func (r *ReelRepo) Insert(ctx context.Context, reel content.Reel) (content.Reel, error) {
	if r.pool == nil {
		return content.Reel{}, fmt.Errorf("postgres pool is nil")
	}

	err := r.pool.QueryRow(ctx, `
INSERT INTO reels (id, video_url, poster_url, asset_key, created_at)
VALUES ($1, $2, $3, NULLIF($4, ''), NOW())
RETURNING id, video_url, poster_url, COALESCE(asset_key, ''), created_at
`, reel.ID, reel.VideoURL, reel.PosterURL, reel.AssetKey).Scan(&reel.ID, &reel.VideoURL, &reel.PosterURL, &reel.AssetKey, &reel.CreatedAt)
	if err != nil {
		return content.Reel{}, fmt.Errorf("insert reel: %w", err)
	}

	return reel, nil
}

func (r *ReelRepo) List(ctx context.Context) ([]content.Reel, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, video_url, poster_url, COALESCE(asset_key, ''), created_at
FROM reels
ORDER BY created_at DESC, id DESC
`)
	if err != nil {
		return nil, fmt.Errorf("list reels: %w", err)
	}
	defer rows.Close()

	reels := make([]content.Reel, 0)
	for rows.Next() {
		var reel content.Reel
		if err := rows.Scan(&reel.ID, &reel.VideoURL, &reel.PosterURL, &reel.AssetKey, &reel.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan reel: %w", err)
		}
		reels = append(reels, reel)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate reels: %w", rows.Err())
	}

	return reels, nil
}

func (r *ReelRepo) Get(ctx context.Context, id uuid.UUID) (content.Reel, error) {
	if r.pool == nil {
		return content.Reel{}, fmt.Errorf("postgres pool is nil")
	}

	var reel content.Reel
	err := r.pool.QueryRow(ctx, `
SELECT id, video_url, poster_url, COALESCE(asset_key, ''), created_at
FROM reels
WHERE id = $1
`, id).Scan(&reel.ID, &reel.VideoURL, &reel.PosterURL, &reel.AssetKey, &reel.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return content.Reel{}, content.ErrNotFound
		}
		return content.Reel{}, fmt.Errorf("get reel: %w", err)
	}

	return reel, nil
}

func (r *ReelRepo) Update(ctx context.Context, reel content.Reel) (content.Reel, error) {
	if r.pool == nil {
		return content.Reel{}, fmt.Errorf("postgres pool is nil")
	}

	err := r.pool.QueryRow(ctx, `
UPDATE reels
SET video_url = $2, poster_url = $3, asset_key = NULLIF($4, '')
WHERE id = $1
RETURNING id, video_url, poster_url, COALESCE(asset_key, ''), created_at
`, reel.ID, reel.VideoURL, reel.PosterURL, reel.AssetKey).Scan(&reel.ID, &reel.VideoURL, &reel.PosterURL, &reel.AssetKey, &reel.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return content.Reel{}, content.ErrNotFound
		}
		return content.Reel{}, fmt.Errorf("update reel: %w", err)
	}

	return reel, nil
}

func (r *ReelRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	res, err := r.pool.Exec(ctx, `DELETE FROM reels WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete reel: %w", err)
	}
	if res.RowsAffected() == 0 {
		return content.ErrNotFound
	}

	return nil
}
