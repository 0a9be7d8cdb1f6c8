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

type CorporateVideoRepo struct {
	pool *pgxpool.Pool
}

func NewCorporateVideoRepo(pool *pgxpool.Pool) *CorporateVideoRepo {
	return &CorporateVideoRepo{pool: pool}
}

func (r *CorporateVideoRepo) Insert(ctx context.Context, v content.CorporateVideo) (content.CorporateVideo, error) {
	if r.pool == nil {
		return content.CorporateVideo{}, fmt.Errorf("postgres pool is nil")
	}

	err := r.pool.QueryRow(ctx, `
INSERT INTO corporate_videos (id, label, video_url, poster_url, title, description, privacy, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
RETURNING id, label, video_url, poster_url, title, description, privacy, status, created_at, updated_at
`, v.ID, v.Label, v.VideoURL, v.PosterURL, v.Title, v.Description, string(v.Privacy), string(v.Status)).Scan(
		&v.ID, &v.Label, &v.VideoURL, &v.PosterURL, &v.Title, &v.Description, &v.Privacy, &v.Status, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return content.CorporateVideo{}, fmt.Errorf("insert corporate video: %w", err)
	}

	return v, nil
}

func (r *CorporateVideoRepo) List(ctx context.Context) ([]content.CorporateVideo, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, label, video_url, poster_url, title, description, privacy, status, created_at, updated_at
FROM corporate_videos
ORDER BY created_at DESC, id DESC
`)
	if err != nil {
		return nil, fmt.Errorf("list corporate videos: %w", err)
	}
	defer rows.Close()

	videos := make([]content.CorporateVideo, 0)
	for rows.Next() {
		var v content.CorporateVideo
		if err := rows.Scan(&v.ID, &v.Label, &v.VideoURL, &v.PosterURL, &v.Title, &v.Description, &v.Privacy, &v.Status, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan corporate video: %w", err)
		}
		videos = append(videos, v)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate corporate videos: %w", rows.Err())
	}

	return videos, nil
}

func (r *CorporateVideoRepo) Get(ctx context.Context, id uuid.UUID) (content.CorporateVideo, error) {
	if r.pool == nil {
		return content.CorporateVideo{}, fmt.Errorf("postgres pool is nil")
	}

	var v content.CorporateVideo
	err := r.pool.QueryRow(ctx, `
SELECT id, label, video_url, poster_url, title, description, privacy, status, created_at, updated_at
FROM corporate_videos
WHERE id = $1
`, id).Scan(&v.ID, &v.Label, &v.VideoURL, &v.PosterURL, &v.Title, &v.Description, &v.Privacy, &v.Status, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return content.CorporateVideo{}, content.ErrNotFound
		}
		return content.CorporateVideo{}, fmt.Errorf("get corporate video: %w", err)
	}

	return v, nil
}

func (r *CorporateVideoRepo) Update(ctx context.Context, v content.CorporateVideo) (content.CorporateVideo, error) {
	if r.pool == nil {
		return content.CorporateVideo{}, fmt.Errorf("postgres pool is nil")
	}

	err := r.pool.QueryRow(ctx, `
UPDATE corporate_videos
SET label = $2, video_url = $3, poster_url = $4, title = $5, description = $6, privacy = $7, status = $8, updated_at = NOW()
WHERE id = $1
RETURNING id, label, video_url, poster_url, title, description, privacy, status, created_at, updated_at
`, v.ID, v.Label, v.VideoURL, v.PosterURL, v.Title, v.Description, string(v.Privacy), string(v.Status)).Scan(
		&v.ID, &v.Label, &v.VideoURL, &v.PosterURL, &v.Title, &v.Description, &v.Privacy, &v.Status, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return content.CorporateVideo{}, content.ErrNotFound
		}
		return content.CorporateVideo{}, fmt.Errorf("update corporate video: %w", err)
	}

	return v, nil
}

func (r *CorporateVideoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	res, err := r.pool.Exec(ctx, `DELETE FROM corporate_videos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete corporate video: %w", err)
	}
	if res.RowsAffected() == 0 {
		return content.ErrNotFound
	}

	return nil
}
