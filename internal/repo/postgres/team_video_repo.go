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

type TeamVideoRepo struct {
	pool *pgxpool.Pool
}

func NewTeamVideoRepo(pool *pgxpool.Pool) *TeamVideoRepo {
	return &TeamVideoRepo{pool: pool}
}

func (r *TeamVideoRepo) Insert(ctx context.Context, v content.TeamVideo) (content.TeamVideo, error) {
	if r.pool == nil {
		return content.TeamVideo{}, fmt.Errorf("postgres pool is nil")
	}

	err := r.pool.QueryRow(ctx, `
INSERT INTO team_videos (id, title, video_url, poster_url, created_at)
VALUES ($1, $2, $3, $4, NOW())
RETURNING id, title, video_url, poster_url, created_at
`, v.ID, v.Title, v.VideoURL, v.PosterURL).Scan(&v.ID, &v.Title, &v.VideoURL, &v.PosterURL, &v.CreatedAt)
	if err != nil {
		return content.TeamVideo{}, fmt.Errorf("insert team video: %w", err)
	}

	return v, nil
}

func (r *TeamVideoRepo) List(ctx context.Context) ([]content.TeamVideo, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, title, video_url, poster_url, created_at
FROM team_videos
ORDER BY created_at DESC, id DESC
`)
	if err != nil {
		return nil, fmt.Errorf("list team videos: %w", err)
	}
	defer rows.Close()

	videos := make([]content.TeamVideo, 0)
	for rows.Next() {
		var v content.TeamVideo
		if err := rows.Scan(&v.ID, &v.Title, &v.VideoURL, &v.PosterURL, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan team video: %w", err)
		}
		videos = append(videos, v)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate team videos: %w", rows.Err())
	}

	return videos, nil
}

func (r *TeamVideoRepo) Get(ctx context.Context, id uuid.UUID) (content.TeamVideo, error) {
	if r.pool == nil {
		return content.TeamVideo{}, fmt.Errorf("postgres pool is nil")
	}

	var v content.TeamVideo
	err := r.pool.QueryRow(ctx, `
SELECT id, title, video_url, poster_url, created_at
FROM team_videos
WHERE id = $1
`, id).Scan(&v.ID, &v.Title, &v.VideoURL, &v.PosterURL, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return content.TeamVideo{}, content.ErrNotFound
		}
		return content.TeamVideo{}, fmt.Errorf("get team video: %w", err)
	}

	return v, nil
}

func (r *TeamVideoRepo) Update(ctx context.Context, v content.TeamVideo) (content.TeamVideo, error) {
	if r.pool == nil {
		return content.TeamVideo{}, fmt.Errorf("postgres pool is nil")
	}

	err := r.pool.QueryRow(ctx, `
UPDATE team_videos
SET title = $2, video_url = $3, poster_url = $4
WHERE id = $1
RETURNING id, title, video_url, poster_url, created_at
`, v.ID, v.Title, v.VideoURL, v.PosterURL).Scan(&v.ID, &v.Title, &v.VideoURL, &v.PosterURL, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return content.TeamVideo{}, content.ErrNotFound
		}
		return content.TeamVideo{}, fmt.Errorf("update team video: %w", err)
	}

	return v, nil
}

func (r *TeamVideoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	res, err := r.pool.Exec(ctx, `DELETE FROM team_videos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete team video: %w", err)
	}
	if res.RowsAffected() == 0 {
		return content.ErrNotFound
	}

	return nil
}
