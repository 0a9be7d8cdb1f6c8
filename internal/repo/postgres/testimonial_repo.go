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

type TestimonialRepo struct {
	pool *pgxpool.Pool
}

func NewTestimonialRepo(pool *pgxpool.Pool) *TestimonialRepo {
	return &TestimonialRepo{pool: pool}
}

func (r *TestimonialRepo) Insert(ctx context.Context, tm content.Testimonial) (content.Testimonial, error) {
	if r.pool == nil {
		return content.Testimonial{}, fmt.Errorf("postgres pool is nil")
	}

	err := r.pool.QueryRow(ctx, `
INSERT INTO testimonials (id, author, role, company, quote, video_url, avatar_url, asset_key, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), NOW())
RETURNING id, author, role, company, quote, video_url, avatar_url, COALESCE(asset_key, ''), created_at
`, tm.ID, tm.Author, tm.Role, tm.Company, tm.Quote, tm.VideoURL, tm.AvatarURL, tm.AssetKey).Scan(
		&tm.ID, &tm.Author, &tm.Role, &tm.Company, &tm.Quote, &tm.VideoURL, &tm.AvatarURL, &tm.AssetKey, &tm.CreatedAt,
	)
	if err != nil {
		return content.Testimonial{}, fmt.Errorf("insert testimonial: %w", err)
	}

	return tm, nil
}

func (r *TestimonialRepo) List(ctx context.Context) ([]content.Testimonial, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, author, role, company, quote, video_url, avatar_url, COALESCE(asset_key, ''), created_at
FROM testimonials
ORDER BY created_at DESC, id DESC
`)
	if err != nil {
		return nil, fmt.Errorf("list testimonials: %w", err)
	}
	defer rows.Close()

	items := make([]content.Testimonial, 0)
	for rows.Next() {
		var tm content.Testimonial
		if err := rows.Scan(&tm.ID, &tm.Author, &tm.Role, &tm.Company, &tm.Quote, &tm.VideoURL, &tm.AvatarURL, &tm.AssetKey, &tm.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan testimonial: %w", err)
		}
		items = append(items, tm)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate testimonials: %w", rows.Err())
	}

	return items, nil
}

func (r *TestimonialRepo) Get(ctx context.Context, id uuid.UUID) (content.Testimonial, error) {
	if r.pool == nil {
		return content.Testimonial{}, fmt.Errorf("postgres pool is nil")
	}

	var tm content.Testimonial
	err := r.pool.QueryRow(ctx, `
SELECT id, author, role, company, quote, video_url, avatar_url, COALESCE(asset_key, ''), created_at
FROM testimonials
WHERE id = $1
`, id).Scan(&tm.ID, &tm.Author, &tm.Role, &tm.Company, &tm.Quote, &tm.VideoURL, &tm.AvatarURL, &tm.AssetKey, &tm.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return content.Testimonial{}, content.ErrNotFound
		}
		return content.Testimonial{}, fmt.Errorf("get testimonial: %w", err)
	}

	return tm, nil
}

func (r *TestimonialRepo) Update(ctx context.Context, tm content.Testimonial) (content.Testimonial, error) {
	if r.pool == nil {
		return content.Testimonial{}, fmt.Errorf("postgres pool is nil")
	}

	err := r.pool.QueryRow(ctx, `
UPDATE testimonials
SET author = $2, role = $3, company = $4, quote = $5, video_url = $6, avatar_url = $7, asset_key = NULLIF($8, '')
WHERE id = $1
RETURNING id, author, role, company, quote, video_url, avatar_url, COALESCE(asset_key, ''), created_at
`, tm.ID, tm.Author, tm.Role, tm.Company, tm.Quote, tm.VideoURL, tm.AvatarURL, tm.AssetKey).Scan(
		&tm.ID, &tm.Author, &tm.Role, &tm.Company, &tm.Quote, &tm.VideoURL, &tm.AvatarURL, &tm.AssetKey, &tm.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return content.Testimonial{}, content.ErrNotFound
		}
		return content.Testimonial{}, fmt.Errorf("update testimonial: %w", err)
	}

	return tm, nil
}

func (r *TestimonialRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	res, err := r.pool.Exec(ctx, `DELETE FROM testimonials WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete testimonial: %w", err)
	}
	if res.RowsAffected() == 0 {
		return content.ErrNotFound
	}

	return nil
}
