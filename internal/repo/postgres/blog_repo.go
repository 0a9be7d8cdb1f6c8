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

type BlogRepo struct {
	pool *pgxpool.Pool
}

func NewBlogRepo(pool *pgxpool.Pool) *BlogRepo {
	return &BlogRepo{pool: pool}
}

func (r *BlogRepo) Insert(ctx context.Context, b content.Blog) (content.Blog, error) {
	if r.pool == nil {
		return content.Blog{}, fmt.Errorf("postgres pool is nil")
	}

	err := r.pool.QueryRow(ctx, `
INSERT INTO blogs (id, title, body, cover_url, asset_key, created_at, updated_at)
VALUES ($1, $2, $3, $4, NULLIF($5, ''), NOW(), NOW())
RETURNING id, title, body, cover_url, COALESCE(asset_key, ''), created_at, updated_at
`, b.ID, b.Title, b.Content, b.CoverURL, b.AssetKey).Scan(&b.ID, &b.Title, &b.Content, &b.CoverURL, &b.AssetKey, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return content.Blog{}, fmt.Errorf("insert blog: %w", err)
	}

	return b, nil
}

func (r *BlogRepo) List(ctx context.Context) ([]content.Blog, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, title, body, cover_url, COALESCE(asset_key, ''), created_at, updated_at
FROM blogs
ORDER BY created_at DESC, id DESC
`)
	if err != nil {
		return nil, fmt.Errorf("list blogs: %w", err)
	}
	defer rows.Close()

	blogs := make([]content.Blog, 0)
	for rows.Next() {
		var b content.Blog
		if err := rows.Scan(&b.ID, &b.Title, &b.Content, &b.CoverURL, &b.AssetKey, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan blog: %w", err)
		}
		blogs = append(blogs, b)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate blogs: %w", rows.Err())
	}

	return blogs, nil
}

func (r *BlogRepo) Get(ctx context.Context, id uuid.UUID) (content.Blog, error) {
	if r.pool == nil {
		return content.Blog{}, fmt.Errorf("postgres pool is nil")
	}

	var b content.Blog
	err := r.pool.QueryRow(ctx, `
SELECT id, title, body, cover_url, COALESCE(asset_key, ''), created_at, updated_at
FROM blogs
WHERE id = $1
`, id).Scan(&b.ID, &b.Title, &b.Content, &b.CoverURL, &b.AssetKey, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return content.Blog{}, content.ErrNotFound
		}
		return content.Blog{}, fmt.Errorf("get blog: %w", err)
	}

	return b, nil
}

func (r *BlogRepo) Update(ctx context.Context, b content.Blog) (content.Blog, error) {
	if r.pool == nil {
		return content.Blog{}, fmt.Errorf("postgres pool is nil")
	}

	err := r.pool.QueryRow(ctx, `
UPDATE blogs
SET title = $2, body = $3, cover_url = $4, asset_key = NULLIF($5, ''), updated_at = NOW()
WHERE id = $1
RETURNING id, title, body, cover_url, COALESCE(asset_key, ''), created_at, updated_at
`, b.ID, b.Title, b.Content, b.CoverURL, b.AssetKey).Scan(&b.ID, &b.Title, &b.Content, &b.CoverURL, &b.AssetKey, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return content.Blog{}, content.ErrNotFound
		}
		return content.Blog{}, fmt.Errorf("update blog: %w", err)
	}

	return b, nil
}

func (r *BlogRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	res, err := r.pool.Exec(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete blog: %w", err)
	}
	if res.RowsAffected() == 0 {
		return content.ErrNotFound
	}

	return nil
}
