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

type PostRepo struct {
	pool *pgxpool.Pool
}

func NewPostRepo(pool *pgxpool.Pool) *PostRepo {
	return &PostRepo{pool: pool}
}

func (r *PostRepo) Insert(ctx context.Context, post content.Post) (content.Post, error) {
	if r.pool == nil {
		return content.Post{}, fmt.Errorf("postgres pool is nil")
	}

	err := r.pool.QueryRow(ctx, `
INSERT INTO posts (id, image_url, asset_key, created_at)
VALUES ($1, $2, NULLIF($3, ''), NOW())
RETURNING id, image_url, COALESCE(asset_key, ''), created_at
`, post.ID, post.ImageURL, post.AssetKey).Scan(&post.ID, &post.ImageURL, &post.AssetKey, &post.CreatedAt)
	if err != nil {
		return content.Post{}, fmt.Errorf("insert post: %w", err)
	}

	return post, nil
}

func (r *PostRepo) List(ctx context.Context) ([]content.Post, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, image_url, COALESCE(asset_key, ''), created_at
FROM posts
ORDER BY created_at DESC, id DESC
`)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := make([]content.Post, 0)
	for rows.Next() {
		var p content.Post
		if err := rows.Scan(&p.ID, &p.ImageURL, &p.AssetKey, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate posts: %w", rows.Err())
	}

	return posts, nil
}

func (r *PostRepo) Get(ctx context.Context, id uuid.UUID) (content.Post, error) {
	if r.pool == nil {
		return content.Post{}, fmt.Errorf("postgres pool is nil")
	}

	var p content.Post
	err := r.pool.QueryRow(ctx, `
SELECT id, image_url, COALESCE(asset_key, ''), created_at
FROM posts
WHERE id = $1
`, id).Scan(&p.ID, &p.ImageURL, &p.AssetKey, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return content.Post{}, content.ErrNotFound
		}
		return content.Post{}, fmt.Errorf("get post: %w", err)
	}

	return p, nil
}

func (r *PostRepo) Update(ctx context.Context, post content.Post) (content.Post, error) {
	if r.pool == nil {
		return content.Post{}, fmt.Errorf("postgres pool is nil")
	}

	err := r.pool.QueryRow(ctx, `
UPDATE posts
SET image_url = $2, asset_key = NULLIF($3, '')
WHERE id = $1
RETURNING id, image_url, COALESCE(asset_key, ''), created_at
`, post.ID, post.ImageURL, post.AssetKey).Scan(&post.ID, &post.ImageURL, &post.AssetKey, &post.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return content.Post{}, content.ErrNotFound
		}
		return content.Post{}, fmt.Errorf("update post: %w", err)
	}

	return post, nil
}

func (r *PostRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	res, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if res.RowsAffected() == 0 {
		return content.ErrNotFound
	}

	return nil
}
