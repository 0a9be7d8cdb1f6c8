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

type ServicePageRepo struct {
	pool *pgxpool.Pool
}

func NewServicePageRepo(pool *pgxpool.Pool) *ServicePageRepo {
	return &ServicePageRepo{pool: pool}
}

func (r *ServicePageRepo) Insert(ctx context.Context, s content.ServicePage) (content.ServicePage, error) {
	if r.pool == nil {
		return content.ServicePage{}, fmt.Errorf("postgres pool is nil")
	}

	err := r.pool.QueryRow(ctx, `
INSERT INTO service_pages (id, title, description, icon_url, asset_key, created_at)
VALUES ($1, $2, $3, $4, NULLIF($5, ''), NOW())
RETURNING id, title, description, icon_url, COALESCE(asset_key, ''), created_at
`, s.ID, s.Title, s.Description, s.IconURL, s.AssetKey).Scan(&s.ID, &s.Title, &s.Description, &s.IconURL, &s.AssetKey, &s.CreatedAt)
	if err != nil {
		return content.ServicePage{}, fmt.Errorf("insert service page: %w", err)
	}

	return s, nil
}

func (r *ServicePageRepo) List(ctx context.Context) ([]content.ServicePage, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, title, description, icon_url, COALESCE(asset_key, ''), created_at
FROM service_pages
ORDER BY created_at DESC, id DESC
`)
	if err != nil {
		return nil, fmt.Errorf("list service pages: %w", err)
	}
	defer rows.Close()

	pages := make([]content.ServicePage, 0)
	for rows.Next() {
		var s content.ServicePage
		if err := rows.Scan(&s.ID, &s.Title, &s.Description, &s.IconURL, &s.AssetKey, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan service page: %w", err)
		}
		pages = append(pages, s)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate service pages: %w", rows.Err())
	}

	return pages, nil
}

func (r *ServicePageRepo) Get(ctx context.Context, id uuid.UUID) (content.ServicePage, error) {
	if r.pool == nil {
		return content.ServicePage{}, fmt.Errorf("postgres pool is nil")
	}

	var s content.ServicePage
	err := r.pool.QueryRow(ctx, `
SELECT id, title, description, icon_url, COALESCE(asset_key, ''), created_at
FROM service_pages
WHERE id = $1
`, id).Scan(&s.ID, &s.Title, &s.Description, &s.IconURL, &s.AssetKey, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return content.ServicePage{}, content.ErrNotFound
		}
		return content.ServicePage{}, fmt.Errorf("get service page: %w", err)
	}

	return s, nil
}

func (r *ServicePageRepo) Update(ctx context.Context, s content.ServicePage) (content.ServicePage, error) {
	if r.pool == nil {
		return content.ServicePage{}, fmt.Errorf("postgres pool is nil")
	}

	err := r.pool.QueryRow(ctx, `
UPDATE service_pages
SET title = $2, description = $3, icon_url = $4, asset_key = NULLIF($5, '')
WHERE id = $1
RETURNING id, title, description, icon_url, COALESCE(asset_key, ''), created_at
`, s.ID, s.Title, s.Description, s.IconURL, s.AssetKey).Scan(&s.ID, &s.Title, &s.Description, &s.IconURL, &s.AssetKey, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return content.ServicePage{}, content.ErrNotFound
		}
		return content.ServicePage{}, fmt.Errorf("update service page: %w", err)
	}

	return s, nil
}

func (r *ServicePageRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	res, err := r.pool.Exec(ctx, `DELETE FROM service_pages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete service page: %w", err)
	}
	if res.RowsAffected() == 0 {
		return content.ErrNotFound
	}

	return nil
}
