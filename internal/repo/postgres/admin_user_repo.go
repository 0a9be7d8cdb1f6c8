package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	authsvc "github.com/okazarov/sitecms/internal/services/auth"
)

type AdminUserRepo struct {
	pool *pgxpool.Pool
}

func NewAdminUserRepo(pool *pgxpool.Pool) *AdminUserRepo {
	return &AdminUserRepo{pool: pool}
}

func (r *AdminUserRepo) FindByEmail(ctx context.Context, email string) (authsvc.AdminUser, error) {
	if r.pool == nil {
		return authsvc.AdminUser{}, fmt.Errorf("postgres pool is nil")
	}

	var user authsvc.AdminUser
	err := r.pool.QueryRow(ctx, `
SELECT id, email, password_hash, is_active, created_at
FROM admin_users
WHERE lower(email) = lower($1)
`, strings.TrimSpace(email)).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.IsActive, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return authsvc.AdminUser{}, authsvc.ErrUserNotFound
		}
		return authsvc.AdminUser{}, fmt.Errorf("find admin user: %w", err)
	}

	return user, nil
}

func (r *AdminUserRepo) UpdatePasswordHash(ctx context.Context, userID int64, hash string) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	res, err := r.pool.Exec(ctx, `
UPDATE admin_users
SET password_hash = $2, updated_at = NOW()
WHERE id = $1
`, userID, hash)
	if err != nil {
		return fmt.Errorf("update admin password hash: %w", err)
	}
	if res.RowsAffected() == 0 {
		return authsvc.ErrUserNotFound
	}

	return nil
}
