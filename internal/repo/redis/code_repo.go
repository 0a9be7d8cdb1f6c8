package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const (
	resetCodePrefix     = "reset_codes:"
	loginAttemptsPrefix = "login_attempts:"
	loginLockPrefix     = "login_lock:"
)

// CodeRepo holds short-lived auth state: one-time password reset codes and
// failed-login counters. Everything expires on its own.
type CodeRepo struct {
	client *goredis.Client
}

func NewCodeRepo(client *goredis.Client) *CodeRepo {
	return &CodeRepo{client: client}
}

func (r *CodeRepo) SetResetCode(ctx context.Context, email, code string, ttl time.Duration) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if strings.TrimSpace(email) == "" || strings.TrimSpace(code) == "" || ttl <= 0 {
		return fmt.Errorf("invalid reset code payload")
	}

	if err := r.client.Set(ctx, resetCodeKey(email), code, ttl).Err(); err != nil {
		return fmt.Errorf("set reset code: %w", err)
	}

	return nil
}

// ConsumeResetCode compares and deletes in one pass so a code can be used
// at most once.
func (r *CodeRepo) ConsumeResetCode(ctx context.Context, email, code string) (bool, error) {
	if r.client == nil {
		return false, fmt.Errorf("redis client is nil")
	}

	stored, err := r.client.GetDel(ctx, resetCodeKey(email)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("consume reset code: %w", err)
	}

	return stored != "" && stored == strings.TrimSpace(code), nil
}

func (r *CodeRepo) RegisterFailedLogin(ctx context.Context, email string, window time.Duration) (int64, error) {
	if r.client == nil {
		return 0, fmt.Errorf("redis client is nil")
	}

	count, err := r.client.Incr(ctx, loginAttemptsKey(email)).Result()
	if err != nil {
		return 0, fmt.Errorf("increment login attempts: %w", err)
	}
	if count == 1 && window > 0 {
		if err := r.client.Expire(ctx, loginAttemptsKey(email), window).Err(); err != nil {
			return 0, fmt.Errorf("expire login attempts: %w", err)
		}
	}

	return count, nil
}

func (r *CodeRepo) ClearFailedLogins(ctx context.Context, email string) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if err := r.client.Del(ctx, loginAttemptsKey(email)).Err(); err != nil {
		return fmt.Errorf("clear login attempts: %w", err)
	}
	return nil
}

func (r *CodeRepo) Lock(ctx context.Context, email string, duration time.Duration) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if duration <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, loginLockKey(email), "1", duration).Err(); err != nil {
		return fmt.Errorf("set login lock: %w", err)
	}
	return nil
}

func (r *CodeRepo) IsLocked(ctx context.Context, email string) (bool, error) {
	if r.client == nil {
		return false, fmt.Errorf("redis client is nil")
	}

	n, err := r.client.Exists(ctx, loginLockKey(email)).Result()
	if err != nil {
		return false, fmt.Errorf("check login lock: %w", err)
	}

	return n > 0, nil
}

func resetCodeKey(email string) string {
	return resetCodePrefix + strings.ToLower(strings.TrimSpace(email))
}

func loginAttemptsKey(email string) string {
	return loginAttemptsPrefix + strings.ToLower(strings.TrimSpace(email))
}

func loginLockKey(email string) string {
	return loginLockPrefix + strings.ToLower(strings.TrimSpace(email))
}
