package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	redrepo "github.com/okazarov/sitecms/internal/repo/redis"
	authsvc "github.com/okazarov/sitecms/internal/services/auth"
)

type fakeUserStore struct {
	users   map[string]authsvc.AdminUser
	updated map[int64]string
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (authsvc.AdminUser, error) {
	user, ok := f.users[email]
	if !ok {
		return authsvc.AdminUser{}, authsvc.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserStore) UpdatePasswordHash(_ context.Context, userID int64, hash string) error {
	if f.updated == nil {
		f.updated = make(map[int64]string)
	}
	f.updated[userID] = hash
	for email, user := range f.users {
		if user.ID == userID {
			user.PasswordHash = hash
			f.users[email] = user
		}
	}
	return nil
}

type fakeMailer struct {
	to   string
	body string
	sent int
}

func (f *fakeMailer) IsConfigured() bool { return true }

func (f *fakeMailer) Send(_ context.Context, to, _ string, body string) error {
	f.to = to
	f.body = body
	f.sent++
	return nil
}

func newAuthServiceForTest(t *testing.T) (*authsvc.Service, *fakeUserStore, *fakeMailer) {
	t.Helper()

	mini, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mini.Close)

	client := goredis.NewClient(&goredis.Options{Addr: mini.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	users := &fakeUserStore{users: map[string]authsvc.AdminUser{
		"admin@example.com": {
			ID:           1,
			Email:        "admin@example.com",
			PasswordHash: string(hash),
			IsActive:     true,
		},
	}}
	mailer := &fakeMailer{}

	svc := authsvc.NewService(
		authsvc.NewJWTManager("test-secret", time.Hour),
		users,
		redrepo.NewSessionRepo(client),
		redrepo.NewCodeRepo(client),
		mailer,
		authsvc.Config{MaxAttempts: 3, LockDuration: time.Minute},
		nil,
	)

	return svc, users, mailer
}

func TestLoginIssuesValidToken(t *testing.T) {
	svc, _, _ := newAuthServiceForTest(t)
	ctx := context.Background()

	result, err := svc.Login(ctx, "Admin@Example.com", "correct horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.Token == "" {
		t.Fatal("expected a token")
	}

	claims, err := svc.ValidateToken(ctx, result.Token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if claims.UserID != 1 {
		t.Fatalf("expected user 1, got %d", claims.UserID)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, _, _ := newAuthServiceForTest(t)

	if _, err := svc.Login(context.Background(), "admin@example.com", "wrong"); !errors.Is(err, authsvc.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestLoginLocksAfterRepeatedFailures(t *testing.T) {
	svc, _, _ := newAuthServiceForTest(t)
	ctx := context.Background()

	var err error
	for i := 0; i < 3; i++ {
		_, err = svc.Login(ctx, "admin@example.com", "wrong")
	}
	if !errors.Is(err, authsvc.ErrAccountLocked) {
		t.Fatalf("expected ErrAccountLocked on final attempt, got %v", err)
	}

	if _, err := svc.Login(ctx, "admin@example.com", "correct horse"); !errors.Is(err, authsvc.ErrAccountLocked) {
		t.Fatalf("correct password should still be locked out, got %v", err)
	}
}

func TestLoginRejectsUnknownUserWithoutLeaking(t *testing.T) {
	svc, _, _ := newAuthServiceForTest(t)

	if _, err := svc.Login(context.Background(), "ghost@example.com", "whatever"); !errors.Is(err, authsvc.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestLogoutInvalidatesToken(t *testing.T) {
	svc, _, _ := newAuthServiceForTest(t)
	ctx := context.Background()

	result, err := svc.Login(ctx, "admin@example.com", "correct horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := svc.ValidateToken(ctx, result.Token)
	if err != nil {
		t.Fatalf("validate before logout: %v", err)
	}
	if err := svc.Logout(ctx, claims.SID); err != nil {
		t.Fatalf("logout: %v", err)
	}

	if _, err := svc.ValidateToken(ctx, result.Token); !errors.Is(err, authsvc.ErrUnauthorized) {
		t.Fatalf("token should be unauthorized after logout, got %v", err)
	}
}

func TestForgotAndResetPassword(t *testing.T) {
	svc, users, mailer := newAuthServiceForTest(t)
	ctx := context.Background()

	loggedIn, err := svc.Login(ctx, "admin@example.com", "correct horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := svc.ForgotPassword(ctx, "admin@example.com"); err != nil {
		t.Fatalf("forgot password: %v", err)
	}
	if mailer.sent != 1 || mailer.to != "admin@example.com" {
		t.Fatalf("expected one mail to admin, got sent=%d to=%q", mailer.sent, mailer.to)
	}

	code := extractCode(t, mailer.body)
	if err := svc.ResetPassword(ctx, "admin@example.com", code, "new password 1"); err != nil {
		t.Fatalf("reset password: %v", err)
	}

	if _, ok := users.updated[1]; !ok {
		t.Fatal("expected password hash to be updated")
	}

	// All sessions are revoked once the password changes.
	if _, err := svc.ValidateToken(ctx, loggedIn.Token); !errors.Is(err, authsvc.ErrUnauthorized) {
		t.Fatalf("old token should be revoked, got %v", err)
	}

	if _, err := svc.Login(ctx, "admin@example.com", "new password 1"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}

	if err := svc.ResetPassword(ctx, "admin@example.com", code, "another password"); !errors.Is(err, authsvc.ErrCodeInvalid) {
		t.Fatalf("reused code should fail, got %v", err)
	}
}

func TestForgotPasswordSilentForUnknownEmail(t *testing.T) {
	svc, _, mailer := newAuthServiceForTest(t)

	if err := svc.ForgotPassword(context.Background(), "ghost@example.com"); err != nil {
		t.Fatalf("forgot password for unknown email: %v", err)
	}
	if mailer.sent != 0 {
		t.Fatalf("expected no mail, got %d", mailer.sent)
	}
}

func TestResetPasswordRejectsWrongCode(t *testing.T) {
	svc, _, _ := newAuthServiceForTest(t)
	ctx := context.Background()

	if err := svc.ForgotPassword(ctx, "admin@example.com"); err != nil {
		t.Fatalf("forgot password: %v", err)
	}
	if err := svc.ResetPassword(ctx, "admin@example.com", "000000", "new password 1"); !errors.Is(err, authsvc.ErrCodeInvalid) {
		t.Fatalf("expected ErrCodeInvalid, got %v", err)
	}
}

func TestResetPasswordRejectsShortPassword(t *testing.T) {
	svc, _, _ := newAuthServiceForTest(t)

	if err := svc.ResetPassword(context.Background(), "admin@example.com", "123456", "short"); !errors.Is(err, authsvc.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func extractCode(t *testing.T, body string) string {
	t.Helper()

	for i := 0; i+6 <= len(body); i++ {
		candidate := body[i : i+6]
		digits := true
		for _, c := range candidate {
			if c < '0' || c > '9' {
				digits = false
				break
			}
		}
		if digits {
			return candidate
		}
	}

	t.Fatalf("no 6-digit code in mail body %q", body)
	return ""
}
