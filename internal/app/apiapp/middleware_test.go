package apiapp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	redrepo "github.com/okazarov/sitecms/internal/repo/redis"
	authsvc "github.com/okazarov/sitecms/internal/services/auth"
)

type mwTestUsers struct {
	user authsvc.AdminUser
}

func (s mwTestUsers) FindByEmail(_ context.Context, email string) (authsvc.AdminUser, error) {
	if email != s.user.Email {
		return authsvc.AdminUser{}, authsvc.ErrUserNotFound
	}
	return s.user, nil
}

func (s mwTestUsers) UpdatePasswordHash(_ context.Context, _ int64, _ string) error {
	return nil
}

type mwNopMailer struct{}

func (mwNopMailer) IsConfigured() bool { return false }

func (mwNopMailer) Send(_ context.Context, _, _, _ string) error { return nil }

func newAuthServiceForMiddleware(t *testing.T) *authsvc.Service {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	return authsvc.NewService(
		authsvc.NewJWTManager("test-secret", time.Hour),
		mwTestUsers{user: authsvc.AdminUser{
			ID:           1,
			Email:        "admin@example.com",
			PasswordHash: string(hash),
			IsActive:     true,
		}},
		redrepo.NewSessionRepo(client),
		redrepo.NewCodeRepo(client),
		mwNopMailer{},
		authsvc.Config{},
		nil,
	)
}

func TestAuthMiddlewarePassesIdentity(t *testing.T) {
	service := newAuthServiceForMiddleware(t)

	login, err := service.Login(context.Background(), "admin@example.com", "correct horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	var gotIdentity authsvc.Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := authsvc.IdentityFromContext(r.Context())
		if !ok {
			t.Error("expected identity in context")
		}
		gotIdentity = identity
		w.WriteHeader(http.StatusOK)
	})

	handler := AuthMiddleware(service, nil)(next)
	req := httptest.NewRequest(http.MethodPost, "/api/posts", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rr.Code, rr.Body.String())
	}
	if gotIdentity.UserID != 1 || gotIdentity.SID == "" {
		t.Fatalf("unexpected identity %+v", gotIdentity)
	}
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	service := newAuthServiceForMiddleware(t)

	handler := AuthMiddleware(service, nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Error("next handler should not run")
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/posts", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestAuthMiddlewareRejectsLoggedOutToken(t *testing.T) {
	service := newAuthServiceForMiddleware(t)
	ctx := context.Background()

	login, err := service.Login(ctx, "admin@example.com", "correct horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	claims, err := service.ValidateToken(ctx, login.Token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if err := service.Logout(ctx, claims.SID); err != nil {
		t.Fatalf("logout: %v", err)
	}

	handler := AuthMiddleware(service, nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Error("next handler should not run")
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/posts", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", rr.Code)
	}
}

func TestExtractBearerToken(t *testing.T) {
	cases := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"Bearer ", "", false},
		{"Token abc", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		got, ok := extractBearerToken(tc.header)
		if got != tc.want || ok != tc.ok {
			t.Errorf("extractBearerToken(%q) = (%q, %v), want (%q, %v)", tc.header, got, ok, tc.want, tc.ok)
		}
	}
}
