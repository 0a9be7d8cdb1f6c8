package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type UserStore interface {
	FindByEmail(ctx context.Context, email string) (AdminUser, error)
	UpdatePasswordHash(ctx context.Context, userID int64, hash string) error
}

type SessionStore interface {
	Create(ctx context.Context, sid string, userID int64, ttl time.Duration) error
	UserID(ctx context.Context, sid string) (int64, bool, error)
	Delete(ctx context.Context, sid string) error
	DeleteAllForUser(ctx context.Context, userID int64) error
}

type CodeStore interface {
	SetResetCode(ctx context.Context, email, code string, ttl time.Duration) error
	ConsumeResetCode(ctx context.Context, email, code string) (bool, error)
	RegisterFailedLogin(ctx context.Context, email string, window time.Duration) (int64, error)
	ClearFailedLogins(ctx context.Context, email string) error
	Lock(ctx context.Context, email string, duration time.Duration) error
	IsLocked(ctx context.Context, email string) (bool, error)
}

type Mailer interface {
	IsConfigured() bool
	Send(ctx context.Context, to, subject, body string) error
}

type Config struct {
	ResetCodeTTL time.Duration
	MaxAttempts  int
	LockDuration time.Duration
	MailSubject  string
}

type Service struct {
	jwt      *JWTManager
	users    UserStore
	sessions SessionStore
	codes    CodeStore
	mailer   Mailer
	cfg      Config
	log      *zap.Logger
}

func NewService(jwtManager *JWTManager, users UserStore, sessions SessionStore, codes CodeStore, mailer Mailer, cfg Config, log *zap.Logger) *Service {
	if cfg.ResetCodeTTL <= 0 {
		cfg.ResetCodeTTL = 10 * time.Minute
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.LockDuration <= 0 {
		cfg.LockDuration = 15 * time.Minute
	}
	if cfg.MailSubject == "" {
		cfg.MailSubject = "Password reset code"
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Service{
		jwt:      jwtManager,
		users:    users,
		sessions: sessions,
		codes:    codes,
		mailer:   mailer,
		cfg:      cfg,
		log:      log,
	}
}

// Login checks the password against the stored bcrypt hash and opens a
// server-side session. Repeated failures lock the account for a while.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return LoginResult{}, ErrInvalidInput
	}

	locked, err := s.codes.IsLocked(ctx, email)
	if err != nil {
		return LoginResult{}, fmt.Errorf("check login lock: %w", err)
	}
	if locked {
		return LoginResult{}, ErrAccountLocked
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return LoginResult{}, s.registerFailure(ctx, email)
		}
		return LoginResult{}, fmt.Errorf("find admin user: %w", err)
	}
	if !user.IsActive {
		return LoginResult{}, ErrUnauthorized
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return LoginResult{}, s.registerFailure(ctx, email)
	}

	if err := s.codes.ClearFailedLogins(ctx, email); err != nil {
		s.log.Warn("clear failed logins", zap.Error(err))
	}

	sid := uuid.NewString()
	token, expiresAt, err := s.jwt.Generate(user.ID, sid)
	if err != nil {
		return LoginResult{}, fmt.Errorf("generate token: %w", err)
	}
	if err := s.sessions.Create(ctx, sid, user.ID, s.jwt.TokenTTL()); err != nil {
		return LoginResult{}, fmt.Errorf("create session: %w", err)
	}

	return LoginResult{Token: token, ExpiresAt: expiresAt}, nil
}

func (s *Service) registerFailure(ctx context.Context, email string) error {
	count, err := s.codes.RegisterFailedLogin(ctx, email, s.cfg.LockDuration)
	if err != nil {
		s.log.Warn("register failed login", zap.Error(err))
		return ErrUnauthorized
	}
	if count >= int64(s.cfg.MaxAttempts) {
		if err := s.codes.Lock(ctx, email, s.cfg.LockDuration); err != nil {
			s.log.Warn("lock account", zap.Error(err))
		}
		return ErrAccountLocked
	}
	return ErrUnauthorized
}

// ForgotPassword issues a one-time code and mails it. The outcome is the
// same whether or not the email belongs to an admin, so the endpoint does
// not leak which accounts exist.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return ErrInvalidInput
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil
		}
		return fmt.Errorf("find admin user: %w", err)
	}
	if !user.IsActive {
		return nil
	}

	code, err := newResetCode()
	if err != nil {
		return fmt.Errorf("generate reset code: %w", err)
	}
	if err := s.codes.SetResetCode(ctx, email, code, s.cfg.ResetCodeTTL); err != nil {
		return fmt.Errorf("store reset code: %w", err)
	}

	if s.mailer == nil || !s.mailer.IsConfigured() {
		s.log.Warn("mailer is not configured, reset code not delivered", zap.String("email", email))
		return nil
	}

	body := fmt.Sprintf("Your password reset code is %s. It expires in %s.", code, s.cfg.ResetCodeTTL)
	if err := s.mailer.Send(ctx, email, s.cfg.MailSubject, body); err != nil {
		return fmt.Errorf("send reset code: %w", err)
	}

	return nil
}

// ResetPassword consumes the one-time code, stores a fresh hash and revokes
// every open session for the user.
func (s *Service) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	email = normalizeEmail(email)
	if email == "" || strings.TrimSpace(code) == "" || len(newPassword) < 8 {
		return ErrInvalidInput
	}

	ok, err := s.codes.ConsumeResetCode(ctx, email, code)
	if err != nil {
		return fmt.Errorf("consume reset code: %w", err)
	}
	if !ok {
		return ErrCodeInvalid
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrCodeInvalid
		}
		return fmt.Errorf("find admin user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePasswordHash(ctx, user.ID, string(hash)); err != nil {
		return fmt.Errorf("update password hash: %w", err)
	}

	if err := s.sessions.DeleteAllForUser(ctx, user.ID); err != nil {
		s.log.Warn("revoke sessions after password reset", zap.Error(err))
	}
	if err := s.codes.ClearFailedLogins(ctx, email); err != nil {
		s.log.Warn("clear failed logins", zap.Error(err))
	}

	return nil
}

func (s *Service) Logout(ctx context.Context, sid string) error {
	if strings.TrimSpace(sid) == "" {
		return ErrInvalidInput
	}
	if err := s.sessions.Delete(ctx, sid); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// ValidateToken accepts only tokens whose session is still present in the
// store, so a logout takes effect before the JWT itself expires.
func (s *Service) ValidateToken(ctx context.Context, token string) (AccessClaims, error) {
	claims, err := s.jwt.Parse(token)
	if err != nil {
		return AccessClaims{}, ErrUnauthorized
	}

	userID, ok, err := s.sessions.UserID(ctx, claims.SID)
	if err != nil {
		return AccessClaims{}, fmt.Errorf("load session: %w", err)
	}
	if !ok || userID != claims.UserID {
		return AccessClaims{}, ErrUnauthorized
	}

	return claims, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func newResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
