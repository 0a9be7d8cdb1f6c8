package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadUsesDefaultsAndYAMLOverrides(t *testing.T) {
	clearConfigEnv(t)

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	yaml := `
http:
  addr: ":9090"
upload:
  allowed_types: ["image/webp"]
  max_bytes: 1048576
auth:
  token_ttl: 2h
  max_attempts: 3
cache:
  list_ttl: 45s
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.HTTP.Addr != ":9090" {
		t.Fatalf("unexpected http addr: %s", cfg.HTTP.Addr)
	}
	if len(cfg.Upload.AllowedTypes) != 1 || cfg.Upload.AllowedTypes[0] != "image/webp" {
		t.Fatalf("unexpected allowed types: %v", cfg.Upload.AllowedTypes)
	}
	if cfg.Upload.MaxBytes != 1048576 {
		t.Fatalf("unexpected max bytes: %d", cfg.Upload.MaxBytes)
	}
	if cfg.Auth.TokenTTL.String() != "2h0m0s" {
		t.Fatalf("unexpected token ttl: %s", cfg.Auth.TokenTTL)
	}
	if cfg.Auth.MaxAttempts != 3 {
		t.Fatalf("unexpected max attempts: %d", cfg.Auth.MaxAttempts)
	}
	if cfg.Cache.ListTTL.String() != "45s" {
		t.Fatalf("unexpected cache list ttl: %s", cfg.Cache.ListTTL)
	}

	if cfg.Postgres.DSN == "" {
		t.Fatalf("postgres dsn default should stay set")
	}
	if cfg.Auth.ResetCodeTTL.String() != "10m0s" {
		t.Fatalf("reset code ttl default should stay 10m")
	}
	if cfg.S3.Bucket != "sitecms-media" {
		t.Fatalf("s3 bucket default should stay sitecms-media: %s", cfg.S3.Bucket)
	}
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTP.Addr != ":8080" {
		t.Fatalf("unexpected default addr: %s", cfg.HTTP.Addr)
	}
	if cfg.Upload.MaxBytes != 5<<20 {
		t.Fatalf("unexpected default upload cap: %d", cfg.Upload.MaxBytes)
	}
}

func TestEnvOverridesBeatYAML(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("HTTP_ADDR", ":7070")
	t.Setenv("UPLOAD_ALLOWED_TYPES", "image/png, image/jpeg")
	t.Setenv("UPLOAD_MAX_BYTES", "2097152")
	t.Setenv("JWT_SECRET", "env-secret")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTP.Addr != ":7070" {
		t.Fatalf("unexpected addr: %s", cfg.HTTP.Addr)
	}
	if len(cfg.Upload.AllowedTypes) != 2 || cfg.Upload.AllowedTypes[1] != "image/jpeg" {
		t.Fatalf("unexpected allowed types: %v", cfg.Upload.AllowedTypes)
	}
	if cfg.Upload.MaxBytes != 2097152 {
		t.Fatalf("unexpected max bytes: %d", cfg.Upload.MaxBytes)
	}
	if cfg.Auth.JWTSecret != "env-secret" {
		t.Fatalf("unexpected jwt secret: %s", cfg.Auth.JWTSecret)
	}
}

func TestLoadRejectsMalformedEnvNumbers(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("UPLOAD_MAX_BYTES", "five-megabytes")

	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for malformed UPLOAD_MAX_BYTES")
	}
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"APP_ENV", "HTTP_ADDR", "HTTP_READ_TIMEOUT", "HTTP_WRITE_TIMEOUT", "HTTP_IDLE_TIMEOUT",
		"LOG_LEVEL", "POSTGRES_DSN", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
		"S3_ENDPOINT", "S3_ACCESS_KEY", "S3_SECRET_KEY", "S3_BUCKET", "S3_USE_SSL", "S3_PUBLIC_BASE_URL",
		"UPLOAD_ALLOWED_TYPES", "UPLOAD_MAX_BYTES",
		"JWT_SECRET", "AUTH_TOKEN_TTL", "AUTH_RESET_CODE_TTL", "AUTH_MAX_ATTEMPTS", "AUTH_LOCK_DURATION",
		"MAIL_API_URL", "MAIL_API_KEY", "MAIL_FROM",
		"CACHE_LIST_TTL", "CLEANUP_INTERVAL", "CLEANUP_RETENTION",
	}
	for _, key := range keys {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}
}
