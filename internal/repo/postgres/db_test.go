package postgres

import (
	"context"
	"testing"
)

func TestNewPoolRequiresDSN(t *testing.T) {
	if _, err := NewPool(context.Background(), PoolConfig{}); err == nil {
		t.Fatal("expected error for empty dsn")
	}
}

func TestNewPoolRejectsMalformedDSN(t *testing.T) {
	if _, err := NewPool(context.Background(), PoolConfig{DSN: "postgres://%zz"}); err == nil {
		t.Fatal("expected error for malformed dsn")
	}
}
