package cleanup

import (
	"context"
	"errors"
	"testing"
	"time"

	pgrepo "github.com/okazarov/sitecms/internal/repo/postgres"
)

type fakeLedger struct {
	records []pgrepo.AssetRecord
	deleted []string
}

func (f *fakeLedger) ListOrphanedOlderThan(_ context.Context, cutoff time.Time) ([]pgrepo.AssetRecord, error) {
	var out []pgrepo.AssetRecord
	for _, record := range f.records {
		if record.CreatedAt.Before(cutoff) {
			out = append(out, record)
		}
	}
	return out, nil
}

func (f *fakeLedger) DeleteByKey(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

type fakeStorage struct {
	deleted []string
	failKey string
}

func (f *fakeStorage) Delete(_ context.Context, key string) error {
	if key == f.failKey {
		return errors.New("storage unavailable")
	}
	f.deleted = append(f.deleted, key)
	return nil
}

func TestRunDeletesOnlyStaleOrphans(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	ledger := &fakeLedger{records: []pgrepo.AssetRecord{
		{ObjectKey: "posts/stale.png", CreatedAt: now.Add(-48 * time.Hour)},
		{ObjectKey: "posts/fresh.png", CreatedAt: now.Add(-1 * time.Hour)},
	}}
	storage := &fakeStorage{}

	job := New(ledger, storage, 24*time.Hour, nil)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run sweep: %v", err)
	}

	if len(storage.deleted) != 1 || storage.deleted[0] != "posts/stale.png" {
		t.Fatalf("expected only the stale object removed, got %v", storage.deleted)
	}
	if len(ledger.deleted) != 1 || ledger.deleted[0] != "posts/stale.png" {
		t.Fatalf("expected only the stale record removed, got %v", ledger.deleted)
	}
}

func TestRunKeepsRecordWhenStorageDeleteFails(t *testing.T) {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	ledger := &fakeLedger{records: []pgrepo.AssetRecord{
		{ObjectKey: "posts/stuck.png", CreatedAt: now.Add(-48 * time.Hour)},
	}}
	storage := &fakeStorage{failKey: "posts/stuck.png"}

	job := New(ledger, storage, 24*time.Hour, nil)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run sweep: %v", err)
	}

	// The ledger row stays so the next sweep retries the object.
	if len(ledger.deleted) != 0 {
		t.Fatalf("expected record kept, got %v", ledger.deleted)
	}
}

func TestRunNoopWithoutDependencies(t *testing.T) {
	job := New(nil, nil, time.Hour, nil)
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("expected noop, got %v", err)
	}
}
