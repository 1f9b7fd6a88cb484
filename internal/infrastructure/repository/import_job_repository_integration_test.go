package repository_test

import (
	"context"
	"os"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	domain "github.com/dev-noaman/arafatvisitor-host-import/internal/domain/host"
	"github.com/dev-noaman/arafatvisitor-host-import/internal/infrastructure/repository"
)

const importJobSchemaSQL = `
CREATE EXTENSION IF NOT EXISTS "uuid-ossp";
CREATE TABLE IF NOT EXISTS import_jobs (
  id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
  source_path TEXT NOT NULL,
  status TEXT NOT NULL,
  processed_count BIGINT NOT NULL DEFAULT 0,
  inserted_count BIGINT NOT NULL DEFAULT 0,
  skipped_count BIGINT NOT NULL DEFAULT 0,
  rejected_count BIGINT NOT NULL DEFAULT 0,
  users_created BIGINT NOT NULL DEFAULT 0,
  users_skipped BIGINT NOT NULL DEFAULT 0,
  attempts INT NOT NULL DEFAULT 0,
  max_attempts INT NOT NULL DEFAULT 5,
  error_message TEXT,
  heartbeat_at TIMESTAMPTZ,
  lease_expires_at TIMESTAMPTZ,
  started_at TIMESTAMPTZ,
  finished_at TIMESTAMPTZ,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

func setupImportJobSchema(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect db: %v", err)
	}
	if err := gdb.Exec(importJobSchemaSQL).Error; err != nil {
		t.Fatalf("failed schema setup: %v", err)
	}
	if err := gdb.Exec("DELETE FROM import_jobs").Error; err != nil {
		t.Fatalf("failed cleanup: %v", err)
	}

	return gdb
}

func TestImportJobRepositoryLifecycleIntegration(t *testing.T) {
	gdb := setupImportJobSchema(t)
	repo := repository.NewImportJobRepository(gdb)
	ctx := context.Background()

	jobID, err := repo.Enqueue(ctx, "hosts.csv")
	if err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
	if jobID == "" {
		t.Fatal("expected job id")
	}

	claimed, err := repo.ClaimNext(ctx, 30*time.Second)
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if claimed == nil || claimed.ID != jobID {
		t.Fatalf("unexpected claim: %+v", claimed)
	}
	if claimed.Status != "running" || claimed.Attempts != 1 {
		t.Fatalf("unexpected claimed state: %+v", claimed)
	}

	// The running job holds its lease: nothing else is claimable.
	second, err := repo.ClaimNext(ctx, 30*time.Second)
	if err != nil {
		t.Fatalf("second claim failed: %v", err)
	}
	if second != nil {
		t.Fatalf("expected empty queue, got %+v", second)
	}

	if err := repo.Heartbeat(ctx, jobID, 30*time.Second); err != nil {
		t.Fatalf("heartbeat failed: %v", err)
	}

	progress := domain.ImportProgress{ProcessedCount: 10, InsertedCount: 7, SkippedCount: 2, RejectedCount: 1, UsersCreated: 5}
	if err := repo.UpdateProgress(ctx, jobID, progress); err != nil {
		t.Fatalf("update progress failed: %v", err)
	}

	if err := repo.Complete(ctx, jobID, progress); err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	var status string
	if err := gdb.Raw("SELECT status FROM import_jobs WHERE id = ?", jobID).Scan(&status).Error; err != nil {
		t.Fatalf("read status failed: %v", err)
	}
	if status != "done" {
		t.Fatalf("expected done, got %s", status)
	}
}

func TestImportJobRepositoryReclaimExpiredLeaseIntegration(t *testing.T) {
	gdb := setupImportJobSchema(t)
	repo := repository.NewImportJobRepository(gdb)
	ctx := context.Background()

	jobID, err := repo.Enqueue(ctx, "hosts.xlsx")
	if err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	if _, err := repo.ClaimNext(ctx, time.Second); err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	// Simulate a crashed worker whose lease ran out.
	if err := gdb.Exec("UPDATE import_jobs SET lease_expires_at = NOW() - interval '1 minute' WHERE id = ?", jobID).Error; err != nil {
		t.Fatalf("expire lease failed: %v", err)
	}

	reclaimed, err := repo.ClaimNext(ctx, 30*time.Second)
	if err != nil {
		t.Fatalf("reclaim failed: %v", err)
	}
	if reclaimed == nil || reclaimed.ID != jobID {
		t.Fatalf("expected expired job reclaimed, got %+v", reclaimed)
	}
	if reclaimed.Attempts != 2 {
		t.Fatalf("expected attempts=2, got %d", reclaimed.Attempts)
	}

	if err := repo.Requeue(ctx, jobID, "transient failure"); err != nil {
		t.Fatalf("requeue failed: %v", err)
	}
	if err := repo.Fail(ctx, jobID, "terminal failure"); err != nil {
		t.Fatalf("fail failed: %v", err)
	}

	var status string
	if err := gdb.Raw("SELECT status FROM import_jobs WHERE id = ?", jobID).Scan(&status).Error; err != nil {
		t.Fatalf("read status failed: %v", err)
	}
	if status != "failed" {
		t.Fatalf("expected failed, got %s", status)
	}
}
