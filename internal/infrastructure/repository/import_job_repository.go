package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	domain "github.com/dev-noaman/arafatvisitor-host-import/internal/domain/host"
	"github.com/dev-noaman/arafatvisitor-host-import/internal/infrastructure/db/models"
)

type ImportJobRepository struct {
	db *gorm.DB
}

func NewImportJobRepository(db *gorm.DB) *ImportJobRepository {
	return &ImportJobRepository{db: db}
}

func (r *ImportJobRepository) Enqueue(ctx context.Context, sourcePath string) (string, error) {
	job := models.ImportJob{
		SourcePath: sourcePath,
		Status:     "queued",
	}

	if err := r.db.WithContext(ctx).Create(&job).Error; err != nil {
		return "", fmt.Errorf("create import job: %w", err)
	}

	return job.ID, nil
}

// ClaimNext picks the oldest runnable job and takes a lease on it. Jobs whose
// lease expired are reclaimed from crashed workers. Returns nil when the
// queue is empty.
func (r *ImportJobRepository) ClaimNext(ctx context.Context, leaseDuration time.Duration) (*domain.ImportJob, error) {
	var row models.ImportJob

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var jobID string
		err := tx.Raw(`
SELECT id FROM import_jobs
WHERE status = 'queued'
   OR (status = 'running' AND lease_expires_at < NOW())
ORDER BY created_at
LIMIT 1
FOR UPDATE SKIP LOCKED
`).Scan(&jobID).Error
		if err != nil {
			return fmt.Errorf("select claimable job: %w", err)
		}
		if jobID == "" {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Exec(`
UPDATE import_jobs
SET status = 'running',
    attempts = attempts + 1,
    started_at = COALESCE(started_at, NOW()),
    heartbeat_at = NOW(),
    lease_expires_at = NOW() + ($1 * interval '1 second'),
    updated_at = NOW()
WHERE id = $2
`, leaseDuration.Seconds(), jobID).Error; err != nil {
			return fmt.Errorf("claim job %s: %w", jobID, err)
		}

		return tx.First(&row, "id = ?", jobID).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &domain.ImportJob{
		ID:          row.ID,
		SourcePath:  row.SourcePath,
		Status:      row.Status,
		Attempts:    row.Attempts,
		MaxAttempts: row.MaxAttempts,
	}, nil
}

func (r *ImportJobRepository) Heartbeat(ctx context.Context, jobID string, leaseDuration time.Duration) error {
	err := r.db.WithContext(ctx).Exec(`
UPDATE import_jobs
SET heartbeat_at = NOW(),
    lease_expires_at = NOW() + ($1 * interval '1 second'),
    updated_at = NOW()
WHERE id = $2
`, leaseDuration.Seconds(), jobID).Error
	if err != nil {
		return fmt.Errorf("heartbeat job %s: %w", jobID, err)
	}
	return nil
}

func (r *ImportJobRepository) UpdateProgress(ctx context.Context, jobID string, progress domain.ImportProgress) error {
	err := r.db.WithContext(ctx).Model(&models.ImportJob{}).
		Where("id = ?", jobID).
		Updates(map[string]any{
			"processed_count": progress.ProcessedCount,
			"inserted_count":  progress.InsertedCount,
			"skipped_count":   progress.SkippedCount,
			"rejected_count":  progress.RejectedCount,
			"users_created":   progress.UsersCreated,
			"users_skipped":   progress.UsersSkipped,
		}).Error
	if err != nil {
		return fmt.Errorf("update progress for job %s: %w", jobID, err)
	}
	return nil
}

func (r *ImportJobRepository) Complete(ctx context.Context, jobID string, progress domain.ImportProgress) error {
	err := r.db.WithContext(ctx).Model(&models.ImportJob{}).
		Where("id = ?", jobID).
		Updates(map[string]any{
			"status":          "done",
			"processed_count": progress.ProcessedCount,
			"inserted_count":  progress.InsertedCount,
			"skipped_count":   progress.SkippedCount,
			"rejected_count":  progress.RejectedCount,
			"users_created":   progress.UsersCreated,
			"users_skipped":   progress.UsersSkipped,
			"finished_at":     time.Now(),
		}).Error
	if err != nil {
		return fmt.Errorf("complete job %s: %w", jobID, err)
	}
	return nil
}

func (r *ImportJobRepository) Requeue(ctx context.Context, jobID string, reason string) error {
	err := r.db.WithContext(ctx).Model(&models.ImportJob{}).
		Where("id = ?", jobID).
		Updates(map[string]any{
			"status":           "queued",
			"error_message":    reason,
			"lease_expires_at": nil,
		}).Error
	if err != nil {
		return fmt.Errorf("requeue job %s: %w", jobID, err)
	}
	return nil
}

func (r *ImportJobRepository) Fail(ctx context.Context, jobID string, reason string) error {
	err := r.db.WithContext(ctx).Model(&models.ImportJob{}).
		Where("id = ?", jobID).
		Updates(map[string]any{
			"status":        "failed",
			"error_message": reason,
			"finished_at":   time.Now(),
		}).Error
	if err != nil {
		return fmt.Errorf("fail job %s: %w", jobID, err)
	}
	return nil
}
