package host

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	domain "github.com/dev-noaman/arafatvisitor-host-import/internal/domain/host"
)

type ImportSource interface {
	Open(ctx context.Context, sourcePath string) (io.ReadCloser, error)
}

type importWorkerJobRepo interface {
	ClaimNext(ctx context.Context, leaseDuration time.Duration) (*domain.ImportJob, error)
	Heartbeat(ctx context.Context, jobID string, leaseDuration time.Duration) error
	UpdateProgress(ctx context.Context, jobID string, progress domain.ImportProgress) error
	Complete(ctx context.Context, jobID string, progress domain.ImportProgress) error
	Requeue(ctx context.Context, jobID string, reason string) error
	Fail(ctx context.Context, jobID string, reason string) error
}

type ImportWorkerConfig struct {
	Workers           int
	ChunkSize         int
	PollInterval      time.Duration
	LeaseDuration     time.Duration
	HeartbeatInterval time.Duration
}

// ImportWorker processes enqueued host imports in the background. Files are
// reconciled in chunks so a crashed or timed-out job keeps the work already
// committed; generated credentials are not persisted, so async summaries
// carry counts only.
type ImportWorker struct {
	repo       importWorkerJobRepo
	source     ImportSource
	reconciler *Reconciler
	cfg        ImportWorkerConfig

	once sync.Once
}

func NewImportWorker(repo importWorkerJobRepo, source ImportSource, reconciler *Reconciler, cfg ImportWorkerConfig) *ImportWorker {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 500
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 500 * time.Millisecond
	}
	if cfg.LeaseDuration <= 0 {
		cfg.LeaseDuration = 60 * time.Second
	}
	if cfg.HeartbeatInterval <= 0 {
		cfg.HeartbeatInterval = cfg.LeaseDuration / 2
	}

	return &ImportWorker{
		repo:       repo,
		source:     source,
		reconciler: reconciler,
		cfg:        cfg,
	}
}

func (w *ImportWorker) Start(ctx context.Context) {
	w.once.Do(func() {
		for i := 0; i < w.cfg.Workers; i++ {
			go w.workerLoop(ctx)
		}
	})
}

func (w *ImportWorker) workerLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		job, err := w.repo.ClaimNext(ctx, w.cfg.LeaseDuration)
		if err != nil {
			log.Printf("claim next import job failed: %v", err)
			if !sleepWithContext(ctx, w.cfg.PollInterval) {
				return
			}
			continue
		}

		if job == nil {
			if !sleepWithContext(ctx, w.cfg.PollInterval) {
				return
			}
			continue
		}

		if err := w.ProcessJob(ctx, *job); err != nil {
			log.Printf("process import job %s failed: %v", job.ID, err)
		}
	}
}

func (w *ImportWorker) ProcessJob(ctx context.Context, job domain.ImportJob) error {
	rows, err := w.readRows(ctx, job.SourcePath)
	if err != nil {
		return w.onProcessingError(ctx, job, err)
	}

	ticker := time.NewTicker(w.cfg.HeartbeatInterval)
	defer ticker.Stop()

	var progress domain.ImportProgress

	for offset := 0; offset < len(rows); offset += w.cfg.ChunkSize {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.repo.Heartbeat(ctx, job.ID, w.cfg.LeaseDuration); err != nil {
				return w.onProcessingError(ctx, job, fmt.Errorf("heartbeat: %w", err))
			}
		default:
		}

		end := offset + w.cfg.ChunkSize
		if end > len(rows) {
			end = len(rows)
		}

		summary, err := w.reconciler.Run(ctx, rows[offset:end], RunOptions{RowOffset: offset})
		if err != nil {
			return w.onProcessingError(ctx, job, fmt.Errorf("reconcile chunk at row %d: %w", offset+2, err))
		}

		progress.ProcessedCount += int64(summary.TotalProcessed)
		progress.InsertedCount += int64(summary.Inserted)
		progress.SkippedCount += int64(summary.Skipped)
		progress.RejectedCount += int64(summary.Rejected)
		progress.UsersCreated += int64(summary.UsersCreated)
		progress.UsersSkipped += int64(summary.UsersSkipped)

		if err := w.repo.UpdateProgress(ctx, job.ID, progress); err != nil {
			return w.onProcessingError(ctx, job, fmt.Errorf("update progress: %w", err))
		}
	}

	if err := w.repo.Complete(ctx, job.ID, progress); err != nil {
		return w.onProcessingError(ctx, job, fmt.Errorf("complete job: %w", err))
	}

	return nil
}

func (w *ImportWorker) readRows(ctx context.Context, sourcePath string) ([]domain.RawRow, error) {
	reader, err := w.source.Open(ctx, sourcePath)
	if err != nil {
		return nil, fmt.Errorf("open import source: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read import source: %w", err)
	}

	switch strings.ToLower(filepath.Ext(sourcePath)) {
	case ".csv":
		return ParseCSV(data)
	case ".xlsx":
		return ParseXLSX(data)
	default:
		return nil, fmt.Errorf("%w: unsupported extension %q", ErrInvalidImportSource, filepath.Ext(sourcePath))
	}
}

func (w *ImportWorker) onProcessingError(ctx context.Context, job domain.ImportJob, err error) error {
	reason := truncateReason(err.Error())
	if job.Attempts < job.MaxAttempts {
		if requeueErr := w.repo.Requeue(ctx, job.ID, reason); requeueErr != nil {
			return fmt.Errorf("%v; requeue failed: %w", err, requeueErr)
		}
		return err
	}

	if failErr := w.repo.Fail(ctx, job.ID, reason); failErr != nil {
		return fmt.Errorf("%v; fail update failed: %w", err, failErr)
	}
	return err
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func truncateReason(reason string) string {
	const maxLen = 1000
	reason = strings.TrimSpace(reason)
	if len(reason) <= maxLen {
		return reason
	}
	return reason[:maxLen]
}
