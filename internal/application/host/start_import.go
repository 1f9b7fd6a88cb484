package host

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

type StartImportInput struct {
	SourcePath string
}

type StartImportOutput struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

type StartImport interface {
	Execute(ctx context.Context, in StartImportInput) (StartImportOutput, error)
}

type importJobEnqueuer interface {
	Enqueue(ctx context.Context, sourcePath string) (string, error)
}

type startImport struct {
	importJobRepo importJobEnqueuer
}

func NewStartImport(importJobRepo importJobEnqueuer) StartImport {
	return &startImport{importJobRepo: importJobRepo}
}

func (uc *startImport) Execute(ctx context.Context, in StartImportInput) (StartImportOutput, error) {
	sourcePath := strings.TrimSpace(in.SourcePath)
	ext := strings.ToLower(filepath.Ext(sourcePath))
	if sourcePath == "" || (ext != ".csv" && ext != ".xlsx") {
		return StartImportOutput{}, ErrInvalidImportSource
	}

	jobID, err := uc.importJobRepo.Enqueue(ctx, sourcePath)
	if err != nil {
		return StartImportOutput{}, fmt.Errorf("%w: %v", ErrEnqueueImportJob, err)
	}

	return StartImportOutput{
		JobID:  jobID,
		Status: "queued",
	}, nil
}
