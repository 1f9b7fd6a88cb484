package host

import (
	"context"
	"encoding/base64"
	"fmt"

	domain "github.com/dev-noaman/arafatvisitor-host-import/internal/domain/host"
)

type ImportHostsInput struct {
	CSVContent  string
	XLSXContent string // base64-encoded workbook
	DryRun      bool
}

type ImportHosts interface {
	Execute(ctx context.Context, in ImportHostsInput) (domain.ImportSummary, error)
}

type importHosts struct {
	reconciler *Reconciler
}

func NewImportHosts(reconciler *Reconciler) ImportHosts {
	return &importHosts{reconciler: reconciler}
}

func (uc *importHosts) Execute(ctx context.Context, in ImportHostsInput) (domain.ImportSummary, error) {
	hasCSV := in.CSVContent != ""
	hasXLSX := in.XLSXContent != ""
	if hasCSV == hasXLSX {
		return domain.ImportSummary{}, ErrInvalidImportPayload
	}

	var rows []domain.RawRow
	var err error
	if hasCSV {
		rows, err = ParseCSV([]byte(in.CSVContent))
	} else {
		var data []byte
		data, err = base64.StdEncoding.DecodeString(in.XLSXContent)
		if err != nil {
			return domain.ImportSummary{}, fmt.Errorf("%w: %v", ErrUnreadableFile, err)
		}
		rows, err = ParseXLSX(data)
	}
	if err != nil {
		return domain.ImportSummary{}, err
	}

	return uc.reconciler.Run(ctx, rows, RunOptions{DryRun: in.DryRun})
}
