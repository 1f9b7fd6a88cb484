package host

import (
	"bytes"
	"context"
	"encoding/csv"

	domain "github.com/dev-noaman/arafatvisitor-host-import/internal/domain/host"
)

// retryHeader is the canonical column set of the import template. Retry
// batches rebuilt from edited rejected rows always carry this header so the
// reduced file goes through the same parser as the original upload.
var retryHeader = []string{"ID", "Name", "Company", "Email Address", "Phone Number", "Location", "Status"}

// BuildRetryCSV serializes the edited rejected rows into a minimal CSV with
// the canonical header.
func BuildRetryCSV(rows []domain.RawRow) string {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	_ = writer.Write(retryHeader)
	for _, row := range rows {
		_ = writer.Write([]string{row.ExternalID, row.Name, row.Company, row.Email, row.Phone, row.Location, row.Status})
	}
	writer.Flush()

	return buf.String()
}

// CredentialsCSV serializes one-time credentials for a client-side download.
func CredentialsCSV(credentials []domain.CreatedCredential) string {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	_ = writer.Write([]string{"Name", "Email", "Password", "Company"})
	for _, credential := range credentials {
		_ = writer.Write([]string{credential.Name, credential.Email, credential.Password, credential.Company})
	}
	writer.Flush()

	return buf.String()
}

type RetryImportInput struct {
	Cumulative domain.ImportSummary
	EditedRows []domain.RawRow
}

type RetryImport interface {
	Execute(ctx context.Context, in RetryImportInput) (domain.ImportSummary, error)
}

type retryImport struct {
	importer ImportHosts
}

func NewRetryImport(importer ImportHosts) RetryImport {
	return &retryImport{importer: importer}
}

// Execute resubmits only the corrected rows through the full pipeline and
// merges the partial result into the running cumulative summary.
func (uc *retryImport) Execute(ctx context.Context, in RetryImportInput) (domain.ImportSummary, error) {
	if len(in.EditedRows) == 0 {
		return in.Cumulative, nil
	}

	delta, err := uc.importer.Execute(ctx, ImportHostsInput{CSVContent: BuildRetryCSV(in.EditedRows)})
	if err != nil {
		return domain.ImportSummary{}, err
	}

	return domain.Merge(in.Cumulative, delta), nil
}
