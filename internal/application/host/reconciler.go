package host

import (
	"context"
	"fmt"
	"strings"

	domain "github.com/dev-noaman/arafatvisitor-host-import/internal/domain/host"
)

type hostImportStore interface {
	ExistingExternalIDs(ctx context.Context, externalIDs []string) (map[string]struct{}, error)
	AccountEmails(ctx context.Context, emails []string) (map[string]struct{}, error)
	CreateHostWithAccount(ctx context.Context, candidate domain.Candidate, password string) (domain.CreateOutcome, error)
}

type RunOptions struct {
	// DryRun reports what the run would do without persisting anything.
	DryRun bool
	// RowOffset shifts reported row numbers when rows are processed in
	// chunks, so they keep matching the original file.
	RowOffset int
}

// Reconciler drives validation, the dedup gate and persistence over a batch
// of rows, accumulating the import summary. Row-level failures never abort
// the batch; lookup or persistence failures abort the whole run with no
// partial summary.
type Reconciler struct {
	store hostImportStore
}

func NewReconciler(store hostImportStore) *Reconciler {
	return &Reconciler{store: store}
}

func (r *Reconciler) Run(ctx context.Context, rows []domain.RawRow, opts RunOptions) (domain.ImportSummary, error) {
	existing, err := r.store.ExistingExternalIDs(ctx, collectExternalIDs(rows))
	if err != nil {
		return domain.ImportSummary{}, fmt.Errorf("%w: %v", ErrImportLookup, err)
	}

	// Dry runs never reach the per-row transaction, so would-be account
	// creations are counted from a batched email lookup instead.
	var knownEmails map[string]struct{}
	if opts.DryRun {
		knownEmails, err = r.store.AccountEmails(ctx, collectEmails(rows))
		if err != nil {
			return domain.ImportSummary{}, fmt.Errorf("%w: %v", ErrImportLookup, err)
		}
	}

	summary := domain.ImportSummary{
		RejectedRows:       []domain.RejectedRow{},
		CreatedCredentials: []domain.CreatedCredential{},
	}

	// Duplicate external IDs within the same file: the second occurrence is a
	// skip, caught by this running set rather than the database.
	seenIDs := make(map[string]struct{})
	seenEmails := make(map[string]struct{})

	for i, row := range rows {
		rowNumber := opts.RowOffset + i + 2
		summary.TotalProcessed++

		candidate, validationErr := domain.NewCandidate(row)
		if validationErr != nil {
			summary.Rejected++
			summary.RejectedRows = append(summary.RejectedRows, domain.RejectedRow{
				RowNumber: rowNumber,
				Reason:    validationErr.Error(),
				Data:      row,
			})
			continue
		}

		if candidate.ExternalID != "" {
			if _, known := existing[candidate.ExternalID]; known {
				summary.Skipped++
				continue
			}
			if _, seen := seenIDs[candidate.ExternalID]; seen {
				summary.Skipped++
				continue
			}
			seenIDs[candidate.ExternalID] = struct{}{}
		}

		if opts.DryRun {
			summary.Inserted++
			if candidate.Email != "" {
				emailKey := strings.ToLower(candidate.Email)
				_, known := knownEmails[emailKey]
				_, seen := seenEmails[emailKey]
				if known || seen {
					summary.UsersSkipped++
				} else {
					summary.UsersCreated++
					seenEmails[emailKey] = struct{}{}
				}
			}
			continue
		}

		password := ""
		if candidate.Email != "" {
			password, err = GeneratePassword()
			if err != nil {
				return domain.ImportSummary{}, err
			}
		}

		outcome, err := r.store.CreateHostWithAccount(ctx, candidate, password)
		if err != nil {
			return domain.ImportSummary{}, fmt.Errorf("%w: row %d: %v", ErrImportPersist, rowNumber, err)
		}

		if outcome.HostSkipped {
			summary.Skipped++
			continue
		}

		summary.Inserted++
		switch {
		case outcome.AccountCreated:
			summary.UsersCreated++
			summary.CreatedCredentials = append(summary.CreatedCredentials, domain.CreatedCredential{
				Name:     candidate.Name,
				Email:    candidate.Email,
				Password: password,
				Company:  candidate.Company,
			})
		case outcome.AccountSkipped:
			summary.UsersSkipped++
		}
	}

	return summary, nil
}

func collectExternalIDs(rows []domain.RawRow) []string {
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		if id := strings.TrimSpace(row.ExternalID); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func collectEmails(rows []domain.RawRow) []string {
	emails := make([]string, 0, len(rows))
	for _, row := range rows {
		if email := strings.TrimSpace(row.Email); email != "" {
			emails = append(emails, email)
		}
	}
	return emails
}
