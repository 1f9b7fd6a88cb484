package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	domain "github.com/dev-noaman/arafatvisitor-host-import/internal/domain/host"
	"github.com/dev-noaman/arafatvisitor-host-import/internal/infrastructure/db/models"
)

var (
	errDuplicateHost = errors.New("duplicate host external id")
	errAccountWrite  = errors.New("account provisioning failed")
)

// HostImportRepository backs the import pipeline: batched set-membership
// lookups go through pgx, per-row writes go through a GORM transaction.
type HostImportRepository struct {
	db   *gorm.DB
	pool *pgxpool.Pool
}

func NewHostImportRepository(db *gorm.DB, pool *pgxpool.Pool) *HostImportRepository {
	return &HostImportRepository{db: db, pool: pool}
}

// ExistingExternalIDs resolves which of the given external IDs already belong
// to a non-deleted host, in a single query.
func (r *HostImportRepository) ExistingExternalIDs(ctx context.Context, externalIDs []string) (map[string]struct{}, error) {
	out := make(map[string]struct{}, len(externalIDs))
	if len(externalIDs) == 0 {
		return out, nil
	}

	rows, err := r.pool.Query(ctx,
		"SELECT external_id FROM hosts WHERE external_id = ANY($1) AND deleted_at IS NULL",
		externalIDs)
	if err != nil {
		return nil, fmt.Errorf("query existing external ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan external id: %w", err)
		}
		out[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read existing external ids: %w", err)
	}

	return out, nil
}

// AccountEmails resolves which of the given emails already have a login
// account. Keys of the returned set are lowercased.
func (r *HostImportRepository) AccountEmails(ctx context.Context, emails []string) (map[string]struct{}, error) {
	out := make(map[string]struct{}, len(emails))
	if len(emails) == 0 {
		return out, nil
	}

	lowered := make([]string, 0, len(emails))
	for _, email := range emails {
		lowered = append(lowered, strings.ToLower(email))
	}

	rows, err := r.pool.Query(ctx,
		"SELECT lower(email) FROM accounts WHERE lower(email) = ANY($1)",
		lowered)
	if err != nil {
		return nil, fmt.Errorf("query account emails: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("scan account email: %w", err)
		}
		out[email] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read account emails: %w", err)
	}

	return out, nil
}

// CreateHostWithAccount persists one accepted row: the host and its account
// attempt share a transaction. A duplicate external id is a skip, not an
// error (the unique constraint is the final arbiter across concurrent
// imports). If the account write itself fails the host is kept: the row is
// retried without provisioning and reported as a skipped account.
func (r *HostImportRepository) CreateHostWithAccount(ctx context.Context, candidate domain.Candidate, password string) (domain.CreateOutcome, error) {
	outcome, err := r.create(ctx, candidate, password, true)
	if errors.Is(err, errAccountWrite) {
		log.Printf("account provisioning failed for %s, keeping host: %v", candidate.Email, err)
		outcome, err = r.create(ctx, candidate, password, false)
		if err == nil {
			outcome.AccountSkipped = true
		}
	}
	if errors.Is(err, errDuplicateHost) {
		return domain.CreateOutcome{HostSkipped: true}, nil
	}
	return outcome, err
}

func (r *HostImportRepository) create(ctx context.Context, candidate domain.Candidate, password string, provision bool) (domain.CreateOutcome, error) {
	var outcome domain.CreateOutcome

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := models.Host{
			ID:         uuid.NewString(),
			ExternalID: nullableText(candidate.ExternalID),
			Name:       candidate.Name,
			Company:    candidate.Company,
			Email:      nullableText(candidate.Email),
			Phone:      candidate.Phone,
			Location:   locationText(candidate.Location),
			Status:     candidate.Status(),
		}
		if err := tx.Create(&row).Error; err != nil {
			if isDuplicateKey(err) {
				return errDuplicateHost
			}
			return fmt.Errorf("create host: %w", err)
		}
		outcome.HostInserted = true

		if !provision || candidate.Email == "" {
			return nil
		}

		var count int64
		if err := tx.Model(&models.Account{}).
			Where("lower(email) = lower(?)", candidate.Email).
			Count(&count).Error; err != nil {
			return fmt.Errorf("check account email: %w", err)
		}
		if count > 0 {
			outcome.AccountSkipped = true
			return nil
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("%w: hash password: %v", errAccountWrite, err)
		}

		account := models.Account{
			ID:           uuid.NewString(),
			HostID:       row.ID,
			Email:        candidate.Email,
			PasswordHash: string(hash),
		}
		if err := tx.Create(&account).Error; err != nil {
			return fmt.Errorf("%w: create account: %v", errAccountWrite, err)
		}
		outcome.AccountCreated = true
		return nil
	})
	if err != nil {
		return domain.CreateOutcome{}, err
	}

	return outcome, nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func nullableText(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func locationText(location *domain.Location) *string {
	if location == nil {
		return nil
	}
	value := string(*location)
	return &value
}
