package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	domain "github.com/dev-noaman/arafatvisitor-host-import/internal/domain/host"
	"github.com/dev-noaman/arafatvisitor-host-import/internal/infrastructure/db/models"
)

type HostQueryRepository struct {
	db *gorm.DB
}

func NewHostQueryRepository(db *gorm.DB) *HostQueryRepository {
	return &HostQueryRepository{db: db}
}

func (r *HostQueryRepository) GetByID(ctx context.Context, hostID string) (*domain.Host, error) {
	var row models.Host

	err := r.db.WithContext(ctx).First(&row, "id = ?", hostID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrHostNotFound
		}
		return nil, fmt.Errorf("get host by id: %w", err)
	}

	var location *domain.Location
	if row.Location != nil {
		value := domain.Location(*row.Location)
		location = &value
	}

	hostAggregate := &domain.Host{
		ID:         row.ID,
		ExternalID: textValue(row.ExternalID),
		Name:       row.Name,
		Company:    row.Company,
		Email:      textValue(row.Email),
		Phone:      row.Phone,
		Location:   location,
		Status:     row.Status,
	}

	return hostAggregate, nil
}

func textValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
