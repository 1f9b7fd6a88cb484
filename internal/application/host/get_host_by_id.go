package host

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	domain "github.com/dev-noaman/arafatvisitor-host-import/internal/domain/host"
)

var hostIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[1-5][0-9a-fA-F]{3}-[89abAB][0-9a-fA-F]{3}-[0-9a-fA-F]{12}$`)

type GetHostByIDInput struct {
	ID string
}

type GetHostByIDOutput struct {
	ID         string  `json:"id"`
	ExternalID string  `json:"external_id,omitempty"`
	Name       string  `json:"name"`
	Company    string  `json:"company"`
	Email      string  `json:"email,omitempty"`
	Phone      string  `json:"phone"`
	Location   *string `json:"location"`
	Status     int     `json:"status"`
}

type GetHostByID interface {
	Execute(ctx context.Context, in GetHostByIDInput) (GetHostByIDOutput, error)
}

type getHostByID struct {
	repo domain.HostQueryRepository
}

func NewGetHostByID(repo domain.HostQueryRepository) GetHostByID {
	return &getHostByID{repo: repo}
}

func (uc *getHostByID) Execute(ctx context.Context, in GetHostByIDInput) (GetHostByIDOutput, error) {
	if !hostIDPattern.MatchString(in.ID) {
		return GetHostByIDOutput{}, ErrInvalidHostID
	}

	hostAggregate, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		if errors.Is(err, domain.ErrHostNotFound) {
			return GetHostByIDOutput{}, ErrHostNotFound
		}
		return GetHostByIDOutput{}, fmt.Errorf("%w: %v", ErrGetHostByID, err)
	}

	var location *string
	if hostAggregate.Location != nil {
		value := string(*hostAggregate.Location)
		location = &value
	}

	return GetHostByIDOutput{
		ID:         hostAggregate.ID,
		ExternalID: hostAggregate.ExternalID,
		Name:       hostAggregate.Name,
		Company:    hostAggregate.Company,
		Email:      hostAggregate.Email,
		Phone:      hostAggregate.Phone,
		Location:   location,
		Status:     hostAggregate.Status,
	}, nil
}
