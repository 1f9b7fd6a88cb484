package host

import "strings"

type Location string

const (
	LocationBarwaTowers    Location = "BARWA_TOWERS"
	LocationMarina50       Location = "MARINA_50"
	LocationElementMariott Location = "ELEMENT_MARIOTT"
)

const (
	StatusInactive = 0
	StatusActive   = 1
)

type Host struct {
	ID         string
	ExternalID string
	Name       string
	Company    string
	Email      string
	Phone      string
	Location   *Location
	Status     int
}

// Candidate is a row that passed validation and is ready for the dedup gate.
type Candidate struct {
	ExternalID string
	Name       string
	Company    string
	Email      string
	Phone      string
	Location   *Location
	Active     bool
}

// NewCandidate applies the row validation rules in order; the first failing
// rule wins. Location and status never reject: an unmapped location is legal
// and stays unset, and any status other than "active" means inactive.
func NewCandidate(row RawRow) (Candidate, error) {
	name := strings.TrimSpace(row.Name)
	company := strings.TrimSpace(row.Company)
	if name == "" || company == "" {
		return Candidate{}, ErrMissingNameOrCompany
	}

	phone := strings.TrimSpace(row.Phone)
	if len(strings.TrimPrefix(phone, "+")) < 6 {
		return Candidate{}, ErrInvalidPhone
	}

	return Candidate{
		ExternalID: strings.TrimSpace(row.ExternalID),
		Name:       name,
		Company:    company,
		Email:      strings.TrimSpace(row.Email),
		Phone:      phone,
		Location:   MapLocation(row.Location),
		Active:     strings.EqualFold(strings.TrimSpace(row.Status), "active"),
	}, nil
}

// MapLocation maps a free-text location to one of the known sites by
// case-insensitive substring match. Anything unrecognised maps to nil.
func MapLocation(raw string) *Location {
	value := strings.ToLower(raw)
	switch {
	case strings.Contains(value, "barwa"):
		return locationPtr(LocationBarwaTowers)
	case strings.Contains(value, "marina") && strings.Contains(value, "50"):
		return locationPtr(LocationMarina50)
	case strings.Contains(value, "element") || strings.Contains(value, "mariott"):
		return locationPtr(LocationElementMariott)
	}
	return nil
}

func locationPtr(l Location) *Location {
	return &l
}

func (c Candidate) Status() int {
	if c.Active {
		return StatusActive
	}
	return StatusInactive
}
