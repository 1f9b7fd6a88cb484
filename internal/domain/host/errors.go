package host

import "errors"

var (
	ErrMissingNameOrCompany = errors.New("missing name or company")
	ErrInvalidPhone         = errors.New("invalid phone")
	ErrHostNotFound         = errors.New("host not found")
)
