package host

import "errors"

var (
	ErrInvalidImportPayload = errors.New("exactly one of csv_content or xlsx_content is required")
	ErrUnreadableFile       = errors.New("unreadable import file")
	ErrImportLookup         = errors.New("failed to check existing records")
	ErrImportPersist        = errors.New("failed to persist host")
	ErrGeneratePassword     = errors.New("failed to generate password")
	ErrInvalidImportSource  = errors.New("invalid import source")
	ErrEnqueueImportJob     = errors.New("failed to enqueue import job")
	ErrInvalidHostID        = errors.New("invalid host id")
	ErrHostNotFound         = errors.New("host not found")
	ErrGetHostByID          = errors.New("failed to get host by id")
)
