package host

import "context"

type HostQueryRepository interface {
	GetByID(ctx context.Context, hostID string) (*Host, error)
}

type ImportJobRepository interface {
	Enqueue(ctx context.Context, sourcePath string) (string, error)
}
