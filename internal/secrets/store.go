package secrets

import "context"

// Store looks up named shared secrets. Rotation and encryption at rest are
// the backing service's concern.
type Store interface {
	Get(ctx context.Context, name string) (string, error)
}
