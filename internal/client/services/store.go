package services

import (
	"context"
)

// SnapshotStore loads and saves one persisted snapshot. It is satisfied by
// storage.SnapshotRepository.
type SnapshotStore[T any] interface {
	Load(ctx context.Context) (T, bool, error)
	Save(ctx context.Context, v T) error
}
