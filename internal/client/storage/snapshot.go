package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/cardkeeper/internal/client/models"
	"github.com/dmitrijs2005/cardkeeper/internal/client/repositories/kv"
	"github.com/dmitrijs2005/cardkeeper/internal/common"
)

// SnapshotRepository loads and saves one JSON document of type T under a
// fixed key.
type SnapshotRepository[T any] struct {
	repo  kv.Repository
	codec Codec
	key   string
}

func NewSnapshotRepository[T any](repo kv.Repository, codec Codec, key string) *SnapshotRepository[T] {
	if codec == nil {
		codec = PlainCodec()
	}
	return &SnapshotRepository[T]{repo: repo, codec: codec, key: key}
}

// Load returns the stored snapshot. found is false when nothing was saved
// yet; v is then the zero value.
func (s *SnapshotRepository[T]) Load(ctx context.Context) (v T, found bool, err error) {
	raw, err := s.repo.Get(ctx, s.key)
	if err != nil {
		return v, false, err
	}
	if raw == nil {
		return v, false, nil
	}

	plain, err := s.codec.Decode(raw)
	if err != nil {
		return v, false, fmt.Errorf("%s: %w", s.key, err)
	}

	if err := json.Unmarshal(plain, &v); err != nil {
		return v, false, fmt.Errorf("failed to decode %s: %w", s.key, err)
	}
	return v, true, nil
}

func (s *SnapshotRepository[T]) Save(ctx context.Context, v T) error {
	plain, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", s.key, err)
	}

	stored, err := s.codec.Encode(plain)
	if err != nil {
		return fmt.Errorf("%s: %w", s.key, err)
	}

	return s.repo.Set(ctx, s.key, stored)
}

// Stores groups the three snapshot repositories of the app.
type Stores struct {
	Session  *SnapshotRepository[models.SessionSnapshot]
	Contacts *SnapshotRepository[models.ContactsSnapshot]
	Settings *SnapshotRepository[models.SettingsSnapshot]
}

func NewStores(repo kv.Repository, codec Codec) Stores {
	return Stores{
		Session:  NewSnapshotRepository[models.SessionSnapshot](repo, codec, common.SessionStorageKey),
		Contacts: NewSnapshotRepository[models.ContactsSnapshot](repo, codec, common.ContactsStorageKey),
		Settings: NewSnapshotRepository[models.SettingsSnapshot](repo, codec, common.SettingsStorageKey),
	}
}
