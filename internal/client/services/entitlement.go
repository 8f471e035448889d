package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/cardkeeper/internal/client/models"
	"github.com/dmitrijs2005/cardkeeper/internal/common"
	"github.com/dmitrijs2005/cardkeeper/internal/logging"
)

// EntitlementService tracks the premium flag and the free-tier counter.
// The counter is adjusted by callers; it is not derived from the contact
// book.
type EntitlementService interface {
	Load(ctx context.Context) error
	CanAddContact() bool
	IncrementContactsCount(ctx context.Context) error
	DecrementContactsCount(ctx context.Context) error
	SetPremium(ctx context.Context, premium bool) error
	State() models.Entitlement
}

type entitlementService struct {
	mu    sync.RWMutex
	state models.Entitlement

	store SnapshotStore[models.SettingsSnapshot]
	log   logging.Logger
}

// NewEntitlementService uses maxFree as the free-tier cap; values below 1
// fall back to common.DefaultMaxFreeContacts.
func NewEntitlementService(store SnapshotStore[models.SettingsSnapshot], maxFree int, log logging.Logger) EntitlementService {
	if maxFree < 1 {
		maxFree = common.DefaultMaxFreeContacts
	}
	return &entitlementService{
		state: models.Entitlement{MaxFreeContacts: maxFree},
		store: store,
		log:   log.With("module", "entitlement"),
	}
}

func (s *entitlementService) Load(ctx context.Context) error {
	snap, found, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if found {
		s.state.Premium = snap.Premium
		s.state.ContactsCount = max(0, snap.ContactsCount)
	}
	return nil
}

// persist must be called with s.mu held.
func (s *entitlementService) persist(ctx context.Context) error {
	if err := s.store.Save(ctx, models.SettingsSnapshot{Entitlement: s.state}); err != nil {
		s.log.Error(ctx, "failed to save settings", "error", err)
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

func (s *entitlementService) CanAddContact() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Premium || s.state.ContactsCount < s.state.MaxFreeContacts
}

func (s *entitlementService) IncrementContactsCount(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.ContactsCount++
	return s.persist(ctx)
}

// DecrementContactsCount never takes the counter below zero.
func (s *entitlementService) DecrementContactsCount(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.ContactsCount == 0 {
		return nil
	}
	s.state.ContactsCount--
	return s.persist(ctx)
}

func (s *entitlementService) SetPremium(ctx context.Context, premium bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Premium = premium
	s.log.Info(ctx, "subscription changed", "premium", premium)
	return s.persist(ctx)
}

func (s *entitlementService) State() models.Entitlement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}
