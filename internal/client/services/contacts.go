package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/cardkeeper/internal/client/models"
	"github.com/dmitrijs2005/cardkeeper/internal/common"
	"github.com/dmitrijs2005/cardkeeper/internal/logging"
	"github.com/google/uuid"
)

// ContactService is the contact book. Contacts are kept most recent first.
// Update, delete and reminder changes for an unknown ID are no-ops.
type ContactService interface {
	Load(ctx context.Context) error
	AddContact(ctx context.Context, data models.ContactFormData, imageRef string) (models.Contact, error)
	UpdateContact(ctx context.Context, id string, data models.ContactFormData) error
	DeleteContact(ctx context.Context, id string) error
	SetReminder(ctx context.Context, id string, at *time.Time) error
	GetContactByID(id string) (models.Contact, error)
	SearchContacts(query string) []models.Contact
	FilterContactsByTag(tag string) []models.Contact
	Contacts() []models.Contact
	Tags() []string
	DueReminders(now time.Time) []models.Contact
}

// ContactOptions are test seams; zero values use the wall clock and UUIDv7.
type ContactOptions struct {
	Now   func() time.Time
	NewID func() (string, error)
}

type contactService struct {
	mu       sync.RWMutex
	contacts []models.Contact

	store SnapshotStore[models.ContactsSnapshot]
	opts  ContactOptions
	log   logging.Logger
}

func NewContactService(store SnapshotStore[models.ContactsSnapshot], opts ContactOptions, log logging.Logger) ContactService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = newContactID
	}
	return &contactService{store: store, opts: opts, log: log.With("module", "contacts")}
}

// newContactID returns a time-ordered UUID.
func newContactID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

func cloneAll(in []models.Contact) []models.Contact {
	out := make([]models.Contact, len(in))
	for i, c := range in {
		out[i] = c.Clone()
	}
	return out
}

func copyData(d models.ContactFormData) models.ContactFormData {
	if d.Tags != nil {
		d.Tags = append([]string(nil), d.Tags...)
	}
	return d
}

func (s *contactService) Load(ctx context.Context) error {
	snap, _, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load contacts: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.contacts = snap.Contacts
	return nil
}

// persist must be called with s.mu held.
func (s *contactService) persist(ctx context.Context) error {
	if err := s.store.Save(ctx, models.ContactsSnapshot{Contacts: cloneAll(s.contacts)}); err != nil {
		s.log.Error(ctx, "failed to save contacts", "error", err)
		return fmt.Errorf("failed to save contacts: %w", err)
	}
	return nil
}

func (s *contactService) indexOf(id string) int {
	for i := range s.contacts {
		if s.contacts[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *contactService) AddContact(ctx context.Context, data models.ContactFormData, imageRef string) (models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.opts.NewID()
	if err != nil {
		return models.Contact{}, fmt.Errorf("failed to generate contact id: %w", err)
	}
	if s.indexOf(id) >= 0 {
		return models.Contact{}, fmt.Errorf("duplicate contact id %s", id)
	}

	c := models.Contact{
		ID:              id,
		ContactFormData: copyData(data),
		ImageRef:        imageRef,
		CreatedAt:       s.opts.Now(),
	}
	s.contacts = append([]models.Contact{c}, s.contacts...)
	s.log.Info(ctx, "contact added", "id", id)

	return c.Clone(), s.persist(ctx)
}

func (s *contactService) UpdateContact(ctx context.Context, id string, data models.ContactFormData) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil
	}

	now := s.opts.Now()
	s.contacts[i].ContactFormData = copyData(data)
	s.contacts[i].UpdatedAt = &now
	s.log.Info(ctx, "contact updated", "id", id)
	return s.persist(ctx)
}

func (s *contactService) DeleteContact(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil
	}

	s.contacts = append(s.contacts[:i:i], s.contacts[i+1:]...)
	s.log.Info(ctx, "contact deleted", "id", id)
	return s.persist(ctx)
}

// SetReminder sets the reminder of id, or clears it when at is nil.
func (s *contactService) SetReminder(ctx context.Context, id string, at *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil
	}

	if at == nil {
		s.contacts[i].ReminderAt = nil
	} else {
		t := *at
		s.contacts[i].ReminderAt = &t
	}
	return s.persist(ctx)
}

func (s *contactService) GetContactByID(id string) (models.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Contact{}, fmt.Errorf("contact %s: %w", id, common.ErrorNotFound)
	}
	return s.contacts[i].Clone(), nil
}

func (s *contactService) filter(match func(*models.Contact) bool) []models.Contact {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Contact, 0)
	for i := range s.contacts {
		if match(&s.contacts[i]) {
			out = append(out, s.contacts[i].Clone())
		}
	}
	return out
}

// SearchContacts matches name, company and email ignoring case, and phone
// as a plain substring.
func (s *contactService) SearchContacts(query string) []models.Contact {
	q := strings.ToLower(query)
	return s.filter(func(c *models.Contact) bool {
		return strings.Contains(strings.ToLower(c.Name), q) ||
			strings.Contains(strings.ToLower(c.Company), q) ||
			strings.Contains(strings.ToLower(c.Email), q) ||
			strings.Contains(c.Phone, query)
	})
}

func (s *contactService) FilterContactsByTag(tag string) []models.Contact {
	return s.filter(func(c *models.Contact) bool {
		for _, t := range c.Tags {
			if t == tag {
				return true
			}
		}
		return false
	})
}

func (s *contactService) Contacts() []models.Contact {
	return s.filter(func(*models.Contact) bool { return true })
}

// Tags returns the distinct tags in use, sorted.
func (s *contactService) Tags() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := make(map[string]struct{})
	for _, c := range s.contacts {
		for _, t := range c.Tags {
			set[t] = struct{}{}
		}
	}

	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// DueReminders returns contacts whose reminder is at or before now.
func (s *contactService) DueReminders(now time.Time) []models.Contact {
	return s.filter(func(c *models.Contact) bool {
		return c.ReminderAt != nil && !c.ReminderAt.After(now)
	})
}
