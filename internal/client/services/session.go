package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/cardkeeper/internal/client/models"
	"github.com/dmitrijs2005/cardkeeper/internal/common"
	"github.com/dmitrijs2005/cardkeeper/internal/logging"
	"github.com/dmitrijs2005/cardkeeper/internal/timex"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionService holds the signed-in user and the flow flags.
//
// Login and Register simulate a network round trip; any non-empty
// credentials succeed. Failures are returned and also kept for display
// until the next attempt (see LastError).
type SessionService interface {
	Load(ctx context.Context) error
	Login(ctx context.Context, email, password string) error
	Register(ctx context.Context, name, email, password string) error
	Logout(ctx context.Context) error
	CompleteOnboarding(ctx context.Context) error
	CompleteThankYou(ctx context.Context) error
	CompletePaywall(ctx context.Context) error
	CheckAuth(ctx context.Context) error
	User() *models.User
	Flags() models.Flags
	LastError() error
}

// SessionOptions tune the session service. Zero values are usable: no
// delay, no session token.
type SessionOptions struct {
	Delay  time.Duration
	Secret string
	TTL    time.Duration
	Now    func() time.Time
}

type sessionService struct {
	mu      sync.RWMutex
	user    *models.User
	flags   models.Flags
	lastErr error

	store SnapshotStore[models.SessionSnapshot]
	opts  SessionOptions
	log   logging.Logger
}

func NewSessionService(store SnapshotStore[models.SessionSnapshot], opts SessionOptions, log logging.Logger) SessionService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &sessionService{store: store, opts: opts, log: log.With("module", "session")}
}

// userNamespace scopes the name-based user IDs.
var userNamespace = uuid.MustParse("8d7f0b6e-51a4-4c1e-9a0f-3f5b2c9e7d10")

// UserID returns the stable identifier of the account registered with email.
func UserID(email string) string {
	return uuid.NewSHA1(userNamespace, []byte(strings.ToLower(strings.TrimSpace(email)))).String()
}

func (s *sessionService) Load(ctx context.Context) error {
	snap, found, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if found {
		s.user = snap.User
		s.flags = snap.Flags
	}
	return nil
}

// persist must be called with s.mu held.
func (s *sessionService) persist(ctx context.Context) error {
	snap := models.SessionSnapshot{Flags: s.flags}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}

	if err := s.store.Save(ctx, snap); err != nil {
		s.log.Error(ctx, "failed to save session", "error", err)
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *sessionService) setError(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

func (s *sessionService) Login(ctx context.Context, email, password string) error {
	s.setError(nil)

	if err := timex.Sleep(ctx, s.opts.Delay); err != nil {
		return err
	}

	if email == "" || password == "" {
		s.setError(common.ErrInvalidCredentials)
		return common.ErrInvalidCredentials
	}

	name, _, _ := strings.Cut(email, "@")
	return s.signIn(ctx, email, name)
}

func (s *sessionService) Register(ctx context.Context, name, email, password string) error {
	s.setError(nil)

	if err := timex.Sleep(ctx, s.opts.Delay); err != nil {
		return err
	}

	if name == "" || email == "" || password == "" {
		s.setError(common.ErrMissingFields)
		return common.ErrMissingFields
	}

	return s.signIn(ctx, email, name)
}

func (s *sessionService) signIn(ctx context.Context, email, name string) error {
	user := &models.User{ID: UserID(email), Email: email, Name: name}

	token, err := s.mint(user.ID)
	if err != nil {
		s.setError(err)
		return fmt.Errorf("failed to issue session token: %w", err)
	}
	user.Token = token

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
	s.flags.Authenticated = true
	s.log.Info(ctx, "signed in", "user", user.ID)
	return s.persist(ctx)
}

// mint returns an empty token when no secret is configured.
func (s *sessionService) mint(subject string) (string, error) {
	if s.opts.Secret == "" {
		return "", nil
	}

	now := s.opts.Now()
	claims := jwt.RegisteredClaims{
		Subject:  subject,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if s.opts.TTL > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.opts.TTL))
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.opts.Secret))
}

func (s *sessionService) verify(u *models.User) error {
	if u.Token == "" {
		return nil
	}
	if s.opts.Secret == "" {
		return errors.New("no secret configured to verify session token")
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(u.Token, claims, func(*jwt.Token) (any, error) {
		return []byte(s.opts.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.opts.Now))
	if err != nil {
		return err
	}
	if claims.Subject != u.ID {
		return errors.New("session token subject mismatch")
	}
	return nil
}

func (s *sessionService) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.flags.Authenticated = false
	s.log.Info(ctx, "signed out")
	return s.persist(ctx)
}

func (s *sessionService) setFlag(ctx context.Context, set func(*models.Flags)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := s.flags
	set(&s.flags)
	if before == s.flags {
		return nil
	}
	return s.persist(ctx)
}

func (s *sessionService) CompleteOnboarding(ctx context.Context) error {
	return s.setFlag(ctx, func(f *models.Flags) {
		f.SeenOnboarding = true
		f.OnboardingComplete = true
	})
}

func (s *sessionService) CompleteThankYou(ctx context.Context) error {
	return s.setFlag(ctx, func(f *models.Flags) { f.SeenThankYou = true })
}

func (s *sessionService) CompletePaywall(ctx context.Context) error {
	return s.setFlag(ctx, func(f *models.Flags) { f.SeenPaywall = true })
}

// CheckAuth re-derives the authenticated flag from the stored user and its
// session token.
func (s *sessionService) CheckAuth(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	authenticated := s.user != nil
	if authenticated {
		if err := s.verify(s.user); err != nil {
			s.log.Warn(ctx, "stored session rejected", "error", err)
			authenticated = false
		}
	}

	if s.flags.Authenticated == authenticated {
		return nil
	}
	s.flags.Authenticated = authenticated
	return s.persist(ctx)
}

func (s *sessionService) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *sessionService) Flags() models.Flags {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.flags
}

func (s *sessionService) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}
