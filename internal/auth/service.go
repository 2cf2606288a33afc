// Package auth implements email/password accounts and bearer-token sessions.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pulsetrack/pulsetrack/internal/model"
	"github.com/pulsetrack/pulsetrack/internal/store"
)

// Session is the authenticated state attached to a request: the account plus
// the login session it arrived on.
type Session struct {
	User    model.User
	Session model.Session
}

// Document returns the nested lookup that claims templates resolve paths
// against (user.id, user.email, session.id, ...).
func (s *Session) Document() map[string]any {
	name := ""
	if s.User.DisplayName != nil {
		name = *s.User.DisplayName
	}
	return map[string]any{
		"user": map[string]any{
			"id":    s.User.UserID,
			"email": s.User.Email,
			"name":  name,
		},
		"session": map[string]any{
			"id":        s.Session.SessionID,
			"expiresAt": s.Session.ExpiresAt.Format(time.RFC3339),
		},
	}
}

// Service provides registration, login and session authentication.
type Service struct {
	store store.Store
	ttl   time.Duration
	now   func() time.Time
}

// NewService returns a Service creating sessions with the given lifetime.
func NewService(st store.Store, sessionTTL time.Duration) *Service {
	return &Service{store: st, ttl: sessionTTL, now: time.Now}
}

// Register creates an account with a bcrypt password hash.
func (s *Service) Register(ctx context.Context, email, password string, displayName *string) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u, err := s.store.Users().Create(ctx, &model.User{
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: string(hash),
	})
	if errors.Is(err, model.ErrConflict) {
		return nil, ErrEmailTaken
	}
	return u, err
}

// Login verifies credentials and opens a new session. The returned session
// carries the opaque bearer token the client presents on later requests.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	sess, err := s.store.Sessions().Create(ctx, &model.Session{
		UserID:    u.UserID,
		Token:     uuid.New().String(),
		ExpiresAt: s.now().Add(s.ttl),
	})
	if err != nil {
		return nil, err
	}
	return &Session{User: *u, Session: *sess}, nil
}

// Logout deletes the session behind the bearer token. Unknown tokens are not
// an error; logout is idempotent.
func (s *Service) Logout(ctx context.Context, token string) error {
	sess, err := s.store.Sessions().GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil
		}
		return err
	}
	err = s.store.Sessions().Delete(ctx, sess.SessionID)
	if errors.Is(err, model.ErrNotFound) {
		return nil
	}
	return err
}

// Authenticate resolves a bearer token to its session, enforcing expiry.
func (s *Service) Authenticate(ctx context.Context, token string) (*Session, error) {
	sess, err := s.store.Sessions().GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if s.now().After(sess.ExpiresAt) {
		return nil, ErrSessionExpired
	}
	u, err := s.store.Users().GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	return &Session{User: *u, Session: *sess}, nil
}

// SweepExpired deletes expired sessions until ctx is cancelled. Intended to
// run as a background goroutine from the service entrypoint.
func (s *Service) SweepExpired(ctx context.Context, interval time.Duration, onSweep func(n int64, err error)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.store.Sessions().DeleteExpired(ctx)
			if onSweep != nil {
				onSweep(n, err)
			}
		}
	}
}
