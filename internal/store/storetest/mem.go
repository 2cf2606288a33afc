package storetest

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pulsetrack/pulsetrack/internal/model"
	"github.com/pulsetrack/pulsetrack/internal/store"
)

// NewMemStore returns an in-memory store.Store for unit tests that should not
// depend on a database.
func NewMemStore() store.Store {
	return &memStore{
		users:      make(map[string]*model.User),
		sessions:   make(map[string]*model.Session),
		activities: make(map[string][]*model.Activity),
	}
}

type memStore struct {
	mu         sync.Mutex
	users      map[string]*model.User
	sessions   map[string]*model.Session
	activities map[string][]*model.Activity
}

func (m *memStore) Users() store.Users           { return (*memUsers)(m) }
func (m *memStore) Sessions() store.Sessions     { return (*memSessions)(m) }
func (m *memStore) Activities() store.Activities { return (*memActivities)(m) }

type memUsers memStore

func (m *memUsers) Create(_ context.Context, u *model.User) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return nil, model.ErrConflict
		}
	}
	out := *u
	if out.UserID == "" {
		out.UserID = uuid.New().String()
	}
	out.CreationTime = time.Now().UTC()
	m.users[out.UserID] = &out
	cp := out
	return &cp, nil
}

func (m *memUsers) GetByID(_ context.Context, userID string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return nil, model.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, model.ErrNotFound
}

type memSessions memStore

func (m *memSessions) Create(_ context.Context, s *model.Session) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := *s
	if out.SessionID == "" {
		out.SessionID = uuid.New().String()
	}
	out.CreationTime = time.Now().UTC()
	m.sessions[out.SessionID] = &out
	cp := out
	return &cp, nil
}

func (m *memSessions) GetByToken(_ context.Context, token string) (*model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		if s.Token == token {
			cp := *s
			return &cp, nil
		}
	}
	return nil, model.ErrNotFound
}

func (m *memSessions) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[sessionID]; !ok {
		return model.ErrNotFound
	}
	delete(m.sessions, sessionID)
	return nil
}

func (m *memSessions) DeleteExpired(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	var n int64
	for id, s := range m.sessions {
		if s.ExpiresAt.Before(now) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

type memActivities memStore

func (m *memActivities) Create(_ context.Context, a *model.Activity) (*model.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := *a
	if out.ActivityID == "" {
		out.ActivityID = uuid.New().String()
	}
	out.CreationTime = time.Now().UTC()
	m.activities[out.UserID] = append(m.activities[out.UserID], &out)
	cp := out
	return &cp, nil
}

func (m *memActivities) List(_ context.Context, userID string) ([]*model.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lst := m.activities[userID]
	out := make([]*model.Activity, 0, len(lst))
	for _, a := range lst {
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memActivities) Update(_ context.Context, userID, activityID string, patch model.ActivityPatch) (*model.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.activities[userID] {
		if a.ActivityID == activityID {
			if patch.Name != nil {
				a.Name = *patch.Name
			}
			if patch.Timestamp != nil {
				a.Timestamp = *patch.Timestamp
			}
			cp := *a
			return &cp, nil
		}
	}
	return nil, model.ErrNotFound
}

func (m *memActivities) Delete(_ context.Context, userID, activityID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	lst := m.activities[userID]
	for i, a := range lst {
		if a.ActivityID == activityID {
			m.activities[userID] = append(lst[:i], lst[i+1:]...)
			return nil
		}
	}
	return model.ErrNotFound
}
