package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"

	"salesops-auth/models"
)

// MemoryStore implements UserRepository, CredentialStore and SessionStore
// over maps guarded by a single mutex, so a credential write and the user
// flag it implies are applied together.
type MemoryStore struct {
	mu          sync.RWMutex
	users       map[string]models.User
	credentials map[string]models.Credential
	sessions    map[string]models.Session
}

func NewMemoryStore(users ...models.User) *MemoryStore {
	s := &MemoryStore{
		users:       make(map[string]models.User, len(users)),
		credentials: make(map[string]models.Credential),
		sessions:    make(map[string]models.Session),
	}
	for _, u := range users {
		u.Email = strings.ToLower(u.Email)
		s.users[u.ID] = u
	}
	return s
}

func (s *MemoryStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) GetByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemoryStore) List(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) Get(_ context.Context, userID string) (*models.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.credentials[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (s *MemoryStore) Upsert(_ context.Context, cred *models.Credential, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.credentials[cred.UserID]
	switch {
	case expectedVersion == 0 && exists:
		return ErrVersionConflict
	case expectedVersion != 0 && (!exists || current.Version != expectedVersion):
		return ErrVersionConflict
	}

	u, ok := s.users[cred.UserID]
	if !ok {
		return ErrNotFound
	}

	stored := *cred
	stored.Version = expectedVersion + 1
	s.credentials[cred.UserID] = stored

	u.PasswordChanged = cred.Changed
	u.UpdatedAt = now()
	s.users[u.ID] = u

	cred.Version = stored.Version
	return nil
}

func (s *MemoryStore) Reset(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return ErrNotFound
	}
	delete(s.credentials, userID)
	u.PasswordChanged = false
	u.UpdatedAt = now()
	s.users[userID] = u
	return nil
}

// Sessions returns the session half of the store. Session methods live on a
// separate type because Get and Delete collide with the credential ones.
func (s *MemoryStore) Sessions() SessionStore {
	return memorySessions{s}
}

type memorySessions struct {
	s *MemoryStore
}

func (m memorySessions) Save(_ context.Context, sess *models.Session) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.sessions[sess.ID] = *sess
	return nil
}

func (m memorySessions) Get(_ context.Context, id string) (*models.Session, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()
	sess, ok := m.s.sessions[id]
	if !ok || sess.Expired(now()) {
		return nil, ErrNotFound
	}
	return &sess, nil
}

func (m memorySessions) Delete(_ context.Context, id string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	delete(m.s.sessions, id)
	return nil
}

func (m memorySessions) DeleteByUser(_ context.Context, userID string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for id, sess := range m.s.sessions {
		if sess.UserID == userID {
			delete(m.s.sessions, id)
		}
	}
	return nil
}

// MemorySecurityLog is an append-only slice.
type MemorySecurityLog struct {
	mu     sync.RWMutex
	events []models.SecurityEvent
}

func NewMemorySecurityLog() *MemorySecurityLog {
	return &MemorySecurityLog{}
}

func (l *MemorySecurityLog) Append(_ context.Context, e models.SecurityEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
	return nil
}

func (l *MemorySecurityLog) Recent(_ context.Context, limit int) ([]models.SecurityEvent, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if limit > len(l.events) {
		limit = len(l.events)
	}
	out := make([]models.SecurityEvent, 0, limit)
	for i := len(l.events) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, l.events[i])
	}
	return out, nil
}

func (l *MemorySecurityLog) Count(_ context.Context) (int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.events), nil
}
