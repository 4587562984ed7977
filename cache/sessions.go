// Package cache keeps sessions in the go-utils cache (Redis) when the
// service runs with -cache redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"salesops-auth/models"
	"salesops-auth/repositories"

	"github.com/umakantv/go-utils/cache"
)

const (
	sessionKeyPrefix     = "session:"
	userSessionKeyPrefix = "user_sessions:"
)

// SessionStore implements repositories.SessionStore. Entries carry the
// session's own TTL, so expiry is enforced by the cache. A per-user index
// of session IDs backs DeleteByUser; indexMu serialises its
// read-modify-write within this process.
type SessionStore struct {
	cache cache.Cache
	now   func() time.Time

	indexMu sync.Mutex
}

func NewSessionStore(c cache.Cache) *SessionStore {
	return &SessionStore{cache: c, now: time.Now}
}

var _ repositories.SessionStore = (*SessionStore)(nil)

func (s *SessionStore) Save(_ context.Context, sess *models.Session) error {
	ttl := sess.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.cache.Set(sessionKeyPrefix+sess.ID, string(data), ttl); err != nil {
		return fmt.Errorf("cache session: %w", err)
	}

	s.indexMu.Lock()
	defer s.indexMu.Unlock()

	ids, err := s.userSessions(sess.UserID)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if id == sess.ID {
			return nil
		}
	}
	ids = append(ids, sess.ID)
	return s.setUserSessions(sess.UserID, ids, ttl)
}

func (s *SessionStore) Get(_ context.Context, id string) (*models.Session, error) {
	raw, err := s.cache.Get(sessionKeyPrefix + id)
	if errors.Is(err, cache.ErrKeyNotFound) {
		return nil, repositories.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	sess, err := decodeSession(raw)
	if err != nil {
		return nil, err
	}
	if sess.Expired(s.now()) {
		return nil, repositories.ErrNotFound
	}
	return sess, nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	if err := s.cache.Delete(sessionKeyPrefix + id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SessionStore) DeleteByUser(_ context.Context, userID string) error {
	s.indexMu.Lock()
	defer s.indexMu.Unlock()

	ids, err := s.userSessions(userID)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := s.cache.Delete(sessionKeyPrefix + id); err != nil {
			return fmt.Errorf("delete session %s: %w", id, err)
		}
	}
	if err := s.cache.Delete(userSessionKeyPrefix + userID); err != nil {
		return fmt.Errorf("delete session index: %w", err)
	}
	return nil
}

// userSessions reads the session index of userID. A missing index is empty.
func (s *SessionStore) userSessions(userID string) ([]string, error) {
	raw, err := s.cache.Get(userSessionKeyPrefix + userID)
	if errors.Is(err, cache.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session index: %w", err)
	}

	var data []byte
	switch v := raw.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return nil, fmt.Errorf("unexpected session index type %T", raw)
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("decode session index: %w", err)
	}
	return ids, nil
}

// setUserSessions keeps the index at least as long as its newest session.
func (s *SessionStore) setUserSessions(userID string, ids []string, ttl time.Duration) error {
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode session index: %w", err)
	}
	if err := s.cache.Set(userSessionKeyPrefix+userID, string(data), ttl); err != nil {
		return fmt.Errorf("cache session index: %w", err)
	}
	return nil
}

// decodeSession accepts what the cache hands back: the JSON string we
// stored (Redis), raw bytes, or an already decoded map (memory cache).
func decodeSession(raw interface{}) (*models.Session, error) {
	var data []byte
	switch v := raw.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	case map[string]interface{}:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("re-encode session: %w", err)
		}
		data = b
	default:
		return nil, fmt.Errorf("unexpected session type %T", raw)
	}

	var sess models.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}
