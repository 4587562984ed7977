package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"salesops-auth/models"
	"salesops-auth/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/umakantv/go-utils/cache"
)

func TestDecodeSession(t *testing.T) {
	want := models.Session{
		ID:                    "s1",
		UserID:                "1",
		LoginType:             models.LoginTypeFirstLogin,
		RequirePasswordChange: true,
		CreatedAt:             time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC),
		ExpiresAt:             time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC),
	}
	data, err := json.Marshal(want)
	require.NoError(t, err)

	var asMap map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &asMap))

	for name, raw := range map[string]interface{}{
		"string": string(data),
		"bytes":  data,
		"map":    asMap,
	} {
		t.Run(name, func(t *testing.T) {
			got, err := decodeSession(raw)
			require.NoError(t, err)
			assert.Equal(t, want.ID, got.ID)
			assert.Equal(t, want.LoginType, got.LoginType)
			assert.True(t, got.RequirePasswordChange)
			assert.True(t, want.ExpiresAt.Equal(got.ExpiresAt))
		})
	}

	_, err = decodeSession(42)
	assert.Error(t, err)
}

// TestSessionStore_MemoryCache runs the store against the go-utils
// in-process cache.
func TestSessionStore_MemoryCache(t *testing.T) {
	c, err := cache.New(cache.Config{Type: "memory"})
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	store := NewSessionStore(c)

	now := time.Now().UTC()
	a := &models.Session{ID: "a", UserID: "1", LoginType: models.LoginTypeFirstLogin, RequirePasswordChange: true, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	b := &models.Session{ID: "b", UserID: "1", LoginType: models.LoginTypeCustomPassword, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	require.NoError(t, store.Save(ctx, a))
	require.NoError(t, store.Save(ctx, b))

	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, got.RequirePasswordChange)

	require.NoError(t, store.Delete(ctx, "a"))
	_, err = store.Get(ctx, "a")
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	require.NoError(t, store.DeleteByUser(ctx, "1"))
	_, err = store.Get(ctx, "b")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

// downCache fails every call, like a Redis that cannot be reached.
type downCache struct{}

var errConnRefused = errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")

func (downCache) Set(string, interface{}, time.Duration) error {
	return errConnRefused
}

func (downCache) Get(string) (interface{}, error) {
	return nil, errConnRefused
}

func (downCache) Delete(string) error {
	return errConnRefused
}

func (downCache) Exists(string) bool {
	return false
}

func (downCache) Close() error {
	return nil
}

func TestSessionStore_CacheOutage(t *testing.T) {
	ctx := context.Background()
	store := NewSessionStore(downCache{})

	_, err := store.Get(ctx, "a")
	require.Error(t, err)
	assert.NotErrorIs(t, err, repositories.ErrNotFound)
	assert.ErrorIs(t, err, errConnRefused)

	assert.ErrorIs(t, store.Delete(ctx, "a"), errConnRefused)
	assert.ErrorIs(t, store.DeleteByUser(ctx, "1"), errConnRefused)

	now := time.Now().UTC()
	assert.ErrorIs(t, store.Save(ctx, &models.Session{ID: "a", UserID: "1", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}), errConnRefused)
}

// failingDeletes is a memory cache whose Delete always fails.
type failingDeletes struct {
	cache.Cache
}

func (failingDeletes) Delete(string) error { return errConnRefused }

func TestSessionStore_DeleteByUserReportsFailure(t *testing.T) {
	c, err := cache.New(cache.Config{Type: "memory"})
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	now := time.Now().UTC()
	require.NoError(t, NewSessionStore(c).Save(ctx, &models.Session{ID: "a", UserID: "1", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}))

	store := NewSessionStore(failingDeletes{c})
	assert.ErrorIs(t, store.DeleteByUser(ctx, "1"), errConnRefused)

	_, err = store.Get(ctx, "a")
	assert.NoError(t, err)
}

func TestSessionStore_ConcurrentSavesKeepIndex(t *testing.T) {
	c, err := cache.New(cache.Config{Type: "memory"})
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	store := NewSessionStore(c)
	now := time.Now().UTC()

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sess := &models.Session{ID: fmt.Sprintf("s%d", i), UserID: "1", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
			assert.NoError(t, store.Save(ctx, sess))
		}(i)
	}
	wg.Wait()

	ids, err := store.userSessions("1")
	require.NoError(t, err)
	assert.Len(t, ids, n)

	require.NoError(t, store.DeleteByUser(ctx, "1"))
	for i := 0; i < n; i++ {
		_, err := store.Get(ctx, fmt.Sprintf("s%d", i))
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	}
}
