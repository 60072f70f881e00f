package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/sman1jakarta/portal/internal/domain/auth"
	"github.com/sman1jakarta/portal/internal/testutil"
)

// setupTestRedis creates a Redis client for testing.
// Tests will be skipped if Redis is not available.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	return testutil.SetupTestRedis(t)
}

func newSession(id string) domainauth.Session {
	return domainauth.Session{
		ID:              id,
		IsAuthenticated: true,
		Username:        "Administrator",
		Email:           "admin@sman1jakarta.sch.id",
		Role:            domainauth.RoleAdmin,
		LoginTime:       time.Now().UTC().Truncate(time.Second),
	}
}

func TestSessionStore_SaveAndGet(t *testing.T) {
	client := setupTestRedis(t)

	store := NewSessionStore(client)
	ctx := context.Background()

	session := newSession("test-session-1")
	require.NoError(t, store.Save(ctx, session))

	retrieved, err := store.Get(ctx, "test-session-1")
	require.NoError(t, err)
	assert.Equal(t, session.ID, retrieved.ID)
	assert.True(t, retrieved.IsAuthenticated)
	assert.Equal(t, session.Username, retrieved.Username)
	assert.Equal(t, session.Role, retrieved.Role)
	assert.True(t, session.LoginTime.Equal(retrieved.LoginTime))

	// No ExpiresAt means no TTL on the key.
	assert.Equal(t, time.Duration(-1), client.TTL(ctx, "adminAuth:test-session-1").Val())
}

func TestSessionStore_SaveWithExpiry(t *testing.T) {
	client := setupTestRedis(t)

	store := NewSessionStore(client)
	ctx := context.Background()

	session := newSession("test-session-ttl")
	session.ExpiresAt = time.Now().Add(30 * time.Minute)
	require.NoError(t, store.Save(ctx, session))

	ttl := client.TTL(ctx, "adminAuth:test-session-ttl").Val()
	assert.True(t, ttl > 0 && ttl <= 30*time.Minute)

	expired := newSession("test-session-expired")
	expired.ExpiresAt = time.Now().Add(-time.Minute)
	assert.Error(t, store.Save(ctx, expired))
}

func TestSessionStore_GetNonExistent(t *testing.T) {
	client := setupTestRedis(t)

	store := NewSessionStore(client)
	ctx := context.Background()

	_, err := store.Get(ctx, "non-existent")
	assert.ErrorIs(t, err, domainauth.ErrNoSession)

	_, err = store.Get(ctx, "")
	assert.ErrorIs(t, err, domainauth.ErrNoSession)
}

func TestSessionStore_CorruptRecords(t *testing.T) {
	client := setupTestRedis(t)

	store := NewSessionStore(client)
	ctx := context.Background()

	cases := map[string]string{
		"not-json":      "{not json",
		"plain-string":  `"true"`,
		"flag-false":    `{"id":"flag-false","isAuthenticated":false}`,
		"flag-missing":  `{"id":"flag-missing","username":"x"}`,
		"id-mismatch":   `{"id":"other","isAuthenticated":true}`,
		"empty-payload": "",
	}
	for id, raw := range cases {
		t.Run(id, func(t *testing.T) {
			require.NoError(t, client.Set(ctx, store.Key(id), raw, 0).Err())

			_, err := store.Get(ctx, id)
			assert.ErrorIs(t, err, domainauth.ErrCorruptRecord)

			// The store reports corruption but leaves the record for the caller to remove.
			assert.Equal(t, int64(1), client.Exists(ctx, store.Key(id)).Val())
		})
	}
}

func TestSessionStore_Delete(t *testing.T) {
	client := setupTestRedis(t)

	store := NewSessionStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, newSession("test-session-delete")))
	require.NoError(t, store.Delete(ctx, "test-session-delete"))

	_, err := store.Get(ctx, "test-session-delete")
	assert.ErrorIs(t, err, domainauth.ErrNoSession)

	assert.NoError(t, store.Delete(ctx, ""))
	assert.NoError(t, store.Delete(ctx, "never-existed"))
}

func TestSettingsRepository(t *testing.T) {
	client := setupTestRedis(t)

	repo := NewSettingsRepository(client)
	ctx := context.Background()

	doc, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, doc)

	require.NoError(t, repo.Put(ctx, []byte(`{"schoolName":"X"}`)))
	doc, err = repo.Get(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"schoolName":"X"}`, string(doc))
	assert.Equal(t, time.Duration(-1), client.TTL(ctx, DefaultSettingsKey).Val())
}
