package core_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sman1jakarta/portal/internal/core"
	"github.com/sman1jakarta/portal/internal/mocks"
)

const doc = `{"schoolName":"SMA Negeri 1 Jakarta"}`

func newCached(t *testing.T) (*core.CachedSettingsRepository, *mocks.MockCacheRepository, *mocks.MockSettingsRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockCacheRepository(ctrl)
	backing := mocks.NewMockSettingsRepository(ctrl)
	repo := core.NewCachedSettingsRepository(core.CachedSettingsOptions{
		Cache:   cache,
		Backing: backing,
		TTL:     time.Hour,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return repo, cache, backing
}

func TestCachedSettings_HitSkipsBacking(t *testing.T) {
	repo, cache, _ := newCached(t)
	cache.EXPECT().Get(gomock.Any(), core.SettingsCacheKey).Return([]byte(doc), nil)

	got, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, doc, string(got))
}

func TestCachedSettings_MissFillsCache(t *testing.T) {
	repo, cache, backing := newCached(t)
	gomock.InOrder(
		cache.EXPECT().Get(gomock.Any(), core.SettingsCacheKey).Return(nil, nil),
		backing.EXPECT().Get(gomock.Any()).Return([]byte(doc), nil),
		cache.EXPECT().Set(gomock.Any(), core.SettingsCacheKey, []byte(doc), time.Hour).Return(nil),
	)

	got, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, doc, string(got))
}

func TestCachedSettings_CacheDownFallsThrough(t *testing.T) {
	repo, cache, backing := newCached(t)
	cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))
	backing.EXPECT().Get(gomock.Any()).Return([]byte(doc), nil)
	cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("connection refused"))

	got, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, doc, string(got))
}

func TestCachedSettings_EmptyBackingNotCached(t *testing.T) {
	repo, cache, backing := newCached(t)
	cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, nil)
	backing.EXPECT().Get(gomock.Any()).Return(nil, nil)

	got, err := repo.Get(context.Background())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCachedSettings_PutWritesBackingFirst(t *testing.T) {
	repo, cache, backing := newCached(t)
	gomock.InOrder(
		backing.EXPECT().Put(gomock.Any(), []byte(doc)).Return(nil),
		cache.EXPECT().Set(gomock.Any(), core.SettingsCacheKey, []byte(doc), time.Hour).Return(nil),
	)
	require.NoError(t, repo.Put(context.Background(), []byte(doc)))
}

func TestCachedSettings_PutBackingErrorLeavesCache(t *testing.T) {
	repo, _, backing := newCached(t)
	backing.EXPECT().Put(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	require.EqualError(t, repo.Put(context.Background(), []byte(doc)), "disk full")
}

func TestCachedSettings_PutRefreshFailureInvalidates(t *testing.T) {
	repo, cache, backing := newCached(t)
	backing.EXPECT().Put(gomock.Any(), gomock.Any()).Return(nil)
	cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("timeout"))
	cache.EXPECT().Delete(gomock.Any(), core.SettingsCacheKey).Return(true, nil)

	require.NoError(t, repo.Put(context.Background(), []byte(doc)))
}

func TestCacheVisitCounter(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockCacheRepository(ctrl)
	counter := core.CacheVisitCounter{Cache: cache}
	ctx := context.Background()

	cache.EXPECT().Get(gomock.Any(), core.VisitCounterKey).Return(nil, nil)
	n, err := counter.Total(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	cache.EXPECT().Incr(gomock.Any(), core.VisitCounterKey).Return(int64(42), nil)
	n, err = counter.Incr(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)

	cache.EXPECT().Get(gomock.Any(), core.VisitCounterKey).Return([]byte("42"), nil)
	n, err = counter.Total(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)
}
