// Package core holds the repository ports shared by services and adapters, and
// small orchestration helpers built only on those ports.
package core

import (
	"context"
	"log/slog"
	"strconv"
	"time"
)

// CacheRepository defines the interface for caching operations.
// The core defines the interface and the data layer provides implementations.
type CacheRepository interface {
	// Set stores a value in the cache with the given key and TTL.
	// If TTL is 0, the key will not expire.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get retrieves a value from the cache by key.
	// Returns nil if the key doesn't exist or has expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes a key from the cache.
	// Returns true if the key was deleted, false if it didn't exist.
	Delete(ctx context.Context, key string) (bool, error)

	// Incr atomically increments an integer counter and returns the new value.
	Incr(ctx context.Context, key string) (int64, error)

	// Health checks the health of the cache connection.
	Health(ctx context.Context) error
}

// SettingsCacheKey is the cache key holding the settings document.
const SettingsCacheKey = "schoolSettings"

// CachedSettingsRepository is a read-through, write-through cache in front of a
// SettingsRepository. Cache failures are logged and fall through to the backing store.
type CachedSettingsRepository struct {
	cache   CacheRepository
	backing SettingsRepository
	ttl     time.Duration
	logger  *slog.Logger
}

// CachedSettingsOptions bundles dependencies for NewCachedSettingsRepository.
type CachedSettingsOptions struct {
	Cache   CacheRepository
	Backing SettingsRepository
	TTL     time.Duration
	Logger  *slog.Logger
}

// NewCachedSettingsRepository creates a new CachedSettingsRepository.
func NewCachedSettingsRepository(opts CachedSettingsOptions) *CachedSettingsRepository {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedSettingsRepository{
		cache:   opts.Cache,
		backing: opts.Backing,
		ttl:     opts.TTL,
		logger:  logger.With("component", "settings_cache"),
	}
}

// Get returns the cached document, loading and caching it from the backing store on a miss.
func (r *CachedSettingsRepository) Get(ctx context.Context) ([]byte, error) {
	cached, err := r.cache.Get(ctx, SettingsCacheKey)
	if err != nil {
		r.logger.WarnContext(ctx, "settings cache read failed", "error", err)
	} else if len(cached) > 0 {
		return cached, nil
	}

	doc, err := r.backing.Get(ctx)
	if err != nil || len(doc) == 0 {
		return doc, err
	}
	if setErr := r.cache.Set(ctx, SettingsCacheKey, doc, r.ttl); setErr != nil {
		r.logger.WarnContext(ctx, "settings cache fill failed", "error", setErr)
	}
	return doc, nil
}

// Put writes to the backing store first, then refreshes the cache. If the refresh
// fails the stale entry is dropped so readers go back to the backing store.
func (r *CachedSettingsRepository) Put(ctx context.Context, doc []byte) error {
	if err := r.backing.Put(ctx, doc); err != nil {
		return err
	}
	if err := r.cache.Set(ctx, SettingsCacheKey, doc, r.ttl); err != nil {
		r.logger.WarnContext(ctx, "settings cache refresh failed", "error", err)
		if _, delErr := r.cache.Delete(ctx, SettingsCacheKey); delErr != nil {
			r.logger.ErrorContext(ctx, "settings cache invalidate failed", "error", delErr)
		}
	}
	return nil
}

// VisitCounterKey is the cache key holding the total page view count.
const VisitCounterKey = "portal:visits"

// CacheVisitCounter implements VisitCounter on a CacheRepository counter.
type CacheVisitCounter struct {
	Cache CacheRepository
}

// Incr records one visit.
func (c CacheVisitCounter) Incr(ctx context.Context) (int64, error) {
	return c.Cache.Incr(ctx, VisitCounterKey)
}

// Total returns the recorded visit count, zero when nothing has been counted.
func (c CacheVisitCounter) Total(ctx context.Context) (int64, error) {
	raw, err := c.Cache.Get(ctx, VisitCounterKey)
	if err != nil || raw == nil {
		return 0, err
	}
	return strconv.ParseInt(string(raw), 10, 64)
}
