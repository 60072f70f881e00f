package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sman1jakarta/portal/internal/core"
	"github.com/sman1jakarta/portal/internal/domain/settings"
)

// SettingsSubscriber receives the merged settings after every successful update.
type SettingsSubscriber func(settings.SchoolSettings)

// SettingsStoreOptions groups dependencies for SettingsStore.
type SettingsStoreOptions struct {
	Repo   core.SettingsRepository // Required
	Logger *slog.Logger            // Optional
}

type subscription struct {
	id int
	fn SettingsSubscriber
}

// SettingsStore owns the school settings: it loads them from the repository,
// merges partial updates onto the current record, persists the result and then
// hands it to every subscriber in registration order.
type SettingsStore struct {
	repo   core.SettingsRepository
	logger *slog.Logger

	// writeMu serializes Update so concurrent writers resolve as last write wins.
	writeMu sync.Mutex

	mu      sync.RWMutex
	current settings.SchoolSettings

	subMu  sync.Mutex
	subs   []subscription
	nextID int
}

// NewSettingsStore creates a store holding the defaults until Load is called.
func NewSettingsStore(opts SettingsStoreOptions) *SettingsStore {
	if opts.Repo == nil {
		panic("NewSettingsStore: Repo is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SettingsStore{
		repo:    opts.Repo,
		logger:  logger.With("component", "settings_store"),
		current: settings.Defaults(),
	}
}

// Load reads the persisted record and merges it onto the defaults. It never
// fails: a read or decode error is logged and yields the defaults.
// Load waits for a running Update so it cannot overwrite a newer value.
func (s *SettingsStore) Load(ctx context.Context) settings.SchoolSettings {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	loaded := s.read(ctx)
	s.mu.Lock()
	s.current = loaded
	s.mu.Unlock()
	return loaded
}

func (s *SettingsStore) read(ctx context.Context) settings.SchoolSettings {
	raw, err := s.repo.Get(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "settings read failed, using defaults", "error", err)
		return settings.Defaults()
	}
	if len(raw) == 0 {
		return settings.Defaults()
	}
	decoded, err := settings.Decode(raw)
	if err != nil {
		s.logger.WarnContext(ctx, "stored settings unreadable, using defaults", "error", err)
		return settings.Defaults()
	}
	return decoded
}

// Current returns the in-memory copy of the settings.
func (s *SettingsStore) Current() settings.SchoolSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update merges p onto the current settings and persists the full result.
// Subscribers are called synchronously after the write succeeds and before
// Update returns. On a persistence error nothing changes and nobody is notified.
func (s *SettingsStore) Update(ctx context.Context, p settings.Patch) (settings.SchoolSettings, error) {
	return s.update(ctx, p, false)
}

// UpdateValidated is Update for edits from the console: the merged result is
// validated inside the same critical section that persists it. On a
// validation error the merged value is returned with the error so forms can
// redisplay it.
func (s *SettingsStore) UpdateValidated(ctx context.Context, p settings.Patch) (settings.SchoolSettings, error) {
	return s.update(ctx, p, true)
}

func (s *SettingsStore) update(ctx context.Context, p settings.Patch, validate bool) (settings.SchoolSettings, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	merged := s.Current().Apply(p)
	if validate {
		if err := merged.Validate(); err != nil {
			return merged, err
		}
	}
	doc, err := settings.Encode(merged)
	if err != nil {
		return s.Current(), fmt.Errorf("encode settings: %w", err)
	}
	if err := s.repo.Put(ctx, doc); err != nil {
		return s.Current(), fmt.Errorf("save settings: %w", err)
	}

	s.mu.Lock()
	s.current = merged
	s.mu.Unlock()

	s.publish(merged)
	return merged, nil
}

// ResetLogo restores the default logo.
func (s *SettingsStore) ResetLogo(ctx context.Context) (settings.SchoolSettings, error) {
	logo := settings.DefaultLogoURL
	return s.Update(ctx, settings.Patch{LogoURL: &logo})
}

// Subscribe registers fn for future updates. The returned function removes
// the subscription and may be called any number of times.
func (s *SettingsStore) Subscribe(fn SettingsSubscriber) (unsubscribe func()) {
	s.subMu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { s.unsubscribe(id) })
	}
}

func (s *SettingsStore) unsubscribe(id int) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for i, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
			return
		}
	}
}

// Subscribers returns the number of registered subscribers.
func (s *SettingsStore) Subscribers() int {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	return len(s.subs)
}

func (s *SettingsStore) publish(v settings.SchoolSettings) {
	s.subMu.Lock()
	subs := append([]subscription(nil), s.subs...)
	s.subMu.Unlock()
	for _, sub := range subs {
		sub.fn(v)
	}
}
