package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultSettingsKey holds the settings document when Redis is the settings backend.
const DefaultSettingsKey = "schoolSettings"

// SettingsRepository stores the school settings document under a single key without expiry.
type SettingsRepository struct {
	client redis.UniversalClient
	key    string
}

// NewSettingsRepository creates a SettingsRepository using DefaultSettingsKey.
func NewSettingsRepository(client redis.UniversalClient) *SettingsRepository {
	return &SettingsRepository{client: client, key: DefaultSettingsKey}
}

// Get returns the stored document, or nil when nothing has been saved yet.
func (r *SettingsRepository) Get(ctx context.Context) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get settings: %w", err)
	}
	return data, nil
}

// Put overwrites the stored document.
func (r *SettingsRepository) Put(ctx context.Context, doc []byte) error {
	if err := r.client.Set(ctx, r.key, doc, 0).Err(); err != nil {
		return fmt.Errorf("redis set settings: %w", err)
	}
	return nil
}
