package memory

import (
	"context"
	"sync"
)

// SettingsRepository holds the settings document in memory.
type SettingsRepository struct {
	mu  sync.RWMutex
	doc []byte
}

// NewSettingsRepository creates an empty SettingsRepository.
func NewSettingsRepository() *SettingsRepository {
	return &SettingsRepository{}
}

func (r *SettingsRepository) Get(context.Context) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.doc == nil {
		return nil, nil
	}
	return append([]byte(nil), r.doc...), nil
}

func (r *SettingsRepository) Put(_ context.Context, doc []byte) error {
	r.mu.Lock()
	r.doc = append([]byte(nil), doc...)
	r.mu.Unlock()
	return nil
}
