package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SettingsRepo keeps the school settings document in the single-row school_settings table.
type SettingsRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewSettingsRepo creates a new SettingsRepo with real time provider.
func NewSettingsRepo(db *sql.DB) *SettingsRepo {
	return &SettingsRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// Get returns the stored document, or nil when the row does not exist yet.
func (r *SettingsRepo) Get(ctx context.Context) ([]byte, error) {
	var doc []byte
	err := r.DB.QueryRowContext(ctx, `SELECT doc FROM school_settings WHERE id = 1`).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	return doc, nil
}

// Put overwrites the stored document.
func (r *SettingsRepo) Put(ctx context.Context, doc []byte) error {
	if _, err := r.DB.ExecContext(ctx, `
		INSERT INTO school_settings (id, doc, updated_at) VALUES (1, $1, $2)
		ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = EXCLUDED.updated_at`,
		string(doc), r.timeProvider.Now().UTC(),
	); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}
