package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sman1jakarta/portal/internal/domain/model"
	apperrors "github.com/sman1jakarta/portal/internal/errors"
)

// ActivityRepo stores the dashboard activity feed.
type ActivityRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewActivityRepo creates a new ActivityRepo with real time provider.
func NewActivityRepo(db *sql.DB) *ActivityRepo {
	return &ActivityRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// Record appends an entry.
func (r *ActivityRepo) Record(ctx context.Context, req model.RecordActivityRequest) (*model.Activity, error) {
	if req.Message == "" {
		return nil, apperrors.ValidationField("message", "Pesan aktivitas harus diisi")
	}
	out, err := collectOne[model.Activity](ctx, r.DB, `
		INSERT INTO activities (kind, message, actor, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, kind, message, actor, created_at`,
		string(req.Kind), req.Message, req.Actor, r.timeProvider.Now().UTC(),
	)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return out, nil
}

// Recent returns the latest limit entries, newest first.
func (r *ActivityRepo) Recent(ctx context.Context, limit int) ([]*model.Activity, error) {
	if limit <= 0 {
		limit = 10
	}
	out, err := collectRows[model.Activity](ctx, r.DB, `
		SELECT id, kind, message, actor, created_at FROM activities
		ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return out, nil
}
