package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/sman1jakarta/portal/internal/core"
	"github.com/sman1jakarta/portal/internal/domain/model"
	"github.com/sman1jakarta/portal/internal/domain/settings"
)

const defaultRecentActivities = 10

// ActivityRecorder is the part of ActivityService other services write through.
type ActivityRecorder interface {
	Record(ctx context.Context, kind model.ActivityKind, message, actor string)
}

// ActivityServiceOptions groups dependencies for ActivityService.
type ActivityServiceOptions struct {
	Repo   core.ActivityRepository // Required
	Logger *slog.Logger            // Optional
}

// ActivityService keeps the dashboard's recent activity feed.
type ActivityService struct {
	repo   core.ActivityRepository
	logger *slog.Logger
}

// NewActivityService constructs a new ActivityService.
func NewActivityService(opts ActivityServiceOptions) *ActivityService {
	if opts.Repo == nil {
		panic("NewActivityService: Repo is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ActivityService{repo: opts.Repo, logger: logger.With("component", "activity")}
}

// Record appends an entry. Failures are logged, not returned.
func (s *ActivityService) Record(ctx context.Context, kind model.ActivityKind, message, actor string) {
	_, err := s.repo.Record(ctx, model.RecordActivityRequest{Kind: kind, Message: message, Actor: actor})
	if err != nil {
		s.logger.WarnContext(ctx, "record activity failed", "kind", string(kind), "error", err)
	}
}

// Recent returns the newest entries, ten by default.
func (s *ActivityService) Recent(ctx context.Context, limit int) ([]*model.Activity, error) {
	if limit <= 0 {
		limit = defaultRecentActivities
	}
	return s.repo.Recent(ctx, limit)
}

// SettingsSubscriber returns a settings listener that logs every update to the feed.
func (s *ActivityService) SettingsSubscriber() SettingsSubscriber {
	return func(settings.SchoolSettings) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.Record(ctx, model.ActivitySettings, "Pengaturan diperbarui", "")
	}
}

type noopRecorder struct{}

func (noopRecorder) Record(context.Context, model.ActivityKind, string, string) {}

func recorderOrNoop(r ActivityRecorder) ActivityRecorder {
	if r == nil {
		return noopRecorder{}
	}
	return r
}
