package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sman1jakarta/portal/internal/core"
	"github.com/sman1jakarta/portal/internal/domain/model"
	"github.com/sman1jakarta/portal/internal/task"
)

const (
	dashboardRecentNews       = 5
	dashboardRecentActivities = 8
	dashboardUserScanLimit    = 1000
)

// DashboardRepos bundles the repositories the dashboard reads.
type DashboardRepos struct {
	News       core.NewsRepository
	Gallery    core.GalleryRepository
	Contacts   core.ContactRepository
	Users      core.UserRepository
	Activities core.ActivityRepository
}

// DashboardServiceOptions groups dependencies for DashboardService.
type DashboardServiceOptions struct {
	Repos  DashboardRepos    // Required
	Visits core.VisitCounter // Optional
	Logger *slog.Logger      // Optional
}

// DashboardService gathers the console overview.
type DashboardService struct {
	repos  DashboardRepos
	visits core.VisitCounter
	logger *slog.Logger
}

// NewDashboardService constructs a new DashboardService.
func NewDashboardService(opts DashboardServiceOptions) *DashboardService {
	r := opts.Repos
	if r.News == nil || r.Gallery == nil || r.Contacts == nil || r.Users == nil || r.Activities == nil {
		panic("NewDashboardService: all repositories are required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{repos: r, visits: opts.Visits, logger: logger.With("component", "dashboard")}
}

// Overview is everything the dashboard page shows.
type Overview struct {
	Stats      model.DashboardStats
	RecentNews []*model.News
	Activities []*model.Activity
}

// Overview loads the counts and recent lists concurrently. A failed visit
// counter read is logged and shown as zero.
func (s *DashboardService) Overview(ctx context.Context) (*Overview, error) {
	var out Overview
	g := task.NewGroup(ctx)

	g.Go(func(ctx context.Context) error {
		n, err := s.repos.News.Count(ctx, model.NewsListOptions{})
		if err != nil {
			return fmt.Errorf("count news: %w", err)
		}
		out.Stats.News = n
		return nil
	})
	g.Go(func(ctx context.Context) error {
		n, err := s.repos.News.Count(ctx, model.NewsListOptions{Status: model.NewsStatusPublished})
		if err != nil {
			return fmt.Errorf("count published news: %w", err)
		}
		out.Stats.PublishedNews = n
		return nil
	})
	g.Go(func(ctx context.Context) error {
		n, err := s.repos.Gallery.Count(ctx, model.GalleryListOptions{})
		if err != nil {
			return fmt.Errorf("count gallery: %w", err)
		}
		out.Stats.Gallery = n
		return nil
	})
	g.Go(func(ctx context.Context) error {
		counts, err := s.repos.Contacts.CountByStatus(ctx)
		if err != nil {
			return fmt.Errorf("count contacts: %w", err)
		}
		out.Stats.Contacts = counts.Total()
		out.Stats.PendingContacts = counts[model.ContactStatusPending]
		return nil
	})
	g.Go(func(ctx context.Context) error {
		users, err := s.repos.Users.List(ctx, model.UserListOptions{Limit: dashboardUserScanLimit})
		if err != nil {
			return fmt.Errorf("list users: %w", err)
		}
		out.Stats.Users = len(users)
		for _, u := range users {
			if u.IsActive() {
				out.Stats.ActiveUsers++
			}
		}
		return nil
	})
	g.Go(func(ctx context.Context) error {
		items, err := s.repos.News.List(ctx, model.NewsListOptions{Limit: dashboardRecentNews})
		if err != nil {
			return fmt.Errorf("recent news: %w", err)
		}
		out.RecentNews = items
		return nil
	})
	g.Go(func(ctx context.Context) error {
		items, err := s.repos.Activities.Recent(ctx, dashboardRecentActivities)
		if err != nil {
			return fmt.Errorf("recent activity: %w", err)
		}
		out.Activities = items
		return nil
	})
	if s.visits != nil {
		g.Go(func(ctx context.Context) error {
			n, err := s.visits.Total(ctx)
			if err != nil {
				s.logger.WarnContext(ctx, "read visit counter failed", "error", err)
				return nil
			}
			out.Stats.Visits = n
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}
