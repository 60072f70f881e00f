package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sman1jakarta/portal/internal/core"
	"github.com/sman1jakarta/portal/internal/domain/model"
	apperrors "github.com/sman1jakarta/portal/internal/errors"
)

// NewsServiceOptions groups dependencies for NewsService.
type NewsServiceOptions struct {
	Repo     core.NewsRepository // Required
	Activity ActivityRecorder    // Optional
	Logger   *slog.Logger        // Optional
}

// NewsService manages articles for the public site and the console.
type NewsService struct {
	repo     core.NewsRepository
	activity ActivityRecorder
	logger   *slog.Logger
}

// NewNewsService constructs a new NewsService.
func NewNewsService(opts NewsServiceOptions) *NewsService {
	if opts.Repo == nil {
		panic("NewNewsService: Repo is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &NewsService{
		repo:     opts.Repo,
		activity: recorderOrNoop(opts.Activity),
		logger:   logger.With("component", "news"),
	}
}

// Create validates and stores a new article.
func (s *NewsService) Create(ctx context.Context, in *model.NewsInput, actor string) (*model.News, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	n, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.activity.Record(ctx, model.ActivityNews, "Berita baru ditambahkan: "+n.Title, actor)
	return n, nil
}

// Update validates and replaces an article's editable fields.
func (s *NewsService) Update(ctx context.Context, id string, in *model.NewsInput, actor string) (*model.News, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	n, err := s.repo.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	s.activity.Record(ctx, model.ActivityNews, "Berita diperbarui: "+n.Title, actor)
	return n, nil
}

// Delete removes an article.
func (s *NewsService) Delete(ctx context.Context, id, actor string) error {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.activity.Record(ctx, model.ActivityNews, "Berita dihapus: "+n.Title, actor)
	return nil
}

// Get returns an article in any status.
func (s *NewsService) Get(ctx context.Context, id string) (*model.News, error) {
	return s.repo.GetByID(ctx, id)
}

// GetPublished returns a published article; drafts and archived articles are not found.
func (s *NewsService) GetPublished(ctx context.Context, id string) (*model.News, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.Status != model.NewsStatusPublished {
		return nil, apperrors.NotFound(apperrors.TableDisplayName("news") + " tidak ditemukan")
	}
	return n, nil
}

// View returns a published article and counts the view. A failed counter
// update is logged and does not hide the article.
func (s *NewsService) View(ctx context.Context, id string) (*model.News, error) {
	n, err := s.GetPublished(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.IncrementViews(ctx, id); err != nil {
		s.logger.WarnContext(ctx, "increment views failed", "id", id, "error", err)
		return n, nil
	}
	n.Views++
	return n, nil
}

// List returns a page of articles matching opts.
func (s *NewsService) List(ctx context.Context, opts model.NewsListOptions) (Page[*model.News], error) {
	opts.Normalize()
	items, err := s.repo.List(ctx, opts)
	if err != nil {
		return Page[*model.News]{}, fmt.Errorf("list news: %w", err)
	}
	total, err := s.repo.Count(ctx, opts)
	if err != nil {
		return Page[*model.News]{}, fmt.Errorf("count news: %w", err)
	}
	return Page[*model.News]{Items: items, Total: total, Limit: opts.Limit, Offset: opts.Offset}, nil
}

// ListPublished is List restricted to published articles.
func (s *NewsService) ListPublished(ctx context.Context, opts model.NewsListOptions) (Page[*model.News], error) {
	opts.Status = model.NewsStatusPublished
	return s.List(ctx, opts)
}

// Featured returns up to limit published featured articles, newest first.
func (s *NewsService) Featured(ctx context.Context, limit int) ([]*model.News, error) {
	return s.repo.List(ctx, model.NewsListOptions{
		Status:       model.NewsStatusPublished,
		FeaturedOnly: true,
		Limit:        limit,
	})
}

// Latest returns up to limit published articles, newest first.
func (s *NewsService) Latest(ctx context.Context, limit int) ([]*model.News, error) {
	return s.repo.List(ctx, model.NewsListOptions{Status: model.NewsStatusPublished, Limit: limit})
}
