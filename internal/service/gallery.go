package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sman1jakarta/portal/internal/core"
	"github.com/sman1jakarta/portal/internal/domain/model"
)

// ImageRemover deletes an uploaded image by its public URL. URLs it does not
// own are ignored.
type ImageRemover interface {
	Remove(ctx context.Context, publicURL string) error
}

// GalleryServiceOptions groups dependencies for GalleryService.
type GalleryServiceOptions struct {
	Repo     core.GalleryRepository // Required
	Activity ActivityRecorder       // Optional
	Images   ImageRemover           // Optional: removes replaced and deleted photos
}

// GalleryService manages the photo gallery.
type GalleryService struct {
	repo     core.GalleryRepository
	activity ActivityRecorder
	images   ImageRemover
	logger   *slog.Logger
}

// NewGalleryService constructs a new GalleryService.
func NewGalleryService(opts GalleryServiceOptions) *GalleryService {
	if opts.Repo == nil {
		panic("NewGalleryService: Repo is required")
	}
	return &GalleryService{
		repo:     opts.Repo,
		activity: recorderOrNoop(opts.Activity),
		images:   opts.Images,
		logger:   slog.Default().With("component", "gallery"),
	}
}

// Create validates and stores a gallery item.
func (s *GalleryService) Create(ctx context.Context, in *model.GalleryInput, actor string) (*model.GalleryItem, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	item, err := s.repo.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.activity.Record(ctx, model.ActivityGallery, "Foto baru ditambahkan ke galeri: "+item.Title, actor)
	return item, nil
}

// Update validates and replaces an item. An empty ImageURL keeps the current
// photo; a new one replaces it and removes the old upload.
func (s *GalleryService) Update(
	ctx context.Context,
	id string,
	in *model.GalleryInput,
	actor string,
) (*model.GalleryItem, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	prev, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.ImageURL == "" {
		in.ImageURL = prev.ImageURL
	}
	item, err := s.repo.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}
	if prev.ImageURL != item.ImageURL {
		s.removeImage(ctx, prev.ImageURL)
	}
	s.activity.Record(ctx, model.ActivityGallery, "Galeri diperbarui: "+item.Title, actor)
	return item, nil
}

// Delete removes an item and its uploaded photo.
func (s *GalleryService) Delete(ctx context.Context, id, actor string) error {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.removeImage(ctx, item.ImageURL)
	s.activity.Record(ctx, model.ActivityGallery, "Foto dihapus dari galeri: "+item.Title, actor)
	return nil
}

func (s *GalleryService) removeImage(ctx context.Context, url string) {
	if s.images == nil || url == "" {
		return
	}
	if err := s.images.Remove(ctx, url); err != nil {
		s.logger.WarnContext(ctx, "remove gallery image failed", "url", url, "error", err)
	}
}

// Get returns one item.
func (s *GalleryService) Get(ctx context.Context, id string) (*model.GalleryItem, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns a page of items matching opts.
func (s *GalleryService) List(ctx context.Context, opts model.GalleryListOptions) (Page[*model.GalleryItem], error) {
	opts.Normalize()
	items, err := s.repo.List(ctx, opts)
	if err != nil {
		return Page[*model.GalleryItem]{}, fmt.Errorf("list gallery: %w", err)
	}
	total, err := s.repo.Count(ctx, opts)
	if err != nil {
		return Page[*model.GalleryItem]{}, fmt.Errorf("count gallery: %w", err)
	}
	return Page[*model.GalleryItem]{Items: items, Total: total, Limit: opts.Limit, Offset: opts.Offset}, nil
}

// Preview returns up to limit items for the home page, featured items first.
func (s *GalleryService) Preview(ctx context.Context, limit int) ([]*model.GalleryItem, error) {
	featured, err := s.repo.List(ctx, model.GalleryListOptions{FeaturedOnly: true, Limit: limit})
	if err != nil || len(featured) >= limit {
		return featured, err
	}
	rest, err := s.repo.List(ctx, model.GalleryListOptions{Limit: limit * 2})
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(featured))
	for _, it := range featured {
		seen[it.ID] = true
	}
	for _, it := range rest {
		if len(featured) >= limit {
			break
		}
		if !seen[it.ID] {
			featured = append(featured, it)
		}
	}
	return featured, nil
}
