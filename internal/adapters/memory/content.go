package memory

import (
	"context"
	"errors"
	"time"

	"github.com/sman1jakarta/portal/internal/domain/model"
)

// NewsRepository implements core.NewsRepository in memory.
type NewsRepository struct {
	rows *table[model.News]
	now  func() time.Time
}

// NewNewsRepository creates an empty NewsRepository.
func NewNewsRepository() *NewsRepository {
	return &NewsRepository{rows: newTable[model.News]("news"), now: time.Now}
}

func (r *NewsRepository) Create(_ context.Context, req *model.NewsInput) (*model.News, error) {
	if req == nil {
		return nil, errors.New("news input is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	now := r.now().UTC()
	n := model.News{CreatedAt: now, UpdatedAt: now}
	applyNews(&n, req, now)
	out, _ := r.rows.insert(n, func(v *model.News, id string) { v.ID = id }, nil)
	return &out, nil
}

func applyNews(n *model.News, req *model.NewsInput, now time.Time) {
	n.Title, n.Excerpt, n.Content = req.Title, req.Excerpt, req.Content
	n.Category, n.Author, n.Status = req.Category, req.Author, req.Status
	n.ImageURL, n.Featured = req.ImageURL, req.Featured
	if n.Status == model.NewsStatusPublished && n.PublishedAt == nil {
		t := now
		n.PublishedAt = &t
	}
}

func (r *NewsRepository) GetByID(_ context.Context, id string) (*model.News, error) {
	n, err := r.rows.get(id)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *NewsRepository) List(_ context.Context, opts model.NewsListOptions) ([]*model.News, error) {
	opts.Normalize()
	return page(r.rows.newestFirst(opts.Matches), opts.Limit, opts.Offset), nil
}

func (r *NewsRepository) Count(_ context.Context, opts model.NewsListOptions) (int, error) {
	opts.Normalize()
	return len(r.rows.newestFirst(opts.Matches)), nil
}

func (r *NewsRepository) Update(_ context.Context, id string, req *model.NewsInput) (*model.News, error) {
	if req == nil {
		return nil, errors.New("news input is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	now := r.now().UTC()
	n, err := r.rows.update(id, func(n *model.News) error {
		applyNews(n, req, now)
		n.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *NewsRepository) Delete(_ context.Context, id string) error {
	return r.rows.remove(id)
}

func (r *NewsRepository) IncrementViews(_ context.Context, id string) error {
	_, err := r.rows.update(id, func(n *model.News) error {
		n.Views++
		return nil
	})
	return err
}

// GalleryRepository implements core.GalleryRepository in memory.
type GalleryRepository struct {
	rows *table[model.GalleryItem]
	now  func() time.Time
}

// NewGalleryRepository creates an empty GalleryRepository.
func NewGalleryRepository() *GalleryRepository {
	return &GalleryRepository{rows: newTable[model.GalleryItem]("gallery_items"), now: time.Now}
}

func applyGallery(g *model.GalleryItem, req *model.GalleryInput) {
	g.Title, g.Description, g.Category = req.Title, req.Description, req.Category
	g.ImageURL, g.UploadedBy, g.Featured = req.ImageURL, req.UploadedBy, req.Featured
}

func (r *GalleryRepository) Create(_ context.Context, req *model.GalleryInput) (*model.GalleryItem, error) {
	if req == nil {
		return nil, errors.New("gallery input is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	now := r.now().UTC()
	g := model.GalleryItem{CreatedAt: now, UpdatedAt: now}
	applyGallery(&g, req)
	out, _ := r.rows.insert(g, func(v *model.GalleryItem, id string) { v.ID = id }, nil)
	return &out, nil
}

func (r *GalleryRepository) GetByID(_ context.Context, id string) (*model.GalleryItem, error) {
	g, err := r.rows.get(id)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GalleryRepository) List(_ context.Context, opts model.GalleryListOptions) ([]*model.GalleryItem, error) {
	opts.Normalize()
	return page(r.rows.newestFirst(opts.Matches), opts.Limit, opts.Offset), nil
}

func (r *GalleryRepository) Count(_ context.Context, opts model.GalleryListOptions) (int, error) {
	opts.Normalize()
	return len(r.rows.newestFirst(opts.Matches)), nil
}

func (r *GalleryRepository) Update(_ context.Context, id string, req *model.GalleryInput) (*model.GalleryItem, error) {
	if req == nil {
		return nil, errors.New("gallery input is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	now := r.now().UTC()
	g, err := r.rows.update(id, func(g *model.GalleryItem) error {
		applyGallery(g, req)
		g.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GalleryRepository) Delete(_ context.Context, id string) error {
	return r.rows.remove(id)
}
