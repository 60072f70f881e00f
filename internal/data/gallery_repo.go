package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sman1jakarta/portal/internal/data/database"
	"github.com/sman1jakarta/portal/internal/domain/model"
	apperrors "github.com/sman1jakarta/portal/internal/errors"
)

const galleryColumns = `id, title, description, category, image_url, uploaded_by, featured, created_at, updated_at`

// GalleryRepo provides database operations for gallery items.
type GalleryRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewGalleryRepo creates a new GalleryRepo with real time provider.
func NewGalleryRepo(db *sql.DB) *GalleryRepo {
	return &GalleryRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// Create inserts a new gallery item.
func (r *GalleryRepo) Create(ctx context.Context, req *model.GalleryInput) (*model.GalleryItem, error) {
	if req == nil {
		return nil, errors.New("gallery input is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	now := r.timeProvider.Now().UTC()
	out, err := collectOne[model.GalleryItem](ctx, r.DB, `
		INSERT INTO gallery_items (title, description, category, image_url, uploaded_by, featured, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		RETURNING `+galleryColumns,
		req.Title, req.Description, req.Category, req.ImageURL, req.UploadedBy, req.Featured, now,
	)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return out, nil
}

// GetByID retrieves a gallery item by ID.
func (r *GalleryRepo) GetByID(ctx context.Context, id string) (*model.GalleryItem, error) {
	if !validID(id) {
		return nil, notFound("gallery_items")
	}
	out, err := collectOne[model.GalleryItem](ctx, r.DB,
		`SELECT `+galleryColumns+` FROM gallery_items WHERE id = $1`, id)
	if err != nil {
		return nil, mapRowErr(err, "gallery_items")
	}
	return out, nil
}

// List retrieves gallery items matching opts, newest first.
func (r *GalleryRepo) List(ctx context.Context, opts model.GalleryListOptions) ([]*model.GalleryItem, error) {
	opts.Normalize()
	query, args := database.BuildListQuery(database.NewListQueryOptions("gallery_items",
		database.WithColumns(
			"id", "title", "description", "category", "image_url", "uploaded_by", "featured",
			"created_at", "updated_at",
		),
		database.WithConditions(galleryConditions(opts)...),
		database.WithOrderBy("created_at", "DESC"),
		database.WithLimit(opts.Limit),
		database.WithOffset(opts.Offset),
	))
	out, err := collectRows[model.GalleryItem](ctx, r.DB, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list gallery items: %w", err)
	}
	return out, nil
}

// Count returns the number of gallery items matching opts, ignoring paging.
func (r *GalleryRepo) Count(ctx context.Context, opts model.GalleryListOptions) (int, error) {
	opts.Normalize()
	query, args := database.BuildListQuery(database.NewListQueryOptions("gallery_items",
		database.WithCountOnly(),
		database.WithConditions(galleryConditions(opts)...),
	))
	var n int
	if err := r.DB.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count gallery items: %w", err)
	}
	return n, nil
}

func galleryConditions(opts model.GalleryListOptions) []database.Condition {
	conds := make([]database.Condition, 0, 2)
	if opts.FeaturedOnly {
		conds = append(conds, database.WhereCond("featured", database.Equal, true))
	}
	if opts.Category != "" {
		conds = append(conds, database.WhereRawCond("lower(category) = lower($1)", opts.Category))
	}
	return conds
}

// Update replaces the editable fields of a gallery item.
func (r *GalleryRepo) Update(ctx context.Context, id string, req *model.GalleryInput) (*model.GalleryItem, error) {
	if req == nil {
		return nil, errors.New("gallery input is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, notFound("gallery_items")
	}
	out, err := collectOne[model.GalleryItem](ctx, r.DB, `
		UPDATE gallery_items SET
			title = $1, description = $2, category = $3, image_url = $4, uploaded_by = $5,
			featured = $6, updated_at = $7
		WHERE id = $8
		RETURNING `+galleryColumns,
		req.Title, req.Description, req.Category, req.ImageURL, req.UploadedBy, req.Featured,
		r.timeProvider.Now().UTC(), id,
	)
	if err != nil {
		return nil, mapRowErr(err, "gallery_items")
	}
	return out, nil
}

// Delete removes a gallery item.
func (r *GalleryRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return notFound("gallery_items")
	}
	n, err := execAffected(ctx, r.DB, `DELETE FROM gallery_items WHERE id = $1`, id)
	if err != nil {
		return apperrors.MapDBError(err)
	}
	if n == 0 {
		return notFound("gallery_items")
	}
	return nil
}
