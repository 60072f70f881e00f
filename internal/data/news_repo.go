package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sman1jakarta/portal/internal/data/database"
	"github.com/sman1jakarta/portal/internal/domain/model"
	apperrors "github.com/sman1jakarta/portal/internal/errors"
)

const newsColumns = `id, title, excerpt, content, category, author, status, image_url, views, featured,
	published_at, created_at, updated_at`

// NewsRepo provides database operations for news articles.
type NewsRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewNewsRepo creates a new NewsRepo with real time provider.
func NewNewsRepo(db *sql.DB) *NewsRepo {
	return &NewsRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewNewsRepoWithTimeProvider creates a new NewsRepo with a custom time provider (useful for tests).
func NewNewsRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *NewsRepo {
	return &NewsRepo{DB: db, timeProvider: tp}
}

// Create inserts a new article. Published articles get published_at set to now.
func (r *NewsRepo) Create(ctx context.Context, req *model.NewsInput) (*model.News, error) {
	if req == nil {
		return nil, errors.New("news input is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := r.timeProvider.Now().UTC()
	var publishedAt *time.Time
	if req.Status == model.NewsStatusPublished {
		publishedAt = &now
	}

	out, err := collectOne[model.News](ctx, r.DB, `
		INSERT INTO news (title, excerpt, content, category, author, status, image_url, featured,
			published_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
		RETURNING `+newsColumns,
		req.Title, req.Excerpt, req.Content, req.Category, req.Author, req.Status, req.ImageURL,
		req.Featured, publishedAt, now,
	)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return out, nil
}

// GetByID retrieves an article by ID.
func (r *NewsRepo) GetByID(ctx context.Context, id string) (*model.News, error) {
	if !validID(id) {
		return nil, notFound("news")
	}
	out, err := collectOne[model.News](ctx, r.DB, `SELECT `+newsColumns+` FROM news WHERE id = $1`, id)
	if err != nil {
		return nil, mapRowErr(err, "news")
	}
	return out, nil
}

// List retrieves articles matching opts, newest first.
func (r *NewsRepo) List(ctx context.Context, opts model.NewsListOptions) ([]*model.News, error) {
	opts.Normalize()
	query, args := database.BuildListQuery(database.NewListQueryOptions("news",
		database.WithColumns(
			"id", "title", "excerpt", "content", "category", "author", "status", "image_url",
			"views", "featured", "published_at", "created_at", "updated_at",
		),
		database.WithConditions(newsConditions(opts)...),
		database.WithOrderBy("created_at", "DESC"),
		database.WithLimit(opts.Limit),
		database.WithOffset(opts.Offset),
	))
	out, err := collectRows[model.News](ctx, r.DB, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list news: %w", err)
	}
	return out, nil
}

// Count returns the number of articles matching opts, ignoring paging.
func (r *NewsRepo) Count(ctx context.Context, opts model.NewsListOptions) (int, error) {
	opts.Normalize()
	query, args := database.BuildListQuery(database.NewListQueryOptions("news",
		database.WithCountOnly(),
		database.WithConditions(newsConditions(opts)...),
	))
	var n int
	if err := r.DB.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count news: %w", err)
	}
	return n, nil
}

func newsConditions(opts model.NewsListOptions) []database.Condition {
	conds := make([]database.Condition, 0, 4)
	if opts.Status != "" {
		conds = append(conds, database.WhereCond("status", database.Equal, string(opts.Status)))
	}
	if opts.FeaturedOnly {
		conds = append(conds, database.WhereCond("featured", database.Equal, true))
	}
	if opts.Category != "" {
		conds = append(conds, database.WhereRawCond("lower(category) = lower($1)", opts.Category))
	}
	if opts.Q != "" {
		conds = append(conds, database.WhereRawCond("(title ILIKE $1 OR excerpt ILIKE $1)", likePattern(opts.Q)))
	}
	return conds
}

// Update replaces the editable fields of an article. published_at is set the
// first time the article becomes published and kept afterwards.
func (r *NewsRepo) Update(ctx context.Context, id string, req *model.NewsInput) (*model.News, error) {
	if req == nil {
		return nil, errors.New("news input is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, notFound("news")
	}

	now := r.timeProvider.Now().UTC()
	out, err := collectOne[model.News](ctx, r.DB, `
		UPDATE news SET
			title = $1, excerpt = $2, content = $3, category = $4, author = $5, status = $6,
			image_url = $7, featured = $8,
			published_at = CASE WHEN $6 = 'published' AND published_at IS NULL THEN $9 ELSE published_at END,
			updated_at = $9
		WHERE id = $10
		RETURNING `+newsColumns,
		req.Title, req.Excerpt, req.Content, req.Category, req.Author, string(req.Status),
		req.ImageURL, req.Featured, now, id,
	)
	if err != nil {
		return nil, mapRowErr(err, "news")
	}
	return out, nil
}

// Delete removes an article.
func (r *NewsRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return notFound("news")
	}
	n, err := execAffected(ctx, r.DB, `DELETE FROM news WHERE id = $1`, id)
	if err != nil {
		return apperrors.MapDBError(err)
	}
	if n == 0 {
		return notFound("news")
	}
	return nil
}

// IncrementViews adds one to the article's view counter.
func (r *NewsRepo) IncrementViews(ctx context.Context, id string) error {
	if !validID(id) {
		return notFound("news")
	}
	n, err := execAffected(ctx, r.DB, `UPDATE news SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return apperrors.MapDBError(err)
	}
	if n == 0 {
		return notFound("news")
	}
	return nil
}
