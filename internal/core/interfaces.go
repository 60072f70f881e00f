package core

import (
	"context"

	"github.com/sman1jakarta/portal/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// These interfaces define the contracts between the service layer and data layer.
// Service implementations should depend on these interfaces, not concrete implementations.

// NewsRepository defines the interface for news data operations.
type NewsRepository interface {
	Create(ctx context.Context, req *model.NewsInput) (*model.News, error)
	GetByID(ctx context.Context, id string) (*model.News, error)
	List(ctx context.Context, opts model.NewsListOptions) ([]*model.News, error)
	Count(ctx context.Context, opts model.NewsListOptions) (int, error)
	Update(ctx context.Context, id string, req *model.NewsInput) (*model.News, error)
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
}

// GalleryRepository defines the interface for gallery data operations.
type GalleryRepository interface {
	Create(ctx context.Context, req *model.GalleryInput) (*model.GalleryItem, error)
	GetByID(ctx context.Context, id string) (*model.GalleryItem, error)
	List(ctx context.Context, opts model.GalleryListOptions) ([]*model.GalleryItem, error)
	Count(ctx context.Context, opts model.GalleryListOptions) (int, error)
	Update(ctx context.Context, id string, req *model.GalleryInput) (*model.GalleryItem, error)
	Delete(ctx context.Context, id string) error
}

// ContactRepository defines the interface for contact message operations.
type ContactRepository interface {
	Create(ctx context.Context, req *model.ContactInput) (*model.Contact, error)
	GetByID(ctx context.Context, id string) (*model.Contact, error)
	List(ctx context.Context, opts model.ContactListOptions) ([]*model.Contact, error)
	CountByStatus(ctx context.Context) (model.ContactStatusCounts, error)
	Update(ctx context.Context, id string, req *model.ContactInput) (*model.Contact, error)
	UpdateStatus(ctx context.Context, id string, status model.ContactStatus) error
	Delete(ctx context.Context, id string) error
}

// CreateUserParams carries a validated account with its password already hashed.
type CreateUserParams struct {
	Input        model.UserInput
	PasswordHash string
}

// UserRepository defines the interface for console account operations.
// Implementations map duplicate emails to a conflict error on field "email".
type UserRepository interface {
	Create(ctx context.Context, params CreateUserParams) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, opts model.UserListOptions) ([]*model.User, error)
	// Update changes profile fields; PasswordHash is replaced only when non-empty.
	Update(ctx context.Context, id string, params CreateUserParams) (*model.User, error)
	TouchLastLogin(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// ActivityRepository stores the dashboard activity feed.
type ActivityRepository interface {
	Record(ctx context.Context, req model.RecordActivityRequest) (*model.Activity, error)
	Recent(ctx context.Context, limit int) ([]*model.Activity, error)
}

// SettingsRepository persists the school settings document as opaque JSON.
// Get returns (nil, nil) when nothing has been stored yet.
type SettingsRepository interface {
	Get(ctx context.Context) ([]byte, error)
	Put(ctx context.Context, doc []byte) error
}

// VisitCounter counts page views for the dashboard.
type VisitCounter interface {
	Incr(ctx context.Context) (int64, error)
	Total(ctx context.Context) (int64, error)
}
