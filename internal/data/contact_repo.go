package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sman1jakarta/portal/internal/data/database"
	"github.com/sman1jakarta/portal/internal/domain/model"
	apperrors "github.com/sman1jakarta/portal/internal/errors"
)

const contactColumns = `id, name, phone, email, subject, message, category, priority, status, created_at, updated_at`

// ContactRepo provides database operations for contact messages.
type ContactRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewContactRepo creates a new ContactRepo with real time provider.
func NewContactRepo(db *sql.DB) *ContactRepo {
	return &ContactRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// Create stores a new message with status Pending.
func (r *ContactRepo) Create(ctx context.Context, req *model.ContactInput) (*model.Contact, error) {
	if req == nil {
		return nil, errors.New("contact input is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	now := r.timeProvider.Now().UTC()
	out, err := collectOne[model.Contact](ctx, r.DB, `
		INSERT INTO contacts (name, phone, email, subject, message, category, priority, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		RETURNING `+contactColumns,
		req.Name, req.Phone, req.Email, req.Subject, req.Message, req.Category, req.Priority,
		model.ContactStatusPending, now,
	)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return out, nil
}

// GetByID retrieves a message by ID.
func (r *ContactRepo) GetByID(ctx context.Context, id string) (*model.Contact, error) {
	if !validID(id) {
		return nil, notFound("contacts")
	}
	out, err := collectOne[model.Contact](ctx, r.DB, `SELECT `+contactColumns+` FROM contacts WHERE id = $1`, id)
	if err != nil {
		return nil, mapRowErr(err, "contacts")
	}
	return out, nil
}

// List retrieves messages newest first, optionally filtered by status.
func (r *ContactRepo) List(ctx context.Context, opts model.ContactListOptions) ([]*model.Contact, error) {
	opts.Normalize()
	var conds []database.Condition
	if opts.Status != "" {
		conds = append(conds, database.WhereCond("status", database.Equal, string(opts.Status)))
	}
	query, args := database.BuildListQuery(database.NewListQueryOptions("contacts",
		database.WithColumns(
			"id", "name", "phone", "email", "subject", "message", "category", "priority", "status",
			"created_at", "updated_at",
		),
		database.WithConditions(conds...),
		database.WithOrderBy("created_at", "DESC"),
		database.WithLimit(opts.Limit),
		database.WithOffset(opts.Offset),
	))
	out, err := collectRows[model.Contact](ctx, r.DB, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	return out, nil
}

// CountByStatus returns the number of messages per status. Every known status is present.
func (r *ContactRepo) CountByStatus(ctx context.Context) (model.ContactStatusCounts, error) {
	counts := model.ContactStatusCounts{}
	for _, s := range model.ContactStatuses() {
		counts[s] = 0
	}
	err := withPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT status, COUNT(*) FROM contacts GROUP BY status`)
		if err != nil {
			return err
		}
		defer rows.Close()
		var status string
		var n int
		_, err = pgx.ForEachRow(rows, []any{&status, &n}, func() error {
			counts[model.ContactStatus(status)] = n
			return nil
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to count contacts: %w", err)
	}
	return counts, nil
}

// Update replaces the message fields; the status is left unchanged.
func (r *ContactRepo) Update(ctx context.Context, id string, req *model.ContactInput) (*model.Contact, error) {
	if req == nil {
		return nil, errors.New("contact input is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, notFound("contacts")
	}
	out, err := collectOne[model.Contact](ctx, r.DB, `
		UPDATE contacts SET
			name = $1, phone = $2, email = $3, subject = $4, message = $5, category = $6,
			priority = $7, updated_at = $8
		WHERE id = $9
		RETURNING `+contactColumns,
		req.Name, req.Phone, req.Email, req.Subject, req.Message, req.Category, req.Priority,
		r.timeProvider.Now().UTC(), id,
	)
	if err != nil {
		return nil, mapRowErr(err, "contacts")
	}
	return out, nil
}

// UpdateStatus moves a message to status.
func (r *ContactRepo) UpdateStatus(ctx context.Context, id string, status model.ContactStatus) error {
	if !status.Valid() {
		return apperrors.ValidationField("status", "Status tidak valid")
	}
	if !validID(id) {
		return notFound("contacts")
	}
	n, err := execAffected(ctx, r.DB, `UPDATE contacts SET status = $1, updated_at = $2 WHERE id = $3`,
		string(status), r.timeProvider.Now().UTC(), id)
	if err != nil {
		return apperrors.MapDBError(err)
	}
	if n == 0 {
		return notFound("contacts")
	}
	return nil
}

// Delete removes a message.
func (r *ContactRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return notFound("contacts")
	}
	n, err := execAffected(ctx, r.DB, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return apperrors.MapDBError(err)
	}
	if n == 0 {
		return notFound("contacts")
	}
	return nil
}
