package data

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/sman1jakarta/portal/internal/core"
	"github.com/sman1jakarta/portal/internal/data/database"
	"github.com/sman1jakarta/portal/internal/domain/model"
	apperrors "github.com/sman1jakarta/portal/internal/errors"
)

const userColumns = `id, name, email, phone, role, status, password_hash, last_login, created_at, updated_at`

// UserRepo provides database operations for console accounts.
type UserRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewUserRepo creates a new UserRepo with real time provider.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// Create inserts a new account. params.PasswordHash must already be hashed.
func (r *UserRepo) Create(ctx context.Context, params core.CreateUserParams) (*model.User, error) {
	in := params.Input
	in.Normalize()
	if params.PasswordHash == "" {
		return nil, apperrors.ValidationField("password", "Password harus diisi")
	}
	now := r.timeProvider.Now().UTC()
	out, err := collectOne[model.User](ctx, r.DB, `
		INSERT INTO users (name, email, phone, role, status, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		RETURNING `+userColumns,
		in.Name, in.Email, in.Phone, in.Role, in.Status, params.PasswordHash, now,
	)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return out, nil
}

// GetByID retrieves an account by ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	if !validID(id) {
		return nil, notFound("users")
	}
	out, err := collectOne[model.User](ctx, r.DB, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		return nil, mapRowErr(err, "users")
	}
	return out, nil
}

// GetByEmail retrieves an account by email, case-insensitively.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	out, err := collectOne[model.User](ctx, r.DB, `SELECT `+userColumns+` FROM users WHERE email = $1`,
		strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, mapRowErr(err, "users")
	}
	return out, nil
}

// List retrieves accounts ordered by name.
func (r *UserRepo) List(ctx context.Context, opts model.UserListOptions) ([]*model.User, error) {
	opts.Normalize()
	conds := make([]database.Condition, 0, 2)
	if opts.Role != "" {
		conds = append(conds, database.WhereCond("role", database.Equal, string(opts.Role)))
	}
	if opts.Q != "" {
		conds = append(conds, database.WhereRawCond("(name ILIKE $1 OR email ILIKE $1)", likePattern(opts.Q)))
	}
	query, args := database.BuildListQuery(database.NewListQueryOptions("users",
		database.WithColumns(
			"id", "name", "email", "phone", "role", "status", "password_hash", "last_login",
			"created_at", "updated_at",
		),
		database.WithConditions(conds...),
		database.WithOrderBy("name", "ASC"),
		database.WithLimit(opts.Limit),
		database.WithOffset(opts.Offset),
	))
	out, err := collectRows[model.User](ctx, r.DB, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return out, nil
}

// Update changes profile fields. The password hash is replaced only when
// params.PasswordHash is non-empty.
func (r *UserRepo) Update(ctx context.Context, id string, params core.CreateUserParams) (*model.User, error) {
	if !validID(id) {
		return nil, notFound("users")
	}
	in := params.Input
	in.Normalize()
	out, err := collectOne[model.User](ctx, r.DB, `
		UPDATE users SET
			name = $1, email = $2, phone = $3, role = $4, status = $5,
			password_hash = COALESCE(NULLIF($6, ''), password_hash),
			updated_at = $7
		WHERE id = $8
		RETURNING `+userColumns,
		in.Name, in.Email, in.Phone, in.Role, in.Status, params.PasswordHash,
		r.timeProvider.Now().UTC(), id,
	)
	if err != nil {
		return nil, mapRowErr(err, "users")
	}
	return out, nil
}

// TouchLastLogin sets last_login to now.
func (r *UserRepo) TouchLastLogin(ctx context.Context, id string) error {
	if !validID(id) {
		return notFound("users")
	}
	n, err := execAffected(ctx, r.DB, `UPDATE users SET last_login = $1 WHERE id = $2`,
		r.timeProvider.Now().UTC(), id)
	if err != nil {
		return apperrors.MapDBError(err)
	}
	if n == 0 {
		return notFound("users")
	}
	return nil
}

// Delete removes an account.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return notFound("users")
	}
	n, err := execAffected(ctx, r.DB, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return apperrors.MapDBError(err)
	}
	if n == 0 {
		return notFound("users")
	}
	return nil
}
