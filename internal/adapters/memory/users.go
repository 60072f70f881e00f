package memory

import (
	"context"
	"strings"
	"time"

	"github.com/sman1jakarta/portal/internal/core"
	"github.com/sman1jakarta/portal/internal/domain/model"
	apperrors "github.com/sman1jakarta/portal/internal/errors"
)

var errEmailTaken = apperrors.ConflictField("email", "Email sudah digunakan")

// UserRepository implements core.UserRepository in memory. Emails are unique case-insensitively.
type UserRepository struct {
	rows *table[model.User]
	now  func() time.Time
}

// NewUserRepository creates an empty UserRepository.
func NewUserRepository() *UserRepository {
	return &UserRepository{rows: newTable[model.User]("users"), now: time.Now}
}

func applyUser(u *model.User, params core.CreateUserParams) {
	in := params.Input
	in.Normalize()
	u.Name, u.Email, u.Phone = in.Name, in.Email, in.Phone
	u.Role, u.Status = in.Role, in.Status
	if params.PasswordHash != "" {
		u.PasswordHash = params.PasswordHash
	}
}

func sameEmail(email string) func(*model.User) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	return func(u *model.User) bool { return u.Email == email }
}

func (r *UserRepository) Create(_ context.Context, params core.CreateUserParams) (*model.User, error) {
	if params.PasswordHash == "" {
		return nil, apperrors.ValidationField("password", "Password harus diisi")
	}
	now := r.now().UTC()
	u := model.User{CreatedAt: now, UpdatedAt: now}
	applyUser(&u, params)
	out, ok := r.rows.insert(u, func(v *model.User, id string) { v.ID = id }, sameEmail(u.Email))
	if !ok {
		return nil, errEmailTaken
	}
	return &out, nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*model.User, error) {
	u, err := r.rows.get(id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*model.User, error) {
	rows := r.rows.newestFirst(sameEmail(email))
	if len(rows) == 0 {
		return nil, r.rows.notFound()
	}
	return rows[0], nil
}

// List returns accounts in creation order.
func (r *UserRepository) List(_ context.Context, opts model.UserListOptions) ([]*model.User, error) {
	opts.Normalize()
	rows := r.rows.newestFirst(opts.Matches)
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return page(rows, opts.Limit, opts.Offset), nil
}

func (r *UserRepository) Update(_ context.Context, id string, params core.CreateUserParams) (*model.User, error) {
	now := r.now().UTC()
	u, err := r.rows.update(id, func(u *model.User) error {
		next := *u
		applyUser(&next, params)
		if r.rows.othersMatch(id, sameEmail(next.Email)) {
			return errEmailTaken
		}
		next.UpdatedAt = now
		*u = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) TouchLastLogin(_ context.Context, id string) error {
	now := r.now().UTC()
	_, err := r.rows.update(id, func(u *model.User) error {
		u.LastLogin = &now
		return nil
	})
	return err
}

func (r *UserRepository) Delete(_ context.Context, id string) error {
	return r.rows.remove(id)
}

// ActivityRepository implements core.ActivityRepository in memory.
type ActivityRepository struct {
	rows *table[model.Activity]
	now  func() time.Time
}

// NewActivityRepository creates an empty ActivityRepository.
func NewActivityRepository() *ActivityRepository {
	return &ActivityRepository{rows: newTable[model.Activity]("activities"), now: time.Now}
}

func (r *ActivityRepository) Record(_ context.Context, req model.RecordActivityRequest) (*model.Activity, error) {
	if req.Message == "" {
		return nil, apperrors.ValidationField("message", "Pesan aktivitas harus diisi")
	}
	a := model.Activity{Kind: req.Kind, Message: req.Message, Actor: req.Actor, CreatedAt: r.now().UTC()}
	out, _ := r.rows.insert(a, func(v *model.Activity, id string) { v.ID = id }, nil)
	return &out, nil
}

func (r *ActivityRepository) Recent(_ context.Context, limit int) ([]*model.Activity, error) {
	if limit <= 0 {
		limit = 10
	}
	return page(r.rows.newestFirst(nil), limit, 0), nil
}
