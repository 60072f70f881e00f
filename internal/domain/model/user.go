package model

import (
	"strings"
	"time"

	"github.com/sman1jakarta/portal/internal/domain/auth"
	apperrors "github.com/sman1jakarta/portal/internal/errors"
)

// UserStatus marks whether a console account may log in.
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

// Valid reports whether s is a known status.
func (s UserStatus) Valid() bool {
	return s == UserStatusActive || s == UserStatusInactive
}

// Label returns the Indonesian display label.
func (s UserStatus) Label() string {
	if s == UserStatusActive {
		return "Aktif"
	}
	return "Tidak Aktif"
}

// MinPasswordLen is the shortest accepted password.
const MinPasswordLen = 6

// User is a console account.
type User struct {
	ID           string     `json:"id"                   db:"id"`
	Name         string     `json:"name"                 db:"name"`
	Email        string     `json:"email"                db:"email"`
	Phone        string     `json:"phone"                db:"phone"`
	Role         auth.Role  `json:"role"                 db:"role"`
	Status       UserStatus `json:"status"               db:"status"`
	PasswordHash string     `json:"-"                    db:"password_hash"`
	LastLogin    *time.Time `json:"last_login,omitempty" db:"last_login"`
	CreatedAt    time.Time  `json:"created_at"           db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"           db:"updated_at"`
}

// IsActive reports whether the account may log in.
func (u *User) IsActive() bool { return u.Status == UserStatusActive }

// UserInput carries the editable fields of an account. Password is plain text
// and only set when it should change.
type UserInput struct {
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Phone    string     `json:"phone"`
	Role     auth.Role  `json:"role"`
	Status   UserStatus `json:"status"`
	Password string     `json:"password,omitempty"`
}

// Normalize trims fields and lowercases the email. An empty status means active.
func (r *UserInput) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)
	r.Role = auth.Role(strings.TrimSpace(string(r.Role)))
	r.Status = UserStatus(strings.ToLower(strings.TrimSpace(string(r.Status))))
	if r.Status == "" {
		r.Status = UserStatusActive
	}
}

// Validate checks an update. The password is optional but must meet the minimum length when given.
func (r *UserInput) Validate() error {
	return r.validate(false)
}

// ValidateCreate checks a new account, which requires a password.
func (r *UserInput) ValidateCreate() error {
	return r.validate(true)
}

func (r *UserInput) validate(requirePassword bool) error {
	r.Normalize()
	fe := apperrors.FieldErrors{}
	if r.Name == "" {
		fe.Add("name", "Nama harus diisi")
	}
	checkEmail(fe, "email", r.Email)
	checkChoice(fe, "role", "Role", r.Role, r.Role.Valid())
	if !r.Status.Valid() {
		fe.Add("status", "Status tidak valid")
	}
	switch {
	case requirePassword && strings.TrimSpace(r.Password) == "":
		fe.Add("password", "Password harus diisi")
	case r.Password != "" && len([]rune(r.Password)) < MinPasswordLen:
		fe.Add("password", "Password minimal 6 karakter")
	}
	return fe.Err()
}

// UserListOptions controls filtering and paging of accounts.
type UserListOptions struct {
	Q      string // matches name or email
	Role   auth.Role
	Limit  int
	Offset int
}

// Normalize trims filters and clamps paging.
func (o *UserListOptions) Normalize() {
	o.Q = strings.TrimSpace(o.Q)
	o.Limit, o.Offset = clampPage(o.Limit, o.Offset, 100, 1000)
}

// Matches reports whether u passes the filters (paging excluded).
func (o UserListOptions) Matches(u *User) bool {
	if o.Role != "" && u.Role != o.Role {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(o.Q)); q != "" {
		return strings.Contains(strings.ToLower(u.Name), q) || strings.Contains(strings.ToLower(u.Email), q)
	}
	return true
}
