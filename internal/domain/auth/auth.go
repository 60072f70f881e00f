// Package auth contains domain-level types for admin authentication and sessions.
// It is pure and free of framework/adapter concerns.
package auth

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"
)

// Role represents a console user's role. The string form is persisted as-is.
type Role string

const (
	RoleAdmin         Role = "admin"
	RoleKepalaSekolah Role = "kepala_sekolah"
	RoleGuru          Role = "guru"
	RoleStaff         Role = "staff"
)

var roleLabels = map[Role]string{
	RoleAdmin:         "Administrator",
	RoleKepalaSekolah: "Kepala Sekolah",
	RoleGuru:          "Guru",
	RoleStaff:         "Staff",
}

// Roles returns all assignable roles in display order.
func Roles() []Role {
	return []Role{RoleAdmin, RoleKepalaSekolah, RoleGuru, RoleStaff}
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	_, ok := roleLabels[r]
	return ok
}

// Label returns the display name for the role. Unknown roles show as Administrator,
// the only identity the console had before user accounts existed.
func (r Role) Label() string {
	if l, ok := roleLabels[r]; ok {
		return l
	}
	return "Administrator"
}

// CanManageSite reports whether the role may change users and school settings.
func (r Role) CanManageSite() bool {
	return r == RoleAdmin || r == RoleKepalaSekolah
}

// Principal is the account a credential check resolved to.
type Principal struct {
	UserID string // empty for the built-in administrator
	Name   string
	Email  string
	Role   Role
}

// Identity represents the authenticated principal returned by an IdP.
type Identity struct {
	UserID    string
	Name      string
	Email     string
	Groups    []string
	ExpiresAt time.Time
}

// Session is the persisted auth record for a logged-in admin.
// ID is the opaque value carried in the session cookie.
type Session struct {
	ID              string    `json:"id"`
	IsAuthenticated bool      `json:"isAuthenticated"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	Role            Role      `json:"role"`
	LoginTime       time.Time `json:"loginTime"`
	// ExpiresAt is zero when the session lasts until logout.
	ExpiresAt time.Time `json:"expiresAt,omitzero"`
}

// Expired reports whether the session has an expiry that has passed.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

var (
	// ErrNoSession is returned when there is no usable auth record.
	ErrNoSession = errors.New("no admin session")
	// ErrCorruptRecord marks a stored auth record that does not have the expected shape.
	ErrCorruptRecord = errors.New("corrupt auth record")
)

// EncodeRecord serializes s for storage.
func EncodeRecord(s Session) ([]byte, error) {
	return json.Marshal(s)
}

// DecodeRecord parses a stored auth record. Anything other than a JSON object
// with isAuthenticated=true and a non-empty id is ErrCorruptRecord.
func DecodeRecord(raw []byte) (Session, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return Session{}, ErrCorruptRecord
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return Session{}, errors.Join(ErrCorruptRecord, err)
	}
	if !s.IsAuthenticated || s.ID == "" {
		return Session{}, ErrCorruptRecord
	}
	return s, nil
}
