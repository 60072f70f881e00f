// Package credentials implements ports.CredentialVerifier for the admin login form.
package credentials

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	domainauth "github.com/sman1jakarta/portal/internal/domain/auth"
	"github.com/sman1jakarta/portal/internal/domain/model"
	apperrors "github.com/sman1jakarta/portal/internal/errors"
	"github.com/sman1jakarta/portal/internal/ports"
)

// BuiltinAdminName is the display name of the configured administrator.
const BuiltinAdminName = "Administrator"

// FixedVerifier accepts exactly one configured email/password pair.
type FixedVerifier struct {
	Email    string
	Password string
}

// Verify compares both values in constant time. The email comparison ignores case.
func (v FixedVerifier) Verify(_ context.Context, email, password string) (domainauth.Principal, error) {
	if v.Email == "" || v.Password == "" {
		return domainauth.Principal{}, ports.ErrInvalidCredentials
	}
	emailOK := subtle.ConstantTimeCompare(
		[]byte(strings.ToLower(strings.TrimSpace(email))),
		[]byte(strings.ToLower(v.Email)),
	)
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(v.Password))
	if emailOK&passOK != 1 {
		return domainauth.Principal{}, ports.ErrInvalidCredentials
	}
	return domainauth.Principal{Name: BuiltinAdminName, Email: v.Email, Role: domainauth.RoleAdmin}, nil
}

// UserLookup is the part of the user repository the verifier needs.
type UserLookup interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	TouchLastLogin(ctx context.Context, id string) error
}

// UserVerifier checks active console accounts with bcrypt password hashes.
type UserVerifier struct {
	Users UserLookup
}

// dummyHash keeps the unknown-email path as slow as a real comparison.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("portal-dummy-password"), bcrypt.DefaultCost)

// Verify resolves email to an active account and checks password against its hash.
// A successful check stamps the account's last login time.
func (v UserVerifier) Verify(ctx context.Context, email, password string) (domainauth.Principal, error) {
	u, err := v.Users.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return domainauth.Principal{}, ports.ErrInvalidCredentials
		}
		return domainauth.Principal{}, fmt.Errorf("lookup user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return domainauth.Principal{}, ports.ErrInvalidCredentials
	}
	if !u.IsActive() {
		return domainauth.Principal{}, ports.ErrInvalidCredentials
	}
	if err := v.Users.TouchLastLogin(ctx, u.ID); err != nil {
		return domainauth.Principal{}, fmt.Errorf("touch last login: %w", err)
	}
	return domainauth.Principal{UserID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}, nil
}

// Chain tries each verifier in order and returns the first match.
type Chain []ports.CredentialVerifier

// Verify returns ErrInvalidCredentials only when every verifier rejected the pair.
// Any other error stops the chain.
func (c Chain) Verify(ctx context.Context, email, password string) (domainauth.Principal, error) {
	for _, v := range c {
		p, err := v.Verify(ctx, email, password)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, ports.ErrInvalidCredentials) {
			return domainauth.Principal{}, err
		}
	}
	return domainauth.Principal{}, ports.ErrInvalidCredentials
}

// HashPassword hashes a plain-text password for storage.
func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}
