// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters; orchestration in internal/service.
package ports

import (
	"context"
	"errors"

	domainauth "github.com/sman1jakarta/portal/internal/domain/auth"
)

// SessionStore persists admin auth records keyed by session id.
//
// Get returns domainauth.ErrNoSession when nothing is stored under id and
// domainauth.ErrCorruptRecord when the stored value does not decode as a valid
// record. Stores do not delete corrupt records themselves; the caller decides.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// ErrInvalidCredentials is returned by a CredentialVerifier when the email and
// password do not identify an active account.
var ErrInvalidCredentials = errors.New("invalid credentials")

// CredentialVerifier checks an email/password pair.
type CredentialVerifier interface {
	Verify(ctx context.Context, email, password string) (domainauth.Principal, error)
}

// BeginInput carries inputs for initiating an SSO flow.
type BeginInput struct {
	RedirectURL string
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// AuthProvider initiates and completes a single sign-on flow against an IdP.
type AuthProvider interface {
	// Begin starts the login flow and returns the provider auth URL, an opaque state, and a nonce.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange completes the login flow, verifying state and nonce, and returns the authenticated identity.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, error)
}

// RoleMapper maps provider groups to console roles. ok is false when none of
// the groups grants console access.
type RoleMapper interface {
	Map(groups []string) (role domainauth.Role, ok bool)
}
