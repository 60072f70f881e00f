// Package devauth signs a fixed identity in through the SSO flow so the
// console's SSO path works locally without an identity provider.
package devauth

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/sman1jakarta/portal/internal/domain/auth"
	"github.com/sman1jakarta/portal/internal/ports"
)

// Code is the authorization code the local callback carries.
const Code = "dev"

const defaultSessionDuration = 8 * time.Hour

// Config describes the identity handed out. Name falls back to Email.
type Config struct {
	Name            string
	Email           string
	Groups          []string
	SessionDuration time.Duration
}

// Provider implements ports.AuthProvider by redirecting straight to the
// portal's own callback.
type Provider struct {
	identity domainauth.Identity
	ttl      time.Duration
	now      func() time.Time
}

func NewProvider(cfg Config) (*Provider, error) {
	if cfg.Email == "" {
		return nil, errors.New("dev auth: email is required")
	}
	id := domainauth.Identity{
		UserID: cfg.Email,
		Name:   cfg.Name,
		Email:  cfg.Email,
		Groups: append([]string(nil), cfg.Groups...),
	}
	if id.Name == "" {
		id.Name = cfg.Email
	}
	ttl := cfg.SessionDuration
	if ttl <= 0 {
		ttl = defaultSessionDuration
	}
	return &Provider{identity: id, ttl: ttl, now: time.Now}, nil
}

func (p *Provider) Begin(_ context.Context, _ ports.BeginInput) (string, string, string, error) {
	state, nonce := uuid.NewString(), uuid.NewString()
	q := url.Values{"code": {Code}, "state": {state}}
	return "/auth/callback?" + q.Encode(), state, nonce, nil
}

// Exchange accepts only Code. The handler has already matched state and nonce.
func (p *Provider) Exchange(_ context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	if in.Code != Code {
		return domainauth.Identity{}, errors.New("dev auth: unexpected authorization code")
	}
	id := p.identity
	id.Groups = append([]string(nil), p.identity.Groups...)
	id.ExpiresAt = p.now().Add(p.ttl)
	return id, nil
}
