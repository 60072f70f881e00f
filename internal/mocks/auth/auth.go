// Package auth contains hand-written test doubles for the SSO ports.
package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	domainauth "github.com/sman1jakarta/portal/internal/domain/auth"
	"github.com/sman1jakarta/portal/internal/ports"
)

var _ ports.AuthProvider = (*MockAuthProvider)(nil)

// MockAuthProvider simulates an IdP with deterministic state and nonce values.
type MockAuthProvider struct {
	BeginFunc    func(ctx context.Context, in ports.BeginInput) (authURL, state, nonce string, err error)
	ExchangeFunc func(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error)

	AuthURL     string
	StatePrefix string
	NoncePrefix string
	DefaultUser domainauth.Identity

	mu        sync.Mutex
	callCount int
	// Exchanges records every exchange input in call order.
	Exchanges []ports.ExchangeInput
}

func defaultIdentity() domainauth.Identity {
	return domainauth.Identity{
		UserID: "guru@sman1jakarta.sch.id",
		Name:   "Budi Santoso",
		Email:  "guru@sman1jakarta.sch.id",
		Groups: []string{"portal-guru"},
	}
}

// NewMockAuthProvider creates a MockAuthProvider with sensible defaults.
func NewMockAuthProvider() *MockAuthProvider {
	return &MockAuthProvider{
		AuthURL:     "https://mock-idp/auth",
		StatePrefix: "state",
		NoncePrefix: "nonce",
		DefaultUser: defaultIdentity(),
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func (m *MockAuthProvider) Begin(ctx context.Context, in ports.BeginInput) (string, string, string, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx, in)
	}
	m.mu.Lock()
	m.callCount++
	n := m.callCount
	m.mu.Unlock()

	state := fmt.Sprintf("%s-%d", orDefault(m.StatePrefix, "state"), n)
	nonce := fmt.Sprintf("%s-%d", orDefault(m.NoncePrefix, "nonce"), n)
	return orDefault(m.AuthURL, "https://mock-idp/auth"), state, nonce, nil
}

// Exchange returns a copy of DefaultUser valid for one hour.
func (m *MockAuthProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	m.mu.Lock()
	m.Exchanges = append(m.Exchanges, in)
	m.mu.Unlock()
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, in)
	}
	user := m.DefaultUser
	if user.UserID == "" {
		user = defaultIdentity()
	}
	user.Groups = append([]string(nil), user.Groups...)
	user.ExpiresAt = time.Now().Add(time.Hour)
	return user, nil
}
