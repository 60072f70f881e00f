package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sman1jakarta/portal/internal/adapters/authroles"
	"github.com/sman1jakarta/portal/internal/adapters/credentials"
	"github.com/sman1jakarta/portal/internal/adapters/memory"
	domainauth "github.com/sman1jakarta/portal/internal/domain/auth"
	apperrors "github.com/sman1jakarta/portal/internal/errors"
	"github.com/sman1jakarta/portal/internal/mocks"
	mockauth "github.com/sman1jakarta/portal/internal/mocks/auth"
	"github.com/sman1jakarta/portal/internal/ports"
)

const (
	adminEmail    = "admin@sman1jakarta.sch.id"
	adminPassword = "admin123"
)

// fixedNow stays near the wall clock so stores that reject expired records accept it.
var fixedNow = time.Now().UTC().Truncate(time.Second)

func newTestAuthService(t *testing.T, cfg AuthServiceConfig) (*AuthService, *memory.SessionStore) {
	t.Helper()
	store := memory.NewSessionStore()
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return fixedNow }
	}
	svc := NewAuthService(AuthServiceOptions{
		Sessions: store,
		Verifier: credentials.FixedVerifier{Email: adminEmail, Password: adminPassword},
		Config:   cfg,
	})
	return svc, store
}

func TestNewAuthService_RequiresDependencies(t *testing.T) {
	assert.Panics(t, func() { NewAuthService(AuthServiceOptions{}) })
	assert.Panics(t, func() {
		NewAuthService(AuthServiceOptions{Sessions: memory.NewSessionStore()})
	})
}

func TestLoginRequest_Validate(t *testing.T) {
	tests := []struct {
		name   string
		req    LoginRequest
		fields map[string]string
	}{
		{"empty", LoginRequest{}, map[string]string{
			"email": "Email harus diisi", "password": "Password harus diisi",
		}},
		{"bad email and short password", LoginRequest{Email: "admin", Password: "123"}, map[string]string{
			"email": "Format email tidak valid", "password": "Password minimal 6 karakter",
		}},
		{"valid", LoginRequest{Email: " " + adminEmail + " ", Password: "123456"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.fields == nil {
				require.NoError(t, err)
				return
			}
			fe, ok := apperrors.AsFieldErrors(err)
			require.True(t, ok)
			assert.Equal(t, apperrors.FieldErrors(tt.fields), fe)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials store an authenticated record", func(t *testing.T) {
		svc, store := newTestAuthService(t, AuthServiceConfig{})
		sess, err := svc.Login(ctx, LoginRequest{Email: adminEmail, Password: adminPassword})
		require.NoError(t, err)

		assert.NotEmpty(t, sess.ID)
		assert.True(t, sess.IsAuthenticated)
		assert.Equal(t, credentials.BuiltinAdminName, sess.Username)
		assert.Equal(t, domainauth.RoleAdmin, sess.Role)
		assert.Equal(t, fixedNow, sess.LoginTime)
		assert.True(t, sess.ExpiresAt.IsZero(), "no expiry by default")

		stored, err := store.Get(ctx, sess.ID)
		require.NoError(t, err)
		assert.Equal(t, *sess, stored)
	})

	t.Run("invalid credentials store nothing", func(t *testing.T) {
		svc, store := newTestAuthService(t, AuthServiceConfig{})
		for _, req := range []LoginRequest{
			{Email: adminEmail, Password: "wrongpass"},
			{Email: "guru@sman1jakarta.sch.id", Password: adminPassword},
		} {
			_, err := svc.Login(ctx, req)
			require.ErrorIs(t, err, ErrLoginFailed)
			assert.Equal(t, "Email atau password salah", ErrLoginFailed.Message)
		}
		assert.Equal(t, 0, store.Len())
	})

	t.Run("form errors skip verification", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		verifier := mocks.NewMockCredentialVerifier(ctrl)
		svc := NewAuthService(AuthServiceOptions{Sessions: memory.NewSessionStore(), Verifier: verifier})

		_, err := svc.Login(ctx, LoginRequest{Email: "bukan-email"})
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("verifier failure is not reported as a mismatch", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		verifier := mocks.NewMockCredentialVerifier(ctrl)
		verifier.EXPECT().Verify(gomock.Any(), adminEmail, adminPassword).
			Return(domainauth.Principal{}, errors.New("db down"))
		svc := NewAuthService(AuthServiceOptions{Sessions: memory.NewSessionStore(), Verifier: verifier})

		_, err := svc.Login(ctx, LoginRequest{Email: adminEmail, Password: adminPassword})
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrLoginFailed)
	})

	t.Run("session ttl sets expiry", func(t *testing.T) {
		svc, _ := newTestAuthService(t, AuthServiceConfig{SessionTTL: time.Hour})
		sess, err := svc.Login(ctx, LoginRequest{Email: adminEmail, Password: adminPassword})
		require.NoError(t, err)
		assert.Equal(t, fixedNow.Add(time.Hour), sess.ExpiresAt)
	})
}

func TestAuthService_Guard(t *testing.T) {
	ctx := context.Background()

	t.Run("valid record passes", func(t *testing.T) {
		svc, _ := newTestAuthService(t, AuthServiceConfig{})
		sess, err := svc.Login(ctx, LoginRequest{Email: adminEmail, Password: adminPassword})
		require.NoError(t, err)

		got, err := svc.Guard(ctx, sess.ID)
		require.NoError(t, err)
		assert.Equal(t, sess.ID, got.ID)
	})

	t.Run("absent record", func(t *testing.T) {
		svc, _ := newTestAuthService(t, AuthServiceConfig{})
		for _, id := range []string{"", "missing"} {
			_, err := svc.Guard(ctx, id)
			assert.ErrorIs(t, err, domainauth.ErrNoSession)
		}
	})

	t.Run("malformed records are discarded", func(t *testing.T) {
		svc, store := newTestAuthService(t, AuthServiceConfig{})
		for _, raw := range []string{
			"not json",
			"{",
			"[]",
			"true",
			`{"id":"s1"}`,
			`{"id":"s1","isAuthenticated":false,"username":"Administrator"}`,
			`{"id":"other","isAuthenticated":true}`,
		} {
			store.PutRaw("s1", []byte(raw))
			_, err := svc.Guard(ctx, "s1")
			assert.ErrorIs(t, err, domainauth.ErrNoSession, raw)
			assert.False(t, store.Has("s1"), "record %q should be deleted", raw)
		}
	})

	t.Run("expired record is discarded", func(t *testing.T) {
		now := fixedNow
		svc, store := newTestAuthService(t, AuthServiceConfig{
			SessionTTL: time.Minute,
			Now:        func() time.Time { return now },
		})
		sess, err := svc.Login(ctx, LoginRequest{Email: adminEmail, Password: adminPassword})
		require.NoError(t, err)

		now = now.Add(time.Minute)
		_, err = svc.Guard(ctx, sess.ID)
		assert.ErrorIs(t, err, domainauth.ErrNoSession)
		assert.False(t, store.Has(sess.ID))
	})

	t.Run("delete failure still denies access", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockSessionStore(ctrl)
		store.EXPECT().Get(gomock.Any(), "s1").Return(domainauth.Session{}, domainauth.ErrCorruptRecord)
		store.EXPECT().Delete(gomock.Any(), "s1").Return(errors.New("redis down"))
		svc := NewAuthService(AuthServiceOptions{Sessions: store, Verifier: credentials.FixedVerifier{}})

		_, err := svc.Guard(ctx, "s1")
		assert.ErrorIs(t, err, domainauth.ErrNoSession)
	})

	t.Run("store failure is surfaced", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockSessionStore(ctrl)
		store.EXPECT().Get(gomock.Any(), "s1").Return(domainauth.Session{}, errors.New("redis down"))
		svc := NewAuthService(AuthServiceOptions{Sessions: store, Verifier: credentials.FixedVerifier{}})

		_, err := svc.Guard(ctx, "s1")
		require.Error(t, err)
		assert.NotErrorIs(t, err, domainauth.ErrNoSession)
	})
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestAuthService(t, AuthServiceConfig{})
	sess, err := svc.Login(ctx, LoginRequest{Email: adminEmail, Password: adminPassword})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, sess.ID))
	assert.False(t, store.Has(sess.ID))
	require.NoError(t, svc.Logout(ctx, ""))

	_, err = svc.Guard(ctx, sess.ID)
	assert.ErrorIs(t, err, domainauth.ErrNoSession)
}

func TestAuthService_SSO(t *testing.T) {
	ctx := context.Background()
	provider := mockauth.NewMockAuthProvider()
	roles := authroles.NewStaticRoleMapper("portal-admins", map[string]string{"portal-guru": "guru"})

	svc, store := newTestAuthService(t, AuthServiceConfig{Provider: provider, Roles: roles})
	require.True(t, svc.SSOEnabled())

	begin, err := svc.BeginSSO(ctx, "http://localhost:8080/auth/callback")
	require.NoError(t, err)
	assert.Equal(t, "state-1", begin.State)

	sess, err := svc.CompleteSSO(ctx, CompleteLoginInput{Code: "code", State: begin.State, Nonce: begin.Nonce})
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleGuru, sess.Role)
	assert.Equal(t, "Budi Santoso", sess.Username)
	assert.False(t, sess.ExpiresAt.IsZero())
	assert.True(t, store.Has(sess.ID))
	assert.Equal(t, []ports.ExchangeInput{{Code: "code", State: "state-1", Nonce: "nonce-1"}}, provider.Exchanges)

	t.Run("missing parameters", func(t *testing.T) {
		_, err := svc.CompleteSSO(ctx, CompleteLoginInput{State: "s", Nonce: "n"})
		assert.Error(t, err)
		_, err = svc.BeginSSO(ctx, "")
		assert.Error(t, err)
	})

	t.Run("unmapped groups are refused", func(t *testing.T) {
		provider.DefaultUser.Groups = []string{"siswa"}
		before := store.Len()
		_, err := svc.CompleteSSO(ctx, CompleteLoginInput{Code: "c", State: "s", Nonce: "n"})
		assert.ErrorIs(t, err, ErrNoConsoleAccess)
		assert.Equal(t, before, store.Len())
	})

	t.Run("disabled without provider", func(t *testing.T) {
		plain, _ := newTestAuthService(t, AuthServiceConfig{})
		assert.False(t, plain.SSOEnabled())
		_, err := plain.BeginSSO(ctx, "http://x")
		assert.ErrorIs(t, err, ErrSSODisabled)
	})
}
