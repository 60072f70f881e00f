package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sman1jakarta/portal/config"
	"github.com/sman1jakarta/portal/internal/adapters/memory"
	"github.com/sman1jakarta/portal/internal/service"
)

func authDeps(auth config.AuthConfig, isDev bool) AuthDeps {
	return AuthDeps{
		Auth:     auth,
		IsDev:    isDev,
		Sessions: memory.NewSessionStore(),
		Users:    memory.NewUserRepository(),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestBuildAuthService_PasswordMode(t *testing.T) {
	ctx := context.Background()
	svc, err := BuildAuthService(ctx, authDeps(config.AuthConfig{
		Mode: config.AuthModePassword, AdminEmail: "admin@sman1jakarta.sch.id", AdminPassword: "admin123",
	}, false))
	require.NoError(t, err)
	assert.False(t, svc.SSOEnabled())

	sess, err := svc.Login(ctx, service.LoginRequest{Email: "admin@sman1jakarta.sch.id", Password: "admin123"})
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
}

func TestBuildAuthService_DevSSO(t *testing.T) {
	svc, err := BuildAuthService(context.Background(), authDeps(config.AuthConfig{
		Mode: config.AuthModeOIDC, AdminEmail: "admin@sman1jakarta.sch.id", AdminPassword: "admin123",
		OIDC: config.OIDCConfig{AdminGroup: "portal-admins"},
	}, true))
	require.NoError(t, err)
	assert.True(t, svc.SSOEnabled())
}

func TestBuildAuthService_SSORequiresDiscoveryOutsideDev(t *testing.T) {
	_, err := BuildAuthService(context.Background(), authDeps(config.AuthConfig{
		Mode: config.AuthModeOIDC, AdminEmail: "admin@sman1jakarta.sch.id", AdminPassword: "admin123",
	}, false))
	require.Error(t, err)
}

func TestBuildAuthService_RequiresStores(t *testing.T) {
	_, err := BuildAuthService(context.Background(), AuthDeps{})
	require.Error(t, err)
}
