package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sman1jakarta/portal/config"
	"github.com/sman1jakarta/portal/internal/adapters/authroles"
	"github.com/sman1jakarta/portal/internal/adapters/credentials"
	"github.com/sman1jakarta/portal/internal/adapters/devauth"
	"github.com/sman1jakarta/portal/internal/adapters/oidc"
	"github.com/sman1jakarta/portal/internal/core"
	"github.com/sman1jakarta/portal/internal/ports"
	"github.com/sman1jakarta/portal/internal/service"
)

// AuthDeps contains what the auth service is built from.
type AuthDeps struct {
	Auth     config.AuthConfig
	IsDev    bool
	Sessions ports.SessionStore  // Required
	Users    core.UserRepository // Required
	Logger   *slog.Logger
}

// BuildAuthService wires password login against the configured administrator
// and the users table. AUTH_MODE=oidc adds single sign-on; in development an
// unset discovery URL falls back to the local dev provider.
func BuildAuthService(ctx context.Context, deps AuthDeps) (*service.AuthService, error) {
	if deps.Sessions == nil || deps.Users == nil {
		return nil, errors.New("auth: Sessions and Users are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	verifier := credentials.Chain{
		credentials.FixedVerifier{Email: deps.Auth.AdminEmail, Password: deps.Auth.AdminPassword},
		credentials.UserVerifier{Users: deps.Users},
	}
	svcCfg := service.AuthServiceConfig{SessionTTL: deps.Auth.SessionTTL, Logger: logger}

	if deps.Auth.Mode == config.AuthModeOIDC {
		prov, err := buildSSOProvider(ctx, deps)
		if err != nil {
			return nil, err
		}
		svcCfg.Provider = prov
		svcCfg.Roles = authroles.NewStaticRoleMapper(deps.Auth.OIDC.AdminGroup, deps.Auth.OIDC.RoleGroups)
		logger.InfoContext(ctx, "single sign-on enabled", "dev_provider", deps.Auth.OIDC.DiscoveryURL == "")
	}

	return service.NewAuthService(service.AuthServiceOptions{
		Sessions: deps.Sessions,
		Verifier: verifier,
		Config:   svcCfg,
	}), nil
}

//nolint:ireturn // the provider is chosen at runtime.
func buildSSOProvider(ctx context.Context, deps AuthDeps) (ports.AuthProvider, error) {
	o := deps.Auth.OIDC
	if o.DiscoveryURL == "" {
		if !deps.IsDev {
			return nil, errors.New("auth: AUTH_MODE=oidc requires OIDC_DISCOVERY_URL")
		}
		prov, err := devauth.NewProvider(devauth.Config{
			Name:   "Admin Pengembang",
			Email:  deps.Auth.AdminEmail,
			Groups: []string{o.AdminGroup},
		})
		if err != nil {
			return nil, fmt.Errorf("dev auth provider: %w", err)
		}
		return prov, nil
	}

	prov, err := oidc.NewProvider(ctx, oidc.ProviderConfig{
		ClientID:     o.ClientID,
		ClientSecret: o.ClientSecret,
		RedirectURL:  o.RedirectURL,
		Scope:        o.Scope,
		DiscoveryURL: o.DiscoveryURL,
	})
	if err != nil {
		return nil, fmt.Errorf("oidc provider: %w", err)
	}
	return prov, nil
}
