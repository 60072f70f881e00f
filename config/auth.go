package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the admin console.
type AuthMode string

const (
	// AuthModePassword verifies email/password against the configured admin and the users table.
	AuthModePassword AuthMode = "password"
	// AuthModeOIDC additionally enables single sign-on through an OIDC provider.
	AuthModeOIDC AuthMode = "oidc"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "password", "oidc":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: password, oidc)", v)
	}
}

// InsecureFlashSecret is the development default for FLASH_SECRET.
const InsecureFlashSecret = "dev-insecure-flash-secret-change-me"

// OIDCConfig contains OAuth/OIDC configuration used when Mode=oidc.
type OIDCConfig struct {
	ClientID     string `env:"CLIENT_ID"     envDefault:"portal"`
	ClientSecret string `env:"CLIENT_SECRET" envDefault:""`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email groups"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
	AdminGroup   string `env:"ADMIN_GROUP"   envDefault:"portal-admins"`
	// RoleGroups maps further IdP groups to console roles, e.g. "guru-smansa:guru,tu:staff".
	RoleGroups map[string]string `env:"ROLE_GROUPS"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	Mode AuthMode `env:"AUTH_MODE" envDefault:"password"`

	// AdminEmail and AdminPassword form the built-in administrator credential pair.
	AdminEmail    string `env:"ADMIN_EMAIL"    envDefault:"admin@sman1jakarta.sch.id"`
	AdminPassword string `env:"ADMIN_PASSWORD" envDefault:"admin123"`

	// SessionTTL bounds the lifetime of an admin session. Zero keeps sessions
	// until an explicit logout.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"0s"`

	// FlashSecret signs and encrypts the one-shot notice cookie.
	FlashSecret string `env:"FLASH_SECRET" envDefault:"dev-insecure-flash-secret-change-me"`

	OIDC OIDCConfig `envPrefix:"OIDC_"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.SessionTTL < 0 {
		a.SessionTTL = 0
	}
	a.AdminEmail = strings.TrimSpace(a.AdminEmail)
}
