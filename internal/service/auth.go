package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/sman1jakarta/portal/internal/domain/auth"
	"github.com/sman1jakarta/portal/internal/domain/model"
	apperrors "github.com/sman1jakarta/portal/internal/errors"
	"github.com/sman1jakarta/portal/internal/ports"
)

var (
	// ErrLoginFailed is the single message shown for any credential mismatch.
	ErrLoginFailed = apperrors.Validation("Email atau password salah")
	// ErrSSODisabled is returned by the SSO methods when no provider is configured.
	ErrSSODisabled = errors.New("single sign-on is not configured")
	// ErrNoConsoleAccess is returned when an SSO identity has no group that maps to a role.
	ErrNoConsoleAccess = apperrors.Validation("Akun Anda tidak memiliki akses ke panel admin")
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Sessions ports.SessionStore       // Required
	Verifier ports.CredentialVerifier // Required
	Config   AuthServiceConfig
}

// AuthServiceConfig holds the optional parts of AuthService.
type AuthServiceConfig struct {
	// Provider and Roles enable single sign-on when both are set.
	Provider ports.AuthProvider
	Roles    ports.RoleMapper
	// SessionTTL bounds password sessions; zero means until logout.
	SessionTTL time.Duration
	Logger     *slog.Logger
	Now        func() time.Time
}

// AuthService guards the admin console: it logs admins in, validates their
// persisted auth records on every request and removes them on logout.
type AuthService struct {
	sessions ports.SessionStore
	verifier ports.CredentialVerifier
	provider ports.AuthProvider
	roles    ports.RoleMapper
	ttl      time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	if opts.Sessions == nil {
		panic("NewAuthService: Sessions is required")
	}
	if opts.Verifier == nil {
		panic("NewAuthService: Verifier is required")
	}
	cfg := opts.Config
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	s := &AuthService{
		sessions: opts.Sessions,
		verifier: opts.Verifier,
		ttl:      max(cfg.SessionTTL, 0),
		logger:   logger.With("component", "auth"),
		now:      now,
	}
	if cfg.Provider != nil && cfg.Roles != nil {
		s.provider = cfg.Provider
		s.roles = cfg.Roles
	}
	return s
}

// SSOEnabled reports whether single sign-on is available.
func (s *AuthService) SSOEnabled() bool {
	return s.provider != nil
}

// LoginRequest is the admin login form.
type LoginRequest struct {
	Email    string
	Password string
}

// Validate checks the form fields before any credential lookup.
func (r *LoginRequest) Validate() error {
	r.Email = strings.TrimSpace(r.Email)
	fe := apperrors.FieldErrors{}
	switch {
	case r.Email == "":
		fe.Add("email", "Email harus diisi")
	case !model.IsValidEmail(r.Email):
		fe.Add("email", "Format email tidak valid")
	}
	switch {
	case r.Password == "":
		fe.Add("password", "Password harus diisi")
	case len([]rune(r.Password)) < model.MinPasswordLen:
		fe.Add("password", "Password minimal 6 karakter")
	}
	return fe.Err()
}

// Login verifies the credentials and stores a new auth record. A mismatch
// returns ErrLoginFailed and stores nothing.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*domainauth.Session, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	p, err := s.verifier.Verify(ctx, req.Email, req.Password)
	if errors.Is(err, ports.ErrInvalidCredentials) {
		s.logger.InfoContext(ctx, "admin login rejected")
		return nil, ErrLoginFailed
	}
	if err != nil {
		return nil, fmt.Errorf("verify credentials: %w", err)
	}

	var expires time.Time
	if s.ttl > 0 {
		expires = s.now().Add(s.ttl)
	}
	sess, err := s.startSession(ctx, p, expires)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "admin logged in", "email", p.Email, "role", string(p.Role))
	return sess, nil
}

func (s *AuthService) startSession(
	ctx context.Context,
	p domainauth.Principal,
	expires time.Time,
) (*domainauth.Session, error) {
	sess := domainauth.Session{
		ID:              uuid.NewString(),
		IsAuthenticated: true,
		Username:        p.Name,
		Email:           p.Email,
		Role:            p.Role,
		LoginTime:       s.now().UTC(),
	}
	if !expires.IsZero() {
		sess.ExpiresAt = expires.UTC()
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return &sess, nil
}

// Guard returns the auth record for sessionID. Absent, corrupt, unauthenticated
// and expired records all yield domainauth.ErrNoSession; every one of them
// except the absent one is deleted from the store first.
func (s *AuthService) Guard(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, domainauth.ErrNoSession
	}
	sess, err := s.sessions.Get(ctx, sessionID)
	switch {
	case errors.Is(err, domainauth.ErrNoSession):
		return nil, domainauth.ErrNoSession
	case errors.Is(err, domainauth.ErrCorruptRecord):
		s.logger.WarnContext(ctx, "discarding corrupt auth record", "error", err)
		return nil, s.discard(ctx, sessionID)
	case err != nil:
		return nil, fmt.Errorf("get session: %w", err)
	}

	if !sess.IsAuthenticated {
		return nil, s.discard(ctx, sessionID)
	}
	if sess.Expired(s.now()) {
		s.logger.InfoContext(ctx, "auth record expired", "email", sess.Email)
		return nil, s.discard(ctx, sessionID)
	}
	return &sess, nil
}

func (s *AuthService) discard(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return errors.Join(domainauth.ErrNoSession, fmt.Errorf("delete session: %w", err))
	}
	return domainauth.ErrNoSession
}

// Logout removes the auth record. An empty id is a no-op.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// BeginLoginResult contains the result of beginning an SSO flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginSSO starts an SSO flow and returns the provider URL with state and nonce.
func (s *AuthService) BeginSSO(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	if s.provider == nil {
		return nil, ErrSSODisabled
	}
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}
	authURL, state, nonce, err := s.provider.Begin(ctx, ports.BeginInput{RedirectURL: redirectURL})
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}
	return &BeginLoginResult{AuthURL: authURL, State: state, Nonce: nonce}, nil
}

// CompleteLoginInput groups parameters for completing an SSO flow.
type CompleteLoginInput struct {
	Code  string
	State string
	Nonce string
}

// CompleteSSO exchanges the authorization code, maps the identity's groups to a
// role and stores an auth record that expires with the identity.
func (s *AuthService) CompleteSSO(ctx context.Context, in CompleteLoginInput) (*domainauth.Session, error) {
	if s.provider == nil {
		return nil, ErrSSODisabled
	}
	switch {
	case in.Code == "":
		return nil, errors.New("authorization code is required")
	case in.State == "":
		return nil, errors.New("state parameter is required")
	case in.Nonce == "":
		return nil, errors.New("nonce parameter is required")
	}

	identity, err := s.provider.Exchange(ctx, ports.ExchangeInput(in))
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	role, ok := s.roles.Map(identity.Groups)
	if !ok {
		s.logger.InfoContext(ctx, "sso identity has no console role", "email", identity.Email)
		return nil, ErrNoConsoleAccess
	}

	p := domainauth.Principal{UserID: identity.UserID, Name: identity.Name, Email: identity.Email, Role: role}
	sess, err := s.startSession(ctx, p, identity.ExpiresAt)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "admin logged in via sso", "email", p.Email, "role", string(role))
	return sess, nil
}
